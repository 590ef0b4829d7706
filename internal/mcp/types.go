// Package mcp exposes the support agent as Model Context Protocol tools.
package mcp

import (
	"github.com/bull/support-router/internal/agent"
	"github.com/bull/support-router/internal/classifier"
)

// AskSupportInput defines the input parameters for the ask_support tool.
type AskSupportInput struct {
	// Question is the customer's question, verbatim.
	Question string `json:"question" jsonschema:"The customer question to answer or escalate"`
}

// AskSupportOutput is the single terminal answer for one question.
type AskSupportOutput struct {
	Answer           string                  `json:"answer"`
	QuestionType     classifier.QuestionType `json:"question_type" jsonschema:"faq, reviews or neither"`
	Confidence       float64                 `json:"confidence"`
	Degraded         bool                    `json:"degraded" jsonschema:"True when the keyword fallback classified the question"`
	Escalated        bool                    `json:"escalated"`
	EscalationFailed bool                    `json:"escalation_failed"`
}

func newAskOutput(r agent.Response) AskSupportOutput {
	return AskSupportOutput{
		Answer:           r.Text,
		QuestionType:     r.QuestionType,
		Confidence:       r.Confidence,
		Degraded:         r.Degraded,
		Escalated:        r.Escalated,
		EscalationFailed: r.EscalationFailed,
	}
}

// StatusInput defines the input parameters for the index_status tool (none required).
type StatusInput struct{}
