package agent

import "github.com/bull/support-router/internal/classifier"

// Phase is a step of the per-question pipeline.
type Phase string

const (
	PhaseStart      Phase = "start"
	PhaseClassified Phase = "classified"
	PhaseAnswering  Phase = "answering"
	PhaseEscalating Phase = "escalating"
	PhaseDone       Phase = "done"
)

// ConversationState is owned by one Handle call and mutated only by the stage
// currently running. It is never shared between questions.
type ConversationState struct {
	Question string
	Phase    Phase

	// Set by classification.
	CanAnswer    bool
	QuestionType classifier.QuestionType // faq, reviews or neither once resolved
	Route        classifier.Route
	Confidence   float64
	Degraded     bool

	// Set by the answering or escalating stage.
	Answer           string
	Escalated        bool
	EscalationFailed bool
}

// Response is the single terminal result for one question.
type Response struct {
	Text             string                  `json:"text"`
	QuestionType     classifier.QuestionType `json:"question_type"`
	Confidence       float64                 `json:"confidence"`
	Degraded         bool                    `json:"degraded,omitempty"`
	Escalated        bool                    `json:"escalated,omitempty"`
	EscalationFailed bool                    `json:"escalation_failed,omitempty"`
}

func (s *ConversationState) response() Response {
	return Response{
		Text:             s.Answer,
		QuestionType:     s.QuestionType,
		Confidence:       s.Confidence,
		Degraded:         s.Degraded,
		Escalated:        s.Escalated,
		EscalationFailed: s.EscalationFailed,
	}
}
