package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/support-router/internal/agent"
	"github.com/bull/support-router/internal/classifier"
)

type echoAsker struct {
	questions []string
}

func (e *echoAsker) Ask(ctx context.Context, question string) agent.Response {
	e.questions = append(e.questions, question)
	return agent.Response{Text: "answer to " + question, QuestionType: classifier.TypeFAQ}
}

func TestChatLoop(t *testing.T) {
	a := &echoAsker{}
	in := strings.NewReader("What are your shipping times?\n\n   \nBYE\nnever asked\n")
	var out bytes.Buffer

	require.NoError(t, chatLoop(context.Background(), a, in, &out))

	assert.Equal(t, []string{"What are your shipping times?"}, a.questions)
	assert.Contains(t, out.String(), "answer to What are your shipping times?")
	assert.Contains(t, out.String(), goodbye)
}

func TestChatLoop_EOF(t *testing.T) {
	a := &echoAsker{}
	var out bytes.Buffer

	require.NoError(t, chatLoop(context.Background(), a, strings.NewReader("hello"), &out))
	assert.Equal(t, []string{"hello"}, a.questions)
	assert.True(t, strings.HasSuffix(out.String(), goodbye+"\n"))
}

func TestPrintResponse(t *testing.T) {
	resp := agent.Response{Text: "hi", QuestionType: classifier.TypeNeither, Escalated: true}

	var plain bytes.Buffer
	require.NoError(t, printResponse(&plain, resp, false))
	assert.Equal(t, "hi\n", plain.String())

	var js bytes.Buffer
	require.NoError(t, printResponse(&js, resp, true))
	assert.Contains(t, js.String(), `"question_type": "neither"`)
	assert.Contains(t, js.String(), `"escalated": true`)
}
