// Package llmtest provides a scripted llm.Generator for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/bull/support-router/internal/llm"
)

// Call records one Generate invocation.
type Call struct {
	Messages []llm.Message
	JSON     bool
}

// Generator answers every call with Respond. A nil Respond returns Reply and Err.
type Generator struct {
	Reply   string
	Err     error
	Respond func(messages []llm.Message) (string, error)

	mu    sync.Mutex
	calls []Call
}

// Generate implements llm.Generator.
func (g *Generator) Generate(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, Call{Messages: messages, JSON: llm.WantsJSON(opts...)})
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.Respond != nil {
		return g.Respond(messages)
	}
	return g.Reply, g.Err
}

// Calls returns a copy of the recorded calls.
func (g *Generator) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// CallCount returns how many times Generate was called.
func (g *Generator) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
