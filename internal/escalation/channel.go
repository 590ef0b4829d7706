// Package escalation hands unanswerable questions to human support.
package escalation

import (
	"context"
	"log/slog"
	"sync"
)

// Channel forwards a customer inquiry to a human. Send reports success only;
// transport details stay inside the implementation.
type Channel interface {
	Send(ctx context.Context, inquiry string) bool
}

// LogChannel records inquiries in the log instead of delivering them.
// Send always fails, so callers tell the customer to reach out directly.
type LogChannel struct {
	Logger *slog.Logger
}

// Send implements Channel.
func (c LogChannel) Send(ctx context.Context, inquiry string) bool {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("Escalation channel not configured, inquiry not forwarded", "inquiry", inquiry)
	return false
}

// Recorder is an in-memory Channel that remembers every inquiry.
type Recorder struct {
	// Fail makes Send report failure after recording.
	Fail bool

	mu        sync.Mutex
	inquiries []string
}

// Send implements Channel.
func (r *Recorder) Send(ctx context.Context, inquiry string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inquiries = append(r.inquiries, inquiry)
	return !r.Fail
}

// Inquiries returns a copy of the recorded inquiries.
func (r *Recorder) Inquiries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.inquiries...)
}
