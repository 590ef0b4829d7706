package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bull/support-router/internal/llm"
)

// listMarker strips bullets and numbering the model tends to add anyway.
var listMarker = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)]|\(\d+\))\s*`)

// Enhancer rephrases a question to widen review retrieval.
type Enhancer struct {
	gen    llm.Generator
	logger *slog.Logger
}

// NewEnhancer creates an Enhancer backed by gen.
func NewEnhancer(gen llm.Generator, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{gen: gen, logger: logger}
}

// Enhance returns one alternative phrasing of question, or question itself when
// generation fails or produces nothing usable. It never fails.
func (e *Enhancer) Enhance(ctx context.Context, question string) string {
	if e == nil || e.gen == nil {
		return question
	}

	prompt := fmt.Sprintf(`Rewrite the customer question below to help search a collection of product reviews.
Give 1-2 alternative phrasings that use synonyms and related terms.
Put each phrasing on its own line, with no numbering or commentary.

Question: %s`, question)

	resp, err := e.gen.Generate(ctx, []llm.Message{llm.User(prompt)})
	if err != nil {
		e.logger.Warn("Query enhancement failed, using original question", "error", err)
		return question
	}

	if phrasing := firstPhrasing(resp); phrasing != "" {
		return phrasing
	}
	return question
}

// firstPhrasing returns the first non-empty line with list markers and quotes removed.
func firstPhrasing(resp string) string {
	for _, line := range strings.Split(resp, "\n") {
		line = listMarker.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), `"'“”`)
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
