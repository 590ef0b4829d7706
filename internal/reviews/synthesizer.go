package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bull/support-router/internal/llm"
)

const (
	// PrimaryLimit is how many reviews are retrieved for the raw question.
	PrimaryLimit = 10
	// EnhancedLimit is how many extra reviews are retrieved for the rephrased question.
	EnhancedLimit = 5
	// MaxEvidence caps the merged evidence handed to the model.
	MaxEvidence = 10
)

// Fixed replies used when there is nothing to synthesize from.
const (
	NoDataMessage      = "I'm sorry, but I don't have any customer review data available to answer that question right now."
	NoRelevantMessage  = "I couldn't find any customer reviews relevant to your question."
	synthesisFailedFmt = "I found %d customer reviews related to your question, but I couldn't summarize them right now. Please try again in a moment."
)

// Searcher is the read side of the review index.
type Searcher interface {
	Available() bool
	Search(ctx context.Context, query string, k int) []Document
}

// QueryEnhancer rephrases questions. Implementations must not fail.
type QueryEnhancer interface {
	Enhance(ctx context.Context, question string) string
}

// Synthesizer answers a question from retrieved reviews only.
type Synthesizer struct {
	enhancer QueryEnhancer
	gen      llm.Generator
	logger   *slog.Logger
}

// NewSynthesizer creates a Synthesizer. enhancer may be nil to disable query widening.
func NewSynthesizer(gen llm.Generator, enhancer QueryEnhancer, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		enhancer: enhancer,
		gen:      gen,
		logger:   logger,
	}
}

// Analyze retrieves evidence for question from index and asks the model for an
// answer grounded in it. It always returns answer text.
func (s *Synthesizer) Analyze(ctx context.Context, question string, index Searcher) string {
	if index == nil || !index.Available() {
		return NoDataMessage
	}

	docs := s.Retrieve(ctx, question, index)
	if len(docs) == 0 {
		return NoRelevantMessage
	}

	prompt := buildSynthesisPrompt(question, docs)
	answer, err := s.gen.Generate(ctx, []llm.Message{
		llm.System(prompt),
		llm.User(question),
	})
	if err != nil {
		s.logger.Warn("Review synthesis failed", "error", err, "evidence", len(docs))
		return fmt.Sprintf(synthesisFailedFmt, len(docs))
	}
	return answer
}

// Retrieve runs the primary search and, when it found anything, widens recall with
// the enhanced question. Originals come first, so they win the cut at MaxEvidence.
func (s *Synthesizer) Retrieve(ctx context.Context, question string, index Searcher) []Document {
	docs := index.Search(ctx, question, PrimaryLimit)
	if len(docs) == 0 {
		return nil
	}

	if s.enhancer != nil {
		enhanced := s.enhancer.Enhance(ctx, question)
		if enhanced != question {
			s.logger.Debug("Widening review search", "enhanced_query", enhanced)
			extra := index.Search(ctx, enhanced, EnhancedLimit)
			return MergeDocuments(docs, extra, MaxEvidence)
		}
	}

	return MergeDocuments(docs, nil, MaxEvidence)
}

// MergeDocuments concatenates primary and extra, drops documents whose content was
// already seen (exact string match), and keeps at most limit in first-seen order.
func MergeDocuments(primary, extra []Document, limit int) []Document {
	seen := make(map[string]struct{}, len(primary)+len(extra))
	merged := make([]Document, 0, min(limit, len(primary)+len(extra)))

	for _, list := range [][]Document{primary, extra} {
		for _, doc := range list {
			if len(merged) == limit {
				return merged
			}
			if _, dup := seen[doc.Content]; dup {
				continue
			}
			seen[doc.Content] = struct{}{}
			merged = append(merged, doc)
		}
	}
	return merged
}

// FormatEvidence renders documents as numbered review blocks.
func FormatEvidence(docs []Document) string {
	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Review %d:\n", i+1)
		fmt.Fprintf(&sb, "Product: %s\n", orUnknown(doc.Product))
		fmt.Fprintf(&sb, "Rating: %s\n", orUnknown(doc.Rating))
		fmt.Fprintf(&sb, "Date: %s\n", orUnknown(doc.Date))
		fmt.Fprintf(&sb, "Content: %s", doc.Content)
	}
	return sb.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func buildSynthesisPrompt(question string, docs []Document) string {
	return fmt.Sprintf(`You are a customer service representative answering a question using customer reviews.

Customer Reviews:
%s

Customer Question: %s

Instructions:
- Answer using ONLY the reviews above; do not add outside knowledge
- Describe overall sentiment and recurring themes (what customers like and dislike)
- Mention rating statistics when they are relevant (for example, how many reviews and typical ratings)
- Compare products when the question involves more than one product
- Point out data limitations, such as a product that appears in only a few reviews
- When reviews disagree, present both sides fairly
- Keep the response concise and friendly`, FormatEvidence(docs), question)
}
