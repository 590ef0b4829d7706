package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bull/support-router/internal/corpus"
	"github.com/bull/support-router/internal/llm"
)

// DefaultExcerptChars bounds how much FAQ text the primary prompt carries.
const DefaultExcerptChars = 500

// maxOutlineSections caps the FAQ outline included in the primary prompt.
const maxOutlineSections = 60

// Classifier routes questions with a JSON model call and a deterministic fallback.
type Classifier struct {
	gen          llm.Generator
	excerptChars int
	logger       *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithExcerptChars sets the FAQ excerpt length used by the primary prompt.
func WithExcerptChars(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.excerptChars = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Classifier backed by gen.
func New(gen llm.Generator, opts ...Option) *Classifier {
	c := &Classifier{
		gen:          gen,
		excerptChars: DefaultExcerptChars,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns a verdict for question. It never fails: when the model output
// is unusable the keyword fallback decides, and the result is marked Degraded.
func (c *Classifier) Classify(ctx context.Context, question string, faq corpus.FAQ, indexAvailable bool) Result {
	result, err := c.classifyWithModel(ctx, question, faq, indexAvailable)
	if err == nil {
		c.logger.Debug("Question classified",
			"question_type", result.QuestionType, "confidence", result.Confidence)
		return result
	}

	c.logger.Warn("Classification failed, using keyword fallback", "error", err)
	return c.Fallback(ctx, question, faq, indexAvailable)
}

func (c *Classifier) classifyWithModel(ctx context.Context, question string, faq corpus.FAQ, indexAvailable bool) (Result, error) {
	prompt := buildPrompt(question, faq, c.excerptChars, indexAvailable)

	resp, err := c.gen.Generate(ctx, []llm.Message{llm.System(prompt)}, llm.JSONResponse())
	if err != nil {
		return Result{}, fmt.Errorf("generate: %w", err)
	}
	return ParseResult(resp)
}

// ParseResult decodes a model reply into a Result. Code fences are tolerated;
// an unknown question type is an error and confidence is clamped to [0,1].
func ParseResult(resp string) (Result, error) {
	var r Result
	if err := json.Unmarshal([]byte(stripFences(resp)), &r); err != nil {
		return Result{}, fmt.Errorf("parse classification: %w", err)
	}

	r.QuestionType = QuestionType(strings.ToLower(strings.TrimSpace(string(r.QuestionType))))
	if !r.QuestionType.Valid() {
		return Result{}, fmt.Errorf("parse classification: unknown question_type %q", r.QuestionType)
	}
	r.Confidence = min(max(r.Confidence, 0), 1)
	return r, nil
}

// Fallback classifies from review keywords plus a yes/no model check over the
// full FAQ. A failed check counts as "no", so Fallback always returns.
func (c *Classifier) Fallback(ctx context.Context, question string, faq corpus.FAQ, indexAvailable bool) Result {
	r := Result{
		FAQCanAnswer:      c.faqCanAnswer(ctx, question, faq),
		IsReviewsQuestion: MatchesReviewKeywords(question),
		Confidence:        DegradedConfidence,
		Degraded:          true,
	}

	switch {
	case r.FAQCanAnswer:
		r.QuestionType = TypeFAQ
	case r.IsReviewsQuestion && indexAvailable:
		r.QuestionType = TypeReviews
	default:
		r.QuestionType = TypeNeither
	}
	return r
}

func (c *Classifier) faqCanAnswer(ctx context.Context, question string, faq corpus.FAQ) bool {
	prompt := fmt.Sprintf(`You are a helpful assistant that determines if a customer question can be answered using the provided FAQ data.

FAQ Data:
%s

Customer Question: %s

Respond with exactly one word:
- "yes" if the FAQ data contains enough information to answer the question
- "no" if the FAQ data does not contain enough information to answer the question

Only respond with "yes" or "no".`, faq.Text, question)

	resp, err := c.gen.Generate(ctx, []llm.Message{llm.System(prompt)})
	if err != nil {
		c.logger.Warn("FAQ check failed, assuming FAQ cannot answer", "error", err)
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(resp)), "yes")
}

func buildPrompt(question string, faq corpus.FAQ, excerptChars int, indexAvailable bool) string {
	var sb strings.Builder
	sb.WriteString(`You are a routing assistant for customer support. Decide whether the customer question can be answered from the FAQ, from customer product reviews, from both, or from neither.

`)
	sb.WriteString("FAQ excerpt:\n")
	sb.WriteString(faq.Excerpt(excerptChars))
	sb.WriteString("\n\n")

	if len(faq.Sections) > 0 {
		sb.WriteString("FAQ sections:\n")
		for i, s := range faq.Sections {
			if i == maxOutlineSections {
				fmt.Fprintf(&sb, "- ... and %d more\n", len(faq.Sections)-i)
				break
			}
			sb.WriteString("- " + s + "\n")
		}
		sb.WriteString("\n")
	}

	if indexAvailable {
		sb.WriteString("Customer reviews are available for questions about product opinions, ratings, and experiences.\n\n")
	} else {
		sb.WriteString("No customer reviews are available.\n\n")
	}

	fmt.Fprintf(&sb, "Customer Question: %s\n\n", question)
	sb.WriteString(`Respond with a JSON object with exactly these fields:
{"faq_can_answer": true|false, "is_reviews_question": true|false, "question_type": "faq"|"reviews"|"both"|"neither", "confidence": 0.0-1.0}

Use "both" when the FAQ can answer and the question is also about customer opinions.`)
	return sb.String()
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
