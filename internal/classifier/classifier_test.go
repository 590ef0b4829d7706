package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/support-router/internal/corpus"
	"github.com/bull/support-router/internal/llm"
	"github.com/bull/support-router/internal/llm/llmtest"
)

const testFAQ = `# FAQ

## Shipping

Orders ship within 2 business days and arrive in 5-7 days.

## Returns

Returns are accepted within 30 days.
`

func isFAQCheck(messages []llm.Message) bool {
	return strings.Contains(messages[0].Content, `Only respond with "yes" or "no".`)
}

// scripted answers the routing prompt with route and the FAQ check with check.
func scripted(route string, routeErr error, check string, checkErr error) *llmtest.Generator {
	return &llmtest.Generator{Respond: func(messages []llm.Message) (string, error) {
		if isFAQCheck(messages) {
			return check, checkErr
		}
		return route, routeErr
	}}
}

func TestClassify_PrimaryPath(t *testing.T) {
	gen := scripted(`{"faq_can_answer": true, "is_reviews_question": false, "question_type": "faq", "confidence": 0.92}`, nil, "", nil)
	c := New(gen)

	r := c.Classify(context.Background(), "What are your shipping times?", corpus.NewFAQ(testFAQ), true)

	assert.Equal(t, TypeFAQ, r.QuestionType)
	assert.True(t, r.FAQCanAnswer)
	assert.InDelta(t, 0.92, r.Confidence, 1e-9)
	assert.False(t, r.Degraded)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].JSON)
	assert.Contains(t, calls[0].Messages[0].Content, "FAQ > Shipping")
	assert.Contains(t, calls[0].Messages[0].Content, "What are your shipping times?")
}

func TestClassify_ExcerptIsBounded(t *testing.T) {
	gen := scripted(`{"question_type": "neither", "confidence": 0.1}`, nil, "", nil)
	long := "# FAQ\n\n" + strings.Repeat("x", 2000) + "TAIL_MARKER"

	New(gen, WithExcerptChars(100)).Classify(context.Background(), "q", corpus.NewFAQ(long), false)

	prompt := gen.Calls()[0].Messages[0].Content
	assert.NotContains(t, prompt, "TAIL_MARKER")
	assert.Contains(t, prompt, "No customer reviews are available.")
}

func TestClassify_FencedJSON(t *testing.T) {
	gen := scripted("```json\n{\"faq_can_answer\": false, \"is_reviews_question\": true, \"question_type\": \"Reviews\", \"confidence\": 1.7}\n```", nil, "", nil)

	r := New(gen).Classify(context.Background(), "Are customers happy with the Widget?", corpus.NewFAQ(testFAQ), true)

	assert.Equal(t, TypeReviews, r.QuestionType)
	assert.Equal(t, 1.0, r.Confidence)
	assert.False(t, r.Degraded)
}

func TestClassify_FallsBackOnInvalidJSON(t *testing.T) {
	gen := scripted("I think this is a shipping question.", nil, "Yes.", nil)

	r := New(gen).Classify(context.Background(), "What are your shipping times?", corpus.NewFAQ(testFAQ), true)

	assert.True(t, r.Degraded)
	assert.Equal(t, TypeFAQ, r.QuestionType)
	assert.True(t, r.FAQCanAnswer)
	assert.Equal(t, DegradedConfidence, r.Confidence)
	assert.Equal(t, 2, gen.CallCount())
}

func TestClassify_FallsBackOnUnknownType(t *testing.T) {
	gen := scripted(`{"question_type": "billing", "confidence": 0.9}`, nil, "no", nil)

	r := New(gen).Classify(context.Background(), "Can I speak to a manager?", corpus.NewFAQ(testFAQ), true)

	assert.True(t, r.Degraded)
	assert.Equal(t, TypeNeither, r.QuestionType)
}

func TestClassify_EverythingFails(t *testing.T) {
	gen := &llmtest.Generator{Err: errors.New("service unavailable")}

	r := New(gen).Classify(context.Background(), "What do reviews say about quality?", corpus.NewFAQ(testFAQ), true)

	assert.True(t, r.Degraded)
	assert.False(t, r.FAQCanAnswer)
	assert.True(t, r.IsReviewsQuestion)
	assert.Equal(t, TypeReviews, r.QuestionType)
}

func TestFallback_Deterministic(t *testing.T) {
	gen := scripted("not json", nil, "no", nil)
	c := New(gen)
	faq := corpus.NewFAQ(testFAQ)

	first := c.Classify(context.Background(), "Would you recommend the Widget?", faq, true)
	assert.True(t, first.Degraded)
	for range 5 {
		got := c.Classify(context.Background(), "Would you recommend the Widget?", faq, true)
		if diff := cmp.Diff(first, got); diff != "" {
			t.Errorf("fallback not deterministic (-first +got):\n%s", diff)
		}
	}
}

func TestFallback_ReviewsNeedIndex(t *testing.T) {
	gen := scripted("", errors.New("boom"), "no", nil)

	r := New(gen).Fallback(context.Background(), "What is the rating of the Widget?", corpus.NewFAQ(testFAQ), false)

	assert.True(t, r.IsReviewsQuestion)
	assert.Equal(t, TypeNeither, r.QuestionType)
}

func TestMatchesReviewKeywords(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"What do REVIEWS say?", true},
		{"Is the quality good?", true},
		{"Are people disappointed with it?", true},
		{"Would you recommend this?", true},
		{"What are your shipping times?", false},
		{"Can I speak to a manager?", false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesReviewKeywords(tt.question))
		})
	}
}

func TestParseResult(t *testing.T) {
	r, err := ParseResult(`{"faq_can_answer": true, "is_reviews_question": true, "question_type": "both", "confidence": -0.3}`)
	require.NoError(t, err)
	assert.Equal(t, TypeBoth, r.QuestionType)
	assert.Equal(t, 0.0, r.Confidence)

	_, err = ParseResult("")
	assert.Error(t, err)

	_, err = ParseResult(`{"question_type": ""}`)
	assert.Error(t, err)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`  {"a":1}  `))
}
