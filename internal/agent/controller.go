// Package agent routes one customer question through classification to a single
// answer: an FAQ answer, a review synthesis, or an escalation to human support.
package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bull/support-router/internal/classifier"
	"github.com/bull/support-router/internal/corpus"
	"github.com/bull/support-router/internal/escalation"
	"github.com/bull/support-router/internal/llm"
	"github.com/bull/support-router/internal/reviews"
)

// Classifier produces a routing verdict. It must not fail.
type Classifier interface {
	Classify(ctx context.Context, question string, faq corpus.FAQ, indexAvailable bool) classifier.Result
}

// ReviewAnalyzer answers from customer reviews. It must not fail.
type ReviewAnalyzer interface {
	Analyze(ctx context.Context, question string, index reviews.Searcher) string
}

// Config wires a Controller.
type Config struct {
	Corpus     *corpus.Store
	Classifier Classifier
	Reviews    ReviewAnalyzer
	Index      reviews.Searcher // nil disables review answers
	Generator  llm.Generator
	Escalation escalation.Channel
	Contact    string // support address named in escalation replies
	Logger     *slog.Logger
}

// Controller runs the per-question state machine. It holds no per-question
// state, so one Controller serves concurrent questions.
type Controller struct {
	corpus     *corpus.Store
	classifier Classifier
	reviews    ReviewAnalyzer
	index      reviews.Searcher
	gen        llm.Generator
	escalation escalation.Channel
	contact    string
	logger     *slog.Logger
}

// New creates a Controller from cfg.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := cfg.Corpus
	if store == nil {
		store = &corpus.Store{FAQ: corpus.MissingFAQ("faq.md")}
	}
	esc := cfg.Escalation
	if esc == nil {
		esc = escalation.LogChannel{Logger: logger}
	}
	return &Controller{
		corpus:     store,
		classifier: cfg.Classifier,
		reviews:    cfg.Reviews,
		index:      cfg.Index,
		gen:        cfg.Generator,
		escalation: esc,
		contact:    cfg.Contact,
		logger:     logger,
	}
}

// IndexAvailable reports whether review answers are possible for this process.
func (c *Controller) IndexAvailable() bool {
	return c.index != nil && c.index.Available()
}

// Handle answers question. It always terminates with exactly one Response.
func (c *Controller) Handle(ctx context.Context, question string) Response {
	if strings.TrimSpace(question) == "" {
		return Response{Text: EmptyQuestionMessage, QuestionType: classifier.TypeNeither}
	}

	state := &ConversationState{Question: question, Phase: PhaseStart}
	for state.Phase != PhaseDone {
		switch state.Phase {
		case PhaseStart:
			c.classify(ctx, state)
		case PhaseClassified:
			c.route(state)
		case PhaseAnswering:
			c.answer(ctx, state)
		case PhaseEscalating:
			c.escalate(ctx, state)
		default:
			c.logger.Error("Unknown pipeline phase", "phase", state.Phase)
			state.Answer = answerFailedMessage(c.contact)
			state.Phase = PhaseDone
		}
	}

	c.logger.Info("Question handled",
		"question_type", state.QuestionType,
		"route", state.Route,
		"confidence", state.Confidence,
		"degraded", state.Degraded,
		"escalated", state.Escalated,
	)
	return state.response()
}

func (c *Controller) classify(ctx context.Context, state *ConversationState) {
	result := c.classifier.Classify(ctx, state.Question, c.corpus.FAQ, c.IndexAvailable())

	state.CanAnswer = result.FAQCanAnswer
	state.Confidence = result.Confidence
	state.Degraded = result.Degraded
	state.Route = classifier.Resolve(result, c.IndexAvailable())
	state.Phase = PhaseClassified

	c.logger.Debug("Classified question",
		"question_type", result.QuestionType, "route", state.Route, "degraded", result.Degraded)
}

func (c *Controller) route(state *ConversationState) {
	switch state.Route {
	case classifier.RouteFAQ:
		state.QuestionType = classifier.TypeFAQ
		state.Phase = PhaseAnswering
	case classifier.RouteReviews:
		state.QuestionType = classifier.TypeReviews
		state.Phase = PhaseAnswering
	default:
		state.QuestionType = classifier.TypeNeither
		state.Phase = PhaseEscalating
	}
}

func (c *Controller) answer(ctx context.Context, state *ConversationState) {
	defer func() { state.Phase = PhaseDone }()

	if state.Route == classifier.RouteReviews {
		state.Answer = c.reviews.Analyze(ctx, state.Question, c.index)
		return
	}

	answer, err := c.gen.Generate(ctx, []llm.Message{
		llm.System(faqAnswerPrompt(c.corpus.FAQ.Text, state.Question)),
		llm.User(state.Question),
	})
	if err != nil {
		c.logger.Warn("FAQ answer failed", "error", err)
		state.Answer = answerFailedMessage(c.contact)
		return
	}
	state.Answer = answer
}

func (c *Controller) escalate(ctx context.Context, state *ConversationState) {
	state.Escalated = true
	if c.escalation.Send(ctx, state.Question) {
		state.Answer = escalatedMessage(c.contact)
	} else {
		state.EscalationFailed = true
		state.Answer = escalationFailedMessage(c.contact)
	}
	state.Phase = PhaseDone
}
