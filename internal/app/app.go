// Package app assembles the support agent and its collaborators from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bull/support-router/internal/agent"
	"github.com/bull/support-router/internal/classifier"
	"github.com/bull/support-router/internal/config"
	"github.com/bull/support-router/internal/corpus"
	"github.com/bull/support-router/internal/embedding"
	"github.com/bull/support-router/internal/escalation"
	ghclient "github.com/bull/support-router/internal/github"
	"github.com/bull/support-router/internal/llm"
	"github.com/bull/support-router/internal/reviews"
	"github.com/bull/support-router/internal/storage"
)

// vectorStore is what the app needs from a storage backend.
type vectorStore interface {
	reviews.VectorStore
	Health(ctx context.Context) error
	Close() error
}

// App owns every long-lived component. The corpus and review index are built
// once in New and only read afterwards.
type App struct {
	Config     config.Config
	Corpus     *corpus.Store
	Index      *reviews.Index
	Build      *reviews.BuildResult
	Controller *agent.Controller

	store   vectorStore
	fetcher *ghclient.Fetcher
	logger  *slog.Logger
}

// New loads the corpus, builds the review index, and wires the controller.
// Missing data and index failures degrade functionality; only client
// construction errors are returned.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, logger: logger}

	source, err := a.corpusSource()
	if err != nil {
		return nil, err
	}
	a.Corpus = corpus.NewLoader(source, logger).Load(ctx, cfg.FAQPath, cfg.ReviewsPath)

	oc, err := embedding.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	chat := llm.NewChatClient(oc.Client(), cfg.ChatModel,
		llm.WithTemperature(cfg.Temperature),
		llm.WithTimeout(cfg.LLMTimeout),
		llm.WithLogger(logger),
	)
	embedder := embedding.NewEmbedder(oc,
		embedding.WithModel(cfg.EmbeddingModel, cfg.EmbeddingDim),
		embedding.WithTimeout(cfg.LLMTimeout),
	)

	a.buildIndex(ctx, embedder)

	a.Controller = agent.New(agent.Config{
		Corpus:     a.Corpus,
		Classifier: classifier.New(chat, classifier.WithExcerptChars(cfg.FAQExcerptChars), classifier.WithLogger(logger)),
		Reviews:    reviews.NewSynthesizer(chat, reviews.NewEnhancer(chat, logger), logger),
		Index:      a.Index,
		Generator:  chat,
		Escalation: a.escalationChannel(),
		Contact:    cfg.AssistanceEmail,
		Logger:     logger,
	})

	return a, nil
}

func (a *App) corpusSource() (corpus.Source, error) {
	if a.Config.CorpusSource != config.SourceGitHub {
		return corpus.FileSource{}, nil
	}

	owner, repo, err := a.Config.GitHubOwnerRepo()
	if err != nil {
		return nil, err
	}
	client, err := ghclient.NewClient(a.Config.GitHubToken)
	if err != nil {
		return nil, fmt.Errorf("create github client: %w", err)
	}
	a.fetcher = ghclient.NewFetcher(client, owner, repo, a.Config.GitHubRef, "")
	return a.fetcher, nil
}

// buildIndex leaves a.Index nil when anything fails, which disables review
// answers for the rest of the process.
func (a *App) buildIndex(ctx context.Context, embedder reviews.Embedder) {
	store, err := a.openStore()
	if err != nil {
		a.logger.Warn("Vector store unavailable, reviews disabled", "backend", a.Config.IndexBackend, "error", err)
		return
	}
	a.store = store

	if !a.Corpus.HasReviews() {
		return
	}

	index, result, err := reviews.Build(ctx, a.Corpus.Reviews, embedder, store, a.logger)
	a.Build = result
	if err != nil {
		if errors.Is(err, reviews.ErrNoReviews) {
			a.logger.Warn("No review content to index, reviews disabled")
		} else {
			a.logger.Warn("Review index build failed, reviews disabled", "error", err)
		}
		return
	}
	a.Index = index
}

func (a *App) openStore() (vectorStore, error) {
	switch a.Config.IndexBackend {
	case config.BackendQdrant:
		store, err := storage.NewQdrantStore(a.Config.QdrantHost, a.Config.QdrantPort, a.Config.QdrantCollection, a.Config.EmbeddingDim)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return storage.NewMemoryStore(a.Config.EmbeddingDim), nil
	}
}

func (a *App) escalationChannel() escalation.Channel {
	if !a.Config.EmailConfigured() {
		a.logger.Warn("EMAIL_USERNAME/EMAIL_PASSWORD not set, escalations will not be delivered")
	}
	return escalation.NewEmailChannel(escalation.EmailConfig{
		Server:   a.Config.SMTPServer,
		Port:     a.Config.SMTPPort,
		Username: a.Config.EmailUsername,
		Password: a.Config.EmailPassword,
		To:       a.Config.AssistanceEmail,
		Timeout:  a.Config.LLMTimeout,
	}, a.logger)
}

// Ask answers one question.
func (a *App) Ask(ctx context.Context, question string) agent.Response {
	return a.Controller.Handle(ctx, question)
}

// Health reports vector store connectivity. With no store there is nothing to check.
func (a *App) Health(ctx context.Context) error {
	if a.store == nil {
		if a.Config.IndexBackend == config.BackendQdrant {
			return storage.ErrQdrantUnreachable
		}
		return nil
	}
	return a.store.Health(ctx)
}

// Close releases the vector store connection.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
