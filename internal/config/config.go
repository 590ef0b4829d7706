// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned when no credential for the generation service is set.
// It is the only configuration problem that stops the process.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable not set")

// Corpus sources.
const (
	SourceFile   = "file"
	SourceGitHub = "github"
)

// Index backends.
const (
	BackendMemory = "memory"
	BackendQdrant = "qdrant"
)

// Config holds every setting the agent and its collaborators read at startup.
type Config struct {
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	ChatModel        string
	Temperature      float64
	EmbeddingModel   string
	EmbeddingDim     int
	LLMTimeout       time.Duration
	FAQPath          string
	ReviewsPath      string
	CorpusSource     string
	GitHubRepo       string // owner/repo
	GitHubRef        string
	GitHubToken      string
	IndexBackend     string
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
	FAQExcerptChars  int
	SMTPServer       string
	SMTPPort         int
	EmailUsername    string
	EmailPassword    string
	AssistanceEmail  string
	Port             string
	CORSOrigins      []string
	ServerMode       bool
	LogLevel         slog.Level
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		ChatModel:        getEnv("OPENAI_MODEL", "gpt-4.1"),
		Temperature:      getEnvFloat("OPENAI_TEMPERATURE", 0.1),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDim:     getEnvInt("EMBEDDING_DIMENSION", 1536),
		LLMTimeout:       getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		FAQPath:          getEnv("FAQ_PATH", "faq.md"),
		ReviewsPath:      getEnv("REVIEWS_PATH", "reviews.md"),
		CorpusSource:     strings.ToLower(getEnv("CORPUS_SOURCE", SourceFile)),
		GitHubRepo:       os.Getenv("CORPUS_GITHUB_REPO"),
		GitHubRef:        getEnv("CORPUS_GITHUB_REF", "main"),
		GitHubToken:      os.Getenv("GITHUB_TOKEN"),
		IndexBackend:     strings.ToLower(getEnv("INDEX_BACKEND", BackendMemory)),
		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvInt("QDRANT_PORT", 6334),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "reviews"),
		FAQExcerptChars:  getEnvInt("FAQ_EXCERPT_CHARS", 500),
		SMTPServer:       getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		EmailUsername:    os.Getenv("EMAIL_USERNAME"),
		EmailPassword:    os.Getenv("EMAIL_PASSWORD"),
		AssistanceEmail:  getEnv("ASSISTANCE_EMAIL", "support@example.com"),
		Port:             getEnv("PORT", "8080"),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ServerMode:       getEnv("SERVER_MODE", "false") == "true",
		LogLevel:         parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and enumerations.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingAPIKey
	}

	switch c.CorpusSource {
	case SourceFile:
	case SourceGitHub:
		if _, _, err := c.GitHubOwnerRepo(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported CORPUS_SOURCE %q (want %s or %s)", c.CorpusSource, SourceFile, SourceGitHub)
	}

	switch c.IndexBackend {
	case BackendMemory, BackendQdrant:
	default:
		return fmt.Errorf("unsupported INDEX_BACKEND %q (want %s or %s)", c.IndexBackend, BackendMemory, BackendQdrant)
	}

	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", c.EmbeddingDim)
	}
	return nil
}

// GitHubOwnerRepo splits CORPUS_GITHUB_REPO into owner and repository.
func (c Config) GitHubOwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(c.GitHubRepo, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("CORPUS_GITHUB_REPO must be owner/repo, got %q", c.GitHubRepo)
	}
	return owner, repo, nil
}

// EmailConfigured reports whether SMTP credentials are present.
func (c Config) EmailConfigured() bool {
	return c.EmailUsername != "" && c.EmailPassword != ""
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
