// Package corpus holds the FAQ text and customer review records the agent answers from.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrSourceNotFound is returned by sources when the requested file does not exist.
var ErrSourceNotFound = errors.New("corpus source not found")

// Source reads raw corpus files by name.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// FileSource reads corpus files from the local filesystem, relative to Dir.
type FileSource struct {
	Dir string
}

// ReadFile implements Source.
func (s FileSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	path := name
	if s.Dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(s.Dir, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Store is the read-only corpus shared by every question for the process lifetime.
type Store struct {
	FAQ     FAQ
	Reviews []ReviewRecord
}

// HasReviews reports whether any review records were loaded.
func (s *Store) HasReviews() bool {
	return s != nil && len(s.Reviews) > 0
}

// Loader builds a Store from a Source. Missing data degrades functionality
// instead of failing: the FAQ falls back to a placeholder, reviews to none.
type Loader struct {
	source Source
	parser *ReviewParser
	logger *slog.Logger
}

// NewLoader creates a loader reading from source.
func NewLoader(source Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		source: source,
		parser: NewReviewParser(),
		logger: logger,
	}
}

// Load reads the FAQ and the reviews. It never returns an error.
func (l *Loader) Load(ctx context.Context, faqPath, reviewsPath string) *Store {
	store := &Store{}

	faqData, err := l.source.ReadFile(ctx, faqPath)
	if err != nil {
		l.logger.Warn("FAQ unavailable, using placeholder", "path", faqPath, "error", err)
		store.FAQ = MissingFAQ(faqPath)
	} else {
		store.FAQ = NewFAQ(string(faqData))
		l.logger.Info("Loaded FAQ", "path", faqPath, "bytes", len(faqData), "sections", len(store.FAQ.Sections))
	}

	if reviewsPath == "" {
		l.logger.Info("No review source configured, reviews disabled")
		return store
	}

	reviewData, err := l.source.ReadFile(ctx, reviewsPath)
	if err != nil {
		l.logger.Warn("Reviews unavailable, reviews disabled", "path", reviewsPath, "error", err)
		return store
	}

	store.Reviews = l.parser.Parse(reviewData)
	empty := 0
	for _, r := range store.Reviews {
		if r.Empty() {
			empty++
		}
	}
	l.logger.Info("Loaded reviews", "path", reviewsPath, "count", len(store.Reviews), "empty", empty)

	return store
}
