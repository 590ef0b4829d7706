// Package reviews answers questions from customer reviews: a semantic index over
// review records, query expansion, and evidence-grounded synthesis.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bull/support-router/internal/corpus"
	"github.com/bull/support-router/internal/storage"
)

// ErrNoReviews is returned by Build when no record has retrievable text.
var ErrNoReviews = errors.New("no reviews with content to index")

// Embedder turns text into vectors.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore persists review vectors and runs nearest-neighbour queries.
type VectorStore interface {
	Reset(ctx context.Context) error
	UpsertReviews(ctx context.Context, reviews []*storage.Review) error
	SearchReviews(ctx context.Context, embedding []float32, limit int) ([]*storage.ScoredReview, error)
	Count(ctx context.Context) (int, error)
}

// Document is a retrieved review with its similarity score.
type Document struct {
	ReviewID int
	Product  string
	Rating   string
	Date     string
	Content  string
	Score    float64
}

// BuildResult contains statistics about an index build.
type BuildResult struct {
	TotalReviews int
	Indexed      int
	Skipped      int // records with empty content
	Duration     time.Duration
}

// Index is the semantic index over review records. It is built once and then only read,
// so a single Index is safe to share across concurrent questions.
// A nil *Index is valid and behaves as "no review data": every search is empty.
type Index struct {
	embedder Embedder
	store    VectorStore
	logger   *slog.Logger
	size     int
}

// reviewNamespace seeds deterministic point IDs so identical input rebuilds identically.
var reviewNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("support-router/reviews"))

// Build embeds every non-empty review and stores it. The store is reset first,
// so building twice from the same records yields the same index.
func Build(ctx context.Context, records []corpus.ReviewRecord, embedder Embedder, store VectorStore, logger *slog.Logger) (*Index, *BuildResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	result := &BuildResult{TotalReviews: len(records)}

	indexable := make([]corpus.ReviewRecord, 0, len(records))
	for _, r := range records {
		if r.Empty() {
			result.Skipped++
			logger.Debug("Skipping review without content", "review_id", r.ReviewID)
			continue
		}
		indexable = append(indexable, r)
	}
	if len(indexable) == 0 {
		return nil, result, ErrNoReviews
	}

	texts := make([]string, len(indexable))
	for i, r := range indexable {
		texts[i] = r.Content
	}

	embeddings, err := embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, result, fmt.Errorf("embeddings: %w", err)
	}
	if len(embeddings) != len(indexable) {
		return nil, result, fmt.Errorf("embeddings: got %d vectors for %d reviews", len(embeddings), len(indexable))
	}

	points := make([]*storage.Review, len(indexable))
	for i, r := range indexable {
		points[i] = &storage.Review{
			ID:        pointID(r),
			ReviewID:  r.ReviewID,
			Product:   r.Product,
			Rating:    r.Rating,
			Date:      r.Date,
			Content:   r.Content,
			Embedding: embeddings[i],
		}
	}

	if err := store.Reset(ctx); err != nil {
		return nil, result, fmt.Errorf("reset store: %w", err)
	}
	if err := store.UpsertReviews(ctx, points); err != nil {
		return nil, result, fmt.Errorf("store reviews: %w", err)
	}

	result.Indexed = len(points)
	result.Duration = time.Since(start)
	logger.Info("Review index built",
		"reviews", result.TotalReviews,
		"indexed", result.Indexed,
		"skipped", result.Skipped,
		"duration", result.Duration,
	)

	return &Index{
		embedder: embedder,
		store:    store,
		logger:   logger,
		size:     len(points),
	}, result, nil
}

func pointID(r corpus.ReviewRecord) string {
	return uuid.NewSHA1(reviewNamespace, []byte(strconv.Itoa(r.ReviewID)+"\x00"+r.Content)).String()
}

// Available reports whether the index was built.
func (i *Index) Available() bool {
	return i != nil
}

// Size returns the number of indexed reviews.
func (i *Index) Size() int {
	if i == nil {
		return 0
	}
	return i.size
}

// Search returns up to k reviews most similar to query, most similar first.
// Embedding or store failures are logged and yield no results.
func (i *Index) Search(ctx context.Context, query string, k int) []Document {
	if i == nil || k <= 0 {
		return nil
	}

	embeddings, err := i.embedder.GenerateEmbeddings(ctx, []string{query})
	if err != nil || len(embeddings) == 0 {
		i.logger.Warn("Query embedding failed, returning no reviews", "error", err)
		return nil
	}

	hits, err := i.store.SearchReviews(ctx, embeddings[0], k)
	if err != nil {
		i.logger.Warn("Review search failed, returning no reviews", "error", err)
		return nil
	}

	docs := make([]Document, 0, len(hits))
	for _, hit := range hits {
		docs = append(docs, Document{
			ReviewID: hit.Review.ReviewID,
			Product:  hit.Review.Product,
			Rating:   hit.Review.Rating,
			Date:     hit.Review.Date,
			Content:  hit.Review.Content,
			Score:    hit.Score,
		})
	}
	return docs
}
