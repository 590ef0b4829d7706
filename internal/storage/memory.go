package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an exact nearest-neighbour store that scans every vector.
// It is the default backend: review corpora are small enough that brute force is fine.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	reviews   []*Review
}

// NewMemoryStore creates an empty store for vectors of the given dimension.
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension}
}

// Health always succeeds for the in-process store.
func (s *MemoryStore) Health(ctx context.Context) error {
	return nil
}

// Reset drops every stored review.
func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = nil
	return nil
}

// UpsertReviews stores reviews, replacing any with the same ID.
func (s *MemoryStore) UpsertReviews(ctx context.Context, reviews []*Review) error {
	for i, r := range reviews {
		if len(r.Embedding) != s.dimension {
			return fmt.Errorf("%w: review %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(r.Embedding), s.dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(s.reviews))
	for i, r := range s.reviews {
		index[r.ID] = i
	}
	for _, r := range reviews {
		if i, ok := index[r.ID]; ok {
			s.reviews[i] = r
			continue
		}
		index[r.ID] = len(s.reviews)
		s.reviews = append(s.reviews, r)
	}
	return nil
}

// SearchReviews returns up to limit reviews ordered by cosine similarity, most similar first.
// Ties keep insertion order.
func (s *MemoryStore) SearchReviews(ctx context.Context, embedding []float32, limit int) ([]*ScoredReview, error) {
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), s.dimension)
	}
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*ScoredReview, 0, len(s.reviews))
	for _, r := range s.reviews {
		results = append(results, &ScoredReview{
			Review: r,
			Score:  cosineSimilarity(embedding, r.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of stored reviews.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// cosineSimilarity returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
