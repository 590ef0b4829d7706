// Package storage holds the vector stores backing the review index.
package storage

// Review is one indexed review: its embedding plus the metadata shown to the synthesizer.
type Review struct {
	ID        string    // UUID derived from the review ID and content
	ReviewID  int       // 1-based parse-order ID from the corpus
	Product   string
	Rating    string
	Date      string
	Content   string
	Embedding []float32
}

// ScoredReview is a search hit. Score is cosine similarity, higher is closer.
type ScoredReview struct {
	Review *Review
	Score  float64
}

// DefaultCollectionName is the Qdrant collection used when none is configured.
const DefaultCollectionName = "reviews"

// vectorName is the named vector holding review content embeddings.
const vectorName = "content"
