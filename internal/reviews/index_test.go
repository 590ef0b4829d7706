package reviews

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/support-router/internal/corpus"
	"github.com/bull/support-router/internal/storage"
)

// topics gives the keyword embedder its axes.
var topics = []string{"battery", "screen", "price", "shipping"}

// keywordEmbedder maps text onto topic counts, so similar wording lands close together.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (e *keywordEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		vec := make([]float32, len(topics)+1)
		for j, topic := range topics {
			vec[j] = float32(strings.Count(lower, topic))
		}
		vec[len(topics)] = 0.1
		out[i] = vec
	}
	return out, nil
}

func testRecords() []corpus.ReviewRecord {
	return []corpus.ReviewRecord{
		{ReviewID: 1, Product: "Phone X", Rating: "5", Date: "2024-01-01", Content: "Battery lasts two days, great battery."},
		{ReviewID: 2, Product: "Phone X", Rating: "2", Date: "2024-01-05", Content: "The screen scratches easily."},
		{ReviewID: 3, Product: "Phone Y", Rating: "4", Date: "2024-02-10", Content: "Fair price and fast shipping."},
		{ReviewID: 4, Product: "Phone Y", Rating: "3"},
	}
}

func buildTestIndex(t *testing.T) (*Index, *keywordEmbedder) {
	t.Helper()
	embedder := &keywordEmbedder{}
	idx, result, err := Build(context.Background(), testRecords(), embedder, storage.NewMemoryStore(len(topics)+1), nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	return idx, embedder
}

func TestBuild_SkipsEmptyReviews(t *testing.T) {
	embedder := &keywordEmbedder{}
	store := storage.NewMemoryStore(len(topics) + 1)

	idx, result, err := Build(context.Background(), testRecords(), embedder, store, nil)
	require.NoError(t, err)

	assert.True(t, idx.Available())
	assert.Equal(t, 3, idx.Size())
	assert.Equal(t, 4, result.TotalReviews)
	assert.Equal(t, 3, result.Indexed)
	assert.Equal(t, 1, result.Skipped)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBuild_NoContent(t *testing.T) {
	records := []corpus.ReviewRecord{{ReviewID: 1, Product: "Lamp"}}

	idx, result, err := Build(context.Background(), records, &keywordEmbedder{}, storage.NewMemoryStore(5), nil)
	assert.ErrorIs(t, err, ErrNoReviews)
	assert.Nil(t, idx)
	assert.False(t, idx.Available())
	assert.Equal(t, 1, result.Skipped)
}

func TestBuild_EmbeddingFailure(t *testing.T) {
	embedder := &keywordEmbedder{err: errors.New("quota exceeded")}

	idx, _, err := Build(context.Background(), testRecords(), embedder, storage.NewMemoryStore(5), nil)
	assert.Error(t, err)
	assert.Nil(t, idx)
}

func TestBuild_Idempotent(t *testing.T) {
	store := storage.NewMemoryStore(len(topics) + 1)
	embedder := &keywordEmbedder{}

	_, _, err := Build(context.Background(), testRecords(), embedder, store, nil)
	require.NoError(t, err)
	idx, _, err := Build(context.Background(), testRecords(), embedder, store, nil)
	require.NoError(t, err)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, idx.Size())
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	idx, _ := buildTestIndex(t)

	docs := idx.Search(context.Background(), "How is the battery?", 2)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].ReviewID)
	assert.Equal(t, "Phone X", docs[0].Product)
	assert.GreaterOrEqual(t, docs[0].Score, docs[1].Score)
}

func TestSearch_LimitLargerThanIndex(t *testing.T) {
	idx, _ := buildTestIndex(t)

	docs := idx.Search(context.Background(), "screen", 50)
	assert.Len(t, docs, 3)
}

func TestSearch_NilIndex(t *testing.T) {
	var idx *Index

	assert.False(t, idx.Available())
	assert.Equal(t, 0, idx.Size())
	assert.Empty(t, idx.Search(context.Background(), "battery", 10))
}

func TestSearch_EmbeddingFailureIsEmpty(t *testing.T) {
	idx, embedder := buildTestIndex(t)
	embedder.err = errors.New("connection reset")

	assert.Empty(t, idx.Search(context.Background(), "battery", 10))
}

func TestSearch_NonPositiveK(t *testing.T) {
	idx, embedder := buildTestIndex(t)
	before := embedder.calls

	assert.Empty(t, idx.Search(context.Background(), "battery", 0))
	assert.Equal(t, before, embedder.calls)
}
