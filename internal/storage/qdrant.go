package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore keeps review embeddings in a Qdrant collection.
type QdrantStore struct {
	client     *qdrant.Client
	host       string
	port       int
	collection string
	dimension  int
}

// NewQdrantStore creates a Qdrant client with health validation.
// It performs health check with retry on startup and fails fast if Qdrant is unreachable.
func NewQdrantStore(host string, port int, collection string, dimension int) (*QdrantStore, error) {
	if collection == "" {
		collection = DefaultCollectionName
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	store := &QdrantStore{
		client:     client,
		host:       host,
		port:       port,
		collection: collection,
		dimension:  dimension,
	}

	if err := store.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return store, nil
}

// healthCheckWithRetry performs health check with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *QdrantStore) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error { return s.Health(ctx) }, exponentialBackoff)
}

// Health performs a single health check against Qdrant.
func (s *QdrantStore) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}

	return nil
}

// EnsureCollection creates the review collection (cosine distance) and its payload
// indexes if it does not exist yet. Idempotent.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range collections {
		if name == s.collection {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			vectorName: {
				Size:     uint64(s.dimension),
				Distance: qdrant.Distance_Cosine,
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	if err := s.createPayloadIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create payload indexes: %w", err)
	}

	return nil
}

// createPayloadIndexes indexes the fields reviews are filtered on.
func (s *QdrantStore) createPayloadIndexes(ctx context.Context) error {
	indexes := map[string]*qdrant.FieldType{
		"product":   qdrant.FieldType_FieldTypeKeyword.Enum(),
		"review_id": qdrant.FieldType_FieldTypeInteger.Enum(),
	}

	for field, fieldType := range indexes {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			FieldName:      field,
			FieldType:      fieldType,
		})
		if err != nil {
			return fmt.Errorf("failed to create index for field %s: %w", field, err)
		}
	}

	return nil
}

// Reset deletes and recreates the collection so a rebuild starts from nothing.
func (s *QdrantStore) Reset(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range collections {
		if name == s.collection {
			if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
				return fmt.Errorf("failed to delete collection: %w", err)
			}
			break
		}
	}

	return s.EnsureCollection(ctx)
}

// Close closes the Qdrant client connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// upsertWithRetry performs upsert operation with exponential backoff retry.
func (s *QdrantStore) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Points:         points,
		})
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx))
}

// UpsertReviews stores reviews with their embeddings in batches of 100.
func (s *QdrantStore) UpsertReviews(ctx context.Context, reviews []*Review) error {
	if len(reviews) == 0 {
		return nil
	}

	for i, r := range reviews {
		if len(r.Embedding) != s.dimension {
			return fmt.Errorf("%w: review %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(r.Embedding), s.dimension)
		}
	}

	batchSize := 100
	for i := 0; i < len(reviews); i += batchSize {
		end := min(i+batchSize, len(reviews))

		batch := reviews[i:end]
		points := make([]*qdrant.PointStruct, len(batch))
		for j, r := range batch {
			points[j] = &qdrant.PointStruct{
				Id: qdrant.NewIDUUID(r.ID),
				Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
					vectorName: qdrant.NewVector(r.Embedding...),
				}),
				Payload: qdrant.NewValueMap(map[string]any{
					"review_id": r.ReviewID,
					"product":   r.Product,
					"rating":    r.Rating,
					"date":      r.Date,
					"content":   r.Content,
				}),
			}
		}

		if err := s.upsertWithRetry(ctx, points); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// SearchReviews performs vector similarity search.
// Returns up to limit reviews ordered by score descending.
func (s *QdrantStore) SearchReviews(ctx context.Context, embedding []float32, limit int) ([]*ScoredReview, error) {
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), s.dimension)
	}
	if limit <= 0 {
		return nil, nil
	}

	using := vectorName
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Using:          &using,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
	}

	scored := make([]*ScoredReview, 0, len(results))
	for _, result := range results {
		payload := result.Payload
		scored = append(scored, &ScoredReview{
			Review: &Review{
				ID:       result.Id.GetUuid(),
				ReviewID: int(payload["review_id"].GetIntegerValue()),
				Product:  payload["product"].GetStringValue(),
				Rating:   payload["rating"].GetStringValue(),
				Date:     payload["date"].GetStringValue(),
				Content:  payload["content"].GetStringValue(),
			},
			Score: float64(result.Score),
		})
	}

	return scored, nil
}

// Count returns the number of points in the review collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCollectionNotFound, err)
	}
	return int(info.GetPointsCount()), nil
}
