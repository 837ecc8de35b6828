package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore keeps chunks in a Qdrant collection configured for cosine
// distance. Chunk text and metadata travel in the point payload.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	dim        int
}

// NewQdrantStore creates a Qdrant-backed store. urlStr should be in the
// format "http://host:port" (e.g. "http://localhost:6333"); the gRPC
// port is derived from the HTTP port.
func NewQdrantStore(urlStr, collection string, dim int) (*QdrantStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be greater than 0, got %d", dim)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	// gRPC listens one port above the HTTP API.
	port := 6334
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{client: client, collection: collection, dim: dim}, nil
}

// Setup ensures the collection exists with the configured dimension and
// cosine distance, validating the size when it already exists.
func (s *QdrantStore) Setup(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(s.dim),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}
	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}
	if int(params.Size) != s.dim {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", s.dim, params.Size)
	}
	return nil
}

func (s *QdrantStore) Insert(ctx context.Context, rec Record) error {
	if len(rec.Embedding) != s.dim {
		return fmt.Errorf("embedding has dimension %d, store expects %d", len(rec.Embedding), s.dim)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.New().String()),
		Vectors: qdrant.NewVectors(rec.Embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"chunk_text":     rec.Text,
			"filename":       rec.Filename,
			"split_strategy": rec.Strategy,
			"created_at":     time.Now().UTC().Format(time.RFC3339),
		}),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

func (s *QdrantStore) Query(ctx context.Context, vector []float32, f Filter, limit int) ([]Row, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0, got %d", limit)
	}

	var qdrantFilter *qdrant.Filter
	var must []*qdrant.Condition
	if f.Filename != "" {
		must = append(must, qdrant.NewMatch("filename", f.Filename))
	}
	if f.Strategy != "" {
		must = append(must, qdrant.NewMatch("split_strategy", f.Strategy))
	}
	if len(must) > 0 {
		qdrantFilter = &qdrant.Filter{Must: must}
	}

	lim := uint64(limit)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &lim,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         qdrantFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}

	out := make([]Row, 0, len(points))
	for _, p := range points {
		row := Row{
			// Qdrant reports cosine similarity; the contract is distance.
			Distance: 1 - float64(p.GetScore()),
		}
		if id := p.GetId(); id != nil {
			row.ID = id.GetUuid()
		}
		payload := p.GetPayload()
		row.Text = payload["chunk_text"].GetStringValue()
		row.Filename = payload["filename"].GetStringValue()
		row.Strategy = payload["split_strategy"].GetStringValue()
		if ts := payload["created_at"].GetStringValue(); ts != "" {
			if created, err := time.Parse(time.RFC3339, ts); err == nil {
				row.CreatedAt = created
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// Reset drops and recreates the collection.
func (s *QdrantStore) Reset(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return s.Setup(ctx)
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}
