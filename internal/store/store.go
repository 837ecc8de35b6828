// Package store persists embedded chunks and serves nearest-neighbour
// queries over them. Three backends implement the same contract: Postgres
// with pgvector, SQLite with in-process ranking, and Qdrant.
package store

import (
	"context"
	"time"
)

// Record is one chunk ready to persist. Records are immutable after
// insert; there is no update path.
type Record struct {
	Text      string
	Embedding []float32
	Filename  string
	Strategy  string
}

// Row is one stored chunk returned from a query. Distance is the cosine
// distance to the query vector; rows come back ordered by it, ascending.
type Row struct {
	ID        string
	Text      string
	Filename  string
	Strategy  string
	CreatedAt time.Time
	Distance  float64
}

// Filter narrows query candidates by exact match. Zero fields match
// everything; when both are set they combine with AND semantics.
type Filter struct {
	Filename string
	Strategy string
}

// VectorStore is the persistence collaborator for embedded chunks.
type VectorStore interface {
	// Setup provisions the backing schema or collection. Idempotent.
	Setup(ctx context.Context) error
	// Insert persists one record under a fresh identifier. The embedding
	// length must match the store's configured dimension.
	Insert(ctx context.Context, rec Record) error
	// Query returns up to limit rows matching f, ordered by ascending
	// cosine distance to vector.
	Query(ctx context.Context, vector []float32, f Filter, limit int) ([]Row, error)
	// Reset removes every stored record. The only delete path.
	Reset(ctx context.Context) error
	Close() error
}
