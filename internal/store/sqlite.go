package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps chunks in a local SQLite database with embeddings
// stored as little-endian float32 blobs. Candidates are filtered in SQL
// and ranked by cosine distance in process, so no vector extension is
// required.
type SQLiteStore struct {
	db  *sql.DB
	dim int
}

// NewSQLiteStore opens (or creates) the SQLite database at path. dim is
// the embedding dimension every inserted record must match.
func NewSQLiteStore(path string, dim int) (*SQLiteStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be greater than 0, got %d", dim)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db, dim: dim}, nil
}

// Setup creates the chunks table. Safe to run repeatedly.
func (s *SQLiteStore) Setup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		chunk_text TEXT NOT NULL,
		embedding BLOB NOT NULL,
		filename TEXT NOT NULL,
		split_strategy TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create chunks table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, rec Record) error {
	if len(rec.Embedding) != s.dim {
		return fmt.Errorf("embedding has dimension %d, store expects %d", len(rec.Embedding), s.dim)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chunks (id, chunk_text, embedding, filename, split_strategy, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.New().String(), rec.Text, embeddingToBytes(rec.Embedding), rec.Filename, rec.Strategy, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// Query loads the filtered candidate rows, computes cosine distances in
// Go and returns the limit nearest, ties broken by ascending id so
// repeated queries are stable.
func (s *SQLiteStore) Query(ctx context.Context, vector []float32, f Filter, limit int) ([]Row, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0, got %d", limit)
	}

	query := "SELECT id, chunk_text, embedding, filename, split_strategy, created_at FROM chunks"
	var clauses []string
	var args []any
	if f.Filename != "" {
		clauses = append(clauses, "filename = ?")
		args = append(args, f.Filename)
	}
	if f.Strategy != "" {
		clauses = append(clauses, "split_strategy = ?")
		args = append(args, f.Strategy)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Row
	for rows.Next() {
		var row Row
		var blob []byte
		if err := rows.Scan(&row.ID, &row.Text, &blob, &row.Filename, &row.Strategy, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		emb := bytesToEmbedding(blob)
		if len(emb) != s.dim {
			// Row written under a different schema dimension; it cannot
			// be ranked against this query.
			continue
		}
		row.Distance = cosineDistance(vector, emb)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to reset chunks: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
