package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// PostgresStore persists chunks in a pgvector-enabled table and delegates
// nearest-neighbour ordering to the <=> cosine distance operator.
type PostgresStore struct {
	pool *pgxpool.Pool
	dim  int
}

// NewPostgresStore creates a connection pool for dsn. dim is the vector
// column dimension every inserted record must match.
func NewPostgresStore(ctx context.Context, dsn string, dim int) (*PostgresStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be greater than 0, got %d", dim)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres DSN: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		// The vector type does not exist until Setup has enabled the
		// extension; registration succeeds on connections opened after
		// that, and Setup itself only runs DDL.
		_ = pgxvec.RegisterTypes(ctx, conn)
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &PostgresStore{pool: pool, dim: dim}, nil
}

// Setup enables the pgvector extension and creates the chunks table.
// Safe to run repeatedly.
func (s *PostgresStore) Setup(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to enable pgvector extension: %w", err)
	}
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		chunk_text TEXT NOT NULL,
		embedding VECTOR(%d),
		filename TEXT NOT NULL,
		split_strategy TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`, s.dim)
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create chunks table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec Record) error {
	if len(rec.Embedding) != s.dim {
		return fmt.Errorf("embedding has dimension %d, store expects %d", len(rec.Embedding), s.dim)
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO chunks (id, chunk_text, embedding, filename, split_strategy) VALUES ($1, $2, $3, $4, $5)",
		uuid.New().String(), rec.Text, pgvector.NewVector(rec.Embedding), rec.Filename, rec.Strategy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, vector []float32, f Filter, limit int) ([]Row, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0, got %d", limit)
	}

	where, filterArgs := buildWhereClause(f, 2)
	query := fmt.Sprintf(`SELECT id, chunk_text, filename, split_strategy, created_at, embedding <=> $1 AS distance
		FROM chunks
		%s
		ORDER BY embedding <=> $1
		LIMIT $%d`, where, 2+len(filterArgs))

	args := append([]any{pgvector.NewVector(vector)}, filterArgs...)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.Text, &row.Filename, &row.Strategy, &row.CreatedAt, &row.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to reset chunks: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// buildWhereClause builds the filter predicate with positional
// placeholders starting at $start. Returns "" and no args for an empty
// filter.
func buildWhereClause(f Filter, start int) (string, []any) {
	var clauses []string
	var args []any
	n := start
	if f.Filename != "" {
		clauses = append(clauses, fmt.Sprintf("filename = $%d", n))
		args = append(args, f.Filename)
		n++
	}
	if f.Strategy != "" {
		clauses = append(clauses, fmt.Sprintf("split_strategy = $%d", n))
		args = append(args, f.Strategy)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
