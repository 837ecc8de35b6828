// Package search ranks stored chunks against free-text queries by cosine
// similarity.
package search

import (
	"context"
	"strings"
	"time"

	"docsearch/internal/contextutil"
	"docsearch/internal/embed"
	"docsearch/internal/store"
)

// DefaultTopK is the number of results returned when Options.TopK is unset.
const DefaultTopK = 5

// Result is one ranked chunk. Score is cosine similarity, 1 - distance;
// with normalized embeddings it lies in [0, 1].
type Result struct {
	ID        string
	Text      string
	Filename  string
	Strategy  string
	CreatedAt time.Time
	Score     float64
}

// Options narrow and size a search. Filename and Strategy filter by exact
// match and combine with AND semantics when both are set.
type Options struct {
	TopK     int
	Filename string
	Strategy string
}

// Searcher embeds queries and ranks stored chunks against them.
type Searcher struct {
	embedder embed.Embedder
	store    store.VectorStore
}

func NewSearcher(embedder embed.Embedder, st store.VectorStore) *Searcher {
	return &Searcher{embedder: embedder, store: st}
}

// Search returns the top-k stored chunks most similar to query, highest
// score first. A blank query yields an empty result immediately.
// Embedding and store failures are logged and also yield an empty result;
// a failed search is never fatal to the caller.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) []Result {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		logger.WarnContext(ctx, "empty query text, skipping search")
		return []Result{}
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return []Result{}
	}
	vec = embed.L2Normalize(vec)

	filter := store.Filter{Filename: opts.Filename, Strategy: opts.Strategy}
	rows, err := s.store.Query(ctx, vec, filter, topK)
	if err != nil {
		logger.ErrorContext(ctx, "semantic search failed", "error", err)
		return []Result{}
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, Result{
			ID:        row.ID,
			Text:      row.Text,
			Filename:  row.Filename,
			Strategy:  row.Strategy,
			CreatedAt: row.CreatedAt,
			Score:     1.0 - row.Distance,
		})
	}

	logger.InfoContext(ctx, "search completed", "results", len(results))
	return results
}
