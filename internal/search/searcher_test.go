package search

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsearch/internal/store"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

type fakeStore struct {
	rows      []store.Row
	err       error
	gotVector []float32
	gotFilter store.Filter
	gotLimit  int
}

func (f *fakeStore) Setup(context.Context) error { return nil }
func (f *fakeStore) Insert(context.Context, store.Record) error {
	return nil
}
func (f *fakeStore) Query(_ context.Context, vector []float32, filter store.Filter, limit int) ([]store.Row, error) {
	f.gotVector = vector
	f.gotFilter = filter
	f.gotLimit = limit
	return f.rows, f.err
}
func (f *fakeStore) Reset(context.Context) error { return nil }
func (f *fakeStore) Close() error                { return nil }

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("maps rows to scored results", func(t *testing.T) {
		st := &fakeStore{rows: []store.Row{
			{ID: "1", Text: "best", Filename: "a.pdf", Strategy: "fixed", Distance: 0.05},
			{ID: "2", Text: "good", Filename: "a.pdf", Strategy: "fixed", Distance: 0.30},
		}}
		s := NewSearcher(&fakeEmbedder{vec: []float32{3, 4, 0}}, st)

		results := s.Search(ctx, "query", Options{TopK: 2})
		require.Len(t, results, 2)
		assert.Equal(t, "best", results[0].Text)
		assert.InDelta(t, 0.95, results[0].Score, 1e-9)
		assert.InDelta(t, 0.70, results[1].Score, 1e-9)
	})

	t.Run("normalizes the query vector before querying", func(t *testing.T) {
		st := &fakeStore{}
		s := NewSearcher(&fakeEmbedder{vec: []float32{3, 4, 0}}, st)

		s.Search(ctx, "query", Options{})
		require.Len(t, st.gotVector, 3)
		assert.InDelta(t, 0.6, st.gotVector[0], 1e-6)
		assert.InDelta(t, 0.8, st.gotVector[1], 1e-6)
	})

	t.Run("defaults top-k and passes filters through", func(t *testing.T) {
		st := &fakeStore{}
		s := NewSearcher(&fakeEmbedder{vec: []float32{1, 0, 0}}, st)

		s.Search(ctx, "query", Options{Filename: "doc.pdf", Strategy: "sentence"})
		assert.Equal(t, DefaultTopK, st.gotLimit)
		assert.Equal(t, store.Filter{Filename: "doc.pdf", Strategy: "sentence"}, st.gotFilter)

		s.Search(ctx, "query", Options{TopK: 7})
		assert.Equal(t, 7, st.gotLimit)
	})

	t.Run("blank query short-circuits", func(t *testing.T) {
		st := &fakeStore{}
		s := NewSearcher(&fakeEmbedder{err: errors.New("should not be called")}, st)

		for _, q := range []string{"", "   ", "\n"} {
			results := s.Search(ctx, q, Options{})
			assert.NotNil(t, results)
			assert.Empty(t, results)
		}
		assert.Zero(t, st.gotLimit)
	})

	t.Run("embedder failure yields empty results", func(t *testing.T) {
		s := NewSearcher(&fakeEmbedder{err: errors.New("service down")}, &fakeStore{})
		results := s.Search(ctx, "query", Options{})
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("store failure yields empty results", func(t *testing.T) {
		st := &fakeStore{err: errors.New("connection refused")}
		s := NewSearcher(&fakeEmbedder{vec: []float32{1, 0, 0}}, st)
		results := s.Search(ctx, "query", Options{})
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

// TestSearchRanking runs the full embed-normalize-query path against a
// real SQLite store with vectors of known similarity to the query.
func TestSearchRanking(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "search.db"), 3)
	require.NoError(t, err)
	defer func() {
		_ = st.Close()
	}()
	require.NoError(t, st.Setup(ctx))

	// Unit vectors with known cosine similarity against [1, 0, 0].
	unit := func(sim float64) []float32 {
		return []float32{float32(sim), float32(math.Sqrt(1 - sim*sim)), 0}
	}
	seed := []struct {
		text     string
		sim      float64
		filename string
	}{
		{"nearly identical", 0.99, "a.pdf"},
		{"very close", 0.95, "a.pdf"},
		{"related", 0.75, "a.pdf"},
		{"distant", 0.50, "a.pdf"},
		{"unrelated", 0.20, "a.pdf"},
		{"other document", 0.30, "b.pdf"},
	}
	for _, row := range seed {
		require.NoError(t, st.Insert(ctx, store.Record{
			Text:      row.text,
			Embedding: unit(row.sim),
			Filename:  row.filename,
			Strategy:  "fixed",
		}))
	}

	s := NewSearcher(&fakeEmbedder{vec: []float32{2, 0, 0}}, st)

	t.Run("top results in similarity order", func(t *testing.T) {
		results := s.Search(ctx, "query", Options{TopK: 3})
		require.Len(t, results, 3)
		assert.Equal(t, "nearly identical", results[0].Text)
		assert.Equal(t, "very close", results[1].Text)
		assert.Equal(t, "related", results[2].Text)

		for i, want := range []float64{0.99, 0.95, 0.75} {
			assert.InDelta(t, want, results[i].Score, 1e-5)
			assert.GreaterOrEqual(t, results[i].Score, 0.0)
			assert.LessOrEqual(t, results[i].Score, 1.0)
		}
	})

	t.Run("filename filter excludes other documents", func(t *testing.T) {
		results := s.Search(ctx, "query", Options{TopK: 10, Filename: "b.pdf"})
		require.Len(t, results, 1)
		assert.Equal(t, "other document", results[0].Text)
		assert.InDelta(t, 0.30, results[0].Score, 1e-5)
	})

	t.Run("top-k larger than the corpus returns everything", func(t *testing.T) {
		results := s.Search(ctx, "query", Options{TopK: 50})
		assert.Len(t, results, len(seed))
	})
}
