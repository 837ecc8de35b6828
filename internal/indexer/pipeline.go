// Package indexer sequences extraction, chunking, embedding and storage
// for one document at a time.
package indexer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"docsearch/internal/chunker"
	"docsearch/internal/contextutil"
	"docsearch/internal/embed"
	"docsearch/internal/extract"
	"docsearch/internal/store"
)

// ChunkFailure records one chunk that could not be embedded or stored.
type ChunkFailure struct {
	Index int
	Err   error
}

// Report summarizes one Process run. A failed chunk is skipped, not
// fatal; the caller decides whether partial failure matters.
type Report struct {
	Filename string
	Strategy chunker.Strategy
	Chunks   int
	Stored   int
	Failures []ChunkFailure
}

// Pipeline wires the collaborators for document ingestion.
type Pipeline struct {
	extractor extract.Extractor
	embedder  embed.Embedder
	store     store.VectorStore
	opts      chunker.Options
}

func NewPipeline(extractor extract.Extractor, embedder embed.Embedder, st store.VectorStore, opts chunker.Options) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		store:     st,
		opts:      opts,
	}
}

// Process extracts text from the document at path, splits it with the
// named strategy, embeds each chunk and persists the results tagged with
// the source filename and strategy. An unknown strategy, extraction
// failure or invalid chunker parameter is fatal; a single chunk's
// embedding or storage failure is logged, recorded in the report and
// skipped.
func (p *Pipeline) Process(ctx context.Context, path, strategy string) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	strat, err := chunker.ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "reading file", "path", path)
	text, err := p.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	logger.InfoContext(ctx, "splitting text", "strategy", strat)
	chunks, err := chunker.Split(text, strat, p.opts)
	if err != nil {
		return nil, err
	}
	chunks = dropBlank(chunks)

	filename := filepath.Base(path)
	report := &Report{Filename: filename, Strategy: strat, Chunks: len(chunks)}

	logger.InfoContext(ctx, "embedding chunks", "count", len(chunks))
	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		vec, err := p.embedder.Embed(ctx, chunk)
		if err != nil {
			logger.WarnContext(ctx, "failed to embed chunk, skipping", "index", i, "error", err)
			report.Failures = append(report.Failures, ChunkFailure{Index: i, Err: err})
			continue
		}

		rec := store.Record{
			Text:      chunk,
			Embedding: embed.L2Normalize(vec),
			Filename:  filename,
			Strategy:  string(strat),
		}
		if err := p.store.Insert(ctx, rec); err != nil {
			logger.WarnContext(ctx, "failed to store chunk, skipping", "index", i, "error", err)
			report.Failures = append(report.Failures, ChunkFailure{Index: i, Err: err})
			continue
		}
		report.Stored++
	}

	logger.InfoContext(ctx, "indexing completed",
		"file", filename,
		"strategy", strat,
		"chunks", report.Chunks,
		"stored", report.Stored,
		"failed", len(report.Failures),
	)
	return report, nil
}

// dropBlank removes residual empty or whitespace-only chunks. The
// chunkers never emit them, but the pipeline guarantee does not depend
// on that.
func dropBlank(chunks []string) []string {
	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}
