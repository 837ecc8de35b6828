// Package cmd provides the CLI commands for docsearch.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"docsearch/internal/config"
	"docsearch/internal/embed"
	"docsearch/internal/store"
)

// NewRootCmd creates the root command for the docsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docsearch",
		Short: "Semantic search over PDF and DOCX documents",
		Long: `Docsearch indexes PDF and DOCX documents into a vector store and
searches them by semantic similarity.

Documents are split into chunks (fixed windows, sentences, or
paragraphs), embedded via the Gemini embeddings API, and stored in
Postgres (pgvector), SQLite, or Qdrant.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSetupCmd())
	cmd.AddCommand(newResetCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadApp loads configuration and installs the default logger.
// Logs go to stderr so command output on stdout stays clean.
func loadApp() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	return cfg, nil
}

// newStore opens the configured vector store backend.
func newStore(ctx context.Context, cfg *config.Config) (store.VectorStore, error) {
	var (
		st  store.VectorStore
		err error
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		st, err = store.NewPostgresStore(ctx, cfg.PostgresDSN, cfg.EmbeddingDim)
	case config.BackendSQLite:
		st, err = store.NewSQLiteStore(cfg.SQLitePath, cfg.EmbeddingDim)
	case config.BackendQdrant:
		st, err = store.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection, cfg.EmbeddingDim)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// newEmbedder builds the embedding client, validating required settings.
func newEmbedder(cfg *config.Config) (*embed.Client, error) {
	if err := cfg.RequireEmbedding(); err != nil {
		return nil, err
	}
	client := embed.NewClient(cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDim)
	if cfg.EmbeddingBaseURL != "" {
		client.BaseURL = cfg.EmbeddingBaseURL
	}
	return client, nil
}
