// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"docsearch/internal/chunker"
	"docsearch/internal/embed"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendQdrant   = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	GeminiAPIKey     string
	EmbeddingModel   string
	EmbeddingBaseURL string
	EmbeddingDim     int

	StoreBackend string

	PostgresDSN      string
	SQLitePath       string
	QdrantURL        string
	QdrantCollection string

	FixedSize    int
	FixedOverlap int
	SentenceMax  int
	ParagraphMax int

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// for optional fields. If a .env file exists in the current directory or
// an ancestor, it is loaded first; variables already set in the
// environment take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up from the working directory so commands run from a
	// subdirectory still pick up the project's .env.
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", embed.DefaultModel),
		EmbeddingBaseURL: os.Getenv("EMBEDDING_BASE_URL"),
		StoreBackend:     getEnv("STORE_BACKEND", BackendPostgres),
		SQLitePath:       getEnv("DB_PATH", "./data/docsearch.db"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "chunks"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.EmbeddingDim, err = getEnvInt("EMBEDDING_DIM", embed.DefaultDimension); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDim <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIM must be greater than 0")
	}

	if cfg.FixedSize, err = getEnvInt("CHUNK_FIXED_SIZE", chunker.DefaultFixedSize); err != nil {
		return nil, err
	}
	if cfg.FixedOverlap, err = getEnvInt("CHUNK_FIXED_OVERLAP", chunker.DefaultFixedOverlap); err != nil {
		return nil, err
	}
	if cfg.SentenceMax, err = getEnvInt("CHUNK_SENTENCE_MAX", chunker.DefaultSentenceMax); err != nil {
		return nil, err
	}
	if cfg.ParagraphMax, err = getEnvInt("CHUNK_PARAGRAPH_MAX", chunker.DefaultParagraphMax); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.PostgresDSN, err = postgresDSN(); err != nil {
			return nil, err
		}
	case BackendSQLite:
		dataDir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	case BackendQdrant:
		// Defaults suffice.
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be one of %s, %s, %s; got %q",
			BackendPostgres, BackendSQLite, BackendQdrant, cfg.StoreBackend)
	}

	return cfg, nil
}

// RequireEmbedding validates the settings the embedding client needs.
// Store-only commands (setup, reset) work without them.
func (c *Config) RequireEmbedding() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// ChunkerOptions returns the configured chunker size settings.
func (c *Config) ChunkerOptions() chunker.Options {
	return chunker.Options{
		FixedSize:    c.FixedSize,
		FixedOverlap: c.FixedOverlap,
		SentenceMax:  c.SentenceMax,
		ParagraphMax: c.ParagraphMax,
	}
}

// postgresDSN prefers DATABASE_URL and otherwise assembles a DSN from the
// discrete POSTGRES_* variables.
func postgresDSN() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}
	user := os.Getenv("POSTGRES_USER")
	db := os.Getenv("POSTGRES_DB")
	if user == "" || db == "" {
		return "", fmt.Errorf("postgres backend requires DATABASE_URL, or POSTGRES_USER and POSTGRES_DB")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		user,
		os.Getenv("POSTGRES_PASSWORD"),
		db,
		getEnv("POSTGRES_SSLMODE", "disable"),
	), nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", s)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}
