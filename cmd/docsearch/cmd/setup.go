package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSetupCmd creates the setup command.
func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the vector store schema",
		Long: `Setup prepares the configured backend for indexing: it creates the
chunks table (and the pgvector extension on Postgres) or the Qdrant
collection. Running setup on an already-initialized store is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadApp()
			if err != nil {
				return err
			}

			st, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to open vector store: %w", err)
			}
			defer func() {
				_ = st.Close()
			}()

			if err := st.Setup(cmd.Context()); err != nil {
				return fmt.Errorf("setup failed: %w", err)
			}

			fmt.Printf("store ready (%s backend, %d dimensions)\n", cfg.StoreBackend, cfg.EmbeddingDim)
			return nil
		},
	}
}
