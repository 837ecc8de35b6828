package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newResetCmd creates the reset command.
func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all indexed chunks",
		Long: `Reset removes every stored chunk from the configured backend. The
schema (or Qdrant collection) is recreated empty, so indexing can
start over without running setup again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all indexed data; re-run with --yes to confirm")
			}

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

			if err := st.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}

			fmt.Printf("store cleared (%s backend)\n", cfg.StoreBackend)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion of all indexed data")

	return cmd
}
