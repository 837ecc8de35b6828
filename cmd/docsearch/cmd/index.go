package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docsearch/internal/chunker"
	"docsearch/internal/extract"
	"docsearch/internal/indexer"
)

// newIndexCmd creates the index command.
func newIndexCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "index <file>",
		Short: "Extract, chunk, embed, and store a document",
		Long: `Index extracts text from a PDF or DOCX file, splits it into chunks
using the chosen strategy, embeds each chunk, and stores the
embeddings in the vector store.

Chunks whose embedding or storage fails are skipped and reported;
the rest of the document is still indexed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadApp()
			if err != nil {
				return err
			}

			embedder, err := newEmbedder(cfg)
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

			pipeline := indexer.NewPipeline(extract.New(), embedder, st, cfg.ChunkerOptions())
			report, err := pipeline.Process(cmd.Context(), args[0], strategy)
			if err != nil {
				return err
			}

			fmt.Printf("indexed %s: %d chunks, %d stored, %d failed\n",
				report.Filename, report.Chunks, report.Stored, len(report.Failures))
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(chunker.Fixed),
		fmt.Sprintf("chunking strategy (%s)", strings.Join(chunker.Strategies(), ", ")))

	return cmd
}
