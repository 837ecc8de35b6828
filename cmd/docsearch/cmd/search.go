package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"docsearch/internal/chunker"
	"docsearch/internal/search"
)

const snippetLen = 300

// newSearchCmd creates the search command.
func newSearchCmd() *cobra.Command {
	var (
		filename string
		strategy string
		topK     int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed chunks by semantic similarity",
		Long: `Search embeds the query and returns the most similar stored chunks,
ranked by cosine similarity. Results can be filtered by source
filename and by the strategy the chunks were split with.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadApp()
			if err != nil {
				return err
			}

			if strategy != "" {
				if _, err := chunker.ParseStrategy(strategy); err != nil {
					return err
				}
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

			searcher := search.NewSearcher(embedder, st)
			results := searcher.Search(cmd.Context(), strings.Join(args, " "), search.Options{
				TopK:     topK,
				Filename: filename,
				Strategy: strategy,
			})

			if len(results) == 0 {
				fmt.Println("no results")
				return nil
			}

			for i, r := range results {
				fmt.Printf("\n[%d] Score: %.4f | File: %s, Strategy: %s\n",
					i+1, r.Score, r.Filename, r.Strategy)
				fmt.Println(truncate(r.Text, snippetLen))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filename, "filename", "f", "", "only search chunks from this source file")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "only search chunks split with this strategy")
	cmd.Flags().IntVarP(&topK, "top-k", "k", search.DefaultTopK, "number of results to return")

	return cmd
}

// truncate shortens s to at most n runes, appending "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
