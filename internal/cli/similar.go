package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vibecheck/vibecheck/internal/app"
	"github.com/vibecheck/vibecheck/internal/embedding"
)

func newSimilarCmd() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "similar <query> [file|dir]",
		Short: "Rank lines of a file, or passages of a directory, by similarity to a query",
		Long: `Embed the query and every non-blank line of the input, then print the
closest lines first. A directory is split into passages and each result is
labelled with its file and line range.

Examples:
  vibecheck similar "breathing exercise" tips.txt
  cat tips.txt | vibecheck similar "sleep" --top 3
  vibecheck similar "morning routine" ./journal`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 2 {
				path = args[1]
			}
			candidates, labels, err := readInputs(path)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				return fmt.Errorf("no candidate lines to rank")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			b, err := app.NewBatcher(cfg, nil)
			if err != nil {
				return fmt.Errorf("init embedder: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			query, err := b.EmbedOne(ctx, args[0])
			if err != nil {
				return err
			}
			vecs, err := b.EmbedConcurrent(ctx, candidates)
			if err != nil {
				return err
			}

			matches, err := embedding.Rank(query, vecs)
			if err != nil {
				return err
			}
			printMatches(cmd, matches, labels, topK)
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top", "k", 5, "number of results to print (0 = all)")

	return cmd
}

func printMatches(cmd *cobra.Command, matches []embedding.Match, labels []string, topK int) {
	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	out := cmd.OutOrStdout()
	for _, m := range matches {
		fmt.Fprintf(out, "%.4f  %s\n", m.Score, labels[m.Index])
	}
}
