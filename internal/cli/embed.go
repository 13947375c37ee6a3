package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vibecheck/vibecheck/internal/app"
	"github.com/vibecheck/vibecheck/internal/config"
	"github.com/vibecheck/vibecheck/internal/embedding"
)

type embedLine struct {
	Index  int       `json:"index"`
	Source string    `json:"source,omitempty"`
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

func newEmbedCmd() *cobra.Command {
	var (
		batchSize   int
		maxInFlight int
		sequential  bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "embed [file|dir]",
		Short: "Embed one text per line from a file or stdin, or every passage of a directory",
		Long: `Embed every non-blank line of the input. A directory is walked instead
(honouring its .gitignore) and its text files are split into passages.

Lines are split into batches of at most --batch-size texts which are sent to
the embedding backend concurrently; vectors come back in input order.

Examples:
  vibecheck embed notes.txt
  cat notes.txt | vibecheck embed --json > vectors.jsonl
  vibecheck embed notes.txt --batch-size 64 --max-in-flight 4
  vibecheck embed ./journal --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			texts, labels, err := readInputs(path)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if batchSize != 0 {
				cfg.Embedding.BatchSize = batchSize
			}
			if maxInFlight != 0 {
				cfg.Embedding.MaxInFlight = maxInFlight
			}

			var opts []embedding.Option
			bar := newChunkBar(cfg, len(texts))
			if bar != nil {
				opts = append(opts, embedding.WithChunkHook(func(embedding.ChunkResult) { _ = bar.Add(1) }))
			}

			b, err := app.NewBatcher(cfg, nil, opts...)
			if err != nil {
				return fmt.Errorf("init embedder: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			start := time.Now()
			var vecs [][]float32
			if sequential {
				vecs, err = b.EmbedSequential(ctx, texts)
			} else {
				vecs, err = b.EmbedConcurrent(ctx, texts)
			}
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				for i, v := range vecs {
					line := embedLine{Index: i, Text: texts[i], Vector: v}
					if labels[i] != texts[i] {
						line.Source = labels[i]
					}
					if err := enc.Encode(line); err != nil {
						return err
					}
				}
				return nil
			}

			dim := 0
			if len(vecs) > 0 {
				dim = len(vecs[0])
			}
			chunks := len(embedding.Partition(texts, b.BatchSize()))
			fmt.Fprintf(out, "Embedded %d texts (dimension %d) in %d chunk(s) with %s, %s\n",
				len(vecs), dim, chunks, b.Model(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "maximum texts per backend call (default from config)")
	cmd.Flags().IntVar(&maxInFlight, "max-in-flight", 0, "maximum concurrent backend calls (0 = unlimited)")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "send every text in a single backend call")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per vector")

	return cmd
}

// newChunkBar returns a progress bar over the job's chunks, or nil when
// stderr is not a terminal.
func newChunkBar(cfg config.Config, n int) *progressbar.ProgressBar {
	if n == 0 || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	size := cfg.Embedding.BatchSize
	if size <= 0 {
		size = embedding.DefaultBatchSize
	}
	return progressbar.NewOptions((n+size-1)/size,
		progressbar.OptionSetDescription("  Embedding chunks"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
