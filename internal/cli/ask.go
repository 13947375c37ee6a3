package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vibecheck/vibecheck/internal/app"
	"github.com/vibecheck/vibecheck/internal/assistant"
	"github.com/vibecheck/vibecheck/internal/tokenizer"
)

func newAskCmd() *cobra.Command {
	var (
		provider   string
		model      string
		systemFile string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the wellness assistant a question",
		Long: `Send a question to the configured LLM with the wellness system prompt.

Examples:
  vibecheck ask "I feel stressed before exams, what can I do?"
  vibecheck ask "Quick energy boost?" --provider claude
  vibecheck ask "How do I sleep better?" --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.Provider = provider
			}
			if model != "" {
				cfg.ChatModel = model
				cfg.Ollama.ChatModel = model
			}

			var opts []assistant.Option
			if systemFile != "" {
				data, err := os.ReadFile(systemFile)
				if err != nil {
					return fmt.Errorf("read system prompt: %w", err)
				}
				opts = append(opts, assistant.WithSystemPrompt(strings.TrimSpace(string(data))))
			}

			out := cmd.OutOrStdout()

			if dryRun {
				msgs, err := assistant.New(nil, opts...).Messages(question)
				if err != nil {
					return err
				}
				for _, m := range msgs {
					fmt.Fprintf(out, "=== %s ===\n%s\n", m.Role, m.Content)
				}
				tok, err := tokenizer.New()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n--- ~%d prompt tokens ---\n", tok.CountMessages(msgs))
				return nil
			}

			backend, err := app.NewBackend(cfg, nil)
			if err != nil {
				return fmt.Errorf("init LLM adapter: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			answer, err := assistant.New(backend, opts...).Query(ctx, question)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "LLM provider override: openai, claude, ollama, gemini")
	cmd.Flags().StringVarP(&model, "model", "m", "", "chat model override")
	cmd.Flags().StringVar(&systemFile, "system-file", "", "read the system prompt from a file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the composed messages without calling the LLM")

	return cmd
}
