package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vibecheck/vibecheck/internal/adapter"
	"github.com/vibecheck/vibecheck/internal/config"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive first-time configuration",
		Long:  "Configure API keys, the chat provider and the embedding provider for vibecheck.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := runSetup(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())

			path := cfgFile
			var err error
			if path != "" {
				err = config.SaveFile(path, cfg)
			} else {
				path, _ = config.Path()
				err = config.Save(cfg)
			}
			if err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Run `vibecheck ask \"How can I relax?\"` to try it out.")
			return nil
		},
	}
}

// runSetup walks the user through the prompts and returns the resulting config.
func runSetup(reader *bufio.Reader, out io.Writer) config.Config {
	cfg := config.Default()

	fmt.Fprintln(out, "Welcome to vibecheck! Let's configure your assistant.")
	fmt.Fprintln(out)

	// Step 1: chat provider.
	fmt.Fprintln(out, "Which LLM should answer questions?")
	fmt.Fprintln(out, "  [1] OpenAI")
	fmt.Fprintln(out, "  [2] Claude (Anthropic)")
	fmt.Fprintln(out, "  [3] Ollama (local)")
	fmt.Fprintln(out, "  [4] Gemini (Google)")
	fmt.Fprint(out, "> ")

	switch strings.TrimSpace(readLineBuf(reader)) {
	case "1", "":
		cfg.Provider = adapter.ProviderOpenAI
		fmt.Fprint(out, "Enter your OpenAI API key (or press Enter to set OPENAI_API_KEY later): ")
		if key := readLineBuf(reader); key != "" {
			cfg.Keys.OpenAI = key
		}
	case "2":
		cfg.Provider = adapter.ProviderClaude
		cfg.ChatModel = adapter.DefaultClaudeChatModel
		fmt.Fprint(out, "Enter your Anthropic API key (or press Enter to set ANTHROPIC_API_KEY later): ")
		if key := readLineBuf(reader); key != "" {
			cfg.Keys.Anthropic = key
		}
	case "3":
		cfg.Provider = adapter.ProviderOllama
	case "4":
		cfg.Provider = adapter.ProviderGemini
		cfg.ChatModel = adapter.DefaultGeminiChatModel
		fmt.Fprint(out, "Enter your Gemini API key (or press Enter to set GEMINI_API_KEY later): ")
		if key := readLineBuf(reader); key != "" {
			cfg.Keys.Gemini = key
		}
	default:
		fmt.Fprintln(out, "Unrecognized choice; defaulting to openai.")
		cfg.Provider = adapter.ProviderOpenAI
	}

	fmt.Fprintln(out)

	// Step 2: embedding provider.
	fmt.Fprintln(out, "For embeddings, use:")
	fmt.Fprintln(out, "  [1] OpenAI embeddings")
	fmt.Fprintln(out, "  [2] Local embeddings via Ollama")
	fmt.Fprintln(out, "  [3] Gemini embeddings")
	fmt.Fprint(out, "> ")

	switch strings.TrimSpace(readLineBuf(reader)) {
	case "2":
		cfg.Embedding.Provider = adapter.ProviderOllama
	case "3":
		cfg.Embedding.Provider = adapter.ProviderGemini
		if cfg.Keys.Gemini == "" {
			fmt.Fprint(out, "Enter your Gemini API key: ")
			cfg.Keys.Gemini = readLineBuf(reader)
		}
	default:
		cfg.Embedding.Provider = adapter.ProviderOpenAI
		if cfg.Keys.OpenAI == "" {
			fmt.Fprint(out, "Enter your OpenAI API key: ")
			cfg.Keys.OpenAI = readLineBuf(reader)
		}
	}

	if cfg.Provider == adapter.ProviderOllama || cfg.Embedding.Provider == adapter.ProviderOllama {
		fmt.Fprintf(out, "Ollama host (press Enter for %s): ", cfg.Ollama.Host)
		if host := readLineBuf(reader); host != "" {
			cfg.Ollama.Host = host
		}
	}

	fmt.Fprintln(out)
	return cfg
}

// readLineBuf reads a trimmed line from a bufio.Reader.
func readLineBuf(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
