// Package cli defines the Cobra command tree for the vibecheck CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vibecheck/vibecheck/internal/config"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"

	// cfgFile overrides the global config path.
	cfgFile string
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vibecheck",
	Short: "Wellness assistant and prompt/embedding toolkit",
	Long: `vibecheck answers wellness questions through a configurable LLM backend.

It also renders {name}-style prompt templates, embeds large text sets in
bounded concurrent batches, and serves the assistant over HTTP or MCP.

Run 'vibecheck setup' to configure API keys and providers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/vibecheck/config.toml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newAskCmd(),
		newEmbedCmd(),
		newSimilarCmd(),
		newRenderCmd(),
		newMCPCmd(),
		newSetupCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibecheck %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// loadConfig reads --config when set, else the global config.
func loadConfig() (config.Config, error) {
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	return config.Load()
}
