package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vibecheck/vibecheck/internal/app"
	"github.com/vibecheck/vibecheck/internal/assistant"
	"github.com/vibecheck/vibecheck/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve vibecheck tools over MCP (stdio)",
		Long: `Start an MCP server on stdin/stdout exposing the tools:

  ask             ask the wellness assistant
  render_prompt   fill a {name} template and return the message
  embed           embed a list of texts concurrently

Logs go to stderr so they never corrupt the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := app.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			backend, err := app.NewBackend(cfg, nil)
			if err != nil {
				return fmt.Errorf("init LLM adapter: %w", err)
			}

			var embedder mcp.BatchEmbedder
			if b, err := app.NewBatcher(cfg, nil); err != nil {
				logger.Warn("embed tool disabled", zap.Error(err))
			} else {
				embedder = b
			}

			return mcp.NewServer(version, assistant.New(backend), embedder, logger).ServeStdio()
		},
	}
}
