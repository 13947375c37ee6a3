package cli

import (
	"github.com/spf13/cobra"

	"github.com/vibecheck/vibecheck/internal/app"
)

func newServeCmd() *cobra.Command {
	var (
		addr         string
		systemPrompt string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wellness assistant over HTTP",
		Long: `Start the HTTP service.

Endpoints:
  POST /api/wellness   {"question": "..."} -> {"response": "..."}
  POST /               same as /api/wellness
  GET  /healthz        health check
  GET  /metrics        Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			if systemPrompt != "" {
				cfg.Server.SystemPromptFile = systemPrompt
			}
			return app.Run(cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&systemPrompt, "system-prompt", "", "file holding the system prompt; reloaded on change")

	return cmd
}
