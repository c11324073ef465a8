package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/entrypoint"
)

// ServeCommand starts the web application.
func ServeCommand(info BuildInfo, loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Starts the HTTP server. Configuration is read from environment variables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(loadConfig(), info.Version)
		},
	}
}
