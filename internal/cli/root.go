// Package cli defines the booknotes command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/booknotes/internal/config"
)

// BuildInfo is stamped at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

// RootCommand creates the root command. Running it without a subcommand
// starts the HTTP server.
func RootCommand(info BuildInfo, loadConfig func() *config.Config) *cobra.Command {
	serveCmd := ServeCommand(info, loadConfig)

	rootCmd := &cobra.Command{
		Use:           "booknotes",
		Short:         "Track books you have read and the notes you took",
		Version:       info.Version + " (" + info.Commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}

	rootCmd.AddCommand(
		serveCmd,
		BooksCommand(loadConfig),
	)

	return rootCmd
}
