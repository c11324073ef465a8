package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/booknotes/internal/cli"
	"github.com/mrlokans/booknotes/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	root := cli.RootCommand(cli.BuildInfo{Version: Version, Commit: Commit}, config.NewConfig)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
