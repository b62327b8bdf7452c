// Package main is the entry point for the linecat CLI.
//
// All functionality lives in the internal/cli package, which defines the
// cobra root command. Build-time variables (version, commit, date) are
// injected via ldflags during release builds and default to "dev", "none",
// and "unknown" otherwise.
package main

import (
	"github.com/shinji-kodama/linecat/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Execute maps the run outcome to the process exit status.
	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
