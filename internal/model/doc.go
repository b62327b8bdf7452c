// Package model defines the domain types and value objects for the
// linecat CLI.
//
// This package contains pure data structures with no I/O. The resolved
// run configuration (Config), the numbering mode (NumberMode) and the
// per-run counters (RunSummary) are built by the cli package and consumed
// by the process package.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
