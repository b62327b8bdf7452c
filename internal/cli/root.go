// Package cli implements the cobra-based command line interface of linecat.
//
// linecat has a single root command. This file defines it, binds its flags,
// resolves them (together with the optional defaults file) into a
// model.Config, and maps the outcome of a run to a process exit code.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/linecat/internal/config"
	"github.com/shinji-kodama/linecat/internal/diag"
	"github.com/shinji-kodama/linecat/internal/model"
	"github.com/shinji-kodama/linecat/internal/process"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// rootFlags holds the flag values of the root command.
// A fresh instance is bound for every NewRootCommand call, so commands
// created in tests do not share state.
type rootFlags struct {
	// numberLines numbers every output line (-n).
	numberLines bool

	// numberNonblank numbers only non-blank output lines (-b).
	numberNonblank bool

	// configPath points to an optional YAML/JSONC defaults file.
	configPath string

	// strict maps partial failures to ExitPartialFailure.
	strict bool

	// jsonOutput formats diagnostics as JSON objects.
	jsonOutput bool

	// verbose enables trace logging on stderr.
	verbose bool
}

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "linecat [FILES...]",
		Short: "Concatenate files to standard output, optionally numbering lines",
		Long: `linecat writes each FILE to standard output, in order.

With no FILE, or when FILE is -, standard input is read.
A file that cannot be opened, or a line that cannot be read, is reported on
standard error and skipped; the remaining input is still processed.

Examples:
  linecat notes.txt
  linecat -n main.go
  linecat -b header.txt - footer.txt < body.txt
  linecat --config ~/.config/linecat.yaml report.txt`,

		Args: cobra.ArbitraryArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// SilenceErrors lets Run format errors itself (text or JSON).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, flags, args)
		},
	}

	f := rootCmd.Flags()
	f.BoolVarP(&flags.numberLines, "number", "n", false, "Number all output lines")
	f.BoolVarP(&flags.numberNonblank, "number-nonblank", "b", false,
		"Number non-blank output lines (cannot be combined with --number)")
	f.StringVar(&flags.configPath, "config", "", "Defaults file, YAML or JSONC")
	f.BoolVar(&flags.strict, "strict", false,
		"Exit with status 3 if any file or line could not be read")
	f.BoolVar(&flags.jsonOutput, "json", false, "Write diagnostics as JSON")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")

	// Flag parse errors (unknown flag, bad value) are usage errors.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return model.WrapCLIError(model.ExitUsageError, "invalid arguments", err)
	})

	return rootCmd
}

// runRoot resolves the configuration and runs the line processor.
func runRoot(cmd *cobra.Command, flags *rootFlags, args []string) error {
	logger := diag.NewLogger(cmd.ErrOrStderr(), flags.verbose)

	cfg, err := resolveConfig(flags, args)
	if err != nil {
		return err
	}
	logger.Debug("resolved configuration",
		"files", cfg.Files,
		"mode", cfg.Mode().String(),
		"width", cfg.Width,
		"strict", cfg.Strict)

	reporter := diag.NewReporter(cmd.ErrOrStderr(), flags.jsonOutput)
	p := process.New(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), reporter, process.WithLogger(logger))

	summary, err := p.Run()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "output failed", err)
	}

	if cfg.Strict && summary.HasFailures() {
		return model.NewCLIError(model.ExitPartialFailure,
			fmt.Sprintf("%d file(s) could not be opened, %d file(s) could not be fully read, %d line(s) could not be read",
				summary.FilesFailed, summary.ReadAborts, summary.LinesFailed))
	}
	return nil
}

// resolveConfig merges the command line with the optional defaults file.
//
// The flag conflict is checked first, so that no file is touched when the
// arguments are already invalid. The defaults file is read only when
// --config names it. A numbering flag on the command line replaces the
// file's numbering mode entirely; the file's mode is used only when neither
// -n nor -b is given. Every failure is a usage error and happens before any
// input is opened.
func resolveConfig(flags *rootFlags, args []string) (*model.Config, error) {
	if flags.numberLines && flags.numberNonblank {
		return nil, model.NewCLIError(model.ExitUsageError,
			"invalid arguments: --number and --number-nonblank cannot be used together")
	}

	defaults := &config.File{}
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitUsageError, "failed to load config", err)
		}
		defaults = loaded
	}

	numberLines, numberNonblank := flags.numberLines, flags.numberNonblank
	if !numberLines && !numberNonblank {
		mode := defaults.NumberMode()
		numberLines, numberNonblank = mode == model.NumberAll, mode == model.NumberNonblank
	}

	cfg, err := model.NewConfig(args, numberLines, numberNonblank,
		model.WithWidth(defaults.Width),
		model.WithStrict(flags.strict || defaults.Strict),
	)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUsageError, "invalid arguments", err)
	}
	return cfg, nil
}

// Run executes rootCmd and returns the exit code for its outcome.
// Errors are written to the command's error stream, as JSON when the
// --json flag was parsed.
func Run(rootCmd *cobra.Command) model.ExitCode {
	err := rootCmd.Execute()
	if err == nil {
		return model.ExitSuccess
	}

	jsonOutput, _ := rootCmd.Flags().GetBool("json")
	reporter := diag.NewReporter(rootCmd.ErrOrStderr(), jsonOutput)

	var cliErr *model.CLIError
	if !errors.As(err, &cliErr) {
		// Errors cobra raises itself (e.g. argument validation) carry no
		// exit code of their own.
		cliErr = model.NewCLIError(model.ExitUsageError, err.Error())
	}

	reporter.Fatal(int(cliErr.Code), cliErr.Message, cliErr.Err)
	if cliErr.Code == model.ExitUsageError && !jsonOutput {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Run '%s --help' for usage.\n", rootCmd.Name())
	}
	return cliErr.Code
}

// Execute runs the root command and exits the process with the mapped
// exit code. This is the entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	os.Exit(int(Run(rootCmd)))
}
