package model

import (
	"fmt"
	"strings"
)

// StdinName is the sentinel file name that designates standard input
// instead of a filesystem path.
const StdinName = "-"

// DefaultWidth is the width of the right-aligned line number field.
// It matches the six-character field of the classic cat/nl utilities.
const DefaultWidth = 6

// MaxWidth bounds the number field so that a typo in a config file
// cannot produce absurdly padded output.
const MaxWidth = 20

// NumberMode selects which lines receive a line number prefix.
type NumberMode string

const (
	// NumberNone copies lines unchanged.
	NumberNone NumberMode = "none"

	// NumberAll prefixes every line, blank lines included.
	NumberAll NumberMode = "all"

	// NumberNonblank prefixes only lines that contain non-whitespace
	// characters. Blank lines are still emitted but do not advance
	// the counter.
	NumberNonblank NumberMode = "nonblank"
)

// String returns the string representation of NumberMode.
func (m NumberMode) String() string {
	return string(m)
}

// IsValid checks whether the NumberMode value is one of the
// predefined modes.
func (m NumberMode) IsValid() bool {
	switch m {
	case NumberNone, NumberAll, NumberNonblank:
		return true
	default:
		return false
	}
}

// ParseNumberMode converts a string to a NumberMode.
// Returns an error if the string does not match any valid mode.
func ParseNumberMode(s string) (NumberMode, error) {
	mode := NumberMode(strings.ToLower(s))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid number mode: %q (valid: none, all, nonblank)", s)
	}
	return mode, nil
}

// Config is the fully resolved configuration of a single run.
//
// A Config is built once by NewConfig and never modified afterwards.
// The process package only reads it.
type Config struct {
	// Files lists the inputs in processing order. Each entry is either a
	// filesystem path or StdinName. Never empty.
	Files []string

	// NumberLines numbers every output line.
	NumberLines bool

	// NumberNonblankLines numbers only non-blank output lines.
	// Mutually exclusive with NumberLines.
	NumberNonblankLines bool

	// Width is the width of the right-aligned number field.
	Width int

	// Strict maps any per-file or per-line failure to ExitPartialFailure.
	Strict bool
}

// Option customizes a Config built by NewConfig.
type Option func(*Config)

// WithWidth overrides the number field width. Zero keeps DefaultWidth.
func WithWidth(width int) Option {
	return func(c *Config) {
		if width != 0 {
			c.Width = width
		}
	}
}

// WithStrict enables strict exit status reporting.
func WithStrict(strict bool) Option {
	return func(c *Config) {
		c.Strict = strict
	}
}

// NewConfig builds and validates a Config.
//
// An empty files slice defaults to a single StdinName entry. Requesting both
// numbering modes is a configuration error.
func NewConfig(files []string, numberLines, numberNonblank bool, opts ...Option) (*Config, error) {
	if numberLines && numberNonblank {
		return nil, fmt.Errorf("--number and --number-nonblank cannot be used together")
	}

	cfg := &Config{
		NumberLines:         numberLines,
		NumberNonblankLines: numberNonblank,
		Width:               DefaultWidth,
	}
	// Copy the slice so the caller cannot mutate the Config afterwards.
	if len(files) == 0 {
		cfg.Files = []string{StdinName}
	} else {
		cfg.Files = append([]string(nil), files...)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Width < 1 || cfg.Width > MaxWidth {
		return nil, fmt.Errorf("invalid number width %d (valid: 1-%d)", cfg.Width, MaxWidth)
	}
	return cfg, nil
}

// Mode derives the NumberMode from the two numbering flags.
func (c *Config) Mode() NumberMode {
	switch {
	case c.NumberLines:
		return NumberAll
	case c.NumberNonblankLines:
		return NumberNonblank
	default:
		return NumberNone
	}
}

// RunSummary holds the counters collected while processing a Config.
type RunSummary struct {
	// FilesProcessed counts inputs that were opened successfully.
	FilesProcessed int `json:"filesProcessed"`

	// FilesFailed counts inputs that could not be opened.
	FilesFailed int `json:"filesFailed"`

	// LinesWritten counts lines written to the output.
	LinesWritten int `json:"linesWritten"`

	// LinesFailed counts lines skipped because they could not be read.
	LinesFailed int `json:"linesFailed"`

	// ReadAborts counts inputs abandoned part-way through after an
	// I/O error.
	ReadAborts int `json:"readAborts"`
}

// HasFailures reports whether any open or read error occurred.
func (s *RunSummary) HasFailures() bool {
	return s.FilesFailed > 0 || s.LinesFailed > 0 || s.ReadAborts > 0
}

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the run completed. Per-file and per-line
	// failures still end in ExitSuccess unless strict mode is enabled.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unrecoverable runtime error, such as
	// standard output becoming unwritable.
	ExitGeneralError ExitCode = 1

	// ExitUsageError indicates invalid or conflicting arguments or an
	// invalid config file. No input has been read when this is returned.
	ExitUsageError ExitCode = 2

	// ExitPartialFailure indicates that strict mode was enabled and at
	// least one input or line could not be read.
	ExitPartialFailure ExitCode = 3
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
