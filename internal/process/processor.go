package process

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shinji-kodama/linecat/internal/diag"
	"github.com/shinji-kodama/linecat/internal/model"
	"github.com/shinji-kodama/linecat/internal/source"
)

// OpenFunc opens a named input. source.Open is the production
// implementation; tests substitute their own.
type OpenFunc func(name string, stdin io.Reader) (source.LineSource, error)

// Processor streams the inputs of a Config to an output writer.
type Processor struct {
	cfg      *model.Config
	stdin    io.Reader
	out      io.Writer
	reporter *diag.Reporter
	logger   *slog.Logger
	open     OpenFunc
}

// Option customizes a Processor.
type Option func(*Processor)

// WithOpener replaces source.Open.
func WithOpener(open OpenFunc) Option {
	return func(p *Processor) {
		p.open = open
	}
}

// WithLogger sets the trace logger. The default discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// New creates a Processor for cfg. stdin backs the "-" sentinel, out
// receives line content and reporter receives diagnostics.
func New(cfg *model.Config, stdin io.Reader, out io.Writer, reporter *diag.Reporter, opts ...Option) *Processor {
	p := &Processor{
		cfg:      cfg,
		stdin:    stdin,
		out:      out,
		reporter: reporter,
		logger:   diag.NewLogger(io.Discard, false),
		open:     source.Open,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WriteError is returned by Run when the output writer fails. It is the
// only error Run returns; open and read failures are counted instead.
type WriteError struct {
	Err error
}

// Error satisfies the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write output: %v", e.Err)
}

// Unwrap returns the underlying write error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Run processes every file of the Config in order and returns the
// collected counters. The summary is valid even when an error is returned.
func (p *Processor) Run() (*model.RunSummary, error) {
	summary := &model.RunSummary{}

	p.logger.Debug("starting run",
		"files", len(p.cfg.Files),
		"mode", p.cfg.Mode().String(),
		"width", p.cfg.Width)

	for _, name := range p.cfg.Files {
		if err := p.processFile(name, summary); err != nil {
			return summary, err
		}
	}

	p.logger.Debug("run finished",
		"filesProcessed", summary.FilesProcessed,
		"filesFailed", summary.FilesFailed,
		"linesWritten", summary.LinesWritten,
		"linesFailed", summary.LinesFailed)
	return summary, nil
}

// processFile copies a single input. The source is closed before
// processFile returns, whatever the outcome.
func (p *Processor) processFile(name string, summary *model.RunSummary) error {
	src, err := p.open(name, p.stdin)
	if err != nil {
		summary.FilesFailed++
		p.reporter.FileError(name, fmt.Sprintf("failed to open %s", name), source.Reason(err))
		p.logger.Debug("skipping input", "file", name, "error", err)
		return nil
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			p.logger.Debug("closing input failed", "file", name, "error", cerr)
		}
	}()

	summary.FilesProcessed++
	p.logger.Debug("opened input", "file", src.Name())

	numberer := newNumberer(p.cfg.Mode(), p.cfg.Width)
	written := 0
	for {
		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, source.ErrInvalidEncoding) {
				summary.LinesFailed++
				p.reporter.FileError(name, lineFailure(src.Name(), err), source.Reason(err))
				continue
			}
			summary.ReadAborts++
			p.reporter.FileError(name, fmt.Sprintf("failed to read %s", src.Name()), source.Reason(err))
			break
		}

		if _, err := io.WriteString(p.out, numberer.format(line)); err != nil {
			return &WriteError{Err: err}
		}
		summary.LinesWritten++
		written++
	}

	p.logger.Debug("finished input", "file", src.Name(), "lines", written)
	return nil
}

// lineFailure builds the diagnostic message for an unreadable line,
// naming the physical line when the source reported it.
func lineFailure(name string, err error) string {
	var lineErr *source.LineError
	if errors.As(err, &lineErr) {
		return fmt.Sprintf("failed to read line %d of %s", lineErr.Line, name)
	}
	return fmt.Sprintf("failed to read line of %s", name)
}

// numberer holds the per-file line counter. It is created fresh for every
// input, so numbering restarts at 1 for each file.
type numberer struct {
	mode  model.NumberMode
	width int
	next  int
}

func newNumberer(mode model.NumberMode, width int) *numberer {
	return &numberer{mode: mode, width: width, next: 1}
}

// format renders one output line, terminator included, and advances the
// counter when the line was numbered.
func (n *numberer) format(line string) string {
	switch n.mode {
	case model.NumberAll:
		return n.numbered(line)
	case model.NumberNonblank:
		if strings.TrimSpace(line) == "" {
			return "\n"
		}
		return n.numbered(line)
	default:
		return line + "\n"
	}
}

func (n *numberer) numbered(line string) string {
	s := fmt.Sprintf("%*d\t%s\n", n.width, n.next, line)
	n.next++
	return s
}
