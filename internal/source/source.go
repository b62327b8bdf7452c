package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/shinji-kodama/linecat/internal/model"
)

// stdinLabel is the display name of the standard input source.
const stdinLabel = "<stdin>"

var (
	// ErrInvalidEncoding is returned by ReadLine when a line is not valid
	// UTF-8. The offending line has been consumed, so the caller may keep
	// reading from the same source.
	ErrInvalidEncoding = errors.New("stream did not contain valid UTF-8")

	// ErrIsDirectory is returned by Open when the path names a directory.
	ErrIsDirectory = errors.New("is a directory")
)

// LineSource yields the lines of one input, one at a time.
//
// ReadLine returns io.EOF once the input is exhausted. An error wrapping
// ErrInvalidEncoding is local to a single line; any other error means the
// rest of the input cannot be read.
type LineSource interface {
	// Name returns the display name of the source, as given by the user.
	Name() string

	// ReadLine returns the next line without its terminator.
	ReadLine() (string, error)

	// Close releases the source. It is safe to call once per source.
	Close() error
}

// LineError describes a single line that could not be read.
type LineError struct {
	// Source is the display name of the input.
	Source string

	// Line is the 1-based physical line number within the input,
	// counting every terminator seen, including lines that failed.
	Line int

	// Err is the underlying cause, typically ErrInvalidEncoding.
	Err error
}

// Error satisfies the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

// Unwrap returns the underlying cause for use with errors.Is.
func (e *LineError) Unwrap() error {
	return e.Err
}

// lineReader implements the line splitting shared by both variants.
type lineReader struct {
	name     string
	reader   *bufio.Reader
	physical int
	done     bool
}

func newLineReader(name string, r io.Reader) lineReader {
	return lineReader{name: name, reader: bufio.NewReader(r)}
}

// Name returns the display name of the source.
func (l *lineReader) Name() string {
	return l.name
}

// ReadLine reads up to and including the next "\n" and strips the
// terminator. bufio.Reader.ReadString is used instead of bufio.Scanner
// so that arbitrarily long lines are accepted.
func (l *lineReader) ReadLine() (string, error) {
	if l.done {
		return "", io.EOF
	}

	raw, err := l.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.done = true
			return "", err
		}
		// The last line may lack a terminator; it is still a line.
		l.done = true
		if raw == "" {
			return "", io.EOF
		}
	}
	l.physical++

	if strings.HasSuffix(raw, "\n") {
		raw = strings.TrimSuffix(raw, "\n")
		raw = strings.TrimSuffix(raw, "\r")
	}

	if !utf8.ValidString(raw) {
		return "", &LineError{Source: l.name, Line: l.physical, Err: ErrInvalidEncoding}
	}
	return raw, nil
}

// stdinSource reads from standard input. Standard input is shared with
// the rest of the process, so Close leaves it open.
type stdinSource struct {
	lineReader
}

// NewStdinSource wraps r as the standard-input variant of LineSource.
func NewStdinSource(r io.Reader) LineSource {
	return &stdinSource{lineReader: newLineReader(stdinLabel, r)}
}

// Close is a no-op for standard input.
func (s *stdinSource) Close() error {
	return nil
}

// fileHandle is the subset of *os.File used by fileSource.
type fileHandle interface {
	io.ReadCloser
	Stat() (fs.FileInfo, error)
}

// fileSource reads from a file opened by Open.
type fileSource struct {
	lineReader
	file fileHandle
}

// Close closes the underlying file.
func (s *fileSource) Close() error {
	return s.file.Close()
}

// Open selects the LineSource variant for name.
//
// The sentinel model.StdinName binds to stdin; any other name is opened as
// a file. Directories are rejected up front so that the caller sees an open
// error instead of a read error on the first line.
func Open(name string, stdin io.Reader) (LineSource, error) {
	if name == model.StdinName {
		return NewStdinSource(stdin), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return newFileSource(name, f)
}

// newFileSource wraps an open file, closing it again when it cannot be
// read line by line. Errors from Stat already carry the path and are
// returned as-is.
func newFileSource(name string, f fileHandle) (LineSource, error) {
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrIsDirectory}
	}

	return &fileSource{lineReader: newLineReader(name, f), file: f}, nil
}

// Reason strips the path context from err so that diagnostics can name
// the file once, e.g. "no such file or directory" instead of
// "open missing.txt: no such file or directory".
func Reason(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return Reason(pathErr.Err)
	}
	var lineErr *LineError
	if errors.As(err, &lineErr) {
		return lineErr.Err
	}
	return err
}
