package source

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll drains src and returns the lines read and the recoverable
// errors seen, stopping at io.EOF or the first non-recoverable error.
func readAll(t *testing.T, src LineSource) ([]string, []error) {
	t.Helper()

	var (
		lines []string
		errs  []error
	)
	for {
		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			return lines, errs
		}
		if err != nil {
			errs = append(errs, err)
			if !errors.Is(err, ErrInvalidEncoding) {
				return lines, errs
			}
			continue
		}
		lines = append(lines, line)
	}
}

// writeFile creates a file with the given content in a temp directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestReadLine_Splitting verifies line splitting on the shared reader.
func TestReadLine_Splitting(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty input", input: "", want: nil},
		{name: "single terminated line", input: "a\n", want: []string{"a"}},
		{name: "missing final terminator", input: "a\nb", want: []string{"a", "b"}},
		{name: "blank lines kept", input: "a\n\nb\n", want: []string{"a", "", "b"}},
		{name: "only terminator", input: "\n", want: []string{""}},
		{name: "crlf stripped", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "lone cr kept at end of input", input: "a\r", want: []string{"a\r"}},
		{name: "inner cr kept", input: "a\rb\n", want: []string{"a\rb"}},
		{name: "whitespace preserved", input: "  x \t\n", want: []string{"  x \t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewStdinSource(strings.NewReader(tt.input))
			lines, errs := readAll(t, src)
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, lines)
		})
	}
}

// TestReadLine_LongLine verifies that lines longer than the bufio buffer
// are returned whole.
func TestReadLine_LongLine(t *testing.T) {
	long := strings.Repeat("x", 200_000)
	src := NewStdinSource(strings.NewReader(long + "\nshort\n"))

	lines, errs := readAll(t, src)
	assert.Empty(t, errs)
	require.Len(t, lines, 2)
	assert.Equal(t, long, lines[0])
	assert.Equal(t, "short", lines[1])
}

// TestReadLine_InvalidEncoding verifies that an invalid UTF-8 line is
// reported and skipped while the following lines are still readable.
func TestReadLine_InvalidEncoding(t *testing.T) {
	src := NewStdinSource(strings.NewReader("ok\n\xff\xfe\nafter\n"))

	lines, errs := readAll(t, src)
	assert.Equal(t, []string{"ok", "after"}, lines)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidEncoding)

	var lineErr *LineError
	require.ErrorAs(t, errs[0], &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, "<stdin>", lineErr.Source)
}

// failingReader returns some data, then a non-EOF error.
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) > 0 {
		n := copy(p, r.data)
		r.data = r.data[n:]
		return n, nil
	}
	return 0, r.err
}

// TestReadLine_IOError verifies that an I/O error ends the source and
// that ReadLine reports io.EOF afterwards.
func TestReadLine_IOError(t *testing.T) {
	boom := errors.New("device unplugged")
	src := NewStdinSource(&failingReader{data: []byte("first\nparti"), err: boom})

	line, err := src.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	_, err = src.ReadLine()
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidEncoding)

	_, err = src.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

// TestOpen_Stdin verifies that the sentinel binds to the provided reader
// and that Close does not close it.
func TestOpen_Stdin(t *testing.T) {
	src, err := Open("-", strings.NewReader("from stdin\n"))
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", src.Name())

	lines, errs := readAll(t, src)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"from stdin"}, lines)
	assert.NoError(t, src.Close())
}

// TestOpen_File verifies the file-backed variant.
func TestOpen_File(t *testing.T) {
	path := writeFile(t, "in.txt", "one\ntwo\n")

	src, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, src.Name())

	lines, errs := readAll(t, src)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"one", "two"}, lines)
	require.NoError(t, src.Close())

	// A second Close reports the already-closed file.
	assert.Error(t, src.Close())
}

// TestOpen_Missing verifies that a missing path fails to open with an
// fs.ErrNotExist error.
func TestOpen_Missing(t *testing.T) {
	src, err := Open(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Nil(t, src)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

// TestOpen_Directory verifies that directories are rejected at open time.
func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()

	src, err := Open(dir, nil)
	assert.Nil(t, src)
	assert.ErrorIs(t, err, ErrIsDirectory)

	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, dir, pathErr.Path)
}

// TestReason verifies that path and line context is stripped.
func TestReason(t *testing.T) {
	t.Run("path error", func(t *testing.T) {
		err := &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}
		assert.Equal(t, fs.ErrNotExist, Reason(err))
	})

	t.Run("nested path error", func(t *testing.T) {
		inner := &fs.PathError{Op: "fstat", Path: "x", Err: fs.ErrPermission}
		err := &fs.PathError{Op: "stat", Path: "x", Err: inner}
		assert.Equal(t, fs.ErrPermission, Reason(err))
	})

	t.Run("line error", func(t *testing.T) {
		err := &LineError{Source: "x", Line: 3, Err: ErrInvalidEncoding}
		assert.Equal(t, ErrInvalidEncoding, Reason(err))
		assert.Equal(t, "x:3: stream did not contain valid UTF-8", err.Error())
	})

	t.Run("plain error", func(t *testing.T) {
		err := errors.New("plain")
		assert.Equal(t, err, Reason(err))
	})
}

// statFailingFile is a fileHandle whose Stat fails the way *os.File does.
type statFailingFile struct {
	closed bool
}

func (f *statFailingFile) Read([]byte) (int, error) { return 0, io.EOF }

func (f *statFailingFile) Close() error {
	f.closed = true
	return nil
}

func (f *statFailingFile) Stat() (fs.FileInfo, error) {
	return nil, &fs.PathError{Op: "stat", Path: "flaky.txt", Err: fs.ErrPermission}
}

// TestNewFileSource_StatError verifies that a Stat failure is returned
// unchanged, with the path named once, and that the file is closed.
func TestNewFileSource_StatError(t *testing.T) {
	f := &statFailingFile{}

	src, err := newFileSource("flaky.txt", f)
	assert.Nil(t, src)
	assert.True(t, f.closed)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "stat flaky.txt: permission denied", err.Error())

	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	var inner *fs.PathError
	assert.False(t, errors.As(pathErr.Err, &inner), "path error must not be nested")
}
