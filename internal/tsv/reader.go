// Package tsv provides streaming readers for the tab-separated transcript
// and query tables.
package tsv

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmptySource is returned when a source file exists but contains no data.
var ErrEmptySource = errors.New("source file is empty")

// ParseError represents an error on a single table row with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tsv parse error at line %d: %s", e.Line, e.Message)
}

// reader wraps a line-oriented tab-separated source. Supports plain and
// gzipped files, plus "-" for stdin.
type reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// open prepares a reader for the given path. Missing files fail with the
// underlying os error; zero-length files fail with ErrEmptySource.
func open(path string) (*reader, error) {
	if path == "-" {
		return &reader{reader: bufio.NewReader(os.Stdin)}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("open table %s: %w", path, ErrEmptySource)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}

	r := &reader{file: file}

	// Check for gzip magic number (0x1f, 0x8b)
	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil {
		file.Close()
		return nil, fmt.Errorf("read table header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek table: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	return r, nil
}

// newFromReader wraps an arbitrary io.Reader, e.g. stdin or a test buffer.
func newFromReader(rd io.Reader) *reader {
	return &reader{reader: bufio.NewReader(rd)}
}

// next returns the fields of the next non-empty line, or nil at EOF.
func (r *reader) next() ([]string, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read table line: %w", err)
		}
		if line == "" && err == io.EOF {
			return nil, nil
		}
		r.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err == io.EOF {
				return nil, nil
			}
			continue // skip blank lines
		}

		return strings.Split(line, "\t"), nil
	}
}

// Close closes the reader and the underlying file.
func (r *reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
