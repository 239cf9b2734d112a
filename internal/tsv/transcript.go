package tsv

import (
	"fmt"
	"io"

	"github.com/mulini/coordinates-mapper/internal/index"
)

// transcriptFieldCount is the fixed arity of a transcript row:
// name, chromosome, genomic start, CIGAR, strand.
const transcriptFieldCount = 5

// TranscriptReader reads transcript records from a tab-separated table.
// The first line is treated as the header and discarded.
type TranscriptReader struct {
	r          *reader
	headerRead bool
}

// NewTranscriptReader creates a reader for the given path. Missing or empty
// files fail here; this is the fatal tier of the load, distinct from
// per-row skips downstream.
func NewTranscriptReader(path string) (*TranscriptReader, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	return &TranscriptReader{r: r}, nil
}

// NewTranscriptReaderFrom creates a reader from an io.Reader (e.g. stdin).
func NewTranscriptReaderFrom(rd io.Reader) *TranscriptReader {
	return &TranscriptReader{r: newFromReader(rd)}
}

// Next reads the next transcript record. Returns nil, nil at EOF. A row with
// the wrong number of fields returns a *ParseError; the caller decides
// whether to skip it.
func (tr *TranscriptReader) Next() (*index.Record, error) {
	if !tr.headerRead {
		tr.headerRead = true
		if _, err := tr.r.next(); err != nil {
			return nil, err
		}
	}

	fields, err := tr.r.next()
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	if len(fields) != transcriptFieldCount {
		return nil, &ParseError{
			Line:    tr.r.lineNumber,
			Message: fmt.Sprintf("expected %d fields, found %d", transcriptFieldCount, len(fields)),
		}
	}

	return &index.Record{
		Name:   fields[0],
		Chrom:  fields[1],
		Start:  fields[2],
		Cigar:  fields[3],
		Strand: fields[4],
	}, nil
}

// ReadAll collects every well-formed record, returning the records together
// with the number of malformed rows encountered.
func (tr *TranscriptReader) ReadAll() (records []index.Record, malformed int, err error) {
	for {
		rec, err := tr.Next()
		if err != nil {
			if _, ok := err.(*ParseError); ok {
				malformed++
				continue
			}
			return nil, malformed, err
		}
		if rec == nil {
			return records, malformed, nil
		}
		records = append(records, *rec)
	}
}

// Close closes the underlying file.
func (tr *TranscriptReader) Close() error {
	return tr.r.Close()
}
