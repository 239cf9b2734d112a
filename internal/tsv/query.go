package tsv

import (
	"fmt"
	"io"
	"strings"
)

// Query table column names.
const (
	ColType            = "Type"
	ColTranscript      = "Transcript"
	ColTranscriptCoord = "Transcript_Coord"
	ColChromosome      = "Chromosome"
	ColGenomeCoord     = "Genome_Coord"
)

// columnIndices holds the positions of the query table columns.
type columnIndices struct {
	typ             int
	transcript      int
	transcriptCoord int
	chromosome      int
	genomeCoord     int
}

// QueryRow is one raw query row. Fields are unparsed strings; the query
// engine validates them so a malformed row can be skipped without aborting
// the batch.
type QueryRow struct {
	Line            int // source line number, for warnings
	Type            string
	Transcript      string
	TranscriptCoord string
	Chromosome      string
	GenomeCoord     string
}

// QueryReader reads query rows from a tab-separated table with named header
// columns.
type QueryReader struct {
	r       *reader
	columns columnIndices
	started bool
}

// NewQueryReader creates a reader for the given path. Missing or empty files
// fail with the underlying error or ErrEmptySource.
func NewQueryReader(path string) (*QueryReader, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	return &QueryReader{r: r}, nil
}

// NewQueryReaderFrom creates a reader from an io.Reader.
func NewQueryReaderFrom(rd io.Reader) *QueryReader {
	return &QueryReader{r: newFromReader(rd)}
}

// readHeader locates the required columns in the header line.
func (qr *QueryReader) readHeader() error {
	fields, err := qr.r.next()
	if err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("query table: %w", ErrEmptySource)
	}

	idx := columnIndices{typ: -1, transcript: -1, transcriptCoord: -1, chromosome: -1, genomeCoord: -1}
	for i, name := range fields {
		switch strings.TrimSpace(name) {
		case ColType:
			idx.typ = i
		case ColTranscript:
			idx.transcript = i
		case ColTranscriptCoord:
			idx.transcriptCoord = i
		case ColChromosome:
			idx.chromosome = i
		case ColGenomeCoord:
			idx.genomeCoord = i
		}
	}

	if idx.typ < 0 {
		return &ParseError{Line: qr.r.lineNumber, Message: "missing required column " + ColType}
	}

	qr.columns = idx
	return nil
}

// Next reads the next query row. Returns nil, nil at EOF. Rows shorter than
// the header are padded with empty fields; validation is left to the engine.
func (qr *QueryReader) Next() (*QueryRow, error) {
	if !qr.started {
		qr.started = true
		if err := qr.readHeader(); err != nil {
			return nil, err
		}
	}

	fields, err := qr.r.next()
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	get := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	return &QueryRow{
		Line:            qr.r.lineNumber,
		Type:            get(qr.columns.typ),
		Transcript:      get(qr.columns.transcript),
		TranscriptCoord: get(qr.columns.transcriptCoord),
		Chromosome:      get(qr.columns.chromosome),
		GenomeCoord:     get(qr.columns.genomeCoord),
	}, nil
}

// Close closes the underlying file.
func (qr *QueryReader) Close() error {
	return qr.r.Close()
}
