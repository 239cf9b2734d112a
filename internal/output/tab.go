// Package output provides result table formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mulini/coordinates-mapper/internal/query"
)

// NotFound is the literal rendered for both sides of a missing pair.
const NotFound = "Not Found"

// TabWriter writes query results in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited result writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"Type",
			"Transcript",
			"Transcript_Coord",
			"Chromosome",
			"Genome_Coord",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single result row. The query side of the row echoes the
// input; the looked-up side renders the resolved pair, or "Not Found" on
// both fields when the lookup missed.
func (tw *TabWriter) Write(r query.Result) error {
	var transcript, transcriptCoord, chrom, genomeCoord string

	switch r.Query.Kind {
	case query.TranscriptToGenome:
		transcript = r.Query.Transcript
		transcriptCoord = strconv.FormatInt(r.Query.TranscriptPos, 10)
		if r.Found {
			chrom = r.Chrom
			genomeCoord = r.Entry.String()
		} else {
			chrom = NotFound
			genomeCoord = NotFound
		}
	case query.GenomeToTranscript:
		chrom = r.Query.Chrom
		genomeCoord = strconv.FormatInt(r.Query.GenomePos, 10)
		if r.Found {
			transcript = r.Transcript
			transcriptCoord = strconv.FormatInt(r.TranscriptPos, 10)
		} else {
			transcript = NotFound
			transcriptCoord = NotFound
		}
	}

	values := []string{
		r.Query.Kind.String(),
		transcript,
		transcriptCoord,
		chrom,
		genomeCoord,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
