// Package query resolves batched coordinate-translation queries against the
// transcript index.
package query

import (
	"fmt"
	"strconv"

	"github.com/mulini/coordinates-mapper/internal/coord"
	"github.com/mulini/coordinates-mapper/internal/tsv"
)

// Kind identifies the direction of a coordinate query.
type Kind byte

const (
	// TranscriptToGenome translates a transcript-local position to genome space.
	TranscriptToGenome Kind = iota
	// GenomeToTranscript translates a genomic position to transcript space.
	GenomeToTranscript
)

// Type tags as they appear in the query table.
const (
	TagT2G = "T2G"
	TagG2T = "G2T"
)

func (k Kind) String() string {
	if k == GenomeToTranscript {
		return TagG2T
	}
	return TagT2G
}

// Query is one parsed coordinate-translation request. For
// TranscriptToGenome the transcript fields are set; for GenomeToTranscript
// the genome fields are set.
type Query struct {
	Kind          Kind
	Transcript    string
	TranscriptPos int64
	Chrom         string
	GenomePos     int64
}

// FromRow validates a raw table row and builds a Query from it. Unknown type
// tags and unparseable coordinates make the row malformed; the caller skips
// such rows with a warning rather than aborting the batch.
func FromRow(row *tsv.QueryRow) (Query, error) {
	switch row.Type {
	case TagT2G:
		pos, err := strconv.ParseInt(row.TranscriptCoord, 10, 64)
		if err != nil {
			return Query{}, fmt.Errorf("invalid transcript coordinate %q", row.TranscriptCoord)
		}
		return Query{Kind: TranscriptToGenome, Transcript: row.Transcript, TranscriptPos: pos}, nil
	case TagG2T:
		pos, err := strconv.ParseInt(row.GenomeCoord, 10, 64)
		if err != nil {
			return Query{}, fmt.Errorf("invalid genome coordinate %q", row.GenomeCoord)
		}
		return Query{Kind: GenomeToTranscript, Chrom: row.Chromosome, GenomePos: pos}, nil
	default:
		return Query{}, fmt.Errorf("unknown query type %q", row.Type)
	}
}

// Result is the outcome of one resolved query. When Found is false the
// looked-up side of the pair is absent and renders as "Not Found"; the query
// side always echoes the input.
type Result struct {
	Query Query
	Found bool

	// TranscriptToGenome results
	Chrom string
	Entry coord.PositionEntry

	// GenomeToTranscript results
	Transcript    string
	TranscriptPos int64
}

// ResultWriter consumes result rows in input order.
type ResultWriter interface {
	WriteHeader() error
	Write(Result) error
	Flush() error
}
