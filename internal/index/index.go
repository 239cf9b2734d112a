// Package index builds the bidirectional transcript/genome coordinate index.
package index

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mulini/coordinates-mapper/internal/cigar"
	"github.com/mulini/coordinates-mapper/internal/coord"
)

// Record is one raw transcript row as read from the input table. Fields are
// kept as strings; Build validates and parses them so that a bad row can be
// skipped without aborting the batch.
type Record struct {
	Name   string // transcript name, unique key
	Chrom  string // chromosome label
	Start  string // genomic start, decimal integer
	Cigar  string // CIGAR string over {M, I, D}
	Strand string // "+" or "-"; anything else is treated as forward
}

// Table is one transcript's position table paired with its chromosome.
type Table struct {
	Chrom     string
	Positions coord.Table
}

// genomeKey addresses one base in genome space.
type genomeKey struct {
	Chrom string
	Pos   int64
}

// location is the transcript-space address of one genomic base.
type location struct {
	Transcript string
	Pos        int64
}

// Index holds the two lookup structures built from the transcript table.
// It is immutable after Build and safe for concurrent reads.
type Index struct {
	transcripts map[string]Table
	genome      map[genomeKey]location
}

// Build constructs the index in one pass over the records.
//
// Rows with a blank CIGAR, an unparseable CIGAR, or a non-integer genomic
// start are skipped with a warning; they never abort the batch. Duplicate
// transcript names overwrite earlier entries, and when two transcripts place
// a base at the same (chromosome, position) the later-loaded one wins.
func Build(records []Record, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}

	idx := &Index{
		transcripts: make(map[string]Table, len(records)),
		genome:      make(map[genomeKey]location),
	}

	loaded := 0
	for _, rec := range records {
		if strings.TrimSpace(rec.Cigar) == "" {
			logger.Warn("skipping transcript: missing CIGAR string",
				zap.String("transcript", rec.Name))
			continue
		}

		start, err := strconv.ParseInt(rec.Start, 10, 64)
		if err != nil {
			logger.Warn("skipping transcript: invalid genomic start",
				zap.String("transcript", rec.Name),
				zap.String("start", rec.Start))
			continue
		}

		ops, err := cigar.Parse(rec.Cigar)
		if err != nil {
			logger.Warn("skipping transcript: invalid CIGAR string",
				zap.String("transcript", rec.Name),
				zap.Error(err))
			continue
		}

		var table coord.Table
		if rec.Strand == "-" {
			table = coord.ExpandReverse(start, ops)
		} else {
			table = coord.ExpandForward(start, ops)
		}

		idx.transcripts[rec.Name] = Table{Chrom: rec.Chrom, Positions: table}

		// Only concrete genomic positions enter the reverse map. Insertion
		// markers have no genomic address.
		for tpos, entry := range table {
			if gpos, ok := entry.GenomicPos(); ok {
				idx.genome[genomeKey{rec.Chrom, gpos}] = location{rec.Name, tpos}
			}
		}
		loaded++
	}

	logger.Info("transcript index built",
		zap.Int("transcripts", loaded),
		zap.Int("skipped", len(records)-loaded))

	return idx
}

// TranscriptToGenome resolves a transcript-local position to its chromosome
// and position entry. ok is false when the transcript name is unknown or the
// position has no entry; no partial result is returned.
func (idx *Index) TranscriptToGenome(name string, pos int64) (chrom string, entry coord.PositionEntry, ok bool) {
	t, found := idx.transcripts[name]
	if !found {
		return "", coord.PositionEntry{}, false
	}
	entry, found = t.Positions[pos]
	if !found {
		return "", coord.PositionEntry{}, false
	}
	return t.Chrom, entry, true
}

// GenomeToTranscript resolves a (chromosome, position) pair to the transcript
// base mapped there. Exact-key lookup only; there is no interval or
// nearest-neighbor search.
func (idx *Index) GenomeToTranscript(chrom string, pos int64) (name string, tpos int64, ok bool) {
	loc, found := idx.genome[genomeKey{chrom, pos}]
	if !found {
		return "", 0, false
	}
	return loc.Transcript, loc.Pos, true
}

// Transcript returns the full position table for one transcript.
func (idx *Index) Transcript(name string) (Table, bool) {
	t, ok := idx.transcripts[name]
	return t, ok
}

// Names returns the sorted transcript names in the index.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.transcripts))
	for name := range idx.transcripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of transcripts in the index.
func (idx *Index) Len() int {
	return len(idx.transcripts)
}
