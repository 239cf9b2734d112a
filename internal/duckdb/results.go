package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/mulini/coordinates-mapper/internal/query"
)

// Recorder buffers resolved query results and batch-inserts them into the
// query_results table. It implements query.ResultWriter so it can be teed
// alongside the tabular output writer; the database write happens on Flush.
type Recorder struct {
	store   *Store
	results []query.Result
}

// NewRecorder creates a recorder writing into the given store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// WriteHeader is a no-op; the schema is the header.
func (r *Recorder) WriteHeader() error {
	return nil
}

// Write buffers one result row.
func (r *Recorder) Write(res query.Result) error {
	r.results = append(r.results, res)
	return nil
}

// Flush batch-inserts the buffered rows using the Appender API.
func (r *Recorder) Flush() error {
	if len(r.results) == 0 {
		return nil
	}

	conn, err := r.store.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "query_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, res := range r.results {
		row := flatten(res)
		if err := appender.AppendRow(
			row.kind, row.transcript, row.transcriptPos,
			row.chromosome, row.genomePos,
			row.isInsertion, row.insertionDirection, row.insertionAnchor,
			row.found,
		); err != nil {
			return fmt.Errorf("append result row: %w", err)
		}
	}

	r.results = r.results[:0]
	return appender.Flush()
}

// resultRow is the flattened wire form of one result.
type resultRow struct {
	kind               string
	transcript         string
	transcriptPos      int64
	chromosome         string
	genomePos          int64
	isInsertion        bool
	insertionDirection string
	insertionAnchor    int64
	found              bool
}

// flatten splits a result into its table columns. The query side echoes the
// input; the looked-up side is zero-valued when the lookup missed.
func flatten(res query.Result) resultRow {
	row := resultRow{kind: res.Query.Kind.String(), found: res.Found}

	switch res.Query.Kind {
	case query.TranscriptToGenome:
		row.transcript = res.Query.Transcript
		row.transcriptPos = res.Query.TranscriptPos
		if !res.Found {
			break
		}
		row.chromosome = res.Chrom
		if pos, ok := res.Entry.GenomicPos(); ok {
			row.genomePos = pos
		} else {
			anchor, dir := res.Entry.Anchor()
			row.isInsertion = true
			row.insertionDirection = dir.String()
			row.insertionAnchor = anchor
		}
	case query.GenomeToTranscript:
		row.chromosome = res.Query.Chrom
		row.genomePos = res.Query.GenomePos
		if res.Found {
			row.transcript = res.Transcript
			row.transcriptPos = res.TranscriptPos
		}
	}

	return row
}
