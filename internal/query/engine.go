package query

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/mulini/coordinates-mapper/internal/index"
	"github.com/mulini/coordinates-mapper/internal/tsv"
)

// Engine resolves queries against a built, immutable index.
type Engine struct {
	idx    *index.Index
	logger *zap.Logger
}

// NewEngine creates an engine over the given index.
func NewEngine(idx *index.Index) *Engine {
	return &Engine{idx: idx, logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and info messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Resolve answers a single query. Resolution is read-only and side-effect
// free; misses are reported in the result, never as errors.
func (e *Engine) Resolve(q Query) Result {
	r := Result{Query: q}

	switch q.Kind {
	case TranscriptToGenome:
		chrom, entry, ok := e.idx.TranscriptToGenome(q.Transcript, q.TranscriptPos)
		if ok {
			r.Found = true
			r.Chrom = chrom
			r.Entry = entry
		}
	case GenomeToTranscript:
		name, tpos, ok := e.idx.GenomeToTranscript(q.Chrom, q.GenomePos)
		if ok {
			r.Found = true
			r.Transcript = name
			r.TranscriptPos = tpos
		}
	}

	return r
}

// ResolveAll reads query rows, resolves them with a worker pool, and writes
// result rows in input order. Malformed rows are skipped with a warning; one
// bad row never blocks the rest of the batch. Returns the number of resolved
// and skipped rows.
func (e *Engine) ResolveAll(reader *tsv.QueryReader, writer ResultWriter, workers int) (resolved, skipped int, err error) {
	items := make(chan WorkItem, 2*runtime.NumCPU())
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			row, err := reader.Next()
			if err != nil {
				readErr = fmt.Errorf("read query row: %w", err)
				return
			}
			if row == nil {
				return
			}

			q, err := FromRow(row)
			if err != nil {
				skipped++
				e.logger.Warn("skipping query row",
					zap.Int("line", row.Line),
					zap.Error(err))
				continue
			}

			items <- WorkItem{Seq: seq, Query: q}
			seq++
		}
	}()

	results := e.ParallelResolve(items, workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		resolved++
		if err := writer.Write(r.Result); err != nil {
			return fmt.Errorf("write result row: %w", err)
		}
		return nil
	}); err != nil {
		return resolved, skipped, err
	}

	if readErr != nil {
		return resolved, skipped, readErr
	}

	if resolved == 0 {
		e.logger.Warn("query table contains no valid rows")
	}

	return resolved, skipped, writer.Flush()
}
