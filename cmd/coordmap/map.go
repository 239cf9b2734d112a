package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mulini/coordinates-mapper/internal/duckdb"
	"github.com/mulini/coordinates-mapper/internal/index"
	"github.com/mulini/coordinates-mapper/internal/output"
	"github.com/mulini/coordinates-mapper/internal/query"
	"github.com/mulini/coordinates-mapper/internal/tsv"
)

func newMapCmd() *cobra.Command {
	var (
		transcriptsPath string
		queriesPath     string
		outputPath      string
		workers         int
		resultsDB       string
		useSnapshot     bool
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Resolve a batch of coordinate queries",
		Long:  "Builds the coordinate index from a transcript table and resolves a query table against it, writing one tab-separated result row per query.",
		Example: `  coordmap map -t transcripts.tsv -q queries.tsv -o results.tsv
  coordmap map -t transcripts.tsv.gz -q queries.tsv -o -                  # results to stdout
  coordmap map -t transcripts.tsv -q queries.tsv -o out.tsv --snapshot    # reuse cached index
  coordmap map -t transcripts.tsv -q queries.tsv -o out.tsv --results-db runs.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers == 0 {
				workers = viper.GetInt("map.workers")
			}
			if resultsDB == "" {
				resultsDB = viper.GetString("map.results_db")
			}
			return runMap(transcriptsPath, queriesPath, outputPath, resultsDB, workers, useSnapshot)
		},
	}

	cmd.Flags().StringVarP(&transcriptsPath, "transcripts", "t", "", "transcript table (tsv, optionally gzipped, '-' for stdin)")
	cmd.Flags().StringVarP(&queriesPath, "queries", "q", "", "query table (tsv, optionally gzipped, '-' for stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file ('-' for stdout)")
	cmd.Flags().IntVar(&workers, "workers", 0, "query resolution workers (0 = number of CPUs)")
	cmd.Flags().StringVar(&resultsDB, "results-db", "", "also append resolved rows to this DuckDB database")
	cmd.Flags().BoolVar(&useSnapshot, "snapshot", false, "cache the built index next to the transcript table and reuse it while the table is unchanged")
	cmd.MarkFlagRequired("transcripts")
	cmd.MarkFlagRequired("queries")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runMap(transcriptsPath, queriesPath, outputPath, resultsDB string, workers int, useSnapshot bool) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	idx, err := loadIndex(transcriptsPath, useSnapshot, logger)
	if err != nil {
		return err
	}

	qr, err := tsv.NewQueryReader(queriesPath)
	if err != nil {
		// An empty query batch is not a failure: the index was built, there
		// is just nothing to answer.
		if errors.Is(err, tsv.ErrEmptySource) {
			logger.Warn("query table contains no valid rows",
				zap.String("path", queriesPath))
			return nil
		}
		return err
	}
	defer qr.Close()

	var out io.Writer = os.Stdout
	if outputPath != "" && outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writers := []query.ResultWriter{output.NewTabWriter(out)}

	if resultsDB != "" {
		store, err := duckdb.Open(resultsDB)
		if err != nil {
			return fmt.Errorf("open results database: %w", err)
		}
		defer store.Close()
		writers = append(writers, duckdb.NewRecorder(store))
	}

	writer := teeWriter{writers}
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	engine := query.NewEngine(idx)
	engine.SetLogger(logger)

	resolved, skipped, err := engine.ResolveAll(qr, writer, workers)
	if err != nil {
		return err
	}

	logger.Info("query batch resolved",
		zap.Int("resolved", resolved),
		zap.Int("skipped", skipped))

	return nil
}

// loadIndex builds the index from the transcript table, going through the
// on-disk snapshot when requested. A missing or empty transcript table is
// fatal; bad rows inside it are skipped with a warning.
func loadIndex(path string, useSnapshot bool, logger *zap.Logger) (*index.Index, error) {
	var snap *index.Snapshot
	var fp index.FileFingerprint

	if useSnapshot && path != "-" {
		var err error
		fp, err = index.StatFile(path)
		if err != nil {
			return nil, fmt.Errorf("transcript table: %w", err)
		}
		if fp.Size == 0 {
			return nil, fmt.Errorf("transcript table %s: %w", path, tsv.ErrEmptySource)
		}

		snap = index.NewSnapshot(path)
		if snap.Valid(fp) {
			idx, err := snap.Load()
			if err == nil {
				logger.Info("loaded index snapshot",
					zap.Int("transcripts", idx.Len()))
				return idx, nil
			}
			logger.Warn("ignoring unreadable index snapshot", zap.Error(err))
		}
	}

	reader, err := tsv.NewTranscriptReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	records, malformed, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if malformed > 0 {
		logger.Warn("skipped malformed transcript rows",
			zap.Int("rows", malformed))
	}

	idx := index.Build(records, logger)

	if snap != nil {
		if err := snap.Write(idx, fp); err != nil {
			logger.Warn("could not write index snapshot", zap.Error(err))
		}
	}

	return idx, nil
}

// teeWriter fans result rows out to multiple writers.
type teeWriter struct {
	writers []query.ResultWriter
}

func (t teeWriter) WriteHeader() error {
	for _, w := range t.writers {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

func (t teeWriter) Write(r query.Result) error {
	for _, w := range t.writers {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func (t teeWriter) Flush() error {
	for _, w := range t.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
