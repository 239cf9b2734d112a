package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulini/coordinates-mapper/internal/coord"
	"github.com/mulini/coordinates-mapper/internal/query"
)

func TestStore_OpenInMemory(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM query_results").Scan(&count))
	assert.Zero(t, count)
}

func TestRecorder_FlushWritesRows(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "results.duckdb"))
	require.NoError(t, err)
	defer s.Close()

	rec := NewRecorder(s)
	require.NoError(t, rec.WriteHeader())

	require.NoError(t, rec.Write(query.Result{
		Query: query.Query{Kind: query.TranscriptToGenome, Transcript: "TR1", TranscriptPos: 2},
		Found: true,
		Chrom: "CHR1",
		Entry: coord.Genomic(12),
	}))
	require.NoError(t, rec.Write(query.Result{
		Query: query.Query{Kind: query.TranscriptToGenome, Transcript: "TR2", TranscriptPos: 4},
		Found: true,
		Chrom: "CHR2",
		Entry: coord.Insertion(coord.After, 16),
	}))
	require.NoError(t, rec.Write(query.Result{
		Query: query.Query{Kind: query.GenomeToTranscript, Chrom: "CHR9", GenomePos: 99},
	}))
	require.NoError(t, rec.Flush())

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM query_results").Scan(&count))
	assert.Equal(t, 3, count)

	var dir string
	var anchor int64
	require.NoError(t, s.DB().QueryRow(
		"SELECT insertion_direction, insertion_anchor FROM query_results WHERE is_insertion").
		Scan(&dir, &anchor))
	assert.Equal(t, "after", dir)
	assert.Equal(t, int64(16), anchor)

	var found bool
	require.NoError(t, s.DB().QueryRow(
		"SELECT found FROM query_results WHERE kind = 'G2T'").Scan(&found))
	assert.False(t, found)
}

func TestRecorder_FlushEmptyIsNoop(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	rec := NewRecorder(s)
	require.NoError(t, rec.Flush())
}
