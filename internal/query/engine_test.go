package query

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulini/coordinates-mapper/internal/index"
	"github.com/mulini/coordinates-mapper/internal/tsv"
)

func testEngine() *Engine {
	idx := index.Build([]index.Record{
		{Name: "TR1", Chrom: "CHR1", Start: "10", Cigar: "5M2D3M", Strand: "+"},
		{Name: "TR2", Chrom: "CHR2", Start: "20", Cigar: "4M1I4M", Strand: "-"},
	}, nil)
	return NewEngine(idx)
}

// collectWriter buffers results for assertions.
type collectWriter struct {
	header  bool
	flushed bool
	results []Result
}

func (w *collectWriter) WriteHeader() error { w.header = true; return nil }
func (w *collectWriter) Write(r Result) error {
	w.results = append(w.results, r)
	return nil
}
func (w *collectWriter) Flush() error { w.flushed = true; return nil }

func TestResolve_TranscriptToGenome(t *testing.T) {
	e := testEngine()

	r := e.Resolve(Query{Kind: TranscriptToGenome, Transcript: "TR1", TranscriptPos: 2})
	require.True(t, r.Found)
	assert.Equal(t, "CHR1", r.Chrom)
	pos, ok := r.Entry.GenomicPos()
	require.True(t, ok)
	assert.Equal(t, int64(12), pos)

	// Reverse strand transcript.
	r = e.Resolve(Query{Kind: TranscriptToGenome, Transcript: "TR2", TranscriptPos: 3})
	require.True(t, r.Found)
	assert.Equal(t, "CHR2", r.Chrom)
	pos, ok = r.Entry.GenomicPos()
	require.True(t, ok)
	assert.Equal(t, int64(17), pos)
}

func TestResolve_GenomeToTranscript(t *testing.T) {
	e := testEngine()

	r := e.Resolve(Query{Kind: GenomeToTranscript, Chrom: "CHR1", GenomePos: 11})
	require.True(t, r.Found)
	assert.Equal(t, "TR1", r.Transcript)
	assert.Equal(t, int64(1), r.TranscriptPos)

	r = e.Resolve(Query{Kind: GenomeToTranscript, Chrom: "CHR2", GenomePos: 18})
	require.True(t, r.Found)
	assert.Equal(t, "TR2", r.Transcript)
	assert.Equal(t, int64(2), r.TranscriptPos)
}

func TestResolve_Misses(t *testing.T) {
	e := testEngine()

	for _, q := range []Query{
		{Kind: TranscriptToGenome, Transcript: "UNKNOWN", TranscriptPos: 0},
		{Kind: TranscriptToGenome, Transcript: "TR1", TranscriptPos: 999},
		{Kind: GenomeToTranscript, Chrom: "CHR9", GenomePos: 10},
		{Kind: GenomeToTranscript, Chrom: "CHR1", GenomePos: 15}, // deletion gap
	} {
		r := e.Resolve(q)
		assert.False(t, r.Found, "query %+v should miss", q)
	}
}

func TestFromRow(t *testing.T) {
	q, err := FromRow(&tsv.QueryRow{Type: "T2G", Transcript: "TR1", TranscriptCoord: "4"})
	require.NoError(t, err)
	assert.Equal(t, TranscriptToGenome, q.Kind)
	assert.Equal(t, int64(4), q.TranscriptPos)

	q, err = FromRow(&tsv.QueryRow{Type: "G2T", Chromosome: "CHR1", GenomeCoord: "12"})
	require.NoError(t, err)
	assert.Equal(t, GenomeToTranscript, q.Kind)
	assert.Equal(t, int64(12), q.GenomePos)

	_, err = FromRow(&tsv.QueryRow{Type: "T2G", Transcript: "TR1", TranscriptCoord: "four"})
	assert.Error(t, err)

	_, err = FromRow(&tsv.QueryRow{Type: "G2T", Chromosome: "CHR1", GenomeCoord: ""})
	assert.Error(t, err)

	_, err = FromRow(&tsv.QueryRow{Type: "X2Y"})
	assert.Error(t, err)
}

func TestResolveAll_OrderAndSkips(t *testing.T) {
	table := "Type\tTranscript\tTranscript_Coord\tChromosome\tGenome_Coord\n" +
		"T2G\tTR1\t2\t\t\n" +
		"BOGUS\t\t\t\t\n" + // unknown type tag, skipped
		"G2T\t\t\tCHR2\t18\n" +
		"T2G\tTR1\tabc\t\t\n" + // bad coordinate, skipped
		"T2G\tNOPE\t1\t\t\n" // valid query, lookup miss

	e := testEngine()
	w := &collectWriter{}

	resolved, skipped, err := e.ResolveAll(tsv.NewQueryReaderFrom(strings.NewReader(table)), w, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, resolved)
	assert.Equal(t, 2, skipped)
	assert.True(t, w.flushed)

	require.Len(t, w.results, 3)
	assert.Equal(t, TranscriptToGenome, w.results[0].Query.Kind)
	assert.Equal(t, "TR1", w.results[0].Query.Transcript)
	assert.Equal(t, GenomeToTranscript, w.results[1].Query.Kind)
	assert.False(t, w.results[2].Found)
}

func TestResolveAll_ManyQueriesKeepInputOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Type\tTranscript\tTranscript_Coord\tChromosome\tGenome_Coord\n")
	for i := 0; i < 200; i++ {
		sb.WriteString("T2G\tTR1\t")
		sb.WriteString(strconv.Itoa(i % 8))
		sb.WriteString("\t\t\n")
	}

	e := testEngine()
	w := &collectWriter{}

	resolved, skipped, err := e.ResolveAll(tsv.NewQueryReaderFrom(strings.NewReader(sb.String())), w, 8)
	require.NoError(t, err)
	assert.Equal(t, 200, resolved)
	assert.Zero(t, skipped)

	for i, r := range w.results {
		assert.Equal(t, int64(i%8), r.Query.TranscriptPos, "row %d out of order", i)
	}
}

func TestOrderedCollect_ReordersResults(t *testing.T) {
	results := make(chan WorkResult, 4)
	results <- WorkResult{Seq: 2}
	results <- WorkResult{Seq: 0}
	results <- WorkResult{Seq: 3}
	results <- WorkResult{Seq: 1}
	close(results)

	var seqs []int
	require.NoError(t, OrderedCollect(results, func(r WorkResult) error {
		seqs = append(seqs, r.Seq)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 2, 3}, seqs)
}
