package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulini/coordinates-mapper/internal/cigar"
)

func mustParse(t *testing.T, s string) []cigar.Op {
	t.Helper()
	ops, err := cigar.Parse(s)
	require.NoError(t, err)
	return ops
}

func TestExpandForward_MatchAndDeletion(t *testing.T) {
	table := ExpandForward(10, mustParse(t, "5M2D3M"))

	want := Table{
		0: Genomic(10),
		1: Genomic(11),
		2: Genomic(12),
		3: Genomic(13),
		4: Genomic(14),
		// Deletion skips genomic 15-16 without transcript entries.
		5: Genomic(17),
		6: Genomic(18),
		7: Genomic(19),
	}
	assert.Equal(t, want, table)
}

func TestExpandForward_InsertionMarkers(t *testing.T) {
	table := ExpandForward(10, mustParse(t, "5M2I"))

	want := Table{
		0: Genomic(10),
		1: Genomic(11),
		2: Genomic(12),
		3: Genomic(13),
		4: Genomic(14),
		5: Insertion(Before, 15),
		6: Insertion(Before, 15),
	}
	assert.Equal(t, want, table)

	// Both insertion slots share the same anchor.
	anchor5, dir5 := table[5].Anchor()
	anchor6, dir6 := table[6].Anchor()
	assert.Equal(t, anchor5, anchor6)
	assert.Equal(t, dir5, dir6)
}

func TestExpandReverse_InsertionMarkers(t *testing.T) {
	table := ExpandReverse(20, mustParse(t, "4M2I"))

	want := Table{
		0: Genomic(20),
		1: Genomic(19),
		2: Genomic(18),
		3: Genomic(17),
		4: Insertion(After, 16),
		5: Insertion(After, 16),
	}
	assert.Equal(t, want, table)
}

func TestExpandReverse_DeletionDecrementsCursor(t *testing.T) {
	table := ExpandReverse(100, mustParse(t, "2M3D2M"))

	want := Table{
		0: Genomic(100),
		1: Genomic(99),
		// Deletion skips genomic 98-96.
		2: Genomic(95),
		3: Genomic(94),
	}
	assert.Equal(t, want, table)
}

func TestExpand_ContiguousTranscriptPositions(t *testing.T) {
	for name, table := range map[string]Table{
		"forward": ExpandForward(10, mustParse(t, "3M1I2D4M2I")),
		"reverse": ExpandReverse(50, mustParse(t, "3M1I2D4M2I")),
	} {
		t.Run(name, func(t *testing.T) {
			for i := int64(0); i < int64(len(table)); i++ {
				_, ok := table[i]
				assert.True(t, ok, "missing transcript position %d", i)
			}
		})
	}
}

func TestPositionEntry_Rendering(t *testing.T) {
	assert.Equal(t, "42", Genomic(42).String())
	assert.Equal(t, "Insertion before 15", Insertion(Before, 15).String())
	assert.Equal(t, "Insertion after 16", Insertion(After, 16).String())
}

func TestPositionEntry_GenomicPos(t *testing.T) {
	pos, ok := Genomic(7).GenomicPos()
	assert.True(t, ok)
	assert.Equal(t, int64(7), pos)

	_, ok = Insertion(Before, 7).GenomicPos()
	assert.False(t, ok, "insertion markers must never read as genomic coordinates")
}
