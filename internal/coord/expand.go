package coord

import "github.com/mulini/coordinates-mapper/internal/cigar"

// Table maps transcript-local positions (0-based, contiguous from 0) to
// position entries. Tables are built once per transcript and never mutated
// afterwards.
type Table map[int64]PositionEntry

// ExpandForward builds the per-base position table for a forward-strand
// transcript starting at the given genomic coordinate.
//
// Match runs record one genomic coordinate per base and advance both cursors.
// Deletion runs advance only the genome cursor and record nothing: deleted
// bases have no transcript coordinate. Insertion runs record one marker per
// base anchored before the current genome cursor, which stays fixed across
// the run, and advance only the transcript cursor.
func ExpandForward(start int64, ops []cigar.Op) Table {
	table := make(Table)
	tpos := int64(0)
	gpos := start

	for _, op := range ops {
		switch op.Kind {
		case cigar.Match:
			for i := int64(0); i < op.Len; i++ {
				table[tpos] = Genomic(gpos)
				tpos++
				gpos++
			}
		case cigar.Deletion:
			gpos += op.Len
		case cigar.Insertion:
			for i := int64(0); i < op.Len; i++ {
				table[tpos] = Insertion(Before, gpos)
				tpos++
			}
		}
	}

	return table
}

// ExpandReverse builds the position table for a reverse-strand transcript.
// Identical structure to ExpandForward, but the genome cursor decrements as
// transcript positions increase and insertion markers anchor after the
// cursor instead of before it.
func ExpandReverse(start int64, ops []cigar.Op) Table {
	table := make(Table)
	tpos := int64(0)
	gpos := start

	for _, op := range ops {
		switch op.Kind {
		case cigar.Match:
			for i := int64(0); i < op.Len; i++ {
				table[tpos] = Genomic(gpos)
				tpos++
				gpos--
			}
		case cigar.Deletion:
			gpos -= op.Len
		case cigar.Insertion:
			for i := int64(0); i < op.Len; i++ {
				table[tpos] = Insertion(After, gpos)
				tpos++
			}
		}
	}

	return table
}

// Len returns the number of transcript positions in the table.
func (t Table) Len() int {
	return len(t)
}
