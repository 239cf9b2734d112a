// Package coord expands CIGAR alignments into per-base coordinate tables.
package coord

import (
	"encoding/binary"
	"fmt"
)

// Direction records which side of the anchor an inserted base sits on.
type Direction byte

const (
	// Before anchors an insertion ahead of the next genomic base (forward strand).
	Before Direction = iota
	// After anchors an insertion past the previous genomic base (reverse strand).
	After
)

func (d Direction) String() string {
	if d == After {
		return "after"
	}
	return "before"
}

// PositionEntry is the value stored for one transcript-local position:
// either a concrete genomic coordinate, or an insertion marker anchored to
// the flanking genomic coordinate. The two cases are kept distinct so that
// reverse lookups can never mistake a marker for a real coordinate.
type PositionEntry struct {
	pos       int64
	insertion bool
	dir       Direction
}

// Genomic returns an entry holding a concrete genomic coordinate.
func Genomic(pos int64) PositionEntry {
	return PositionEntry{pos: pos}
}

// Insertion returns an entry marking an inserted base anchored at the given
// genomic coordinate.
func Insertion(dir Direction, anchor int64) PositionEntry {
	return PositionEntry{pos: anchor, insertion: true, dir: dir}
}

// IsInsertion reports whether the entry is an insertion marker.
func (e PositionEntry) IsInsertion() bool {
	return e.insertion
}

// GenomicPos returns the genomic coordinate and true when the entry is a
// concrete position. Insertion markers return 0, false.
func (e PositionEntry) GenomicPos() (int64, bool) {
	if e.insertion {
		return 0, false
	}
	return e.pos, true
}

// Anchor returns the flanking genomic coordinate of an insertion marker.
func (e PositionEntry) Anchor() (int64, Direction) {
	return e.pos, e.dir
}

// GobEncode implements gob serialization for snapshot files. The fields are
// unexported on purpose, so the entry encodes itself as (pos, flags).
func (e PositionEntry) GobEncode() ([]byte, error) {
	buf := make([]byte, 10)
	binary.LittleEndian.PutUint64(buf, uint64(e.pos))
	if e.insertion {
		buf[8] = 1
	}
	buf[9] = byte(e.dir)
	return buf, nil
}

// GobDecode implements gob deserialization for snapshot files.
func (e *PositionEntry) GobDecode(data []byte) error {
	if len(data) != 10 {
		return fmt.Errorf("position entry: bad encoded length %d", len(data))
	}
	e.pos = int64(binary.LittleEndian.Uint64(data))
	e.insertion = data[8] == 1
	e.dir = Direction(data[9])
	return nil
}

// String renders the entry the way it appears in output tables: the bare
// coordinate for genomic positions, "Insertion before N" / "Insertion after N"
// for markers.
func (e PositionEntry) String() string {
	if e.insertion {
		return fmt.Sprintf("Insertion %s %d", e.dir, e.pos)
	}
	return fmt.Sprintf("%d", e.pos)
}
