// Package cigar provides CIGAR string parsing for transcript alignments.
package cigar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCigar is returned when a CIGAR string cannot be parsed.
var ErrInvalidCigar = errors.New("invalid CIGAR string")

// Kind identifies a CIGAR operation type.
type Kind byte

// Supported operation kinds. Soft-clip, skip and padding codes are not
// alignment operations the mapper understands and are rejected.
const (
	Match     Kind = 'M' // one transcript base aligns to one genomic base
	Insertion Kind = 'I' // transcript bases with no genomic counterpart
	Deletion  Kind = 'D' // genomic bases with no transcript counterpart
)

// Op is a single CIGAR operation with its run length.
type Op struct {
	Kind Kind
	Len  int64
}

// String returns the operation in CIGAR notation (e.g. "5M").
func (o Op) String() string {
	return fmt.Sprintf("%d%c", o.Len, o.Kind)
}

// Format renders a sequence of operations back into CIGAR notation.
func Format(ops []Op) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(op.String())
	}
	return b.String()
}

// Parse tokenizes a CIGAR string into its ordered operations.
//
// The scan walks consecutive (digit-run, letter) pairs. A letter without a
// preceding digit run is ignored, as is any other stray character, but a
// digit run followed by a letter outside {M, I, D} fails the whole parse.
// The result must contain at least one operation.
func Parse(s string) ([]Op, error) {
	var ops []Op
	i := 0
	for i < len(s) {
		c := s[i]
		if c < '0' || c > '9' {
			// Stray character outside a run, skip it.
			i++
			continue
		}

		var n int64
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			n = n*10 + int64(s[i]-'0')
			i++
		}
		if i == len(s) {
			// Trailing digits without an operation code, ignore.
			break
		}

		code := s[i]
		i++
		switch Kind(code) {
		case Match, Insertion, Deletion:
			if n == 0 {
				return nil, fmt.Errorf("%w: zero-length run %q in %q", ErrInvalidCigar, string(code), s)
			}
			ops = append(ops, Op{Kind: Kind(code), Len: n})
		default:
			return nil, fmt.Errorf("%w: unsupported operation %q in %q", ErrInvalidCigar, string(code), s)
		}
	}

	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no operations in %q", ErrInvalidCigar, s)
	}
	return ops, nil
}
