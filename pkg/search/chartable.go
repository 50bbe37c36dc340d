package search

import "github.com/dictx/subtrie/internal/dberr"

// CharTable is the ordered set of byte labels a traversal expands at an
// internal node, in addition to the always-considered \0 pseudo-child.
// It must never contain 0x00: that byte is reserved as the structural
// "key ends here" marker and is handled separately by the traversal
// functions, never through the table.
type CharTable []byte

// DefaultCharTable returns every byte value except 0x00 — the engine's
// default alphabet is unrestricted, since dictionary keys are arbitrary
// byte strings, not limited to a human alphabet.
func DefaultCharTable() CharTable {
	t := make(CharTable, 0, 255)
	for b := 1; b <= 255; b++ {
		t = append(t, byte(b))
	}
	return t
}

// ValidateCharTable rejects a table longer than the byte range or one
// that embeds the reserved 0x00 byte.
func ValidateCharTable(t []byte) error {
	if len(t) > 256 {
		return dberr.ErrBadCharTable
	}
	for _, b := range t {
		if b == 0 {
			return dberr.ErrBadCharTable
		}
	}
	return nil
}
