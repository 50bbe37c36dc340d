// Package postings implements the suffix inverted index (C4): for every
// distinct suffix inserted into the trie, the set of dword ids that
// contain it, sorted by dword length then by dwordid.
package postings

import (
	"fmt"

	"github.com/dictx/subtrie/internal/dberr"
)

// Header locates one suffix's posting list inside Pool.
type Header struct {
	Offset uint32
	Size   uint32
}

// Index is the header array plus the flat id pool it slices into.
type Index struct {
	Headers []Header
	Pool    []uint32
}

// List returns the posting list for suffixID: the dword ids containing
// that suffix, already sorted by dword length then dwordid. It panics
// with a *dberr.CorruptionError if suffixID or the header it names point
// outside Headers/Pool.
func (idx *Index) List(suffixID uint32) []uint32 {
	if int(suffixID) >= len(idx.Headers) {
		panic(&dberr.CorruptionError{Msg: fmt.Sprintf("suffixid %d out of range (have %d headers)", suffixID, len(idx.Headers))})
	}
	h := idx.Headers[suffixID]
	end := uint64(h.Offset) + uint64(h.Size)
	if end > uint64(len(idx.Pool)) {
		panic(&dberr.CorruptionError{Msg: fmt.Sprintf("posting list for suffixid %d exceeds id pool bounds", suffixID)})
	}
	return idx.Pool[h.Offset:end]
}

// LowerBound returns the index of the first entry in list whose dword
// length (via sizeOf) is >= minLen, using binary search. list must
// already be sorted by sizeOf ascending.
func LowerBound(list []uint32, minLen uint32, sizeOf func(dwordID uint32) uint32) int {
	lo, hi := 0, len(list)
	for lo < hi {
		mid := (lo + hi) / 2
		if sizeOf(list[mid]) < minLen {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
