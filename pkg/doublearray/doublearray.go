// Package doublearray implements the static double-array trie (C2) used
// to index every generated suffix: BASE/CHECK parallel arrays for the
// branching prefix, a tailstore.Store for the unbranching remainder of
// each key. Construction lives in builder.go (C3).
package doublearray

import (
	"fmt"

	"github.com/dictx/subtrie/internal/dberr"
	"github.com/dictx/subtrie/pkg/tailstore"
)

const (
	// InitialIndex is the root node id. Index 0 is reserved: it can never
	// be a valid child (BASE values are kept >= 1), so it doubles as the
	// sentinel head of the builder's free list.
	InitialIndex int32 = 1
	// Invalid is returned by Descend when there is no such child.
	Invalid int32 = -1
)

// Trie is a read-only double-array trie plus its tail store. The zero
// value is not usable; build one with Builder or load one with
// pkg/serialize.
type Trie struct {
	Base  []int32
	Check []int32
	Tail  *tailstore.Store
}

// Root returns the id of the root node.
func (t *Trie) Root() int32 { return InitialIndex }

func (t *Trie) checkNode(node int32) {
	if node < 0 || int(node) >= len(t.Base) {
		panic(&dberr.CorruptionError{Msg: fmt.Sprintf("trie node %d out of range (have %d)", node, len(t.Base))})
	}
}

// IsLeaf reports whether node has no BASE-reachable children, i.e.
// BASE[node] < 0.
func (t *Trie) IsLeaf(node int32) bool {
	t.checkNode(node)
	return t.Base[node] < 0
}

// Descend moves from node along the edge labelled c in O(1), returning
// (Invalid, false) if there is no such child. It never panics on a
// "no such child" outcome; CorruptionError is reserved for node itself
// being out of range, since node is always derived from a prior,
// already-validated step.
func (t *Trie) Descend(node int32, c byte) (int32, bool) {
	t.checkNode(node)
	base := t.Base[node]
	if base < 0 {
		return Invalid, false
	}
	next := base + int32(c)
	if next < 0 || int(next) >= len(t.Check) {
		return Invalid, false
	}
	if t.Check[next] != node {
		return Invalid, false
	}
	return next, true
}

// TailOffset returns the tail-store offset for a leaf node. It panics if
// node is not a leaf; callers always check IsLeaf first, so this only
// fires on an internal misuse, never on ordinary corrupt input.
func (t *Trie) TailOffset(node int32) uint32 {
	t.checkNode(node)
	base := t.Base[node]
	if base >= 0 {
		panic(&dberr.CorruptionError{Msg: fmt.Sprintf("TailOffset: node %d is not a leaf", node)})
	}
	return uint32(-base)
}

// NewCursor returns a fresh tailstore.Cursor over this trie's tail store.
func (t *Trie) NewCursor() *tailstore.Cursor { return t.Tail.NewCursor() }
