package doublearray

import (
	"bytes"
	"sort"

	"github.com/dictx/subtrie/pkg/tailstore"
)

// Record is one key/value pair handed to Builder.Build. Keys must be
// distinct and sorted ascending by byte value; pkg/indexbuild guarantees
// both before calling in. A key must not contain the 0x00 byte: that
// value is reserved as the trie's "key ends here" pseudo-label, the same
// role \0 plays in the original suffix-tree source this design is
// grounded on.
type Record struct {
	Key   []byte
	Value uint32
}

// Builder constructs a Trie from a sorted, deduplicated record set using
// recursive partition by byte position (XCDAT-style) with a linked
// free-list BASE search, generalized from a double-array construction in
// the reference corpus to additive BASE+label indexing and tail
// compression for collapsed ranges.
type Builder struct {
	base     []int32
	check    []int32
	freeNext []int32
	freePrev []int32
	tail     *tailstore.Store
}

// NewBuilder returns a Builder with node 0 (free-list sentinel) and node
// 1 (the root, InitialIndex) reserved and not part of the free list.
func NewBuilder() *Builder {
	b := &Builder{
		base:     make([]int32, 2),
		check:    make([]int32, 2),
		freeNext: make([]int32, 2),
		freePrev: make([]int32, 2),
		tail:     tailstore.NewStore(),
	}
	b.freeNext[0] = 0
	b.freePrev[0] = 0
	return b
}

// Build returns a Trie indexing records. An empty record set produces a
// Trie whose root is a leaf with an empty key (IsLeaf(Root()) is true).
func (bd *Builder) Build(records []Record) (*Trie, error) {
	if len(records) == 0 {
		bd.base[InitialIndex] = -int32(bd.tail.Append(nil, 0))
		return &Trie{Base: bd.base, Check: bd.check, Tail: bd.tail}, nil
	}
	if len(records) == 1 {
		bd.leafify(InitialIndex, records[0], 0)
		return &Trie{Base: bd.base, Check: bd.check, Tail: bd.tail}, nil
	}
	bd.buildNode(records, InitialIndex, 0)
	return &Trie{Base: bd.base, Check: bd.check, Tail: bd.tail}, nil
}

func (bd *Builder) leafify(node int32, rec Record, depth int) {
	remaining := rec.Key[depth:]
	offset := bd.tail.Append(remaining, rec.Value)
	bd.base[node] = -int32(offset)
}

// buildNode assigns node a BASE and recurses. records all share a common
// prefix of length depth ending at node, and len(records) > 1.
func (bd *Builder) buildNode(records []Record, node int32, depth int) {
	labels, groups := partition(records, depth)
	base := bd.findBase(labels)
	bd.base[node] = base
	for _, c := range labels {
		child := base + int32(c)
		bd.unlink(child)
		bd.check[child] = node
	}
	for _, c := range labels {
		child := base + int32(c)
		group := groups[c]
		switch {
		case c == 0:
			// Exactly one record ends exactly at depth; \0 doesn't consume
			// a byte of the key, so the leaf's remaining suffix starts at
			// depth, not depth+1.
			bd.leafify(child, group[0], depth)
		case len(group) == 1:
			bd.leafify(child, group[0], depth+1)
		default:
			bd.buildNode(group, child, depth+1)
		}
	}
}

// partition groups records by the byte at position depth. A record whose
// key is exactly depth bytes long (nothing left to consume) is grouped
// under label 0, the reserved end-of-key marker. labels is returned
// sorted ascending, with 0 first when present.
func partition(records []Record, depth int) ([]byte, map[byte][]Record) {
	groups := make(map[byte][]Record)
	for _, r := range records {
		var label byte
		if len(r.Key) > depth {
			label = r.Key[depth]
		}
		groups[label] = append(groups[label], r)
	}
	labels := make([]byte, 0, len(groups))
	for c := range groups {
		labels = append(labels, c)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels, groups
}

func (bd *Builder) grow(n int) {
	old := len(bd.base)
	if n <= old {
		return
	}
	bd.base = append(bd.base, make([]int32, n-old)...)
	bd.check = append(bd.check, make([]int32, n-old)...)
	bd.freeNext = append(bd.freeNext, make([]int32, n-old)...)
	bd.freePrev = append(bd.freePrev, make([]int32, n-old)...)

	tail := bd.freePrev[0]
	prev := tail
	for i := old; i < n; i++ {
		bd.freeNext[prev] = int32(i)
		bd.freePrev[i] = prev
		prev = int32(i)
	}
	bd.freeNext[prev] = 0
	bd.freePrev[0] = prev
}

func (bd *Builder) unlink(i int32) {
	p := bd.freePrev[i]
	n := bd.freeNext[i]
	bd.freeNext[p] = n
	bd.freePrev[n] = p
}

// findBase returns the smallest BASE such that BASE+c is a free slot for
// every label c, walking the free list for candidates anchored on the
// smallest label (the cheapest to satisfy first, since it rules out the
// most candidates the fastest).
func (bd *Builder) findBase(labels []byte) int32 {
	first := int32(labels[0])
	for {
		for s := bd.freeNext[0]; s != 0; s = bd.freeNext[s] {
			base := s - first
			if base < 1 {
				continue
			}
			maxIdx := base
			for _, c := range labels {
				if idx := base + int32(c); idx > maxIdx {
					maxIdx = idx
				}
			}
			bd.grow(int(maxIdx) + 1)
			ok := true
			for _, c := range labels {
				if bd.check[base+int32(c)] != 0 {
					ok = false
					break
				}
			}
			if ok {
				return base
			}
		}
		bd.grow(len(bd.base)*2 + len(labels))
	}
}

// SortKeys sorts records ascending by Key, suitable as a pre-step before
// Build. Exposed so pkg/indexbuild can reuse it without re-implementing
// byte-slice comparison.
func SortKeys(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Key, records[j].Key) < 0
	})
}
