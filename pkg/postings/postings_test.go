package postings

import (
	"testing"

	"github.com/dictx/subtrie/internal/dberr"
)

func TestListAndLowerBound(t *testing.T) {
	idx := &Index{
		Headers: []Header{
			{Offset: 0, Size: 3},
			{Offset: 3, Size: 2},
		},
		Pool: []uint32{10, 11, 12, 20, 21},
	}
	sizes := map[uint32]uint32{10: 3, 11: 5, 12: 5, 20: 1, 21: 9}
	sizeOf := func(id uint32) uint32 { return sizes[id] }

	list := idx.List(0)
	if len(list) != 3 {
		t.Fatalf("List(0) = %v, want len 3", list)
	}
	if pos := LowerBound(list, 4, sizeOf); pos != 1 {
		t.Fatalf("LowerBound(4) = %d, want 1", pos)
	}
	if pos := LowerBound(list, 0, sizeOf); pos != 0 {
		t.Fatalf("LowerBound(0) = %d, want 0", pos)
	}
	if pos := LowerBound(list, 100, sizeOf); pos != len(list) {
		t.Fatalf("LowerBound(100) = %d, want %d", pos, len(list))
	}
}

func TestListOutOfRangeSuffixIDPanics(t *testing.T) {
	idx := &Index{Headers: []Header{{Offset: 0, Size: 1}}, Pool: []uint32{1}}
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatalf("expected panic for out-of-range suffixid")
		}
		if _, ok := rec.(*dberr.CorruptionError); !ok {
			t.Fatalf("expected *dberr.CorruptionError, got %T", rec)
		}
	}()
	idx.List(5)
}

func TestListHeaderExceedsPoolPanics(t *testing.T) {
	idx := &Index{Headers: []Header{{Offset: 0, Size: 10}}, Pool: []uint32{1, 2}}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for header exceeding pool bounds")
		}
	}()
	idx.List(0)
}
