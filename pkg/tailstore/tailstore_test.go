package tailstore

import (
	"testing"

	"github.com/dictx/subtrie/internal/dberr"
)

func TestAppendAndRead(t *testing.T) {
	s := NewStore()
	off1 := s.Append([]byte("ful"), 7)
	off2 := s.Append([]byte(""), 42)

	if off1 == 0 {
		t.Fatalf("offset 0 is reserved, got it from Append")
	}

	c := s.NewCursor()

	c.Seek(off1)
	if got := c.Strlen(); got != 3 {
		t.Fatalf("Strlen() = %d, want 3", got)
	}
	if got := c.MatchPrefix([]byte("fully")); got != 3 {
		t.Fatalf("MatchPrefix() = %d, want 3", got)
	}
	c.Seek(off1 + 3 + 1)
	if got := c.ReadUint32(); got != 7 {
		t.Fatalf("ReadUint32() = %d, want 7", got)
	}

	c.Seek(off2)
	if got := c.Strlen(); got != 0 {
		t.Fatalf("Strlen() on empty suffix = %d, want 0", got)
	}
	c.Seek(off2 + 1)
	if got := c.ReadUint32(); got != 42 {
		t.Fatalf("ReadUint32() = %d, want 42", got)
	}
}

func TestMatchPrefixStopsAtMismatch(t *testing.T) {
	s := NewStore()
	off := s.Append([]byte("apple"), 0)
	c := s.NewCursor()
	c.Seek(off)
	if got := c.MatchPrefix([]byte("appstore")); got != 3 {
		t.Fatalf("MatchPrefix() = %d, want 3", got)
	}
}

func TestStrlenUnterminatedPanics(t *testing.T) {
	s := Load([]byte{0, 'a', 'b', 'c'}) // no trailing NUL after offset 1
	c := s.NewCursor()
	c.Seek(1)
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatalf("expected panic on unterminated tail string")
		}
		if _, ok := rec.(*dberr.CorruptionError); !ok {
			t.Fatalf("expected *dberr.CorruptionError, got %T", rec)
		}
	}()
	c.Strlen()
}

func TestReadUint32PastEndPanics(t *testing.T) {
	s := Load([]byte{0, 1, 2})
	c := s.NewCursor()
	c.Seek(1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on short read")
		}
	}()
	c.ReadUint32()
}
