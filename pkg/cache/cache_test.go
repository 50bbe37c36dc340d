package cache

import (
	"testing"

	"github.com/dictx/subtrie/pkg/search"
)

func TestPutThenGetHits(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	q := &search.Query{Word: "hello", MinCommonLen: 3, MaxDwordLen: 20, Limit: 10}
	want := []search.Result{{Dword: "hello", Value: "H", StartPos: 0, CommonLen: 3}}

	c.Put(q, want)
	got, ok := c.Get(q)
	if !ok {
		t.Fatalf("Get() after Put() = not found, want a hit")
	}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("Get() = %+v, want %+v", got, want)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, ok := c.Get(&search.Query{Word: "nope", MinCommonLen: 1, MaxDwordLen: 20, Limit: 10})
	if ok {
		t.Fatalf("Get() on empty cache = hit, want miss")
	}
}

func TestDistinctParamsAreDistinctKeys(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	q1 := &search.Query{Word: "hello", MinCommonLen: 3, MaxDwordLen: 20, Limit: 10}
	q2 := &search.Query{Word: "hello", MinCommonLen: 4, MaxDwordLen: 20, Limit: 10}
	c.Put(q1, []search.Result{{Dword: "hello", CommonLen: 3}})

	if _, ok := c.Get(q2); ok {
		t.Fatalf("Get() with a different MinCommonLen hit a cache entry stored under a different key")
	}
}

func TestGetReturnsACopyNotAnAlias(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	q := &search.Query{Word: "hello", MinCommonLen: 3, MaxDwordLen: 20, Limit: 10}
	c.Put(q, []search.Result{{Dword: "hello", CommonLen: 3}})

	got, _ := c.Get(q)
	got[0].Dword = "mutated"

	got2, _ := c.Get(q)
	if got2[0].Dword != "hello" {
		t.Fatalf("mutating a Get() result affected the cached entry: %+v", got2[0])
	}
}

func TestEvictsLeastRecentlyUsedAtCapacity(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	q1 := &search.Query{Word: "a", MinCommonLen: 1, MaxDwordLen: 20, Limit: 10}
	q2 := &search.Query{Word: "b", MinCommonLen: 1, MaxDwordLen: 20, Limit: 10}
	q3 := &search.Query{Word: "c", MinCommonLen: 1, MaxDwordLen: 20, Limit: 10}

	c.Put(q1, []search.Result{{Dword: "a"}})
	c.Put(q2, []search.Result{{Dword: "b"}})
	c.Put(q3, []search.Result{{Dword: "c"}})

	if _, ok := c.Get(q1); ok {
		t.Fatalf("expected q1 to have been evicted once capacity 2 was exceeded by a third distinct key")
	}
	if _, ok := c.Get(q2); !ok {
		t.Fatalf("expected q2 to still be cached")
	}
	if _, ok := c.Get(q3); !ok {
		t.Fatalf("expected q3 to still be cached")
	}
}
