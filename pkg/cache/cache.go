// Package cache memoizes search.Search results keyed by the full set of
// query parameters, the way the teacher's pkg/suggest.HotCache memoized
// hot completion prefixes — but on a real third-party LRU
// (github.com/hashicorp/golang-lru) instead of a hand-rolled
// access-time map and eviction scan.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/dictx/subtrie/pkg/search"
)

// QueryCache caches the results of identical (word, params) searches.
// It does not run searches itself: on a miss the caller runs the search
// and stores the results with Put, so a later hit skips pkg/search.
type QueryCache struct {
	lru *lru.Cache
}

// New returns a QueryCache holding at most size entries. size must be
// positive.
func New(size int) (*QueryCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &QueryCache{lru: c}, nil
}

func key(q *search.Query) string {
	return fmt.Sprintf("%s|%d|%d|%d|%d|%t|%t|%t",
		q.Word, q.MinCommonLen, q.MinDwordLen, q.MaxDwordLen, q.Limit,
		q.DepthFirstSearch, q.ComPrefixOnly, q.AverageLimit)
}

// Get returns a cached copy of the results for q, if present. The
// returned slice is a fresh copy the caller may freely mutate; the
// cache's own copy is never aliased out.
func (c *QueryCache) Get(q *search.Query) ([]search.Result, bool) {
	v, ok := c.lru.Get(key(q))
	if !ok {
		return nil, false
	}
	cached := v.([]search.Result)
	out := make([]search.Result, len(cached))
	copy(out, cached)
	return out, true
}

// Put stores results under q's key, evicting the least recently used
// entry if the cache is at capacity.
func (c *QueryCache) Put(q *search.Query, results []search.Result) {
	stored := make([]search.Result, len(results))
	copy(stored, results)
	c.lru.Add(key(q), stored)
}

// Len returns the number of entries currently cached.
func (c *QueryCache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
func (c *QueryCache) Purge() {
	c.lru.Purge()
}
