// Package indexbuild implements the index builder (C5): suffix
// generation from every dword, dedup of identical suffixes into the
// inverted index's posting lists, and driving pkg/doublearray.Builder
// over the resulting unique suffix set.
package indexbuild

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/dictx/subtrie/pkg/dictionary"
	"github.com/dictx/subtrie/pkg/doublearray"
	"github.com/dictx/subtrie/pkg/postings"
)

// Options controls how many suffixes are generated per dword. A dword of
// length n gets every suffix starting at byte positions
// 0..n-minSuffixLen(n), where minSuffixLen(n) = max(MinSuffix,
// floor(SuffixRatio*n)). A word shorter than its own minSuffixLen
// yields an empty range and is not indexed at all, matching the
// original's unclamped `size - min_suffix` loop bound.
type Options struct {
	SuffixRatio float64
	MinSuffix   int
}

// NewOptions validates suffixRatio and minSuffix. The original C++
// implementation this is ported from left this validation as a FIXME;
// a complete implementation enforces it at construction instead of
// letting a bad ratio silently produce a degenerate index.
func NewOptions(suffixRatio float64, minSuffix int) (Options, error) {
	if suffixRatio <= 0 || suffixRatio > 1 {
		return Options{}, fmt.Errorf("indexbuild: suffix_ratio must be in (0, 1], got %v", suffixRatio)
	}
	if minSuffix < 1 {
		return Options{}, fmt.Errorf("indexbuild: min_suffix must be >= 1, got %d", minSuffix)
	}
	return Options{SuffixRatio: suffixRatio, MinSuffix: minSuffix}, nil
}

func (o Options) minSuffixLen(wordLen int) int {
	n := int(o.SuffixRatio * float64(wordLen))
	if n < o.MinSuffix {
		n = o.MinSuffix
	}
	return n
}

// Result bundles everything a built index needs: the dword pool, the
// trie, and the inverted index.
type Result struct {
	Dictionary *dictionary.Dictionary
	Trie       *doublearray.Trie
	Postings   *postings.Index
}

// Build generates suffixes for every record, deduplicates them into
// posting lists, and constructs the trie over the unique suffix set.
func Build(records []dictionary.Record, opts Options) (*Result, error) {
	dict := dictionary.BuildFromRecords(records)

	type suffixOccurrence struct {
		key     []byte
		dwordID uint32
	}
	var occurrences []suffixOccurrence
	for id := range dict.Words {
		dwordID := uint32(id)
		key := dict.Key(dwordID)
		minLen := opts.minSuffixLen(len(key))
		for start := 0; start <= len(key)-minLen; start++ {
			occurrences = append(occurrences, suffixOccurrence{key: []byte(key[start:]), dwordID: dwordID})
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return bytes.Compare(occurrences[i].key, occurrences[j].key) < 0
	})

	var trieRecords []doublearray.Record
	var headers []postings.Header
	pool := make([]uint32, 0, len(occurrences))

	for i := 0; i < len(occurrences); {
		j := i + 1
		for j < len(occurrences) && bytes.Equal(occurrences[j].key, occurrences[i].key) {
			j++
		}
		run := occurrences[i:j]
		ids := make([]uint32, len(run))
		for k, occ := range run {
			ids[k] = occ.dwordID
		}
		sort.Slice(ids, func(a, b int) bool {
			sa, sb := dict.Words[ids[a]].Size, dict.Words[ids[b]].Size
			if sa != sb {
				return sa < sb
			}
			return ids[a] < ids[b]
		})

		suffixID := uint32(len(headers))
		headers = append(headers, postings.Header{Offset: uint32(len(pool)), Size: uint32(len(ids))})
		pool = append(pool, ids...)
		trieRecords = append(trieRecords, doublearray.Record{Key: occurrences[i].key, Value: suffixID})

		i = j
	}

	log.Debugf("indexbuild: %d suffixes emitted, %d unique", len(occurrences), len(trieRecords))

	doublearray.SortKeys(trieRecords)
	trie, err := doublearray.NewBuilder().Build(trieRecords)
	if err != nil {
		return nil, err
	}

	return &Result{
		Dictionary: dict,
		Trie:       trie,
		Postings:   &postings.Index{Headers: headers, Pool: pool},
	}, nil
}
