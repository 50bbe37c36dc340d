package search

import (
	"sort"
	"testing"

	"github.com/dictx/subtrie/pkg/dictionary"
	"github.com/dictx/subtrie/pkg/indexbuild"
)

func newSearcher(t *testing.T, pairs [][2]string) *Searcher {
	t.Helper()
	opts, err := indexbuild.NewOptions(0.5, 2)
	if err != nil {
		t.Fatalf("NewOptions() error = %v", err)
	}
	records := make([]dictionary.Record, len(pairs))
	for i, p := range pairs {
		records[i] = dictionary.Record{Key: p[0], Value: p[1]}
	}
	result, err := indexbuild.Build(records, opts)
	if err != nil {
		t.Fatalf("indexbuild.Build() error = %v", err)
	}
	return &Searcher{
		Trie:      result.Trie,
		Postings:  result.Postings,
		Dict:      result.Dictionary,
		CharTable: DefaultCharTable(),
	}
}

func sortResults(rs []Result) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Dword < rs[j].Dword })
}

// S1: a shared 3-byte prefix between "help" and two dictionary entries
// that diverge right after it.
func TestSeedS1(t *testing.T) {
	s := newSearcher(t, [][2]string{{"hello", "H"}, {"world", "W"}, {"helicopter", "C"}})
	var out []Result
	n := s.Search(&Query{
		Word: "help", MinCommonLen: 3, MinDwordLen: 1, MaxDwordLen: 20,
		Limit: 10, ComPrefixOnly: false,
	}, &out)
	sortResults(out)
	want := []Result{
		{Dword: "helicopter", Value: "C", StartPos: 0, CommonLen: 3},
		{Dword: "hello", Value: "H", StartPos: 0, CommonLen: 3},
	}
	if n != len(want) || !resultsEqual(out, want) {
		t.Fatalf("Search() = %+v, want %+v", out, want)
	}
}

// S2: raising min_common_len to the full query length narrows the match
// to the one dictionary entry that equals it exactly.
func TestSeedS2(t *testing.T) {
	s := newSearcher(t, [][2]string{{"hello", "H"}, {"world", "W"}, {"helicopter", "C"}})
	var out []Result
	s.Search(&Query{
		Word: "world", MinCommonLen: 5, MinDwordLen: 1, MaxDwordLen: 20,
		Limit: 10,
	}, &out)
	want := []Result{{Dword: "world", Value: "W", StartPos: 0, CommonLen: 5}}
	if !resultsEqual(out, want) {
		t.Fatalf("Search() = %+v, want %+v", out, want)
	}
}

// S3: a query sharing nothing with the dictionary returns no matches.
func TestSeedS3(t *testing.T) {
	s := newSearcher(t, [][2]string{{"hello", "H"}, {"world", "W"}, {"helicopter", "C"}})
	var out []Result
	s.Search(&Query{Word: "xyz", MinCommonLen: 2, MinDwordLen: 1, MaxDwordLen: 20, Limit: 10}, &out)
	if len(out) != 0 {
		t.Fatalf("Search() = %+v, want empty", out)
	}
}

// S4 (adjusted): three dictionary entries share an 8-byte common prefix
// ("youthful"); a query word matching the first 4 bytes of that prefix
// and then diverging finds all three with common_len = 4.
//
// The word used here differs from the one described in spec.md's S4
// prose: that word's 5th byte happens to equal the dictionary's 5th
// byte ('h'), which extends the true common prefix to 5 bytes ("youth")
// rather than the described 4 ("yout"). "youta" diverges exactly where
// the scenario intends.
func TestSeedS4(t *testing.T) {
	s := newSearcher(t, [][2]string{
		{"youthful", "1"}, {"youthfully", "2"}, {"youthfulness", "3"},
	})
	var out []Result
	s.Search(&Query{
		Word: "youta", MinCommonLen: 4, MinDwordLen: 1, MaxDwordLen: 12, Limit: 10,
	}, &out)
	sortResults(out)
	want := []Result{
		{Dword: "youthful", Value: "1", StartPos: 0, CommonLen: 4},
		{Dword: "youthfully", Value: "2", StartPos: 0, CommonLen: 4},
		{Dword: "youthfulness", Value: "3", StartPos: 0, CommonLen: 4},
	}
	if !resultsEqual(out, want) {
		t.Fatalf("Search() = %+v, want %+v", out, want)
	}
}

// S5: the same 4-byte substring occurs at different offsets in two
// dictionary entries; start_pos reflects each occurrence's own offset.
func TestSeedS5(t *testing.T) {
	s := newSearcher(t, [][2]string{{"abcdef", "1"}, {"zzabcd", "2"}})
	var out []Result
	s.Search(&Query{Word: "abcd", MinCommonLen: 4, MinDwordLen: 1, MaxDwordLen: 20, Limit: 10}, &out)
	sortResults(out)
	want := []Result{
		{Dword: "abcdef", Value: "1", StartPos: 0, CommonLen: 4},
		{Dword: "zzabcd", Value: "2", StartPos: 2, CommonLen: 4},
	}
	if !resultsEqual(out, want) {
		t.Fatalf("Search() = %+v, want %+v", out, want)
	}
}

// Property 7 at the suffix_ratio rounding boundary: with suffix_ratio=0.5
// and min_suffix=2, "hello" (length 5) has minSuffixLen = max(floor(2.5), 2)
// = 2, so its 2-byte suffix "lo" (starting at position 3) must be indexed
// and retrievable by a query for it.
func TestProperty7SuffixRatioBoundaryIsFlooredNotRounded(t *testing.T) {
	opts, err := indexbuild.NewOptions(0.5, 2)
	if err != nil {
		t.Fatalf("NewOptions() error = %v", err)
	}
	records := []dictionary.Record{{Key: "hello", Value: "H"}, {Key: "world", Value: "W"}, {Key: "helicopter", Value: "C"}}
	result, err := indexbuild.Build(records, opts)
	if err != nil {
		t.Fatalf("indexbuild.Build() error = %v", err)
	}
	s := &Searcher{
		Trie:      result.Trie,
		Postings:  result.Postings,
		Dict:      result.Dictionary,
		CharTable: DefaultCharTable(),
	}

	var out []Result
	n := s.Search(&Query{Word: "lo", MinCommonLen: 2, MinDwordLen: 1, MaxDwordLen: 20, Limit: 10}, &out)
	want := []Result{{Dword: "hello", Value: "H", StartPos: 3, CommonLen: 2}}
	if n != len(want) || !resultsEqual(out, want) {
		t.Fatalf("Search() = %+v, want %+v", out, want)
	}
}

func resultsEqual(got, want []Result) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSearchRespectsLimitWithoutAveraging(t *testing.T) {
	s := newSearcher(t, [][2]string{
		{"catalog", "1"}, {"category", "2"}, {"catamaran", "3"}, {"catapult", "4"},
	})
	var out []Result
	n := s.Search(&Query{
		Word: "cat", MinCommonLen: 3, MinDwordLen: 1, MaxDwordLen: 20,
		Limit: 2, ComPrefixOnly: false, AverageLimit: false,
	}, &out)
	if n > 2 || len(out) > 2 {
		t.Fatalf("Search() returned %d results, want <= 2 (limit, not averaged)", len(out))
	}
}

func TestSearchAverageLimitAllowsMoreThanOnePassCap(t *testing.T) {
	s := newSearcher(t, [][2]string{
		{"catalog", "1"}, {"category", "2"}, {"catamaran", "3"}, {"catapult", "4"},
	})
	var out []Result
	s.Search(&Query{
		Word: "catcat", MinCommonLen: 3, MinDwordLen: 1, MaxDwordLen: 20,
		Limit: 1, ComPrefixOnly: false, AverageLimit: true,
	}, &out)
	if len(out) < 2 {
		t.Fatalf("Search() with average_limit returned %d results, want more than the per-pass cap of 1", len(out))
	}
}

func TestSearchZeroLimitReturnsNothing(t *testing.T) {
	s := newSearcher(t, [][2]string{{"hello", "H"}})
	var out []Result
	n := s.Search(&Query{Word: "hello", MinCommonLen: 1, MaxDwordLen: 20, Limit: 0}, &out)
	if n != 0 || len(out) != 0 {
		t.Fatalf("Search() with limit=0 returned %d results, want 0", n)
	}
}

func TestSearchWordShorterThanMinCommonLenReturnsNothing(t *testing.T) {
	s := newSearcher(t, [][2]string{{"hello", "H"}})
	var out []Result
	n := s.Search(&Query{Word: "he", MinCommonLen: 5, MaxDwordLen: 20, Limit: 10}, &out)
	if n != 0 {
		t.Fatalf("Search() with word shorter than min_common_len returned %d results, want 0", n)
	}
}

func TestSearchNilOutReturnsZero(t *testing.T) {
	s := newSearcher(t, [][2]string{{"hello", "H"}})
	if n := s.Search(&Query{Word: "hello", MinCommonLen: 1, MaxDwordLen: 20, Limit: 10}, nil); n != 0 {
		t.Fatalf("Search() with nil out = %d, want 0", n)
	}
}

// com_prefix_only=false tries every starting position of the query word
// of length >= min_common_len; com_prefix_only=true tries only the word
// as given. "xllo" has no dictionary word sharing a 3-byte prefix from
// its own start, but its suffix "llo" (starting at byte 1) does.
func TestComPrefixOnlyMatchesOnlyTheQueryItself(t *testing.T) {
	s := newSearcher(t, [][2]string{{"hello", "H"}, {"helicopter", "C"}})
	var withoutPrefixOnly, withPrefixOnly []Result
	s.Search(&Query{Word: "xllo", MinCommonLen: 3, MaxDwordLen: 20, Limit: 10, ComPrefixOnly: false}, &withoutPrefixOnly)
	s.Search(&Query{Word: "xllo", MinCommonLen: 3, MaxDwordLen: 20, Limit: 10, ComPrefixOnly: true}, &withPrefixOnly)
	if len(withoutPrefixOnly) == 0 {
		t.Fatalf("expected a match for %q without com_prefix_only", "xllo")
	}
	if len(withPrefixOnly) != 0 {
		t.Fatalf("com_prefix_only=true should not match a substring that only occurs starting mid-query, got %+v", withPrefixOnly)
	}
}

func TestBFSAndDFSReturnTheSameMultiset(t *testing.T) {
	s := newSearcher(t, [][2]string{
		{"testing", "1"}, {"tester", "2"}, {"testable", "3"}, {"contest", "4"},
	})
	var bfs, dfs []Result
	q := Query{Word: "test", MinCommonLen: 4, MinDwordLen: 1, MaxDwordLen: 20, Limit: 100}
	qDFS := q
	qDFS.DepthFirstSearch = true
	s.Search(&q, &bfs)
	s.Search(&qDFS, &dfs)
	sortResults(bfs)
	sortResults(dfs)
	if !resultsEqual(bfs, dfs) {
		t.Fatalf("BFS result %+v differs from DFS result %+v", bfs, dfs)
	}
}

func TestValidateCharTableRejectsEmbeddedZeroByte(t *testing.T) {
	if err := ValidateCharTable([]byte{'a', 'b', 0, 'c'}); err == nil {
		t.Fatalf("expected error for char table containing 0x00")
	}
}

func TestValidateCharTableRejectsOversizedTable(t *testing.T) {
	big := make([]byte, 300)
	if err := ValidateCharTable(big); err == nil {
		t.Fatalf("expected error for oversized char table")
	}
}

func TestValidateCharTableAcceptsDefault(t *testing.T) {
	if err := ValidateCharTable(DefaultCharTable()); err != nil {
		t.Fatalf("ValidateCharTable(DefaultCharTable()) error = %v", err)
	}
}
