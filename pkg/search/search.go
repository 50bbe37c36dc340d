// Package search implements the common-substring search procedure (C6):
// an LCP descent per query suffix, a backtrack stack of internal nodes
// visited along the way, and a bounded BFS/DFS expansion under each
// backtracked node to enumerate every dword sharing a common substring
// with the query word of at least MinCommonLen bytes.
package search

import (
	"github.com/dictx/subtrie/pkg/dictionary"
	"github.com/dictx/subtrie/pkg/doublearray"
	"github.com/dictx/subtrie/pkg/postings"
	"github.com/dictx/subtrie/pkg/tailstore"
)

// Query parameterises one search call: the query word, the minimum
// common-substring length, the inclusive dword length window, the result
// limit, and the traversal, prefix-only and per-pass limit switches.
type Query struct {
	Word             string
	MinCommonLen     int
	MinDwordLen      int
	MaxDwordLen      int
	Limit            int
	DepthFirstSearch bool
	ComPrefixOnly    bool
	AverageLimit     bool
}

// Result is one match: Dword and Value are the matching dictionary
// entry, StartPos is the byte offset of the common substring within
// Dword, and CommonLen is the length of the common substring.
type Result struct {
	Dword     string
	Value     string
	StartPos  int
	CommonLen int
}

// Searcher bundles the read-only state a search needs. Its fields are
// never mutated by Search, so a Searcher value may be copied freely and
// used concurrently across distinct Query values.
type Searcher struct {
	Trie      *doublearray.Trie
	Postings  *postings.Index
	Dict      *dictionary.Dictionary
	CharTable CharTable
}

// Search runs q against s and appends matches to *out, clearing any
// prior contents first. It returns the number of results appended.
//
// Returns 0 without searching when out is nil, when len(q.Word) <
// q.MinCommonLen, or when q.Limit == 0 — all BadArg conditions that are
// cheaper to check once here than to re-derive inside every traversal.
func (s *Searcher) Search(q *Query, out *[]Result) int {
	if out == nil || len(q.Word) < q.MinCommonLen || q.Limit == 0 {
		return 0
	}
	*out = (*out)[:0]

	if q.ComPrefixOnly {
		s.compreSearch(q, out)
		return len(*out)
	}

	sub := *q
	for i := 0; i <= len(q.Word)-q.MinCommonLen; i++ {
		sub.Word = q.Word[i:]
		if q.AverageLimit {
			sub.Limit = len(*out) + q.Limit
		}
		s.compreSearch(&sub, out)
	}
	return len(*out)
}

type nodeInfo struct {
	node      int32
	suffixLen int
}

// compreSearch finds the longest common prefix between q.Word and any
// key in the trie, backtracking through every internal node visited
// along the way at or past q.MinCommonLen and expanding each into its
// full set of matches.
func (s *Searcher) compreSearch(q *Query, out *[]Result) int {
	if q.MinCommonLen > len(q.Word) || q.MinCommonLen > q.MaxDwordLen {
		return 0
	}
	before := len(*out)

	cur := s.Trie.Root()
	if s.Trie.IsLeaf(cur) {
		return 0
	}

	cursor := s.Trie.NewCursor()
	var stack []int32
	matchLen := 0

	for matchLen < len(q.Word) && matchLen <= q.MaxDwordLen {
		next, ok := s.Trie.Descend(cur, q.Word[matchLen])
		if !ok {
			break
		}
		cur = next
		matchLen++

		if s.Trie.IsLeaf(cur) {
			matchLenSave := matchLen
			offset := s.Trie.TailOffset(cur)
			cursor.Seek(offset)
			tailLen := cursor.Strlen()
			suffixLen := matchLen + tailLen

			remain := q.Word[matchLen:]
			matchLen += cursor.MatchPrefix([]byte(remain))

			if matchLen >= q.MinCommonLen {
				cursor.Seek(offset + uint32(tailLen) + 1)
				suffixID := cursor.ReadUint32()
				s.retrieveDword(q, matchLen, suffixID, suffixLen, out)
			}
			matchLen = matchLenSave - 1
			break
		}

		if matchLen >= q.MinCommonLen {
			stack = append(stack, cur)
		}
	}

	except := doublearray.Invalid
	for i := len(stack) - 1; i >= 0; i-- {
		node := stack[i]
		if q.DepthFirstSearch {
			s.dfTraversal(q, node, matchLen, except, out, cursor)
		} else {
			s.bfTraversal(q, node, matchLen, except, out, cursor)
		}
		except = node
		matchLen--
	}

	return len(*out) - before
}

func (s *Searcher) leafMatch(q *Query, n nodeInfo, matchLen int, out *[]Result, cursor *tailstore.Cursor) {
	offset := s.Trie.TailOffset(n.node)
	cursor.Seek(offset)
	tailLen := cursor.Strlen()
	suffixLen := n.suffixLen + tailLen
	if suffixLen > q.MaxDwordLen {
		return
	}
	cursor.Seek(offset + uint32(tailLen) + 1)
	suffixID := cursor.ReadUint32()
	s.retrieveDword(q, matchLen, suffixID, suffixLen, out)
}

// bfTraversal enumerates every leaf reachable from start without
// revisiting except's subtree, breadth-first. The \0 pseudo-child (the
// "key ends here" marker) is always visited before the ordinary
// character-table children, and once suffixLen reaches MaxDwordLen only
// the \0 child is considered — a longer suffix can never fit.
func (s *Searcher) bfTraversal(q *Query, start int32, matchLen int, except int32, out *[]Result, cursor *tailstore.Cursor) int {
	if matchLen > q.MaxDwordLen || len(*out) >= q.Limit {
		return 0
	}
	before := len(*out)
	queue := []nodeInfo{{start, matchLen}}
	for len(queue) > 0 && len(*out) < q.Limit {
		n := queue[0]
		queue = queue[1:]

		if s.Trie.IsLeaf(n.node) {
			s.leafMatch(q, n, matchLen, out, cursor)
			continue
		}
		if n.suffixLen > q.MaxDwordLen {
			continue
		}
		if child, ok := s.Trie.Descend(n.node, 0); ok && child != except {
			queue = append(queue, nodeInfo{child, n.suffixLen})
		}
		if n.suffixLen == q.MaxDwordLen {
			continue
		}
		for _, c := range s.CharTable {
			child, ok := s.Trie.Descend(n.node, c)
			if !ok || child == except {
				continue
			}
			queue = append(queue, nodeInfo{child, n.suffixLen + 1})
		}
	}
	return len(*out) - before
}

// dfTraversal is bfTraversal's depth-first twin: same visitation order
// (\0 before the character table, ascending label order within it), a
// stack instead of a queue.
func (s *Searcher) dfTraversal(q *Query, start int32, matchLen int, except int32, out *[]Result, cursor *tailstore.Cursor) int {
	if matchLen > q.MaxDwordLen || len(*out) >= q.Limit {
		return 0
	}
	before := len(*out)
	stack := []nodeInfo{{start, matchLen}}
	for len(stack) > 0 && len(*out) < q.Limit {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.Trie.IsLeaf(n.node) {
			s.leafMatch(q, n, matchLen, out, cursor)
			continue
		}
		if n.suffixLen > q.MaxDwordLen {
			continue
		}
		if n.suffixLen < q.MaxDwordLen {
			for i := len(s.CharTable) - 1; i >= 0; i-- {
				c := s.CharTable[i]
				child, ok := s.Trie.Descend(n.node, c)
				if !ok || child == except {
					continue
				}
				stack = append(stack, nodeInfo{child, n.suffixLen + 1})
			}
		}
		if child, ok := s.Trie.Descend(n.node, 0); ok && child != except {
			stack = append(stack, nodeInfo{child, n.suffixLen})
		}
	}
	return len(*out) - before
}

// retrieveDword appends every dword in suffixID's posting list whose
// length is within [q.MinDwordLen, q.MaxDwordLen], up to q.Limit total
// results across the whole search. The posting list is already sorted
// by dword length, so the lower bound on length is a single binary
// search and the upper bound is a break on first violation.
func (s *Searcher) retrieveDword(q *Query, matchLen int, suffixID uint32, suffixLen int, out *[]Result) int {
	if len(*out) >= q.Limit {
		return 0
	}
	list := s.Postings.List(suffixID)
	pos := postings.LowerBound(list, uint32(q.MinDwordLen), func(id uint32) uint32 { return s.Dict.Dword(id).Size })

	count := 0
	for ; pos < len(list); pos++ {
		dwordID := list[pos]
		dw := s.Dict.Dword(dwordID)
		if int(dw.Size) > q.MaxDwordLen {
			break
		}
		*out = append(*out, Result{
			Dword:     s.Dict.Key(dwordID),
			Value:     s.Dict.Value(dwordID),
			StartPos:  int(dw.Size) - suffixLen,
			CommonLen: matchLen,
		})
		count++
		if len(*out) >= q.Limit {
			break
		}
	}
	return count
}
