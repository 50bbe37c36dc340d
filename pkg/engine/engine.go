// Package engine is the facade tying pkg/serialize, pkg/indexbuild and
// pkg/search together into the three public operations a caller
// actually needs: Build, Read, Search.
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dictx/subtrie/internal/dberr"
	"github.com/dictx/subtrie/pkg/dictionary"
	"github.com/dictx/subtrie/pkg/indexbuild"
	"github.com/dictx/subtrie/pkg/search"
	"github.com/dictx/subtrie/pkg/serialize"
)

// ErrorKind classifies an EngineError, mirroring the taxonomy of
// BadInputFile, BadFormat, BadCharTable, and BadArg.
type ErrorKind int

const (
	KindBadInputFile ErrorKind = iota
	KindBadFormat
	KindBadCharTable
	KindBadArg
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadInputFile:
		return "BadInputFile"
	case KindBadFormat:
		return "BadFormat"
	case KindBadCharTable:
		return "BadCharTable"
	case KindBadArg:
		return "BadArg"
	default:
		return "Unknown"
	}
}

// EngineError wraps an underlying error with the taxonomy kind it falls
// under, so callers can branch with errors.As without string matching.
type EngineError struct {
	Kind ErrorKind
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

func wrapErr(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Kind: kind, Err: err}
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, dberr.ErrBadInputFile):
		return KindBadInputFile
	case errors.Is(err, dberr.ErrBadCharTable):
		return KindBadCharTable
	case errors.Is(err, dberr.ErrBadFormat):
		return KindBadFormat
	default:
		return KindBadFormat
	}
}

// Engine is the mutable, goroutine-safe handle a caller builds, loads,
// and searches through. Build and Read are mutually exclusive with
// each other and with SetCharTable; Search only takes a read lock long
// enough to snapshot the immutable pointers it needs, so concurrent
// Search calls never block each other.
type Engine struct {
	mu sync.RWMutex

	result    *indexbuild.Result
	charTable search.CharTable

	buildOpts indexbuild.Options
}

// New returns an Engine with no database loaded. Search on a zero-value
// or just-constructed Engine returns 0 results until Build or Read
// succeeds.
func New() *Engine {
	return &Engine{charTable: search.DefaultCharTable()}
}

// Build parses dictPath (key<TAB>value<LF> per line), builds the trie
// and inverted index with opts, writes the result to dbPath, and swaps
// it in as the Engine's active database.
func (e *Engine) Build(dictPath, dbPath string, opts indexbuild.Options) error {
	records, err := dictionary.ParseFile(dictPath)
	if err != nil {
		return wrapErr(classify(err), err)
	}

	result, err := indexbuild.Build(records, opts)
	if err != nil {
		return wrapErr(KindBadArg, err)
	}

	f, err := os.Create(dbPath)
	if err != nil {
		return wrapErr(KindBadInputFile, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := serialize.Write(w, result.Trie, result.Dictionary, result.Postings); err != nil {
		return wrapErr(KindBadFormat, err)
	}
	if err := w.Flush(); err != nil {
		return wrapErr(KindBadFormat, err)
	}

	e.mu.Lock()
	e.result = result
	e.buildOpts = opts
	e.mu.Unlock()

	log.Debugf("engine: built %d dwords from %s into %s", len(result.Dictionary.Words), dictPath, dbPath)
	return nil
}

// Read loads a database previously written by Build, swapping it in as
// the Engine's active database and returning the number of bytes
// consumed. It returns a wrapped error (never a panic) on any framing
// problem, since pkg/serialize.Read validates framing before touching
// cross-references; a CorruptionError can still panic out of a later
// Search call if the content inside a well-framed block is itself
// malformed (see pkg/doublearray, pkg/postings, pkg/dictionary).
func (e *Engine) Read(dbPath string) (int64, error) {
	f, err := os.Open(dbPath)
	if err != nil {
		return 0, wrapErr(KindBadInputFile, err)
	}
	defer f.Close()

	trie, dict, idx, n, err := serialize.Read(bufio.NewReader(f))
	if err != nil {
		return 0, wrapErr(KindBadFormat, err)
	}

	e.mu.Lock()
	e.result = &indexbuild.Result{Trie: trie, Dictionary: dict, Postings: idx}
	e.buildOpts = indexbuild.Options{}
	e.mu.Unlock()

	log.Debugf("engine: read %d bytes from %s", n, dbPath)
	return n, nil
}

// Search runs q against the Engine's active database and appends
// matches to *out. It returns 0 without error if no database is
// loaded yet.
func (e *Engine) Search(q *search.Query, out *[]search.Result) int {
	e.mu.RLock()
	result := e.result
	charTable := e.charTable
	e.mu.RUnlock()

	if result == nil {
		if out != nil {
			*out = (*out)[:0]
		}
		return 0
	}

	s := &search.Searcher{
		Trie:      result.Trie,
		Postings:  result.Postings,
		Dict:      result.Dictionary,
		CharTable: charTable,
	}
	return s.Search(q, out)
}

// SetCharTable replaces the char table a future Search expands against.
// An empty t falls back to search.DefaultCharTable(), matching the
// config loader's treatment of an unset [build].char_table. It is
// exclusive with Search (held under the write lock) since it mutates
// shared state a concurrent Search could be reading.
func (e *Engine) SetCharTable(t []byte) error {
	if len(t) == 0 {
		e.mu.Lock()
		e.charTable = search.DefaultCharTable()
		e.mu.Unlock()
		return nil
	}

	if err := search.ValidateCharTable(t); err != nil {
		return wrapErr(KindBadCharTable, err)
	}
	table := make(search.CharTable, len(t))
	copy(table, t)

	e.mu.Lock()
	e.charTable = table
	e.mu.Unlock()
	return nil
}

// DwordCount returns the number of dwords in the active database, or 0
// if none is loaded.
func (e *Engine) DwordCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.result == nil {
		return 0
	}
	return len(e.result.Dictionary.Words)
}

// SuffixRatio returns the suffix_ratio the active database was built
// with, or 0 if it was loaded from disk rather than built in-process
// (the on-disk format does not carry build options).
func (e *Engine) SuffixRatio() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buildOpts.SuffixRatio
}

// MinSuffix returns the min_suffix the active database was built with,
// or 0 if it was loaded from disk rather than built in-process.
func (e *Engine) MinSuffix() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buildOpts.MinSuffix
}
