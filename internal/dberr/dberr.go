// Package dberr holds the error values shared across the trie, postings,
// dictionary and serialisation packages so callers can classify failures
// with errors.Is regardless of which layer raised them.
package dberr

import "errors"

var (
	// ErrBadInputFile covers a dictionary file that cannot be opened or read.
	ErrBadInputFile = errors.New("subtrie: bad input file")
	// ErrBadFormat covers a database file that fails block framing checks:
	// bad magic, short read, or a block size that doesn't divide evenly
	// into its record size.
	ErrBadFormat = errors.New("subtrie: bad database format")
	// ErrBadCharTable covers a character table that is too long or embeds
	// the reserved 0x00 byte.
	ErrBadCharTable = errors.New("subtrie: bad character table")
	// ErrBadArg covers an invalid query or build argument.
	ErrBadArg = errors.New("subtrie: bad argument")
)

// CorruptionError marks a reference read from a loaded database that
// points outside the bounds of another block (a trie node id, tail
// offset, suffixid or dwordid). It is raised by panicking, never by a
// returned error, because it can only be discovered mid-traversal, deep
// inside a call stack that has no business returning it as a normal
// error value.
type CorruptionError struct {
	Msg string
}

func (e *CorruptionError) Error() string { return "subtrie: corruption: " + e.Msg }
