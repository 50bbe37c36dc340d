// Package tailstore implements the byte arena backing leaf suffixes in a
// pkg/doublearray trie (C1): a flat buffer of NUL-terminated strings each
// followed by a 4-byte little-endian payload, addressed by byte offset.
package tailstore

import (
	"encoding/binary"

	"github.com/dictx/subtrie/internal/dberr"
)

// Store is the tail buffer. Offset 0 is never a valid record start; the
// builder reserves it so a zero BASE value can never be mistaken for a
// leaf pointing at offset 0.
type Store struct {
	data []byte
}

// NewStore returns an empty store with offset 0 reserved.
func NewStore() *Store {
	return &Store{data: []byte{0}}
}

// Load wraps a byte slice read from disk as a Store without copying it.
func Load(data []byte) *Store {
	return &Store{data: data}
}

// Bytes returns the store's backing buffer.
func (s *Store) Bytes() []byte {
	return s.data
}

// Append writes suffix, a NUL terminator, and payload (little-endian) to
// the end of the store and returns the offset the record starts at.
func (s *Store) Append(suffix []byte, payload uint32) uint32 {
	offset := uint32(len(s.data))
	s.data = append(s.data, suffix...)
	s.data = append(s.data, 0)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], payload)
	s.data = append(s.data, buf[:]...)
	return offset
}

// Cursor reads a Store at an explicit offset. A Cursor must not be shared
// across goroutines; callers create one per search call.
type Cursor struct {
	store *Store
	pos   uint32
}

// NewCursor returns a cursor positioned at offset 0.
func (s *Store) NewCursor() *Cursor {
	return &Cursor{store: s}
}

// Seek repositions the cursor.
func (c *Cursor) Seek(offset uint32) {
	c.pos = offset
}

// Strlen returns the length of the NUL-terminated string starting at the
// cursor's current position, without moving it.
func (c *Cursor) Strlen() int {
	data := c.store.data
	if int(c.pos) > len(data) {
		panic(&dberr.CorruptionError{Msg: "tail cursor offset out of range"})
	}
	i := c.pos
	for int(i) < len(data) && data[i] != 0 {
		i++
	}
	if int(i) >= len(data) {
		panic(&dberr.CorruptionError{Msg: "unterminated tail string"})
	}
	return int(i - c.pos)
}

// MatchPrefix returns the length of the common prefix between the tail
// bytes at the cursor's current position and s.
func (c *Cursor) MatchPrefix(s []byte) int {
	data := c.store.data
	i, n := c.pos, 0
	for n < len(s) && int(i) < len(data) && data[i] != 0 && data[i] == s[n] {
		i++
		n++
	}
	return n
}

// ReadUint32 reads 4 little-endian bytes at the cursor's current position.
func (c *Cursor) ReadUint32() uint32 {
	data := c.store.data
	if int(c.pos)+4 > len(data) {
		panic(&dberr.CorruptionError{Msg: "tail cursor read past end of buffer"})
	}
	return binary.LittleEndian.Uint32(data[c.pos : c.pos+4])
}
