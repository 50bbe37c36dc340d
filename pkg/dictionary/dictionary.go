// Package dictionary owns the dword pool of the data model: parsing a
// tab-separated dictionary file into records, and laying records out as
// a flat byte pool plus a dword array sorted by key length.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dictx/subtrie/internal/dberr"
)

// Record is one key/value pair as read from a dictionary file.
type Record struct {
	Key   string
	Value string
}

// Dword locates one record's key inside Pool. The value immediately
// follows the key's NUL terminator and ends at its own NUL terminator.
type Dword struct {
	Offset uint32
	Size   uint32
}

// Dictionary is the dword array plus the pool it indexes into. Words is
// sorted ascending by Size, ties broken by original insertion order
// (stable sort), so a word's index in Words doubles as its dwordid.
type Dictionary struct {
	Pool  []byte
	Words []Dword
}

// ParseFile reads key<TAB>value<LF> lines from path. Lines without a TAB
// are discarded. Duplicate keys keep the last value seen but the
// position of the first occurrence, so output order stays deterministic
// regardless of how many times a key repeats.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dberr.ErrBadInputFile, err)
	}
	defer f.Close()

	index := make(map[string]int)
	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		key, value := line[:tab], line[tab+1:]
		if i, ok := index[key]; ok {
			records[i].Value = value
			continue
		}
		index[key] = len(records)
		records = append(records, Record{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", dberr.ErrBadInputFile, err)
	}
	return records, nil
}

// BuildFromRecords lays records out as a pool and a dword array sorted
// by key length (stable, so equal-length keys keep their input order).
func BuildFromRecords(records []Record) *Dictionary {
	pool := make([]byte, 0)
	words := make([]Dword, 0, len(records))
	for _, r := range records {
		offset := uint32(len(pool))
		pool = append(pool, []byte(r.Key)...)
		pool = append(pool, 0)
		pool = append(pool, []byte(r.Value)...)
		pool = append(pool, 0)
		words = append(words, Dword{Offset: offset, Size: uint32(len(r.Key))})
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].Size < words[j].Size })
	return &Dictionary{Pool: pool, Words: words}
}

func (d *Dictionary) dword(id uint32) Dword {
	if int(id) >= len(d.Words) {
		panic(&dberr.CorruptionError{Msg: fmt.Sprintf("dwordid %d out of range (have %d)", id, len(d.Words))})
	}
	return d.Words[id]
}

// Dword returns the Dword entry for id, panicking with a
// *dberr.CorruptionError if id is out of range.
func (d *Dictionary) Dword(id uint32) Dword { return d.dword(id) }

// Key returns the key text for dword id.
func (d *Dictionary) Key(id uint32) string {
	dw := d.dword(id)
	end := uint64(dw.Offset) + uint64(dw.Size)
	if end > uint64(len(d.Pool)) {
		panic(&dberr.CorruptionError{Msg: fmt.Sprintf("dwordid %d key exceeds pool bounds", id)})
	}
	return string(d.Pool[dw.Offset:end])
}

// Value returns the value text for dword id.
func (d *Dictionary) Value(id uint32) string {
	dw := d.dword(id)
	start := uint64(dw.Offset) + uint64(dw.Size) + 1
	if start > uint64(len(d.Pool)) {
		panic(&dberr.CorruptionError{Msg: fmt.Sprintf("dwordid %d value offset exceeds pool bounds", id)})
	}
	end := start
	for end < uint64(len(d.Pool)) && d.Pool[end] != 0 {
		end++
	}
	if end >= uint64(len(d.Pool)) {
		panic(&dberr.CorruptionError{Msg: fmt.Sprintf("dwordid %d value is unterminated", id)})
	}
	return string(d.Pool[start:end])
}
