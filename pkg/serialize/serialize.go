// Package serialize implements the fixed binary database format (C7):
// a trie block followed by four magic-framed blocks (DWDP, DWAR, IDAR,
// IIND) holding the dword pool, dword array, posting id pool, and
// posting headers. Every block is little-endian and self-describing
// (magic + u32 size), so Read can validate framing before it ever
// indexes into a payload.
package serialize

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dictx/subtrie/internal/dberr"
	"github.com/dictx/subtrie/pkg/dictionary"
	"github.com/dictx/subtrie/pkg/doublearray"
	"github.com/dictx/subtrie/pkg/postings"
	"github.com/dictx/subtrie/pkg/tailstore"
)

const (
	magicTrie = "TRIE"
	magicDWDP = "DWDP"
	magicDWAR = "DWAR"
	magicIDAR = "IDAR"
	magicIIND = "IIND"
)

// Write serialises trie, dict and idx to w in the order the format
// requires: trie block, DWDP, DWAR, IDAR, IIND.
func Write(w io.Writer, trie *doublearray.Trie, dict *dictionary.Dictionary, idx *postings.Index) error {
	if err := writeTrieBlock(w, trie); err != nil {
		return err
	}
	if err := writeBlock(w, magicDWDP, dict.Pool); err != nil {
		return err
	}
	if err := writeBlock(w, magicDWAR, encodeDwords(dict.Words)); err != nil {
		return err
	}
	if err := writeBlock(w, magicIDAR, encodeUint32s(idx.Pool)); err != nil {
		return err
	}
	if err := writeBlock(w, magicIIND, encodeHeaders(idx.Headers)); err != nil {
		return err
	}
	return nil
}

// Read deserialises a database written by Write, returning the number of
// bytes consumed on success. A framing error (bad magic, short read, or
// a block size that doesn't divide evenly into its record size) is
// returned wrapped in dberr.ErrBadFormat and zero bytes consumed;
// Read never panics, since it only copies bytes and never dereferences
// a cross-reference between blocks.
func Read(r io.Reader) (*doublearray.Trie, *dictionary.Dictionary, *postings.Index, int64, error) {
	var consumed int64

	trie, n, err := readTrieBlock(r)
	consumed += n
	if err != nil {
		return nil, nil, nil, 0, err
	}

	pool, n, err := readBlock(r, magicDWDP)
	consumed += n
	if err != nil {
		return nil, nil, nil, 0, err
	}

	dwordBytes, n, err := readBlock(r, magicDWAR)
	consumed += n
	if err != nil {
		return nil, nil, nil, 0, err
	}
	words, err := decodeDwords(dwordBytes)
	if err != nil {
		return nil, nil, nil, 0, err
	}

	idBytes, n, err := readBlock(r, magicIDAR)
	consumed += n
	if err != nil {
		return nil, nil, nil, 0, err
	}
	idPool, err := decodeUint32s(idBytes)
	if err != nil {
		return nil, nil, nil, 0, err
	}

	headerBytes, n, err := readBlock(r, magicIIND)
	consumed += n
	if err != nil {
		return nil, nil, nil, 0, err
	}
	headers, err := decodeHeaders(headerBytes)
	if err != nil {
		return nil, nil, nil, 0, err
	}

	dict := &dictionary.Dictionary{Pool: pool, Words: words}
	idx := &postings.Index{Headers: headers, Pool: idPool}
	return trie, dict, idx, consumed, nil
}

func writeBlock(w io.Writer, magic string, payload []byte) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	var sz [4]byte
	binary.LittleEndian.PutUint32(sz[:], uint32(len(payload)))
	if _, err := w.Write(sz[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readBlock(r io.Reader, expectMagic string) ([]byte, int64, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: reading %s magic: %v", dberr.ErrBadFormat, expectMagic, err)
	}
	if string(magic[:]) != expectMagic {
		return nil, 4, fmt.Errorf("%w: expected magic %q, got %q", dberr.ErrBadFormat, expectMagic, magic[:])
	}
	var szBuf [4]byte
	if _, err := io.ReadFull(r, szBuf[:]); err != nil {
		return nil, 8, fmt.Errorf("%w: reading %s block size: %v", dberr.ErrBadFormat, expectMagic, err)
	}
	size := binary.LittleEndian.Uint32(szBuf[:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, int64(8 + size), fmt.Errorf("%w: reading %s block payload: %v", dberr.ErrBadFormat, expectMagic, err)
	}
	return payload, int64(8 + size), nil
}

func writeTrieBlock(w io.Writer, trie *doublearray.Trie) error {
	var buf bytes.Buffer
	writeUint32(&buf, uint32(len(trie.Base)))
	for _, v := range trie.Base {
		writeUint32(&buf, uint32(v))
	}
	for _, v := range trie.Check {
		writeUint32(&buf, uint32(v))
	}
	tail := trie.Tail.Bytes()
	writeUint32(&buf, uint32(len(tail)))
	buf.Write(tail)
	return writeBlock(w, magicTrie, buf.Bytes())
}

func readTrieBlock(r io.Reader) (*doublearray.Trie, int64, error) {
	payload, n, err := readBlock(r, magicTrie)
	if err != nil {
		return nil, n, err
	}
	buf := bytes.NewReader(payload)
	nodeCount, err := readUint32(buf)
	if err != nil {
		return nil, n, fmt.Errorf("%w: reading trie node count: %v", dberr.ErrBadFormat, err)
	}
	base := make([]int32, nodeCount)
	for i := range base {
		v, err := readUint32(buf)
		if err != nil {
			return nil, n, fmt.Errorf("%w: reading trie BASE: %v", dberr.ErrBadFormat, err)
		}
		base[i] = int32(v)
	}
	check := make([]int32, nodeCount)
	for i := range check {
		v, err := readUint32(buf)
		if err != nil {
			return nil, n, fmt.Errorf("%w: reading trie CHECK: %v", dberr.ErrBadFormat, err)
		}
		check[i] = int32(v)
	}
	tailLen, err := readUint32(buf)
	if err != nil {
		return nil, n, fmt.Errorf("%w: reading tail length: %v", dberr.ErrBadFormat, err)
	}
	tailBytes := make([]byte, tailLen)
	if _, err := io.ReadFull(buf, tailBytes); err != nil {
		return nil, n, fmt.Errorf("%w: reading tail bytes: %v", dberr.ErrBadFormat, err)
	}
	trie := &doublearray.Trie{Base: base, Check: check, Tail: tailstore.Load(tailBytes)}
	return trie, n, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func encodeDwords(words []dictionary.Dword) []byte {
	buf := make([]byte, 0, len(words)*8)
	for _, w := range words {
		var b [8]byte
		binary.LittleEndian.PutUint32(b[0:4], w.Offset)
		binary.LittleEndian.PutUint32(b[4:8], w.Size)
		buf = append(buf, b[:]...)
	}
	return buf
}

func decodeDwords(data []byte) ([]dictionary.Dword, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%w: dword array size %d is not a multiple of 8", dberr.ErrBadFormat, len(data))
	}
	words := make([]dictionary.Dword, len(data)/8)
	for i := range words {
		off := i * 8
		words[i] = dictionary.Dword{
			Offset: binary.LittleEndian.Uint32(data[off : off+4]),
			Size:   binary.LittleEndian.Uint32(data[off+4 : off+8]),
		}
	}
	return words, nil
}

func encodeUint32s(vals []uint32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], v)
	}
	return buf
}

func decodeUint32s(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: id pool size %d is not a multiple of 4", dberr.ErrBadFormat, len(data))
	}
	vals := make([]uint32, len(data)/4)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}
	return vals, nil
}

func encodeHeaders(headers []postings.Header) []byte {
	buf := make([]byte, 0, len(headers)*8)
	for _, h := range headers {
		var b [8]byte
		binary.LittleEndian.PutUint32(b[0:4], h.Offset)
		binary.LittleEndian.PutUint32(b[4:8], h.Size)
		buf = append(buf, b[:]...)
	}
	return buf
}

func decodeHeaders(data []byte) ([]postings.Header, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%w: header array size %d is not a multiple of 8", dberr.ErrBadFormat, len(data))
	}
	headers := make([]postings.Header, len(data)/8)
	for i := range headers {
		off := i * 8
		headers[i] = postings.Header{
			Offset: binary.LittleEndian.Uint32(data[off : off+4]),
			Size:   binary.LittleEndian.Uint32(data[off+4 : off+8]),
		}
	}
	return headers, nil
}
