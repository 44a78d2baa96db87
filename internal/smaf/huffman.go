package smaf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Huffman tree arena. Node indexes below leafCount are leaves whose index is
// the literal byte; internal nodes are allocated from leafCount upward.
const (
	leafCount = 256
	nodeCount = 512

	// maxDecoded bounds the declared size of compressed sequence data.
	maxDecoded = 16 << 20
)

type node uint16

type huffTree struct {
	left, right [nodeCount]node
	next        node
	root        node
}

var errBitsExhausted = errors.New("compressed data exhausted")

type bitReader struct {
	data []byte
	pos  int // bit position
}

func (r *bitReader) bit() (bool, error) {
	if r.pos >= len(r.data)*8 {
		return false, errBitsExhausted
	}
	b := r.data[r.pos>>3]&(0x80>>(r.pos&7)) != 0
	r.pos++
	return b, nil
}

func (r *bitReader) byte8() (byte, error) {
	var v byte
	for range 8 {
		b, err := r.bit()
		if err != nil {
			return 0, err
		}
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v, nil
}

// readTree reads the tree shape: a 1 bit is an internal node followed by its
// left and right subtrees, a 0 bit is a leaf followed by its 8-bit literal.
func (t *huffTree) readTree(r *bitReader) (node, error) {
	internal, err := r.bit()
	if err != nil {
		return 0, err
	}
	if !internal {
		v, err := r.byte8()
		return node(v), err
	}
	if t.next >= nodeCount {
		return 0, errors.New("huffman tree has more than 256 leaves")
	}
	n := t.next
	t.next++
	if t.left[n], err = t.readTree(r); err != nil {
		return 0, err
	}
	if t.right[n], err = t.readTree(r); err != nil {
		return 0, err
	}
	return n, nil
}

// decompress expands Huffman-coded sequence data: a 4-byte big-endian
// decoded size, the tree shape, then the code stream.
func decompress(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("compressed data of %d bytes has no size", len(b))
	}
	size := binary.BigEndian.Uint32(b)
	if size > maxDecoded {
		return nil, fmt.Errorf("decoded size %d exceeds %d", size, maxDecoded)
	}

	r := &bitReader{data: b[4:]}
	t := &huffTree{next: leafCount}
	root, err := t.readTree(r)
	if err != nil {
		return nil, fmt.Errorf("read huffman tree: %w", err)
	}
	t.root = root

	out := make([]byte, 0, min(int(size), len(b)*8))
	for len(out) < int(size) {
		n := t.root
		for n >= leafCount {
			bit, err := r.bit()
			if err != nil {
				return out, fmt.Errorf("decoded %d of %d bytes: %w", len(out), size, err)
			}
			if bit {
				n = t.right[n]
			} else {
				n = t.left[n]
			}
		}
		out = append(out, byte(n))
	}
	return out, nil
}
