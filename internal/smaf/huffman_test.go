package smaf

import (
	"bytes"
	"encoding/binary"
	"slices"
	"testing"
)

type bitWriter struct {
	buf []byte
	n   int
}

func (w *bitWriter) bit(b bool) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b {
		w.buf[len(w.buf)-1] |= 0x80 >> (w.n % 8)
	}
	w.n++
}

func (w *bitWriter) bits(code string) {
	for _, c := range code {
		w.bit(c == '1')
	}
}

// writeTree emits a balanced tree over symbols and records each code.
func writeTree(w *bitWriter, symbols []byte, prefix string, codes map[byte]string) {
	if len(symbols) == 1 {
		w.bit(false)
		for i := 7; i >= 0; i-- {
			w.bit(symbols[0]>>i&1 == 1)
		}
		codes[symbols[0]] = prefix
		return
	}
	w.bit(true)
	mid := len(symbols) / 2
	writeTree(w, symbols[:mid], prefix+"0", codes)
	writeTree(w, symbols[mid:], prefix+"1", codes)
}

// compress encodes data in the layout decompress reads. It needs at least
// two distinct symbols.
func compress(data []byte) []byte {
	symbols := slices.Clone(data)
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	w := &bitWriter{}
	codes := map[byte]string{}
	writeTree(w, symbols, "", codes)
	for _, b := range data {
		w.bits(codes[b])
	}
	return append(binary.BigEndian.AppendUint32(nil, uint32(len(data))), w.buf...)
}

func TestDecompress_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"two symbols", []byte{0, 1, 1, 0, 1}},
		{"sequence", mobileSeq},
		{"all bytes", func() []byte {
			b := make([]byte, 512)
			for i := range b {
				b[i] = byte(i * 7)
			}
			return b
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decompress(compress(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("decompress() = % X, want % X", got, tt.data)
			}
		})
	}
}

func TestReadTree_TooManyNodes(t *testing.T) {
	// 257 internal-node bits exhaust the arena before any leaf is read.
	w := &bitWriter{}
	for range 257 {
		w.bit(true)
	}
	tree := &huffTree{next: leafCount}
	if _, err := tree.readTree(&bitReader{data: w.buf}); err == nil {
		t.Error("readTree() error = nil")
	}
}
