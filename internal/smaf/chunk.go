package smaf

import (
	"encoding/binary"
	"fmt"
)

const chunkHeaderLen = 8

// chunk is one SMAF chunk: a 4-byte identifier and a big-endian size.
type chunk struct {
	id   string
	off  int // offset of the header within the parent
	data []byte
}

// splitChunks cuts b into consecutive chunks. When a chunk overruns b the
// chunks before it are returned with an error.
func splitChunks(b []byte) ([]chunk, error) {
	var out []chunk
	for off := 0; off < len(b); {
		if len(b)-off < chunkHeaderLen {
			return out, fmt.Errorf("%d trailing bytes at %d", len(b)-off, off)
		}
		id := string(b[off : off+4])
		n := binary.BigEndian.Uint32(b[off+4 : off+8])
		start := off + chunkHeaderLen
		if uint64(n) > uint64(len(b)-start) {
			return out, fmt.Errorf("chunk %q at %d: size %d exceeds remaining %d bytes", printable(id), off, n, len(b)-start)
		}
		out = append(out, chunk{id: id, off: off, data: b[start : start+int(n)]})
		off = start + int(n)
	}
	return out, nil
}

func printable(id string) string {
	b := []byte(id)
	for i, c := range b {
		if c < 0x20 || c > 0x7E {
			b[i] = '.'
		}
	}
	return string(b)
}
