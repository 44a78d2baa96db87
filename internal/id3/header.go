// Package id3 decodes ID3v1, ID3v1.1 and ID3v2.2/2.3/2.4 tags.
package id3

import (
	"fmt"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// HeaderSize is the length of the ID3v2 header and of the v2.4 footer.
const HeaderSize = 10

// Header flags.
const (
	flagUnsync   = 0x80
	flagExtended = 0x40
	flagFooter   = 0x10
)

// Header is a parsed ID3v2 tag header.
type Header struct {
	Version  byte // major version: 2, 3 or 4
	Revision byte
	Flags    byte
	Size     uint32 // tag body size, excluding header and footer
}

// ParseHeader parses the 10-byte ID3v2 header at the start of b.
func ParseHeader(b []byte, path string) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, &types.OutOfBoundsError{Path: path, What: "ID3v2 header", Length: HeaderSize, Size: int64(len(b))}
	}
	if string(b[0:3]) != "ID3" {
		return Header{}, &types.UnsupportedFormatError{Path: path, Reason: "missing ID3 marker"}
	}

	h := Header{
		Version:  b[3],
		Revision: b[4],
		Flags:    b[5],
		Size:     binary.Synchsafe(b[6:10]),
	}
	if h.Version < 2 || h.Version > 4 {
		return h, &types.UnsupportedVariantError{Path: path, Variant: fmt.Sprintf("ID3v2.%d", h.Version)}
	}
	return h, nil
}

// HasFooter reports whether a v2.4 footer follows the tag body.
func (h Header) HasFooter() bool {
	return h.Version == 4 && h.Flags&flagFooter != 0
}

// TagLen is the number of bytes the tag occupies on disk.
func (h Header) TagLen() int64 {
	n := int64(HeaderSize) + int64(h.Size)
	if h.HasFooter() {
		n += HeaderSize
	}
	return n
}

// frameHeaderLen is the frame header size for the version.
func (h Header) frameHeaderLen() int {
	if h.Version == 2 {
		return 6
	}
	return 10
}

// frameSize decodes a frame size field.
func (h Header) frameSize(b []byte) uint32 {
	switch h.Version {
	case 2:
		return binary.Uint24(b)
	case 3:
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	default:
		return binary.Synchsafe(b)
	}
}

// validFrameID reports whether id consists only of [0-9A-Z].
func validFrameID(id []byte) bool {
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return len(id) > 0
}

// removeUnsync reverses unsynchronisation (FF 00 -> FF).
func removeUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}
