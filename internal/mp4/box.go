// Package mp4 walks ISO-BMFF (MP4/3GP/M4A) box trees and extracts 3GPP
// user-data tags, ID3v2 and iTunes metadata, and track properties.
package mp4

import (
	"fmt"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// Box is one box header in the tree.
type Box struct {
	Size     int64  // total size including header
	Type     string // 4-character type code
	Offset   int64  // position of the header in the file
	Extended bool   // 64-bit largesize header
}

// HeaderLen returns 16 for largesize boxes and 8 otherwise.
func (b Box) HeaderLen() int64 {
	if b.Extended {
		return 16
	}
	return 8
}

// DataOffset returns the file offset where the box payload starts.
func (b Box) DataOffset() int64 { return b.Offset + b.HeaderLen() }

// DataSize returns the payload length.
func (b Box) DataSize() int64 { return b.Size - b.HeaderLen() }

// End returns the offset just past the box.
func (b Box) End() int64 { return b.Offset + b.Size }

// readBox reads the box header at off. The box must fit in [off, end): a
// declared size of 0 extends the box to end, a size below the header
// length is corrupt and a size past end is truncated.
func readBox(sr *binary.SafeReader, off, end int64) (Box, error) {
	if end-off < 8 {
		return Box{}, &types.OutOfBoundsError{Path: sr.Path(), What: "box header", Offset: off, Length: 8, Size: end}
	}
	hdr, err := sr.Bytes(off, 8, "box header")
	if err != nil {
		return Box{}, err
	}

	b := Box{
		Type:   string(hdr[4:8]),
		Offset: off,
		Size:   int64(uint32(hdr[0])<<24 | uint32(hdr[1])<<16 | uint32(hdr[2])<<8 | uint32(hdr[3])),
	}

	switch b.Size {
	case 0:
		b.Size = end - off
	case 1:
		large, err := binary.Read[uint64](sr, off+8, "box largesize")
		if err != nil {
			return b, err
		}
		if large > uint64(1<<62) {
			return b, &types.OutOfBoundsError{Path: sr.Path(), What: b.Type + " box", Offset: off, Size: end}
		}
		b.Size = int64(large)
		b.Extended = true
	}

	if b.Size < b.HeaderLen() {
		return b, &types.CorruptedFileError{
			Path:    sr.Path(),
			Element: b.Type,
			Offset:  off,
			Reason:  fmt.Sprintf("box size %d below header length", b.Size),
		}
	}
	if b.End() > end {
		return b, &types.OutOfBoundsError{
			Path:   sr.Path(),
			What:   b.Type + " box",
			Offset: off,
			Length: int(min(b.Size, 1<<31-1)),
			Size:   end,
		}
	}
	return b, nil
}

// validType reports whether t looks like a FourCC: printable ASCII or the
// 0xA9 copyright sign used by iTunes item names.
func validType(t string) bool {
	if len(t) != 4 {
		return false
	}
	for i := range 4 {
		c := t[i]
		if c != 0xA9 && (c < 0x20 || c > 0x7E) {
			return false
		}
	}
	return true
}
