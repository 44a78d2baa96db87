package midi

import (
	"bytes"
	"encoding/binary"
	"fmt"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

const (
	// MaxTracks caps the number of tracks read from one file.
	MaxTracks = 32

	headerChunkSize = 6
	maxTrackSize    = 16 << 20
)

// SMF is a parsed Standard MIDI File.
type SMF struct {
	Format   uint16
	Division uint16 // ticks per quarter note
	Tracks   [][]byte

	path string
}

// ReadSMF reads the MThd chunk at off and the MTrk chunks that follow.
//
// Non-MTrk chunks between tracks are skipped by scanning for the next MTrk
// tag. A track whose declared length runs past the end of the data is
// kept up to the end with a warning on file.
func ReadSMF(sr *binutil.SafeReader, off int64, file *types.File) (*SMF, error) {
	hdr, err := sr.Bytes(off, 14, "MThd chunk")
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "MThd" {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "missing MThd tag"}
	}
	if n := binary.BigEndian.Uint32(hdr[4:8]); n != headerChunkSize {
		return nil, &types.CorruptedFileError{
			Path: sr.Path(), Element: "MThd", Offset: off,
			Reason: fmt.Sprintf("header chunk size %d, want %d", n, headerChunkSize),
		}
	}

	smf := &SMF{
		Format:   binary.BigEndian.Uint16(hdr[8:10]),
		Division: binary.BigEndian.Uint16(hdr[12:14]),
		path:     sr.Path(),
	}
	ntracks := int(binary.BigEndian.Uint16(hdr[10:12]))
	if smf.Division&0x8000 != 0 {
		return nil, &types.UnsupportedVariantError{Path: sr.Path(), Variant: "SMPTE time division"}
	}
	if smf.Division == 0 {
		return nil, &types.OutOfRangeError{Path: sr.Path(), Field: "division", Value: 0}
	}
	if ntracks > MaxTracks {
		file.Warn("technical", "MThd", off, "%d tracks declared, reading %d", ntracks, MaxTracks)
		ntracks = MaxTracks
	}

	pos := off + 8 + headerChunkSize
	for len(smf.Tracks) < ntracks {
		start, ok := findTrack(sr, pos)
		if !ok {
			file.Warn("technical", "MTrk", pos, "found %d of %d tracks", len(smf.Tracks), ntracks)
			break
		}
		n, err := binutil.Read[uint32](sr, start+4, "MTrk length")
		if err != nil {
			file.Warn("technical", "MTrk", start, "%v", err)
			break
		}
		data := start + 8
		length := int64(n)
		if rem := sr.Size() - data; length > rem {
			file.Warn("technical", "MTrk", start, "track length %d exceeds remaining %d bytes", length, rem)
			length = rem
		}
		if length > maxTrackSize {
			file.Warn("technical", "MTrk", start, "track of %d bytes truncated to %d", length, maxTrackSize)
			length = maxTrackSize
		}
		body, err := sr.Bytes(data, int(length), "MTrk data")
		if err != nil {
			file.Warn("technical", "MTrk", start, "%v", err)
			break
		}
		smf.Tracks = append(smf.Tracks, body)
		pos = data + int64(n)
	}

	if len(smf.Tracks) == 0 {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "MTrk", Offset: pos, Reason: "no track chunks"}
	}
	return smf, nil
}

// findTrack scans forward from pos for the next MTrk tag.
func findTrack(sr *binutil.SafeReader, pos int64) (int64, bool) {
	const chunk = 4096
	tag := []byte("MTrk")
	for pos < sr.Size() {
		buf := sr.Prefix(pos, chunk+3)
		if len(buf) < 4 {
			return 0, false
		}
		if i := bytes.Index(buf, tag); i >= 0 {
			return pos + int64(i), true
		}
		pos += chunk
	}
	return 0, false
}
