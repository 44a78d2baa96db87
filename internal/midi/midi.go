// Package midi reads Standard MIDI Files, including SMF data wrapped in
// XMF or RIFF RMID containers, and computes their play time. RMF files are
// recognized but not timed.
package midi

import (
	"bytes"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// Container is the wrapper around the MIDI data.
type Container int

const (
	ContainerUnknown Container = iota
	ContainerSMF
	ContainerXMF
	ContainerRMF
)

func (c Container) String() string {
	switch c {
	case ContainerSMF:
		return "SMF"
	case ContainerXMF:
		return "XMF"
	case ContainerRMF:
		return "RMF"
	}
	return "unknown"
}

// Scan limits for locating the MThd chunk.
const (
	smfScanWindow = 64 << 10
	xmfScanWindow = 1 << 20
)

var xmfMagics = []string{"XMF_1.00", "XMF_1.01", "XMF_2.00"}

// Detect classifies sr by its first 8 bytes and returns the offset of the
// MThd chunk. The offset is -1 for RMF, which carries no SMF data, and
// when no MThd is found within the scan window.
func Detect(sr *binary.SafeReader) (Container, int64) {
	head := sr.Prefix(0, 8)
	if bytes.HasPrefix(head, []byte("IREZ")) {
		return ContainerRMF, -1
	}

	c, window := ContainerSMF, smfScanWindow
	for _, m := range xmfMagics {
		if string(head) == m {
			c, window = ContainerXMF, xmfScanWindow
			break
		}
	}

	buf := sr.Prefix(0, window)
	i := bytes.Index(buf, []byte("MThd"))
	if i < 0 {
		if c == ContainerSMF {
			return ContainerUnknown, -1
		}
		return c, -1
	}
	return c, int64(i)
}

// Probe reports whether sr holds SMF data (bare or wrapped) or an RMF file.
func Probe(sr *binary.SafeReader) bool {
	c, off := Detect(sr)
	return c == ContainerRMF || off >= 0
}

// Parse reads the MIDI header and tracks and computes the play time.
//
// Text, copyright and title meta events fill the comment, copyright and
// title fields. RMF files yield a single untimed track.
func Parse(sr *binary.SafeReader, cfg *types.Config) (*types.File, error) {
	c, off := Detect(sr)
	file := types.NewFile(sr.Path(), types.FormatMIDI, sr.Size())

	switch {
	case c == ContainerRMF:
		file.SetAudio(types.StreamInfo{Codec: types.CodecMIDI})
		file.AudioTracks = 1
		return file, nil
	case c == ContainerUnknown:
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "no MThd chunk"}
	case off < 0:
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "MThd", Reason: "XMF file without embedded SMF data"}
	}
	cfg.Debug("midi: header", "container", c.String(), "offset", off)

	smf, err := ReadSMF(sr, off, file)
	if err != nil {
		return nil, err
	}

	d, err := smf.PlayTime(&file.Tags, cfg)
	if err != nil {
		return nil, err
	}
	file.SetAudio(types.StreamInfo{Codec: types.CodecMIDI, Duration: d})
	file.AudioTracks = len(smf.Tracks)
	return file, nil
}
