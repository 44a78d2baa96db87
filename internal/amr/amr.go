// Package amr identifies AMR and AMR-WB storage files and computes their
// duration and average bitrate from the per-frame mode.
package amr

import (
	"bytes"
	"time"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// Variant is the storage-format flavor announced by the magic string.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantNB
	VariantWB
	VariantNBMulti
	VariantWBMulti
)

// Wideband reports whether v is an AMR-WB variant.
func (v Variant) Wideband() bool { return v == VariantWB || v == VariantWBMulti }

// Multichannel reports whether v is a multi-channel variant.
func (v Variant) Multichannel() bool { return v == VariantNBMulti || v == VariantWBMulti }

// Magic strings, most specific first. The multi-channel headers are
// followed by a 4-byte channel description.
var magics = []struct {
	magic   string
	variant Variant
}{
	{"#!AMR-WB_MC1.0\n", VariantWBMulti},
	{"#!AMR_MC1.0\n", VariantNBMulti},
	{"#!AMR-WB\n", VariantWB},
	{"#!AMR\n", VariantNB},
}

// maxMagic is the length of the longest magic string.
const maxMagic = 15

// frameMs is the fixed duration of one AMR frame.
const frameMs = 20

// blockSize is the read granularity of the frame scan.
const blockSize = 4096

// frameModes holds bitrate (bps) and total frame size in bytes, including
// the one-byte frame header, indexed [wideband][mode].
var frameModes = [2][16]struct{ bitRate, size int }{
	{ // AMR-NB
		{4750, 13}, {5150, 14}, {5900, 16}, {6700, 18},
		{7400, 20}, {7950, 21}, {10200, 27}, {12200, 32},
		{0, 6}, {0, 1}, {0, 1}, {0, 1},
		{0, 1}, {0, 1}, {0, 1}, {0, 1},
	},
	{ // AMR-WB
		{6600, 18}, {8850, 24}, {12650, 33}, {14250, 37},
		{15850, 41}, {18250, 47}, {19850, 51}, {23050, 59},
		{23850, 61}, {0, 6}, {0, 1}, {0, 1},
		{0, 1}, {0, 1}, {0, 1}, {0, 1},
	},
}

// Detect matches the magic string at the start of sr and returns the
// variant and header length.
func Detect(sr *binary.SafeReader) (Variant, int) {
	head := sr.Prefix(0, maxMagic)
	for _, m := range magics {
		if bytes.HasPrefix(head, []byte(m.magic)) {
			return m.variant, len(m.magic)
		}
	}
	return VariantUnknown, 0
}

// Probe reports whether sr starts with an AMR magic string.
func Probe(sr *binary.SafeReader) bool {
	v, _ := Detect(sr)
	return v != VariantUnknown
}

// Stats summarizes the frame scan.
type Stats struct {
	Frames      int
	BitRateSum  int // sum of bitrates of frames with a speech mode
	SpeechCount int // frames counted in BitRateSum
}

// AverageBitRate returns the mean bitrate of speech frames.
func (s Stats) AverageBitRate() int {
	if s.SpeechCount == 0 {
		return 0
	}
	return s.BitRateSum / s.SpeechCount
}

// Duration returns the play time of the scanned frames.
func (s Stats) Duration() time.Duration {
	return time.Duration(s.Frames) * frameMs * time.Millisecond
}

// Scan walks the frames that follow a header of headerLen bytes. Each
// frame starts with a byte whose bits 3-6 give the mode; the mode fixes
// the frame size.
func Scan(sr *binary.SafeReader, headerLen int, wideband bool) Stats {
	table := &frameModes[0]
	if wideband {
		table = &frameModes[1]
	}

	var st Stats
	pos := int64(headerLen)
	for pos < sr.Size() {
		block := sr.Prefix(pos, blockSize)
		if len(block) == 0 {
			break
		}
		i := 0
		for i < len(block) {
			mode := (block[i] >> 3) & 0x0F
			entry := table[mode]
			st.Frames++
			if entry.bitRate > 0 {
				st.BitRateSum += entry.bitRate
				st.SpeechCount++
			}
			i += entry.size
		}
		pos += int64(i)
	}
	return st
}

// Parse identifies an AMR file and computes its stream properties. Only
// single-channel files are supported.
func Parse(sr *binary.SafeReader, cfg *types.Config) (*types.File, error) {
	variant, headerLen := Detect(sr)
	switch {
	case variant == VariantUnknown:
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "no AMR magic string"}
	case variant.Multichannel():
		return nil, &types.UnsupportedVariantError{Path: sr.Path(), Variant: "multi-channel AMR"}
	}

	st := Scan(sr, headerLen, variant.Wideband())
	cfg.Debug("amr: scanned", "frames", st.Frames, "wideband", variant.Wideband())

	info := types.StreamInfo{
		Codec:      types.CodecAMR,
		SampleRate: 8000,
		Channels:   1,
		BitRate:    st.AverageBitRate(),
		FrameRate:  1000 / frameMs,
		Duration:   st.Duration(),
	}
	if variant.Wideband() {
		info.Codec = types.CodecAMRWB
		info.SampleRate = 16000
	}

	file := types.NewFile(sr.Path(), types.FormatAMR, sr.Size())
	file.SetAudio(info)
	file.AudioTracks = 1
	if st.Frames == 0 {
		file.Warn("technical", "", int64(headerLen), "no frames after header")
	}
	return file, nil
}
