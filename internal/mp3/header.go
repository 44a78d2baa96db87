// Package mp3 parses MPEG audio streams: frame headers, the validity probe,
// Xing/Info/VBRI headers and duration, plus the surrounding ID3 tags.
package mp3

import "encoding/binary"

// MPEG version IDs as encoded in the frame header.
const (
	MPEG25 = 0
	MPEG2  = 2
	MPEG1  = 3
)

// Layer IDs as encoded in the frame header.
const (
	LayerIII = 1
	LayerII  = 2
	LayerI   = 3
)

// ChannelMono is the channel mode value for single-channel streams.
const ChannelMono = 3

// bitrates in kbps, indexed [mpeg1][layer][index].
var bitrates = [2][4][16]int{
	{ // MPEG2 / MPEG2.5
		{},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
	},
	{ // MPEG1
		{},
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
	},
}

// sampleRates indexed [version][index].
var sampleRates = [4][3]int{
	MPEG25: {11025, 12000, 8000},
	MPEG2:  {22050, 24000, 16000},
	MPEG1:  {44100, 48000, 32000},
}

// frameCoef is the frame length coefficient indexed [version][layer].
// Version 1 is reserved.
var frameCoef = [4][4]int{
	MPEG25: {-1, 72, 144, 48},
	1:      {-1, -1, -1, -1},
	MPEG2:  {-1, 72, 144, 48},
	MPEG1:  {-1, 144, 144, 48},
}

// FrameHeader is a decoded 4-byte MPEG audio frame header.
type FrameHeader struct {
	Version     byte
	Layer       byte
	Protected   bool
	Padding     bool
	ChannelMode byte
	BitRate     int // bits per second; 0 for free format
	SampleRate  int // Hz
}

// ParseHeader decodes a frame header from the first 4 bytes of b. It
// reports false for anything that is not a valid header: missing sync,
// reserved version or layer, bitrate index 15, sample rate index 3 or
// reserved emphasis.
func ParseHeader(b []byte) (FrameHeader, bool) {
	if len(b) < 4 {
		return FrameHeader{}, false
	}
	v := binary.BigEndian.Uint32(b)
	if v&0xFFE00000 != 0xFFE00000 {
		return FrameHeader{}, false
	}

	version := byte(v>>19) & 0x3
	layer := byte(v>>17) & 0x3
	brIndex := (v >> 12) & 0xF
	srIndex := (v >> 10) & 0x3
	emphasis := v & 0x3

	if version == 1 || layer == 0 || brIndex == 15 || srIndex == 3 || emphasis == 2 {
		return FrameHeader{}, false
	}

	mpeg1 := 0
	if version == MPEG1 {
		mpeg1 = 1
	}

	return FrameHeader{
		Version:     version,
		Layer:       layer,
		Protected:   v&0x10000 == 0,
		Padding:     v&0x200 != 0,
		ChannelMode: byte(v>>6) & 0x3,
		BitRate:     bitrates[mpeg1][layer][brIndex] * 1000,
		SampleRate:  sampleRates[version][srIndex],
	}, true
}

// FrameLen returns the frame length in bytes, or 0 when it cannot be
// computed (free format).
func (h FrameHeader) FrameLen() int {
	coef := frameCoef[h.Version][h.Layer]
	if coef <= 0 || h.BitRate == 0 || h.SampleRate == 0 {
		return 0
	}
	n := coef * h.BitRate / h.SampleRate
	if h.Padding {
		if h.Layer == LayerI {
			n += 4
		} else {
			n++
		}
	}
	return n
}

// SamplesPerFrame returns the number of PCM samples one frame decodes to.
func (h FrameHeader) SamplesPerFrame() int {
	switch h.Layer {
	case LayerI:
		return 384
	case LayerII:
		return 1152
	default:
		if h.Version == MPEG1 {
			return 1152
		}
		return 576
	}
}

// Channels returns 1 for mono and 2 for every other channel mode.
func (h FrameHeader) Channels() int {
	if h.ChannelMode == ChannelMono {
		return 1
	}
	return 2
}

// compatible reports whether two headers can belong to the same stream.
func (h FrameHeader) compatible(o FrameHeader) bool {
	return h.Version == o.Version && h.Layer == o.Layer && h.SampleRate == o.SampleRate
}
