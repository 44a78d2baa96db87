package types

import (
	"fmt"
	"strings"
	"time"
)

// StreamKind distinguishes audio from video stream descriptions.
type StreamKind int

const (
	StreamAudio StreamKind = iota
	StreamVideo
)

func (k StreamKind) String() string {
	if k == StreamVideo {
		return "video"
	}
	return "audio"
}

// Codec identifies the coding of a stream.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecPCM
	CodecMSADPCM
	CodecALaw
	CodecMuLaw
	CodecMP3
	CodecAMR
	CodecAMRWB
	CodecMIDI
	CodecMMF
	CodecIMelody
	CodecFLAC
	CodecAAC
	CodecVorbis
	CodecOpus
)

var codecNames = [...]string{
	CodecUnknown: "unknown",
	CodecPCM:     "PCM",
	CodecMSADPCM: "MS ADPCM",
	CodecALaw:    "A-law",
	CodecMuLaw:   "mu-law",
	CodecMP3:     "MP3",
	CodecAMR:     "AMR",
	CodecAMRWB:   "AMR-WB",
	CodecMIDI:    "MIDI",
	CodecMMF:     "MMF",
	CodecIMelody: "iMelody",
	CodecFLAC:    "FLAC",
	CodecAAC:     "AAC",
	CodecVorbis:  "Vorbis",
	CodecOpus:    "Opus",
}

func (c Codec) String() string {
	if c < 0 || int(c) >= len(codecNames) {
		return codecNames[CodecUnknown]
	}
	return codecNames[c]
}

// StreamInfo describes one audio or video stream.
//
// A zero field means "not known", never "measured as zero".
type StreamInfo struct {
	Kind       StreamKind
	Codec      Codec
	BitRate    int // bits per second
	SampleRate int // Hz
	Channels   int
	BitDepth   int
	FrameRate  int // frames per second; AMR uses 50
	Width      int
	Height     int
	Duration   time.Duration
	VBR        bool
}

// String returns a compact description such as "MP3 44.1kHz stereo 128kbps".
func (s StreamInfo) String() string {
	parts := []string{s.Codec.String()}
	if s.Kind == StreamVideo && s.Width > 0 && s.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", s.Width, s.Height))
	}
	if s.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(s.SampleRate)/1000))
	}
	if s.BitDepth > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", s.BitDepth))
	}
	if ch := channelDescription(s.Channels); ch != "" {
		parts = append(parts, ch)
	}
	if s.BitRate > 0 {
		q := fmt.Sprintf("%dkbps", s.BitRate/1000)
		if s.VBR {
			q += " VBR"
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}

func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}
