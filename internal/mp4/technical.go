package mp4

import (
	"encoding/binary"
	"time"

	"github.com/simonhull/mediatag/internal/types"
)

// track collects what one trak box says about its stream.
type track struct {
	handler    string // "soun", "vide", ...
	format     string // sample entry type code
	timescale  uint32
	duration   uint64
	width      int
	height     int
	channels   int
	bitDepth   int
	sampleRate int
}

// sampleCodecs maps sample entry types to codecs.
var sampleCodecs = map[string]types.Codec{
	"mp4a": types.CodecAAC,
	"samr": types.CodecAMR,
	"sawb": types.CodecAMRWB,
	".mp3": types.CodecMP3,
	"mp3 ": types.CodecMP3,
	"fLaC": types.CodecFLAC,
	"Opus": types.CodecOpus,
	"lpcm": types.CodecPCM,
	"sowt": types.CodecPCM,
	"twos": types.CodecPCM,
	"alaw": types.CodecALaw,
	"ulaw": types.CodecMuLaw,
}

// mvhd reads the movie timescale and duration.
func (w *walker) mvhd(p []byte, off int64) {
	timescale, duration, ok := timing(p)
	if !ok {
		w.file.Warn("technical", "mvhd", off, "movie header too short")
		return
	}
	if timescale > 0 {
		w.file.Duration = scaled(duration, timescale)
	}
}

// timing reads timescale and duration from an mvhd or mdhd payload.
// Version 1 uses 64-bit times.
func timing(p []byte) (timescale uint32, duration uint64, ok bool) {
	if len(p) < 4 {
		return 0, 0, false
	}
	if p[0] == 1 {
		if len(p) < 32 {
			return 0, 0, false
		}
		return binary.BigEndian.Uint32(p[20:24]), binary.BigEndian.Uint64(p[24:32]), true
	}
	if len(p) < 20 {
		return 0, 0, false
	}
	return binary.BigEndian.Uint32(p[12:16]), uint64(binary.BigEndian.Uint32(p[16:20])), true
}

func scaled(duration uint64, timescale uint32) time.Duration {
	sec := duration / uint64(timescale)
	rem := duration % uint64(timescale)
	return time.Duration(sec)*time.Second + time.Duration(rem*uint64(time.Second)/uint64(timescale))
}

// trackBox returns the decoder for a per-track box.
func (w *walker) trackBox(typ string) func(p []byte, off int64) {
	t := w.track
	switch typ {
	case "tkhd":
		return func(p []byte, off int64) {
			// Width and height are the last two 16.16 words.
			if len(p) < 84 {
				w.file.Warn("technical", "tkhd", off, "track header too short")
				return
			}
			n := len(p)
			t.width = int(binary.BigEndian.Uint32(p[n-8:n-4]) >> 16)
			t.height = int(binary.BigEndian.Uint32(p[n-4:n]) >> 16)
		}
	case "mdhd":
		return func(p []byte, off int64) {
			if ts, d, ok := timing(p); ok {
				t.timescale, t.duration = ts, d
			}
		}
	case "hdlr":
		return func(p []byte, off int64) {
			if len(p) >= 12 {
				t.handler = string(p[8:12])
			}
		}
	default:
		return func(p []byte, off int64) { w.sampleEntry(t, p, off) }
	}
}

// sampleEntry reads the first entry of an stsd box.
//
// Audio entries carry channels, sample size and a 16.16 sample rate;
// visual entries carry 16-bit width and height.
func (w *walker) sampleEntry(t *track, p []byte, off int64) {
	if len(p) < 16 || binary.BigEndian.Uint32(p[4:8]) == 0 {
		return
	}
	entry := p[8:]
	size := int(binary.BigEndian.Uint32(entry[0:4]))
	if size < 8 || size > len(entry) {
		w.file.Warn("technical", "stsd", off+8, "sample entry size %d out of range", size)
		return
	}
	entry = entry[:size]
	t.format = string(entry[4:8])

	switch t.handler {
	case "soun":
		if len(entry) >= 36 {
			t.channels = int(binary.BigEndian.Uint16(entry[24:26]))
			t.bitDepth = int(binary.BigEndian.Uint16(entry[26:28]))
			t.sampleRate = int(binary.BigEndian.Uint32(entry[32:36]) >> 16)
		}
	case "vide":
		if len(entry) >= 36 && t.width == 0 {
			t.width = int(binary.BigEndian.Uint16(entry[32:34]))
			t.height = int(binary.BigEndian.Uint16(entry[34:36]))
		}
	}
}

// commit records a finished track. The first audio and the first video
// track describe the file's streams; every track is counted.
func (w *walker) commit(t *track) {
	var d time.Duration
	if t.timescale > 0 {
		d = scaled(t.duration, t.timescale)
	}

	switch t.handler {
	case "soun":
		w.file.AudioTracks++
		if w.file.Audio != nil {
			return
		}
		w.file.SetAudio(types.StreamInfo{
			Codec:      sampleCodecs[t.format],
			SampleRate: t.sampleRate,
			Channels:   t.channels,
			BitDepth:   t.bitDepth,
			Duration:   d,
		})
	case "vide":
		w.file.VideoTracks++
		if w.file.Video != nil {
			return
		}
		w.file.Video = &types.StreamInfo{
			Kind:     types.StreamVideo,
			Codec:    sampleCodecs[t.format],
			Width:    t.width,
			Height:   t.height,
			Duration: d,
		}
		if w.file.Duration == 0 {
			w.file.Duration = d
		}
	}
}

// finish estimates an audio bitrate from the file size for audio-only
// files, as the sample tables are not read.
func (w *walker) finish() {
	a := w.file.Audio
	if a == nil || w.file.Video != nil || a.BitRate > 0 {
		return
	}
	d := a.Duration
	if d == 0 {
		d = w.file.Duration
	}
	if sec := d.Seconds(); sec > 0 {
		a.BitRate = int(float64(w.file.Size) * 8 / sec)
	}
}
