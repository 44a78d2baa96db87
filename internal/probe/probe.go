// Package probe holds the validity predicates used to pick a parser.
//
// Every predicate reads a bounded prefix of the file and never fails: a
// read error or a short file simply makes it return false.
package probe

import (
	"github.com/simonhull/mediatag/internal/amr"
	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/flac"
	"github.com/simonhull/mediatag/internal/imelody"
	"github.com/simonhull/mediatag/internal/midi"
	"github.com/simonhull/mediatag/internal/mp3"
	"github.com/simonhull/mediatag/internal/mp4"
	"github.com/simonhull/mediatag/internal/ogg"
	"github.com/simonhull/mediatag/internal/smaf"
	"github.com/simonhull/mediatag/internal/types"
	"github.com/simonhull/mediatag/internal/wav"
)

// Func is a validity predicate.
type Func func(sr *binary.SafeReader, cfg *types.Config) bool

// For returns the predicate for f, or nil for FormatUnknown.
func For(f types.Format) Func {
	switch f {
	case types.FormatMP3:
		return IsMP3
	case types.FormatMP4:
		return adapt(mp4.Probe)
	case types.FormatAMR:
		return adapt(amr.Probe)
	case types.FormatMIDI:
		return adapt(midi.Probe)
	case types.FormatMMF:
		return adapt(smaf.Probe)
	case types.FormatIMelody:
		return adapt(imelody.Probe)
	case types.FormatWAV:
		return adapt(wav.Probe)
	case types.FormatFLAC:
		return adapt(flac.Probe)
	case types.FormatAVI:
		return adapt(IsAVI)
	case types.FormatOGG:
		return adapt(ogg.Probe)
	case types.FormatFLV:
		return adapt(IsFLV)
	case types.FormatMatroska:
		return adapt(IsMatroska)
	case types.FormatMPEGTS:
		return adapt(IsMPEGTS)
	case types.FormatMPEGPS:
		return adapt(IsMPEGPS)
	}
	return nil
}

func adapt(fn func(*binary.SafeReader) bool) Func {
	return func(sr *binary.SafeReader, _ *types.Config) bool { return fn(sr) }
}

// IsMP3 reports whether cfg.ProbeFrames consecutive MPEG audio frames are
// found near the start of sr, after any ID3v2 tag.
func IsMP3(sr *binary.SafeReader, cfg *types.Config) bool {
	return mp3.Probe(sr, cfg.ProbeFrames)
}

// Order is the sequence in which Detect tries the predicates. Formats with
// long, specific signatures come first; MP3's frame sync is the loosest
// test and MPEG-TS's single sync byte the next loosest.
var Order = []types.Format{
	types.FormatMP4,
	types.FormatFLAC,
	types.FormatOGG,
	types.FormatWAV,
	types.FormatAVI,
	types.FormatMIDI,
	types.FormatMMF,
	types.FormatAMR,
	types.FormatIMelody,
	types.FormatFLV,
	types.FormatMatroska,
	types.FormatMPEGPS,
	types.FormatMP3,
	types.FormatMPEGTS,
}

// Detect returns the first format in Order whose predicate accepts sr.
func Detect(sr *binary.SafeReader, cfg *types.Config) types.Format {
	for _, f := range Order {
		if For(f)(sr, cfg) {
			return f
		}
	}
	return types.FormatUnknown
}
