// Package registry maps each format to its parser.
//
// The set of formats is closed, so dispatch is a switch rather than a
// table filled in by init functions.
package registry

import (
	"fmt"

	"github.com/simonhull/mediatag/internal/amr"
	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/flac"
	"github.com/simonhull/mediatag/internal/imelody"
	"github.com/simonhull/mediatag/internal/midi"
	"github.com/simonhull/mediatag/internal/mp3"
	"github.com/simonhull/mediatag/internal/mp4"
	"github.com/simonhull/mediatag/internal/ogg"
	"github.com/simonhull/mediatag/internal/probe"
	"github.com/simonhull/mediatag/internal/smaf"
	"github.com/simonhull/mediatag/internal/types"
	"github.com/simonhull/mediatag/internal/wav"
)

// ParseFunc is implemented by every format parser.
type ParseFunc func(sr *binary.SafeReader, cfg *types.Config) (*types.File, error)

// Get returns the parser for format, or nil when the format is recognized
// by its probe only (AVI, FLV, Matroska, MPEG-TS, MPEG-PS).
func Get(format types.Format) ParseFunc {
	switch format {
	case types.FormatMP3:
		return mp3.Parse
	case types.FormatMP4:
		return mp4.Parse
	case types.FormatAMR:
		return amr.Parse
	case types.FormatMIDI:
		return midi.Parse
	case types.FormatMMF:
		return smaf.Parse
	case types.FormatIMelody:
		return imelody.Parse
	case types.FormatWAV:
		return wav.Parse
	case types.FormatFLAC:
		return flac.Parse
	case types.FormatOGG:
		return ogg.Parse
	}
	return nil
}

// Parse runs the parser for format. A probe-only format yields a File
// without tags or stream information once its probe accepts sr.
func Parse(format types.Format, sr *binary.SafeReader, cfg *types.Config) (*types.File, error) {
	if p := Get(format); p != nil {
		return p(sr, cfg)
	}
	valid := probe.For(format)
	if valid == nil {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "unknown format"}
	}
	if !valid(sr, cfg) {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: fmt.Sprintf("not a valid %s file", format)}
	}
	cfg.Debug("registry: container recognized without parser", "format", format.String())
	return types.NewFile(sr.Path(), format, sr.Size()), nil
}
