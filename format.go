package mediatag

import (
	"io"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/probe"
	"github.com/simonhull/mediatag/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

const (
	FormatUnknown  = types.FormatUnknown
	FormatMP3      = types.FormatMP3
	FormatMP4      = types.FormatMP4
	FormatAMR      = types.FormatAMR
	FormatMIDI     = types.FormatMIDI
	FormatMMF      = types.FormatMMF
	FormatIMelody  = types.FormatIMelody
	FormatWAV      = types.FormatWAV
	FormatFLAC     = types.FormatFLAC
	FormatAVI      = types.FormatAVI
	FormatOGG      = types.FormatOGG
	FormatFLV      = types.FormatFLV
	FormatMatroska = types.FormatMatroska
	FormatMPEGTS   = types.FormatMPEGTS
	FormatMPEGPS   = types.FormatMPEGPS
)

// DetectFormat identifies the format of the size bytes readable from r.
//
// The extension of path is tried first and kept only if that format's
// probe accepts the content; otherwise every probe runs in a fixed order
// from the most to the least specific signature. An unrecognized input
// returns an UnsupportedFormatError.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if err := checkReader(r, size, path); err != nil {
		return FormatUnknown, err
	}
	return detect(binary.NewSafeReader(r, size, path), types.DefaultConfig(), true)
}

func detect(sr *binary.SafeReader, cfg *types.Config, hint bool) (Format, error) {
	if hint {
		if f := types.FormatFromExtension(sr.Path()); f != FormatUnknown {
			if probe.For(f)(sr, cfg) {
				return f, nil
			}
			cfg.Debug("mediatag: content does not match extension", "path", sr.Path(), "extension", f.String())
		}
	}
	if f := probe.Detect(sr, cfg); f != FormatUnknown {
		return f, nil
	}
	return FormatUnknown, &UnsupportedFormatError{Path: sr.Path(), Reason: "no known signature"}
}

// Probe reports whether the size bytes readable from r are a valid file of
// the given format. It reads only a bounded prefix and never fails; an
// unreadable input or FormatUnknown simply yields false.
//
//	if mediatag.Probe(f, info.Size(), mediatag.FormatMatroska) {
//		// hand off to a video pipeline
//	}
func Probe(r io.ReaderAt, size int64, format Format) bool {
	valid := probe.For(format)
	if valid == nil || checkReader(r, size, "") != nil {
		return false
	}
	return valid(binary.NewSafeReader(r, size, ""), types.DefaultConfig())
}
