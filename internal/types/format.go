package types

import (
	"path/filepath"
	"strings"
)

// Format identifies a container or file format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	FormatMP3
	FormatMP4
	FormatAMR
	FormatMIDI
	FormatMMF
	FormatIMelody
	FormatWAV
	FormatFLAC
	FormatAVI
	FormatOGG
	FormatFLV
	FormatMatroska
	FormatMPEGTS
	FormatMPEGPS
)

var formatNames = [...]string{
	FormatUnknown:  "Unknown",
	FormatMP3:      "MP3",
	FormatMP4:      "MP4",
	FormatAMR:      "AMR",
	FormatMIDI:     "MIDI",
	FormatMMF:      "MMF",
	FormatIMelody:  "iMelody",
	FormatWAV:      "WAV",
	FormatFLAC:     "FLAC",
	FormatAVI:      "AVI",
	FormatOGG:      "OGG",
	FormatFLV:      "FLV",
	FormatMatroska: "Matroska",
	FormatMPEGTS:   "MPEG-TS",
	FormatMPEGPS:   "MPEG-PS",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return formatNames[FormatUnknown]
	}
	return formatNames[f]
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{".mp3"}
	case FormatMP4:
		return []string{".mp4", ".m4a", ".3gp", ".3g2", ".m4v"}
	case FormatAMR:
		return []string{".amr", ".awb"}
	case FormatMIDI:
		return []string{".mid", ".midi", ".xmf", ".mxmf", ".rmi", ".rmf"}
	case FormatMMF:
		return []string{".mmf"}
	case FormatIMelody:
		return []string{".imy"}
	case FormatWAV:
		return []string{".wav"}
	case FormatFLAC:
		return []string{".flac"}
	case FormatAVI:
		return []string{".avi"}
	case FormatOGG:
		return []string{".ogg", ".oga", ".opus"}
	case FormatFLV:
		return []string{".flv"}
	case FormatMatroska:
		return []string{".mkv", ".mka", ".webm"}
	case FormatMPEGTS:
		return []string{".ts", ".m2ts", ".mts"}
	case FormatMPEGPS:
		return []string{".mpg", ".mpeg", ".vob"}
	default:
		return nil
	}
}

// HasTags reports whether the format carries a decodable tag record.
func (f Format) HasTags() bool {
	switch f {
	case FormatMP3, FormatMP4, FormatMIDI, FormatMMF, FormatIMelody, FormatWAV, FormatFLAC, FormatOGG:
		return true
	}
	return false
}

// FormatFromExtension maps a file name's extension to a Format.
func FormatFromExtension(name string) Format {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return FormatUnknown
	}
	for f := FormatMP3; int(f) < len(formatNames); f++ {
		for _, e := range f.Extensions() {
			if e == ext {
				return f
			}
		}
	}
	return FormatUnknown
}
