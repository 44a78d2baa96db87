// Package wav reads the stream properties and LIST/INFO tags of RIFF WAVE
// files.
package wav

import (
	"fmt"
	"time"

	"github.com/go-audio/wav"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// WAVE format tags.
const (
	formatPCM        = 0x0001
	formatMSADPCM    = 0x0002
	formatALaw       = 0x0006
	formatMuLaw      = 0x0007
	formatExtensible = 0xFFFE
)

var formatCodecs = map[uint16]types.Codec{
	formatPCM:        types.CodecPCM,
	formatExtensible: types.CodecPCM,
	formatMSADPCM:    types.CodecMSADPCM,
	formatALaw:       types.CodecALaw,
	formatMuLaw:      types.CodecMuLaw,
}

// IsRIFF reports whether head starts a RIFF file of the given form type.
func IsRIFF(head []byte, form string) bool {
	return len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == form
}

// Probe reports whether sr is a RIFF WAVE file with a readable fmt chunk.
func Probe(sr *binary.SafeReader) bool {
	if !IsRIFF(sr.Prefix(0, 12), "WAVE") {
		return false
	}
	d := wav.NewDecoder(sr.Section(0, sr.Size()))
	d.ReadInfo()
	return d.Err() == nil && d.NumChans > 0 && d.SampleRate > 0
}

// Parse reads the fmt chunk, the size of the data chunk and the INFO tags.
func Parse(sr *binary.SafeReader, cfg *types.Config) (*types.File, error) {
	if !IsRIFF(sr.Prefix(0, 12), "WAVE") {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "missing RIFF WAVE header"}
	}

	d := wav.NewDecoder(sr.Section(0, sr.Size()))
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "fmt ", Offset: 12, Reason: err.Error()}
	}
	if d.NumChans == 0 || d.SampleRate == 0 {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "fmt ", Offset: 12,
			Reason: fmt.Sprintf("%d channels at %d Hz", d.NumChans, d.SampleRate)}
	}

	file := types.NewFile(sr.Path(), types.FormatWAV, sr.Size())
	codec, ok := formatCodecs[d.WavAudioFormat]
	if !ok {
		file.Warn("technical", "fmt ", 12, "unsupported format tag 0x%04X", d.WavAudioFormat)
	}
	stream := types.StreamInfo{
		Codec:      codec,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		BitRate:    int(d.AvgBytesPerSec) * 8,
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "data", Reason: err.Error()}
	}
	switch {
	case d.AvgBytesPerSec == 0:
		file.Warn("technical", "fmt ", 12, "average byte rate is zero")
	default:
		stream.Duration = time.Duration(float64(d.PCMSize) / float64(d.AvgBytesPerSec) * float64(time.Second))
	}
	file.SetAudio(stream)
	file.AudioTracks = 1

	readInfo(sr, file, cfg)
	return file, nil
}

// readInfo decodes the LIST/INFO chunk with a second decoder; the first one
// has already consumed the stream up to the data chunk.
func readInfo(sr *binary.SafeReader, file *types.File, cfg *types.Config) {
	d := wav.NewDecoder(sr.Section(0, sr.Size()))
	d.ReadMetadata()
	if err := d.Err(); err != nil {
		cfg.Debug("wav: metadata", "error", err)
	}
	m := d.Metadata
	if m == nil {
		return
	}

	t := &file.Tags
	t.Set(types.FieldTitle, m.Title)
	t.Set(types.FieldArtist, m.Artist)
	t.Set(types.FieldAlbum, m.Product)
	t.Set(types.FieldGenre, m.Genre)
	t.Set(types.FieldComment, m.Comments)
	t.Set(types.FieldCopyright, m.Copyright)
	t.Set(types.FieldEncoder, m.Software)
	t.Set(types.FieldTrackNumber, m.TrackNbr)
	t.Set(types.FieldRecordingDate, m.CreationDate)
	if len(m.CreationDate) >= 4 {
		t.Set(types.FieldYear, m.CreationDate[:4])
	}
}
