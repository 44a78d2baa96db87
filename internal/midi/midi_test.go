package midi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

func vlq(v uint32) []byte {
	out := []byte{byte(v & 0x7F)}
	for v >>= 7; v > 0; v >>= 7 {
		out = append([]byte{byte(v&0x7F) | 0x80}, out...)
	}
	return out
}

// ev is one event with its delta time.
func ev(delta uint32, data ...byte) []byte {
	return append(vlq(delta), data...)
}

func meta(delta uint32, kind byte, payload []byte) []byte {
	b := append(vlq(delta), 0xFF, kind)
	b = append(b, vlq(uint32(len(payload)))...)
	return append(b, payload...)
}

func tempo(delta, usPerQuarter uint32) []byte {
	return meta(delta, metaTempo, []byte{byte(usPerQuarter >> 16), byte(usPerQuarter >> 8), byte(usPerQuarter)})
}

func eot(delta uint32) []byte { return meta(delta, metaEndTrack, nil) }

func track(events ...[]byte) []byte {
	body := bytes.Join(events, nil)
	b := append([]byte("MTrk"), binary.BigEndian.AppendUint32(nil, uint32(len(body)))...)
	return append(b, body...)
}

func smf(format, ntracks, division uint16, tracks ...[]byte) []byte {
	b := []byte("MThd")
	b = binary.BigEndian.AppendUint32(b, 6)
	b = binary.BigEndian.AppendUint16(b, format)
	b = binary.BigEndian.AppendUint16(b, ntracks)
	b = binary.BigEndian.AppendUint16(b, division)
	return append(b, bytes.Join(tracks, nil)...)
}

func reader(data []byte) *binutil.SafeReader {
	return binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mid")
}

func parse(t *testing.T, data []byte) *types.File {
	t.Helper()
	file, err := Parse(reader(data), types.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return file
}

// fourBeats plays one note for 4 quarter notes at 96 ticks per quarter.
var fourBeats = track(
	ev(0, 0x90, 60, 100),
	ev(384, 0x80, 60, 0),
	eot(0),
)

func TestParse_DefaultTempo(t *testing.T) {
	file := parse(t, smf(0, 1, 96, fourBeats))
	if file.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", file.Duration)
	}
	if file.AudioTracks != 1 || file.Audio.Codec != types.CodecMIDI {
		t.Errorf("AudioTracks = %d, Audio = %+v", file.AudioTracks, file.Audio)
	}
}

func TestParse_TempoMapAcrossTracks(t *testing.T) {
	conductor := track(
		tempo(0, 1_000_000),
		tempo(96, 250_000),
		eot(0),
	)
	notes := track(
		ev(0, 0x90, 60, 100),
		ev(192, 0x80, 60, 0),
		eot(0),
	)
	file := parse(t, smf(1, 2, 96, conductor, notes))

	// One quarter at 1s, one quarter at 0.25s.
	if want := 1250 * time.Millisecond; file.Duration != want {
		t.Errorf("Duration = %v, want %v", file.Duration, want)
	}
	if file.AudioTracks != 2 {
		t.Errorf("AudioTracks = %d, want 2", file.AudioTracks)
	}
}

func TestParse_RunningStatus(t *testing.T) {
	tr := track(
		ev(0, 0x90, 60, 100),
		ev(96, 62, 100), // running status note on
		ev(96, 64, 100),
		ev(96, 0xC0, 5), // program change, one data byte
		ev(96, 61),      // running status program change
		eot(0),
	)
	file := parse(t, smf(0, 1, 96, tr))
	if file.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", file.Duration)
	}
}

func TestParse_SysExAndSystemMessages(t *testing.T) {
	tr := track(
		append(ev(0, 0xF0), append(vlq(3), 0x7E, 0x09, 0xF7)...),
		ev(0, 0xF2, 0, 0),
		ev(0, 0xF8),
		ev(192, 0x90, 60, 100),
		eot(192),
	)
	file := parse(t, smf(0, 1, 96, tr))
	if file.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", file.Duration)
	}
}

func TestParse_MetaText(t *testing.T) {
	tr := track(
		meta(0, metaTrackName, []byte("Track Name")),
		meta(0, metaText, []byte("First text")),
		meta(0, metaText, []byte("Second text")),
		meta(0, metaCopyright, []byte("(c) 2004 Caf\xe9")),
		ev(384, 0x90, 60, 100),
		eot(0),
	)
	file := parse(t, smf(0, 1, 96, tr))

	if file.Tags.Title != "Track Name" {
		t.Errorf("Title = %q", file.Tags.Title)
	}
	if file.Tags.Comment != "First text" {
		t.Errorf("Comment = %q, want first text event", file.Tags.Comment)
	}
	if file.Tags.Copyright != "(c) 2004 Café" {
		t.Errorf("Copyright = %q", file.Tags.Copyright)
	}
}

func TestParse_TitleEvent(t *testing.T) {
	tr := track(
		meta(0, metaTitle, []byte("Title")),
		meta(0, metaTrackName, []byte("Name")),
		eot(384),
	)
	file := parse(t, smf(0, 1, 96, tr))
	if file.Tags.Title != "Title" {
		t.Errorf("Title = %q", file.Tags.Title)
	}
}

func TestParse_Wrappers(t *testing.T) {
	body := smf(0, 1, 96, fourBeats)

	riff := []byte("RIFF\x00\x00\x00\x00RMIDdata\x00\x00\x00\x00")
	xmf := append([]byte("XMF_2.00"), make([]byte, 200)...)

	tests := []struct {
		name      string
		data      []byte
		container Container
	}{
		{"bare", body, ContainerSMF},
		{"rmid", append(riff, body...), ContainerSMF},
		{"xmf", append(xmf, body...), ContainerXMF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, off := Detect(reader(tt.data))
			if c != tt.container || off < 0 {
				t.Fatalf("Detect() = %v, %d", c, off)
			}
			if file := parse(t, tt.data); file.Duration != 2*time.Second {
				t.Errorf("Duration = %v, want 2s", file.Duration)
			}
		})
	}
}

func TestParse_RMF(t *testing.T) {
	file := parse(t, append([]byte("IREZ"), make([]byte, 60)...))
	if file.AudioTracks != 1 || file.Duration != 0 {
		t.Errorf("AudioTracks = %d, Duration = %v", file.AudioTracks, file.Duration)
	}
}

func TestParse_Errors(t *testing.T) {
	badSize := smf(0, 1, 96, fourBeats)
	badSize[7] = 7

	tests := []struct {
		name string
		data []byte
		want types.Kind
	}{
		{"not midi", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), types.MalformedMagic},
		{"header size", badSize, types.MalformedStructure},
		{"smpte division", smf(0, 1, 0xE728, fourBeats), types.UnsupportedVariant},
		{"zero division", smf(0, 1, 0, fourBeats), types.OutOfRange},
		{"no tracks", smf(0, 1, 96), types.MalformedStructure},
		{"too short", smf(0, 1, 96, track(ev(0, 0x90, 60, 100), eot(1))), types.OutOfRange},
		{"xmf without smf", append([]byte("XMF_1.00"), make([]byte, 64)...), types.MalformedStructure},
		{"truncated header", []byte("MThd\x00\x00\x00\x06\x00"), types.Truncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(reader(tt.data), types.DefaultConfig())
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_TrackLimit(t *testing.T) {
	tracks := make([][]byte, 40)
	for i := range tracks {
		tracks[i] = fourBeats
	}
	file := parse(t, smf(1, 40, 96, tracks...))
	if file.AudioTracks != MaxTracks {
		t.Errorf("AudioTracks = %d, want %d", file.AudioTracks, MaxTracks)
	}
	if len(file.Warnings) == 0 {
		t.Error("expected a track limit warning")
	}
}

func TestParse_TruncatedTrack(t *testing.T) {
	data := smf(0, 1, 96, fourBeats)
	// Claim more bytes than remain.
	binary.BigEndian.PutUint32(data[18:22], 1000)

	file := parse(t, data)
	if file.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", file.Duration)
	}
	if len(file.Warnings) == 0 {
		t.Error("expected a truncation warning")
	}
}

func TestParse_SkipsAlienChunks(t *testing.T) {
	alien := append([]byte("XFIH"), binary.BigEndian.AppendUint32(nil, 4)...)
	alien = append(alien, 1, 2, 3, 4)
	file := parse(t, smf(0, 1, 96, alien, fourBeats))
	if file.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", file.Duration)
	}
}

func FuzzSMF(f *testing.F) {
	f.Add(smf(0, 1, 96, fourBeats))
	f.Add(smf(1, 2, 96, track(tempo(0, 1)), fourBeats))
	f.Add(smf(0, 1, 96, track(ev(0, 0x40, 0x40), ev(0xFFFFFFF, 0x90, 1, 1))))
	f.Add(append([]byte("XMF_2.00"), smf(0, 1, 1, track(eot(0x0FFFFFFF)))...))

	f.Fuzz(func(t *testing.T, data []byte) {
		file, err := Parse(reader(data), types.DefaultConfig())
		if err == nil && file.Duration != 0 && file.Duration < MinPlayTime {
			t.Fatalf("accepted play time %v", file.Duration)
		}
	})
}
