package registry

import (
	"bytes"
	"errors"
	"testing"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

func reader(data []byte, name string) *binutil.SafeReader {
	return binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), name)
}

func TestGet(t *testing.T) {
	parsed := []types.Format{
		types.FormatMP3, types.FormatMP4, types.FormatAMR, types.FormatMIDI, types.FormatMMF,
		types.FormatIMelody, types.FormatWAV, types.FormatFLAC, types.FormatOGG,
	}
	for _, f := range parsed {
		if Get(f) == nil {
			t.Errorf("Get(%v) = nil", f)
		}
	}
	probeOnly := []types.Format{
		types.FormatAVI, types.FormatFLV, types.FormatMatroska, types.FormatMPEGTS,
		types.FormatMPEGPS, types.FormatUnknown,
	}
	for _, f := range probeOnly {
		if Get(f) != nil {
			t.Errorf("Get(%v) != nil", f)
		}
	}
}

func TestParse_Dispatch(t *testing.T) {
	data := []byte("#!AMR\n\x3C" + string(make([]byte, 31)))
	file, err := Parse(types.FormatAMR, reader(data, "voice.amr"), types.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if file.Format != types.FormatAMR || file.Path != "voice.amr" {
		t.Errorf("File = %v %q", file.Format, file.Path)
	}
}

func TestParse_ProbeOnly(t *testing.T) {
	flv := []byte("FLV\x01\x05\x00\x00\x00\x09\x00\x00\x00\x00")
	file, err := Parse(types.FormatFLV, reader(flv, "clip.flv"), types.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if file.Format != types.FormatFLV || file.Size != int64(len(flv)) {
		t.Errorf("File = %v size %d", file.Format, file.Size)
	}
	if file.Audio != nil || !file.Tags.Empty() {
		t.Errorf("probe-only file carries data: %+v", file)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format types.Format
		data   []byte
	}{
		{"unknown format", types.FormatUnknown, []byte("anything")},
		{"probe rejects", types.FormatMatroska, []byte("not ebml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.format, reader(tt.data, "x"), types.DefaultConfig())
			if !errors.Is(err, types.MalformedMagic) {
				t.Errorf("Parse() error = %v, want malformed magic", err)
			}
		})
	}
}
