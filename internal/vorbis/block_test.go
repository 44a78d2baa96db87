package vorbis

import (
	"encoding/binary"
	"testing"

	"github.com/go-flac/flacvorbis/v2"
)

func TestParseBlock(t *testing.T) {
	cmt := flacvorbis.New()
	cmt.Vendor = "Lavf61.1.100"
	cmt.Add("TITLE", "Song")
	cmt.Add("ARTIST", "Band")
	block := cmt.Marshal()

	// Ogg comment packets end with a framing byte.
	got, err := ParseBlock(append(block.Data, 0x01))
	if err != nil {
		t.Fatalf("ParseBlock() error = %v", err)
	}
	if got.Vendor != "Lavf61.1.100" {
		t.Errorf("Vendor = %q", got.Vendor)
	}
	if len(got.Comments) != 2 || got.Comments[1] != "ARTIST=Band" {
		t.Errorf("Comments = %q", got.Comments)
	}
}

func TestParseBlock_Bounds(t *testing.T) {
	le := binary.LittleEndian
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"vendor overruns", le.AppendUint32(nil, 100)},
		{"missing count", le.AppendUint32(nil, 0)},
		{"huge count", le.AppendUint32(le.AppendUint32(nil, 0), 0xFFFFFFFF)},
		{"comment overruns", append(le.AppendUint32(le.AppendUint32(le.AppendUint32(nil, 0), 1), 50), "ab"...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBlock(tt.data); err == nil {
				t.Error("ParseBlock() error = nil")
			}
		})
	}
}
