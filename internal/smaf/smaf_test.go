package smaf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

func chunkOf(id string, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	b := append([]byte(id), binary.BigEndian.AppendUint32(nil, uint32(len(body)))...)
	return append(b, body...)
}

// mmf wraps chunks in an MMMD chunk with a valid checksum.
func mmf(chunks ...[]byte) []byte {
	inner := bytes.Join(chunks, nil)
	b := append([]byte("MMMD"), binary.BigEndian.AppendUint32(nil, uint32(len(inner)+crcLen))...)
	b = append(b, inner...)
	return binary.BigEndian.AppendUint16(b, checksum(b))
}

func cnti(contentsType, code byte, options string) []byte {
	return chunkOf("CNTI", []byte{0x05, contentsType, code, 0x00, 0x00}, []byte(options))
}

// mtr builds a score track with both timebases set to tb.
func mtr(format, tb byte, seq []byte) []byte {
	status := 16
	if format == formatHandyphone {
		status = 2
	}
	hdr := []byte{format, 0x00, tb, tb}
	return chunkOf("MTR\x01", hdr, make([]byte, status), chunkOf("Mtsq", seq))
}

func reader(data []byte) *binutil.SafeReader {
	return binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mmf")
}

func parse(t *testing.T, data []byte) *types.File {
	t.Helper()
	file, err := Parse(reader(data), types.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return file
}

// mobileSeq lasts 250 ticks with a note of 125 ticks at the start.
var mobileSeq = []byte{
	0x00, 0x90, 60, 100, 0x7D, // note on, gate 125
	0x81, 0x7A, 0xB0, 7, 100, // duration 250, control change
	0x00, 0xFF, 0x2F, 0x00, // end of sequence
}

func TestChecksum(t *testing.T) {
	if got := checksum([]byte("123456789")); got != 0xD64E {
		t.Errorf("checksum() = 0x%04X, want 0xD64E", got)
	}
}

func TestParse_Mobile(t *testing.T) {
	data := mmf(
		cnti(0x31, 0x01, `ST:Title,AN:Art\,ist,CR:(c) 2007,SW:Writer,VN:ignored,`),
		mtr(formatMobile, 0x02, mobileSeq),
	)
	file := parse(t, data)

	if file.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", file.Duration)
	}
	if file.Audio == nil || file.Audio.Codec != types.CodecMMF || file.AudioTracks != 1 {
		t.Errorf("Audio = %+v, AudioTracks = %d", file.Audio, file.AudioTracks)
	}
	want := map[types.Field]string{
		types.FieldTitle:     "Title",
		types.FieldArtist:    "Art,ist",
		types.FieldCopyright: "(c) 2007",
		types.FieldAuthor:    "Writer",
	}
	for f, v := range want {
		if got := file.Tags.Get(f); got != v {
			t.Errorf("%s = %q, want %q", f, got, v)
		}
	}
}

func TestParse_NoteOutlastsSequence(t *testing.T) {
	seq := []byte{
		0x00, 0x90, 60, 100, 0x83, 0x74, // gate 500
		0x0A, 0xFF, 0x2F, 0x00,
	}
	file := parse(t, mmf(cnti(0x34, 0x23, ""), mtr(formatMobile, 0x02, seq)))
	if file.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", file.Duration)
	}
}

func TestParse_Handyphone(t *testing.T) {
	seq := []byte{
		0x00, 0x41, 0x0A, // note, gate 10
		0x00, 0xFF, 0xF0, 0x02, 0xAA, 0xBB, // exclusive
		0x81, 0x00, 0x00, 0x10, // duration 256, control
		0x00, 0x00, 0x35, 0x01, // control with parameter
		0x00, 0x00, 0x00, 0x00, // end of sequence
	}
	file := parse(t, mmf(cnti(0x10, 0x01, "ST:Ring,"), mtr(formatHandyphone, 0x11, seq)))
	if want := 5120 * time.Millisecond; file.Duration != want {
		t.Errorf("Duration = %v, want %v", file.Duration, want)
	}
	if file.Tags.Title != "Ring" {
		t.Errorf("Title = %q", file.Tags.Title)
	}
}

func TestParse_MA1IgnoresOptions(t *testing.T) {
	seq := []byte{0x32, 0x41, 0x00, 0x00, 0x00, 0x00, 0x00}
	file := parse(t, mmf(cnti(0x00, 0x01, "ST:Ring,"), mtr(formatHandyphone, 0x11, seq)))
	if file.Tags.Title != "" {
		t.Errorf("Title = %q, want none", file.Tags.Title)
	}
	if file.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", file.Duration)
	}
}

func TestParse_ShiftJISOptions(t *testing.T) {
	opts := append([]byte("ST:"), 0x83, 0x65, 0x83, 0x58, 0x83, 0x67, ',')
	data := mmf(cnti(0x31, 0x00, string(opts)), mtr(formatMobile, 0x02, mobileSeq))
	if got := parse(t, data).Tags.Title; got != "テスト" {
		t.Errorf("Title = %q, want テスト", got)
	}
}

func TestParse_OPDA(t *testing.T) {
	entry := func(tag, v string) []byte {
		return append(append([]byte(tag), binary.BigEndian.AppendUint16(nil, uint16(len(v)))...), v...)
	}
	opda := chunkOf("OPDA", chunkOf("Dch\x23", entry("ST", "Song"), entry("XX", "skip"), entry("AN", "Band")))
	file := parse(t, mmf(cnti(0x34, 0x23, ""), opda, mtr(formatMobile, 0x02, mobileSeq)))
	if file.Tags.Title != "Song" || file.Tags.Artist != "Band" {
		t.Errorf("Title = %q, Artist = %q", file.Tags.Title, file.Tags.Artist)
	}
}

func TestParse_Compressed(t *testing.T) {
	data := mmf(cnti(0x32, 0x01, ""), mtr(formatCompressed, 0x02, compress(mobileSeq)))
	if file := parse(t, data); file.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", file.Duration)
	}
}

func TestParse_LongestTrack(t *testing.T) {
	short := []byte{0x19, 0xFF, 0x2F, 0x00} // 25 ticks
	data := mmf(
		cnti(0x31, 0x01, ""),
		mtr(formatMobile, 0x02, short),
		chunkOf("ATR\x00", []byte{0, 0, 0, 0}),
		mtr(formatMobile, 0x02, mobileSeq),
		mtr(formatMobile, 0x7F, mobileSeq),
	)
	file := parse(t, data)
	if file.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", file.Duration)
	}
	if file.AudioTracks != 4 {
		t.Errorf("AudioTracks = %d, want 4", file.AudioTracks)
	}
	if len(file.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one for the bad timebase", file.Warnings)
	}
}

func TestParse_Errors(t *testing.T) {
	valid := mmf(cnti(0x31, 0x01, ""), mtr(formatMobile, 0x02, mobileSeq))
	badCRC := bytes.Clone(valid)
	badCRC[len(badCRC)-1] ^= 0xFF

	tests := []struct {
		name string
		data []byte
		want types.Kind
	}{
		{"not smaf", []byte("RIFF\x00\x00\x00\x00WAVE"), types.MalformedMagic},
		{"checksum", badCRC, types.MalformedStructure},
		{"size past end", valid[:len(valid)-4], types.Truncated},
		{"tiny", mmf(), types.MalformedStructure},
		{"cnti not first", mmf(mtr(formatMobile, 0x02, mobileSeq), cnti(0x31, 0x01, "")), types.MalformedStructure},
		{"unknown class", mmf(cnti(0x50, 0x01, ""), mtr(formatMobile, 0x02, mobileSeq)), types.UnsupportedVariant},
		{"no score track", mmf(cnti(0x31, 0x01, ""), chunkOf("ATR\x00", []byte{0, 0, 0, 0})), types.MalformedStructure},
		{"bad timebase", mmf(cnti(0x31, 0x01, ""), mtr(formatMobile, 0x01, mobileSeq)), types.MalformedStructure},
		{"too short", mmf(cnti(0x31, 0x01, ""), mtr(formatMobile, 0x02, []byte{0x04, 0xFF, 0x2F, 0x00})), types.OutOfRange},
		{"too long", mmf(cnti(0x31, 0x01, ""), mtr(formatMobile, 0x13, []byte{0xFF, 0xFF, 0xFF, 0x7F, 0xFF, 0x2F, 0x00})), types.OutOfRange},
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

func TestProbe(t *testing.T) {
	valid := mmf(cnti(0x31, 0x01, ""), mtr(formatMobile, 0x02, mobileSeq))
	corrupt := bytes.Clone(valid)
	corrupt[20] ^= 0x01

	if !Probe(reader(valid)) {
		t.Error("Probe(valid) = false")
	}
	if Probe(reader(corrupt)) {
		t.Error("Probe(corrupt) = true")
	}
	if Probe(reader([]byte("MMMD"))) {
		t.Error("Probe(header only) = true")
	}
}

func TestPlayTime_MalformedEventKeepsElapsed(t *testing.T) {
	seq := []byte{0x7F, 0xB0, 1, 2, 0x00, 0x42}
	d, err := playTime(seq, formatMobile, 10, 10)
	if err == nil {
		t.Fatal("expected an error for the data byte in status position")
	}
	if d != 1270*time.Millisecond {
		t.Errorf("playTime() = %v, want 1.27s", d)
	}
}

func TestDecompress_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"no size", []byte{0x00, 0x01}},
		{"size too large", []byte{0x7F, 0xFF, 0xFF, 0xFF, 0x00}},
		{"truncated tree", []byte{0, 0, 0, 1, 0x80}},
		{"truncated codes", append([]byte{0, 0, 0, 20}, compress([]byte{1, 2, 3})[4:]...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decompress(tt.data); err == nil {
				t.Error("decompress() error = nil")
			}
		})
	}
}

func TestDecompress_SingleSymbol(t *testing.T) {
	// Tree of one leaf 0x41: bit 0 then the literal.
	got, err := decompress([]byte{0, 0, 0, 3, 0x20, 0x80})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "AAA" {
		t.Errorf("decompress() = %q, want AAA", got)
	}
}

func FuzzParse(f *testing.F) {
	f.Add(mmf(cnti(0x31, 0x01, "ST:x,"), mtr(formatMobile, 0x02, mobileSeq)))
	f.Add(mmf(cnti(0x32, 0x01, ""), mtr(formatCompressed, 0x02, compress(mobileSeq))))
	f.Add(mmf(cnti(0x10, 0x00, ""), mtr(formatHandyphone, 0x11, []byte{0x81, 0x81, 0x41, 0xFF})))

	f.Fuzz(func(t *testing.T, data []byte) {
		file, err := Parse(reader(data), types.DefaultConfig())
		if err == nil && (file.Duration < MinPlayTime || file.Duration > MaxPlayTime) {
			t.Fatalf("accepted play time %v", file.Duration)
		}
	})
}
