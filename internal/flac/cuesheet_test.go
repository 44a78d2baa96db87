package flac

import (
	"encoding/binary"
	"testing"
	"time"
)

type cueTrack struct {
	offset uint64
	number byte
	isrc   string
	data   bool
}

func cueSheet(tracks ...cueTrack) []byte {
	b := make([]byte, cueHeaderLen)
	copy(b, "1234567890123")
	b[136] = 0x80
	b[cueHeaderLen-1] = byte(len(tracks))
	for _, t := range tracks {
		rec := make([]byte, cueTrackLen)
		binary.BigEndian.PutUint64(rec, t.offset)
		rec[8] = t.number
		copy(rec[9:21], t.isrc)
		if t.data {
			rec[21] = 0x80
		}
		rec[cueTrackLen-1] = 1
		b = append(b, rec...)
		b = append(b, make([]byte, cueIndexLen)...)
	}
	return b
}

func TestParseCueSheet(t *testing.T) {
	cs, err := parseCueSheet(cueSheet(cueTrack{offset: 588, number: 1, isrc: "ABC"}, cueTrack{offset: 1176, number: leadOutTrack}))
	if err != nil {
		t.Fatal(err)
	}
	if cs.CatalogNumber != "1234567890123" || !cs.IsCD || len(cs.Tracks) != 2 {
		t.Fatalf("CueSheet = %+v", cs)
	}
	if tr := cs.Tracks[0]; tr.Offset != 588 || tr.ISRC != "ABC" || !tr.IsAudio || tr.Indices != 1 {
		t.Errorf("track = %+v", tr)
	}
}

func TestParseCueSheet_Truncated(t *testing.T) {
	full := cueSheet(cueTrack{number: 1}, cueTrack{number: 2})
	for _, n := range []int{10, cueHeaderLen + 5, len(full) - 1} {
		if _, err := parseCueSheet(full[:n]); err == nil {
			t.Errorf("parseCueSheet(%d bytes) error = nil", n)
		}
	}
}

func TestCueSheetChapters(t *testing.T) {
	cs := &CueSheet{Tracks: []CueTrack{
		{Offset: 0, Number: 1, IsAudio: true},
		{Offset: 441000, Number: 2, IsAudio: true},
	}}

	got := cs.Chapters(44100, time.Minute)
	if len(got) != 2 || got[0].End != 10*time.Second || got[1].End != time.Minute {
		t.Errorf("Chapters() = %v", got)
	}
	if cs.Chapters(0, time.Minute) != nil {
		t.Error("Chapters() with zero sample rate should be nil")
	}
}
