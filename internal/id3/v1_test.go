package id3

import (
	"bytes"
	"testing"

	"golang.org/x/text/encoding/charmap"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

func v1Block(title, artist, album, year string, comment []byte, genre byte) []byte {
	b := make([]byte, V1Size)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[63:93], album)
	copy(b[93:97], year)
	copy(b[97:127], comment)
	b[127] = genre
	return b
}

func TestDecodeV1(t *testing.T) {
	block := v1Block("Title   ", "Artist", "Album", "1999", []byte("plain comment"), 17)

	var tags types.Tags
	if !DecodeV1(block, &tags, charmap.ISO8859_1) {
		t.Fatal("DecodeV1() = false")
	}

	if tags.Title != "Title" {
		t.Errorf("Title = %q, want right-trimmed %q", tags.Title, "Title")
	}
	if tags.Artist != "Artist" || tags.Album != "Album" || tags.Year != "1999" {
		t.Errorf("got %q %q %q", tags.Artist, tags.Album, tags.Year)
	}
	if tags.Comment != "plain comment" {
		t.Errorf("Comment = %q", tags.Comment)
	}
	if tags.Genre != "Rock" {
		t.Errorf("Genre = %q, want Rock", tags.Genre)
	}
	if tags.Has(types.FieldTrackNumber) {
		t.Error("v1.0 tag produced a track number")
	}
}

func TestDecodeV1_TrackNumber(t *testing.T) {
	comment := make([]byte, 30)
	copy(comment, "v1.1 comment")
	comment[29] = 7

	var tags types.Tags
	DecodeV1(v1Block("T", "", "", "", comment, 0), &tags, charmap.ISO8859_1)

	if tags.TrackNumber != "7" {
		t.Errorf("TrackNumber = %q, want 7", tags.TrackNumber)
	}
	if tags.Comment != "v1.1 comment" {
		t.Errorf("Comment = %q", tags.Comment)
	}
}

func TestDecodeV1_GenreClamp(t *testing.T) {
	var tags types.Tags
	DecodeV1(v1Block("T", "", "", "", nil, 255), &tags, charmap.ISO8859_1)
	if tags.Genre != "Unknown" {
		t.Errorf("Genre = %q, want Unknown", tags.Genre)
	}
}

func TestDecodeV1_LocaleCharset(t *testing.T) {
	// "Привет" in Windows-1251.
	title := []byte{0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}

	var tags types.Tags
	DecodeV1(v1Block(string(title), "", "", "", nil, 0), &tags, charmap.Windows1251)
	if tags.Title != "Привет" {
		t.Errorf("Title = %q, want Привет", tags.Title)
	}
}

func TestDecodeV1_DoesNotOverwrite(t *testing.T) {
	var tags types.Tags
	tags.Set(types.FieldTitle, "From v2")

	DecodeV1(v1Block("From v1", "Artist", "", "", nil, 0), &tags, charmap.ISO8859_1)
	if tags.Title != "From v2" || tags.Artist != "Artist" {
		t.Errorf("Title = %q, Artist = %q", tags.Title, tags.Artist)
	}
}

func TestReadV1(t *testing.T) {
	data := append(bytes.Repeat([]byte{0xAA}, 300), v1Block("End", "", "", "", nil, 0)...)
	sr := binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "x.mp3")

	if !HasV1(sr) {
		t.Fatal("HasV1() = false")
	}
	var tags types.Tags
	if !ReadV1(sr, &tags, types.DefaultConfig()) || tags.Title != "End" {
		t.Errorf("ReadV1 title = %q", tags.Title)
	}

	short := binutil.NewSafeReader(bytes.NewReader(data[:100]), 100, "short.mp3")
	if HasV1(short) || ReadV1(short, &tags, types.DefaultConfig()) {
		t.Error("found ID3v1 in a 100-byte file")
	}
}
