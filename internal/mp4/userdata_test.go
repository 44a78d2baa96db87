package mp4

import (
	"math"
	"testing"

	"github.com/simonhull/mediatag/internal/types"
)

func fixed(v float64) []byte {
	return u32(uint32(int32(math.Round(v * 65536))))
}

func TestLocation(t *testing.T) {
	loci := fullBox("loci", 0, lang,
		cstr("Seoul"),
		[]byte{0},
		fixed(126.9780), fixed(37.5665), fixed(38),
		cstr("earth"),
		cstr("city hall"),
	)
	file := parse(t, udta(loci))

	loc := file.Tags.Location
	if loc == nil {
		t.Fatalf("Location is nil; warnings: %v", file.Warnings)
	}
	if loc.Name != "Seoul" || loc.Role != 0 {
		t.Errorf("Name, Role = %q, %d", loc.Name, loc.Role)
	}
	if math.Abs(float64(loc.Longitude)-126.978) > 1e-3 {
		t.Errorf("Longitude = %v, want 126.978", loc.Longitude)
	}
	if math.Abs(float64(loc.Latitude)-37.5665) > 1e-3 {
		t.Errorf("Latitude = %v, want 37.5665", loc.Latitude)
	}
	if math.Abs(float64(loc.Altitude)-38) > 1e-3 {
		t.Errorf("Altitude = %v, want 38", loc.Altitude)
	}
	if loc.AstronomicalBody != "earth" || loc.Notes != "city hall" {
		t.Errorf("AstronomicalBody, Notes = %q, %q", loc.AstronomicalBody, loc.Notes)
	}
}

func TestLocation_NegativeCoordinates(t *testing.T) {
	loci := fullBox("loci", 0, lang, cstr(""), []byte{1},
		fixed(-73.9857), fixed(-40.5), fixed(0), cstr(""), cstr(""))
	file := parse(t, udta(loci))

	loc := file.Tags.Location
	if loc == nil {
		t.Fatal("Location is nil")
	}
	if math.Abs(float64(loc.Longitude)+73.9857) > 1e-3 || math.Abs(float64(loc.Latitude)+40.5) > 1e-3 {
		t.Errorf("coordinates = %v, %v", loc.Longitude, loc.Latitude)
	}
	if loc.Role != 1 {
		t.Errorf("Role = %d, want 1", loc.Role)
	}
}

func TestLocation_Unterminated(t *testing.T) {
	tests := []struct {
		name string
		box  []byte
	}{
		{"name", fullBox("loci", 0, lang, []byte("Seoul"))},
		{"coordinates", fullBox("loci", 0, lang, cstr("Seoul"), []byte{0}, fixed(1))},
		{"body", fullBox("loci", 0, lang, cstr("Seoul"), []byte{0}, fixed(1), fixed(2), fixed(3), []byte("earth"))},
		{"notes", fullBox("loci", 0, lang, cstr("Seoul"), []byte{0}, fixed(1), fixed(2), fixed(3), cstr("earth"), []byte("x"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, udta(tt.box, text3gp("titl", "After")))
			if file.Tags.Location != nil {
				t.Errorf("Location = %+v, want nil", file.Tags.Location)
			}
			if len(file.Warnings) == 0 {
				t.Error("expected a warning")
			}
			if file.Tags.Title != "After" {
				t.Errorf("Title = %q; sibling after a bad box was not decoded", file.Tags.Title)
			}
		})
	}
}

func TestTextBoxes(t *testing.T) {
	tests := []struct {
		typ   string
		field types.Field
	}{
		{"titl", types.FieldTitle},
		{"dscp", types.FieldDescription},
		{"cprt", types.FieldCopyright},
		{"perf", types.FieldArtist},
		{"auth", types.FieldAuthor},
		{"gnre", types.FieldGenre},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			file := parse(t, udta(text3gp(tt.typ, "value of "+tt.typ)))
			if got := file.Tags.Get(tt.field); got != "value of "+tt.typ {
				t.Errorf("%s = %q", tt.field, got)
			}
		})
	}
}

func TestTextBox_UTF16(t *testing.T) {
	titl := fullBox("titl", 0, lang, []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i', 0xC5, 0x1C, 0, 0})
	file := parse(t, udta(titl))
	if file.Tags.Title != "Hi\uc51c" {
		t.Errorf("Title = %q", file.Tags.Title)
	}
}

func TestTextBox_FirstWriterWins(t *testing.T) {
	file := parse(t, udta(text3gp("titl", "First"), text3gp("titl", "Second")))
	if file.Tags.Title != "First" {
		t.Errorf("Title = %q, want First", file.Tags.Title)
	}
}

func TestAlbumBox(t *testing.T) {
	tests := []struct {
		name  string
		box   []byte
		album string
		track string
	}{
		{"with track", fullBox("albm", 0, lang, cstr("Album"), []byte{7}), "Album", "7"},
		{"terminated", fullBox("albm", 0, lang, cstr("Album")), "Album", ""},
		{"unterminated", fullBox("albm", 0, lang, []byte("Album")), "Album", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, udta(tt.box))
			if file.Tags.Album != tt.album || file.Tags.TrackNumber != tt.track {
				t.Errorf("Album, TrackNumber = %q, %q, want %q, %q",
					file.Tags.Album, file.Tags.TrackNumber, tt.album, tt.track)
			}
		})
	}
}

func TestYearRatingClassification(t *testing.T) {
	file := parse(t, udta(
		fullBox("yrrc", 0, u16(2009)),
		fullBox("rtng", 0, []byte("MPAA"), []byte("film"), lang, cstr("PG-13")),
		fullBox("clsf", 0, []byte("NZFC"), u16(1), lang, cstr("Kids")),
	))

	if file.Tags.Year != "2009" {
		t.Errorf("Year = %q", file.Tags.Year)
	}
	if file.Tags.Rating != "PG-13" {
		t.Errorf("Rating = %q", file.Tags.Rating)
	}
	if file.Tags.Classification != "Kids" {
		t.Errorf("Classification = %q", file.Tags.Classification)
	}
}

func TestRatingWithoutText(t *testing.T) {
	file := parse(t, udta(fullBox("rtng", 0, []byte("MPAA"), []byte("film"), lang)))
	if file.Tags.Rating != "MPAA" {
		t.Errorf("Rating = %q, want entity MPAA", file.Tags.Rating)
	}
}

func TestDeviceMarkers(t *testing.T) {
	tests := []struct {
		name       string
		boxes      [][]byte
		smta, cdis bool
	}{
		{"both", [][]byte{box("smta", u32(0), u32(12), []byte("saut"), u32(1)), box("cdis", u32(1))}, true, true},
		{"wrong smta tag", [][]byte{box("smta", u32(0), u32(12), []byte("xxxx"), u32(1))}, false, false},
		{"wrong smta value", [][]byte{box("smta", u32(0), u32(12), []byte("saut"), u32(2))}, false, false},
		{"smta without tmp field", [][]byte{box("smta", u32(12), []byte("saut"), u32(1))}, false, false},
		{"cdis zero", [][]byte{box("cdis", u32(0))}, false, false},
		{"short", [][]byte{box("smta", []byte("saut")), box("cdis", []byte{1})}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, udta(tt.boxes...))
			if file.Tags.SMTA != tt.smta || file.Tags.CDIS != tt.cdis {
				t.Errorf("SMTA, CDIS = %v, %v, want %v, %v", file.Tags.SMTA, file.Tags.CDIS, tt.smta, tt.cdis)
			}
		})
	}
}

func TestShortTextBox(t *testing.T) {
	file := parse(t, udta(box("titl", []byte{0, 0}), text3gp("perf", "Artist")))
	if file.Tags.Has(types.FieldTitle) {
		t.Error("title set from a truncated box")
	}
	if file.Tags.Artist != "Artist" {
		t.Errorf("Artist = %q", file.Tags.Artist)
	}
	if len(file.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", file.Warnings)
	}
}
