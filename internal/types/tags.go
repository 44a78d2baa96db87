package types

import (
	"iter"
	"slices"
)

// Field identifies one logical text field of a tag record.
type Field int

const (
	FieldTitle          Field = iota // title
	FieldArtist                      // artist
	FieldAlbum                       // album
	FieldAlbumArtist                 // album_artist
	FieldGenre                       // genre
	FieldAuthor                      // author
	FieldComposer                    // composer
	FieldCopyright                   // copyright
	FieldYear                        // year
	FieldRecordingDate               // recording_date
	FieldComment                     // comment
	FieldDescription                 // description
	FieldClassification              // classification
	FieldContentGroup                // content_group
	FieldConductor                   // conductor
	FieldTrackNumber                 // track_number
	FieldRating                      // rating
	FieldLyrics                      // unsynchronized_lyrics
	FieldOriginalArtist              // original_artist
	FieldURL                         // url
	FieldEncoder                     // encoder

	fieldCount
)

var fieldNames = [fieldCount]string{
	"title", "artist", "album", "album_artist", "genre", "author", "composer",
	"copyright", "year", "recording_date", "comment", "description",
	"classification", "content_group", "conductor", "track_number", "rating",
	"unsynchronized_lyrics", "original_artist", "url", "encoder",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// SyncLyric is one line of synchronized lyrics.
type SyncLyric struct {
	Time int64  `json:"time_ms"` // milliseconds from start
	Text string `json:"text"`
}

// Location is a geolocation record (3GP loci box).
type Location struct {
	Name             string  `json:"name"`
	AstronomicalBody string  `json:"astronomical_body"`
	Notes            string  `json:"notes"`
	Longitude        float32 `json:"longitude"`
	Latitude         float32 `json:"latitude"`
	Altitude         float32 `json:"altitude"`
	Role             byte    `json:"role"`
}

// Tags is the aggregate output of tag decoding.
//
// Every field follows a first-writer-wins policy: once a field has been set
// from one source (an ID3v2 frame, a 3GP box, an iTunes item), later
// occurrences of the same logical field are ignored. Presence is tracked
// separately from the value, so Has reports whether a field was decoded.
//
// Writers must go through Set, SetArtwork, SetLocation, SetSyncLyrics,
// MarkSMTA and MarkCDIS. Direct assignment bypasses the policy.
type Tags struct {
	Title          string
	Artist         string
	Album          string
	AlbumArtist    string
	Genre          string
	Author         string
	Composer       string
	Copyright      string
	Year           string
	RecordingDate  string
	Comment        string
	Description    string
	Classification string
	ContentGroup   string
	Conductor      string
	TrackNumber    string // may include "/total"
	Rating         string
	Lyrics         string
	OriginalArtist string
	URL            string
	Encoder        string

	SyncLyrics []SyncLyric
	Artwork    *Artwork
	Location   *Location

	// Device compatibility markers from the 3GP smta and cdis boxes.
	SMTA bool
	CDIS bool

	marked uint32
	extra  uint8
}

const (
	markSyncLyrics uint8 = 1 << iota
	markArtwork
	markLocation
	markSMTA
	markCDIS
)

func (t *Tags) field(f Field) *string {
	switch f {
	case FieldTitle:
		return &t.Title
	case FieldArtist:
		return &t.Artist
	case FieldAlbum:
		return &t.Album
	case FieldAlbumArtist:
		return &t.AlbumArtist
	case FieldGenre:
		return &t.Genre
	case FieldAuthor:
		return &t.Author
	case FieldComposer:
		return &t.Composer
	case FieldCopyright:
		return &t.Copyright
	case FieldYear:
		return &t.Year
	case FieldRecordingDate:
		return &t.RecordingDate
	case FieldComment:
		return &t.Comment
	case FieldDescription:
		return &t.Description
	case FieldClassification:
		return &t.Classification
	case FieldContentGroup:
		return &t.ContentGroup
	case FieldConductor:
		return &t.Conductor
	case FieldTrackNumber:
		return &t.TrackNumber
	case FieldRating:
		return &t.Rating
	case FieldLyrics:
		return &t.Lyrics
	case FieldOriginalArtist:
		return &t.OriginalArtist
	case FieldURL:
		return &t.URL
	case FieldEncoder:
		return &t.Encoder
	}
	return nil
}

// Set stores value in f unless f is already set or value is empty.
// It reports whether the value was stored.
func (t *Tags) Set(f Field, value string) bool {
	p := t.field(f)
	if p == nil || value == "" || t.Has(f) {
		return false
	}
	*p = value
	t.marked |= 1 << uint(f)
	return true
}

// Has reports whether f has been set.
func (t *Tags) Has(f Field) bool {
	if f < 0 || f >= fieldCount {
		return false
	}
	return t.marked&(1<<uint(f)) != 0
}

// Get returns the value of f, or "" when unset.
func (t *Tags) Get(f Field) string {
	if p := t.field(f); p != nil {
		return *p
	}
	return ""
}

// SetArtwork stores the first artwork seen.
func (t *Tags) SetArtwork(a Artwork) bool {
	if t.extra&markArtwork != 0 || len(a.Data) == 0 {
		return false
	}
	t.Artwork = &a
	t.extra |= markArtwork
	return true
}

// SetLocation stores the first location seen.
func (t *Tags) SetLocation(l Location) bool {
	if t.extra&markLocation != 0 {
		return false
	}
	t.Location = &l
	t.extra |= markLocation
	return true
}

// SetSyncLyrics stores the lines of the first synchronized lyrics block seen.
// Callers pass lines ordered by timestamp; duplicates are kept.
func (t *Tags) SetSyncLyrics(lines []SyncLyric) bool {
	if t.extra&markSyncLyrics != 0 || len(lines) == 0 {
		return false
	}
	t.SyncLyrics = slices.Clone(lines)
	t.extra |= markSyncLyrics
	return true
}

// MarkSMTA records the smta device compatibility marker.
func (t *Tags) MarkSMTA() {
	t.SMTA = true
	t.extra |= markSMTA
}

// MarkCDIS records the cdis device compatibility marker.
func (t *Tags) MarkCDIS() {
	t.CDIS = true
	t.extra |= markCDIS
}

// Empty reports whether nothing has been decoded into t.
func (t *Tags) Empty() bool {
	return t.marked == 0 && t.extra == 0
}

// All returns an iterator over the text fields that are set, in Field order.
//
// Example:
//
//	for field, value := range file.Tags.All() {
//		fmt.Printf("%s: %s\n", field, value)
//	}
func (t *Tags) All() iter.Seq2[Field, string] {
	return func(yield func(Field, string) bool) {
		for f := range fieldCount {
			if !t.Has(f) {
				continue
			}
			if !yield(f, t.Get(f)) {
				return
			}
		}
	}
}

// Merge fills fields of t that are still unset from other.
//
// Because t keeps its own values, merging a lower-priority source (ID3v1)
// into a record decoded from a higher-priority source (ID3v2) never
// overwrites anything.
func (t *Tags) Merge(other *Tags) {
	if other == nil {
		return
	}
	for f, v := range other.All() {
		t.Set(f, v)
	}
	if other.Artwork != nil {
		t.SetArtwork(*other.Artwork)
	}
	if other.Location != nil {
		t.SetLocation(*other.Location)
	}
	t.SetSyncLyrics(other.SyncLyrics)
	if other.SMTA {
		t.MarkSMTA()
	}
	if other.CDIS {
		t.MarkCDIS()
	}
}

// Clone creates a deep copy of the Tags.
func (t *Tags) Clone() *Tags {
	if t == nil {
		return nil
	}
	clone := *t
	clone.SyncLyrics = slices.Clone(t.SyncLyrics)
	if t.Artwork != nil {
		a := *t.Artwork
		a.Data = slices.Clone(t.Artwork.Data)
		clone.Artwork = &a
	}
	if t.Location != nil {
		l := *t.Location
		clone.Location = &l
	}
	return &clone
}

// Equal checks if two Tags hold the same decoded values.
func (t *Tags) Equal(other *Tags) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.marked != other.marked || t.extra != other.extra {
		return false
	}
	for f := range fieldCount {
		if t.Get(f) != other.Get(f) {
			return false
		}
	}
	if !slices.Equal(t.SyncLyrics, other.SyncLyrics) {
		return false
	}
	if (t.Artwork == nil) != (other.Artwork == nil) {
		return false
	}
	if t.Artwork != nil && !t.Artwork.Equal(*other.Artwork) {
		return false
	}
	if (t.Location == nil) != (other.Location == nil) {
		return false
	}
	if t.Location != nil && *t.Location != *other.Location {
		return false
	}
	return t.SMTA == other.SMTA && t.CDIS == other.CDIS
}
