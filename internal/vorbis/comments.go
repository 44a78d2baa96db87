// Package vorbis maps Vorbis comments into the shared tag record.
//
// Vorbis comments are used by both FLAC and Ogg (Vorbis and Opus). The
// format is identical: UTF-8 strings in "KEY=VALUE" form with
// case-insensitive keys.
package vorbis

import (
	"fmt"
	"strings"

	"github.com/simonhull/mediatag/internal/types"
)

// commentFields maps upper-case comment keys to tag fields.
var commentFields = map[string]types.Field{
	"TITLE":          types.FieldTitle,
	"ARTIST":         types.FieldArtist,
	"ALBUM":          types.FieldAlbum,
	"ALBUMARTIST":    types.FieldAlbumArtist,
	"ALBUM ARTIST":   types.FieldAlbumArtist,
	"GENRE":          types.FieldGenre,
	"AUTHOR":         types.FieldAuthor,
	"COMPOSER":       types.FieldComposer,
	"COPYRIGHT":      types.FieldCopyright,
	"TRACKNUMBER":    types.FieldTrackNumber,
	"COMMENT":        types.FieldComment,
	"DESCRIPTION":    types.FieldDescription,
	"GROUPING":       types.FieldContentGroup,
	"CONDUCTOR":      types.FieldConductor,
	"RATING":         types.FieldRating,
	"LYRICS":         types.FieldLyrics,
	"UNSYNCEDLYRICS": types.FieldLyrics,
	"ORIGINALARTIST": types.FieldOriginalArtist,
	"WEBSITE":        types.FieldURL,
	"ENCODER":        types.FieldEncoder,
	"ENCODED-BY":     types.FieldEncoder,
}

// Split separates a comment into its upper-case key and its value.
func Split(comment string) (key, value string, err error) {
	k, v, ok := strings.Cut(comment, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("missing '=' in comment %q", truncate(comment))
	}
	return strings.ToUpper(k), v, nil
}

// ParseComment stores a single "KEY=VALUE" comment in tags.
//
// DATE fills the recording date and, from its first four digits, the year.
// Unknown keys are ignored.
func ParseComment(comment string, tags *types.Tags) error {
	key, value, err := Split(comment)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	switch key {
	case "DATE":
		tags.Set(types.FieldRecordingDate, value)
		if len(value) >= 4 && isDigits(value[:4]) {
			tags.Set(types.FieldYear, value[:4])
		}
	case "YEAR":
		tags.Set(types.FieldYear, value)
	default:
		if f, ok := commentFields[key]; ok {
			tags.Set(f, value)
		}
	}
	return nil
}

// Apply stores every comment in tags and returns the malformed ones as
// errors. TRACKNUMBER is combined with TRACKTOTAL (or TOTALTRACKS) into
// "n/total" when it carries no total of its own.
func Apply(comments []string, tags *types.Tags) []error {
	var (
		errs         []error
		track, total string
	)
	for _, c := range comments {
		key, value, err := Split(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch key {
		case "TRACKNUMBER":
			if track == "" {
				track = strings.TrimSpace(value)
			}
		case "TRACKTOTAL", "TOTALTRACKS":
			if total == "" {
				total = strings.TrimSpace(value)
			}
		default:
			ParseComment(c, tags) //nolint:errcheck // Split already accepted c
		}
	}
	if track != "" && total != "" && !strings.Contains(track, "/") {
		track += "/" + total
	}
	tags.Set(types.FieldTrackNumber, track)
	return errs
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func truncate(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}
