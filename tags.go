package mediatag

import (
	"github.com/simonhull/mediatag/internal/types"
)

// Tags is an alias to types.Tags.
type Tags = types.Tags

// Field identifies one text field of Tags, for Tags.Get, Tags.Has and
// Tags.All.
type Field = types.Field

const (
	FieldTitle          = types.FieldTitle
	FieldArtist         = types.FieldArtist
	FieldAlbum          = types.FieldAlbum
	FieldAlbumArtist    = types.FieldAlbumArtist
	FieldGenre          = types.FieldGenre
	FieldAuthor         = types.FieldAuthor
	FieldComposer       = types.FieldComposer
	FieldCopyright      = types.FieldCopyright
	FieldYear           = types.FieldYear
	FieldRecordingDate  = types.FieldRecordingDate
	FieldComment        = types.FieldComment
	FieldDescription    = types.FieldDescription
	FieldClassification = types.FieldClassification
	FieldContentGroup   = types.FieldContentGroup
	FieldConductor      = types.FieldConductor
	FieldTrackNumber    = types.FieldTrackNumber
	FieldRating         = types.FieldRating
	FieldLyrics         = types.FieldLyrics
	FieldOriginalArtist = types.FieldOriginalArtist
	FieldURL            = types.FieldURL
	FieldEncoder        = types.FieldEncoder
)

// SyncLyric is an alias to types.SyncLyric.
type SyncLyric = types.SyncLyric

// Location is an alias to types.Location.
type Location = types.Location
