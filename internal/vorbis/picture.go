package vorbis

import (
	"encoding/base64"
	"fmt"

	"github.com/go-flac/flacpicture/v2"
	flac "github.com/go-flac/go-flac/v2"

	"github.com/simonhull/mediatag/internal/types"
)

// PictureKey is the comment carrying a base64-encoded FLAC picture block.
const PictureKey = "METADATA_BLOCK_PICTURE"

// DecodePicture decodes a METADATA_BLOCK_PICTURE comment value.
func DecodePicture(value string) (*flacpicture.MetadataBlockPicture, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", PictureKey, err)
	}
	return flacpicture.ParseFromMetaDataBlock(flac.MetaDataBlock{Type: flac.Picture, Data: raw})
}

// Artwork converts a FLAC picture block. ok is false when the image is
// empty or larger than maxSize.
func Artwork(pic *flacpicture.MetadataBlockPicture, maxSize int) (types.Artwork, bool) {
	if len(pic.ImageData) == 0 || len(pic.ImageData) > maxSize {
		return types.Artwork{}, false
	}
	code := byte(types.ArtworkOther)
	if pic.PictureType <= 0xFF {
		code = byte(pic.PictureType)
	}
	return types.Artwork{
		MIMEType:    pic.MIME,
		Description: pic.Description,
		Data:        pic.ImageData,
		Type:        types.ArtworkTypeFromCode(code),
	}, true
}
