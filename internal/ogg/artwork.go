package ogg

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/simonhull/mediatag/internal/types"
	"github.com/simonhull/mediatag/internal/vorbis"
)

// Legacy artwork comments written before METADATA_BLOCK_PICTURE existed.
const (
	coverArtKey     = "COVERART"
	coverArtMIMEKey = "COVERARTMIME"
)

// readArtwork stores the first picture found in comments.
//
// METADATA_BLOCK_PICTURE is preferred. A base64 COVERART image is used
// only when no picture block decodes; its MIME type comes from COVERARTMIME
// or is sniffed from the data.
func readArtwork(comments []string, file *types.File, cfg *types.Config) {
	var legacy, legacyMIME string
	for _, c := range comments {
		key, value, err := vorbis.Split(c)
		if err != nil {
			continue
		}
		switch key {
		case vorbis.PictureKey:
			if file.Tags.Artwork != nil {
				continue
			}
			pic, err := vorbis.DecodePicture(value)
			if err != nil {
				file.Warn("artwork", vorbis.PictureKey, 0, "%v", err)
				continue
			}
			art, ok := vorbis.Artwork(pic, cfg.MaxArtworkSize)
			if !ok {
				file.Warn("artwork", vorbis.PictureKey, 0, "picture of %d bytes skipped", len(pic.ImageData))
				continue
			}
			file.Tags.SetArtwork(art)
		case coverArtKey:
			if legacy == "" {
				legacy = value
			}
		case coverArtMIMEKey:
			if legacyMIME == "" {
				legacyMIME = strings.TrimSpace(value)
			}
		}
	}

	if file.Tags.Artwork != nil || legacy == "" {
		return
	}
	art, err := coverArt(legacy, legacyMIME, cfg.MaxArtworkSize)
	if err != nil {
		file.Warn("artwork", coverArtKey, 0, "%v", err)
		return
	}
	file.Tags.SetArtwork(art)
}

func coverArt(value, mime string, maxSize int) (types.Artwork, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return types.Artwork{}, fmt.Errorf("decode %s: %w", coverArtKey, err)
	}
	if len(data) == 0 || len(data) > maxSize {
		return types.Artwork{}, fmt.Errorf("picture of %d bytes skipped", len(data))
	}
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}
	return types.Artwork{MIMEType: mime, Data: data, Type: types.ArtworkFrontCover}, nil
}
