package vorbis

import (
	"encoding/base64"
	"testing"

	"github.com/go-flac/flacpicture/v2"

	"github.com/simonhull/mediatag/internal/types"
)

func encodedPicture(data []byte) string {
	pic := &flacpicture.MetadataBlockPicture{
		PictureType: flacpicture.PictureTypeFrontCover,
		MIME:        "image/png",
		Description: "cover",
		Width:       1,
		Height:      1,
		ImageData:   data,
	}
	block := pic.Marshal()
	return base64.StdEncoding.EncodeToString(block.Data)
}

func TestDecodePicture(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	pic, err := DecodePicture(encodedPicture(png))
	if err != nil {
		t.Fatalf("DecodePicture() error = %v", err)
	}

	art, ok := Artwork(pic, types.MaxArtworkSize)
	if !ok {
		t.Fatal("Artwork() rejected the picture")
	}
	if art.Type != types.ArtworkFrontCover || art.MIMEType != "image/png" || art.Description != "cover" {
		t.Errorf("Artwork = %v", art)
	}
	if string(art.Data) != string(png) {
		t.Errorf("Data = %q", art.Data)
	}
	if _, ok := Artwork(pic, len(png)-1); ok {
		t.Error("Artwork() accepted an oversized picture")
	}
}

func TestDecodePicture_Invalid(t *testing.T) {
	for _, v := range []string{"not base64!", base64.StdEncoding.EncodeToString([]byte{0, 0, 0, 3})} {
		if _, err := DecodePicture(v); err == nil {
			t.Errorf("DecodePicture(%q) error = nil", v)
		}
	}
}
