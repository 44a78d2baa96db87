package types

import (
	"bytes"
	"fmt"
)

// Artwork is an embedded picture (ID3 APIC/PIC, iTunes covr, FLAC PICTURE).
type Artwork struct {
	// MIME type of the image data, e.g. "image/jpeg"
	MIMEType string

	// Description from the source frame (optional)
	Description string

	// Image binary data
	Data []byte

	// Type of artwork (front cover, back cover, artist photo, etc.)
	Type ArtworkType
}

// ArtworkType categorizes the purpose of a picture.
//
// Values follow the ID3v2 APIC picture types. Codes outside 0..20 are
// mapped to ArtworkOther by the decoders.
type ArtworkType int

const (
	ArtworkOther ArtworkType = iota
	ArtworkIcon
	ArtworkOtherIcon
	ArtworkFrontCover
	ArtworkBackCover
	ArtworkLeaflet
	ArtworkMedia
	ArtworkLeadArtist
	ArtworkArtist
	ArtworkConductor
	ArtworkBand
	ArtworkComposer
	ArtworkLyricist
	ArtworkRecordingLocation
	ArtworkDuringRecording
	ArtworkDuringPerformance
	ArtworkVideoCapture
	ArtworkBrightFish
	ArtworkIllustration
	ArtworkBandLogotype
	ArtworkPublisherLogotype

	artworkTypeCount
)

var artworkTypeNames = [artworkTypeCount]string{
	"Other", "File icon", "Other file icon", "Front cover", "Back cover",
	"Leaflet page", "Media", "Lead artist", "Artist", "Conductor", "Band",
	"Composer", "Lyricist", "Recording location", "During recording",
	"During performance", "Video capture", "A bright colored fish",
	"Illustration", "Band logotype", "Publisher logotype",
}

func (t ArtworkType) String() string {
	if t < 0 || t >= artworkTypeCount {
		return "Other"
	}
	return artworkTypeNames[t]
}

// ArtworkTypeFromCode maps a raw picture-type byte to an ArtworkType.
func ArtworkTypeFromCode(code byte) ArtworkType {
	if int(code) >= int(artworkTypeCount) {
		return ArtworkOther
	}
	return ArtworkType(code)
}

// String returns a human-readable description of the artwork.
//
// Example output: "Front cover (JPEG, 245KB)"
func (a Artwork) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.Type, mimeToFormat(a.MIMEType), formatSize(len(a.Data)))
}

// Equal reports whether two artworks carry the same picture.
func (a Artwork) Equal(b Artwork) bool {
	return a.Type == b.Type && a.MIMEType == b.MIMEType &&
		a.Description == b.Description && bytes.Equal(a.Data, b.Data)
}

func formatSize(n int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case n >= MB:
		return fmt.Sprintf("%.1fMB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%dKB", n/KB)
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/webp":
		return "WebP"
	default:
		return "Image"
	}
}
