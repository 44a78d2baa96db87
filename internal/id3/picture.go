package id3

import (
	"bytes"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/simonhull/mediatag/internal/types"
)

// picture decodes APIC (v2.3/2.4) and PIC (v2.2).
//
// APIC: encoding, Latin-1 MIME type, picture type, description, data.
// PIC:  encoding, 3-char image format, picture type, description, data.
func (d *decoder) picture(p []byte, offset int64, legacy bool) {
	id := "APIC"
	if legacy {
		id = "PIC"
	}
	if d.cfg.SkipArtwork {
		return
	}
	if len(p) > d.cfg.MaxArtworkSize {
		d.warn(id, offset, "picture frame of %d bytes exceeds limit %d", len(p), d.cfg.MaxArtworkSize)
		return
	}
	if len(p) < 2 {
		d.warn(id, offset, "frame too short (%d bytes)", len(p))
		return
	}

	enc := p[0]
	var mime, format string
	var rest []byte

	if legacy {
		if len(p) < 5 {
			d.warn(id, offset, "frame too short (%d bytes)", len(p))
			return
		}
		format, rest = string(p[1:4]), p[4:]
	} else {
		raw, after, found := cut(encLatin1, p[1:])
		if !found {
			d.warn(id, offset, "MIME type not terminated")
			return
		}
		mime = strings.ToLower(strings.TrimSpace(string(raw)))
		if !strings.HasPrefix(mime, "image/") {
			d.warn(id, offset, "MIME type %q is not an image", mime)
			return
		}
		rest = after
	}

	if len(rest) < 1 {
		d.warn(id, offset, "picture type missing")
		return
	}
	ptype := types.ArtworkTypeFromCode(rest[0])

	desc, data, found := cut(enc, rest[1:])
	if !found {
		d.warn(id, offset, "description not terminated")
		return
	}
	if len(data) == 0 {
		d.warn(id, offset, "no image data")
		return
	}
	if legacy {
		mime = legacyMIME(format, data)
	}

	d.file.Tags.SetArtwork(types.Artwork{
		Type:        ptype,
		MIMEType:    mime,
		Description: decode(enc, desc, d.cfg.Charset),
		Data:        bytes.Clone(data),
	})
}

// legacyMIME maps a v2.2 image format to a MIME type, sniffing the image
// data when the format is not JPG or PNG.
func legacyMIME(format string, data []byte) string {
	switch strings.ToUpper(format) {
	case "JPG":
		return "image/jpeg"
	case "PNG":
		return "image/png"
	}
	if m := mimetype.Detect(data); strings.HasPrefix(m.String(), "image/") {
		return m.String()
	}
	return "image/" + strings.ToLower(strings.TrimRight(format, "\x00 "))
}
