package mp4

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/simonhull/mediatag/internal/id3"
	"github.com/simonhull/mediatag/internal/types"
)

// iTunes well-known data types.
const (
	dataUTF8  = 1
	dataJPEG  = 13
	dataPNG   = 14
	dataBMP   = 27
	dataBlank = 0
)

// itemFields maps iTunes text items to tag fields.
// Note: © is byte 0xA9, so "©nam" is "\xA9nam" in Go strings.
var itemFields = map[string]types.Field{
	"\xA9nam": types.FieldTitle,
	"\xA9ART": types.FieldArtist,
	"aART":    types.FieldAlbumArtist,
	"\xA9alb": types.FieldAlbum,
	"\xA9gen": types.FieldGenre,
	"\xA9wrt": types.FieldComposer,
	"\xA9cmt": types.FieldComment,
	"cprt":    types.FieldCopyright,
	"\xA9lyr": types.FieldLyrics,
	"\xA9grp": types.FieldContentGroup,
	"desc":    types.FieldDescription,
	"\xA9too": types.FieldEncoder,
}

// ilst decodes every item in an iTunes item list.
func (w *walker) ilst(b Box) {
	for off := b.DataOffset(); b.End()-off >= 8; {
		item, err := readBox(w.sr, off, b.End())
		if err != nil {
			w.warn(item.Type, off, "%v", err)
			return
		}
		w.item(item)
		off = item.End()
	}
}

// item decodes the first data box of one ilst item.
//
// A data box holds a 4-byte type indicator, a 4-byte locale and the value.
func (w *walker) item(item Box) {
	data, ok := w.findData(item)
	if !ok {
		return
	}
	if data.DataSize() < 8 {
		w.warn(item.Type, data.Offset, "data box shorter than 8 bytes")
		return
	}

	if item.Type == "covr" {
		if w.cfg.SkipArtwork {
			return
		}
		if n := data.DataSize() - 8; n > int64(w.cfg.MaxArtworkSize) {
			w.warn("covr", data.Offset, "cover of %d bytes exceeds limit %d", n, w.cfg.MaxArtworkSize)
			return
		}
	}

	w.leaf(data, func(p []byte, off int64) {
		kind := binary.BigEndian.Uint32(p[0:4]) & 0xFFFFFF
		value := p[8:]

		switch item.Type {
		case "covr":
			w.cover(kind, value, off)
		case "trkn":
			w.trackNumber(value)
		case "gnre":
			if len(value) >= 2 {
				if n := binary.BigEndian.Uint16(value); n > 0 {
					w.file.Tags.Set(types.FieldGenre, id3.Genre(int(n)-1))
				}
			}
		case "\xA9day":
			day := itemText(value)
			w.file.Tags.Set(types.FieldRecordingDate, day)
			if len(day) >= 4 && isDigits(day[:4]) {
				w.file.Tags.Set(types.FieldYear, day[:4])
			}
		default:
			if f, ok := itemFields[item.Type]; ok && (kind == dataUTF8 || kind == dataBlank) {
				w.file.Tags.Set(f, itemText(value))
			}
		}
	})
}

// findData returns the first data box inside an item.
func (w *walker) findData(item Box) (Box, bool) {
	for off := item.DataOffset(); item.End()-off >= 8; {
		b, err := readBox(w.sr, off, item.End())
		if err != nil {
			w.warn(item.Type, off, "%v", err)
			return Box{}, false
		}
		if b.Type == "data" {
			return b, true
		}
		off = b.End()
	}
	return Box{}, false
}

// trackNumber decodes trkn: reserved, number, total, reserved.
func (w *walker) trackNumber(value []byte) {
	if len(value) < 6 {
		return
	}
	n := binary.BigEndian.Uint16(value[2:4])
	total := binary.BigEndian.Uint16(value[4:6])
	if n == 0 {
		return
	}
	s := strconv.Itoa(int(n))
	if total > 0 {
		s += "/" + strconv.Itoa(int(total))
	}
	w.file.Tags.Set(types.FieldTrackNumber, s)
}

func (w *walker) cover(kind uint32, data []byte, off int64) {
	if len(data) == 0 {
		return
	}
	w.file.Tags.SetArtwork(types.Artwork{
		MIMEType: w.coverMIME(kind, data, off),
		Data:     bytes.Clone(data),
		Type:     types.ArtworkFrontCover,
	})
}

// coverMIME maps a covr data type to a MIME type, sniffing the data for
// unknown types. JPEG is the fallback.
func (w *walker) coverMIME(kind uint32, data []byte, off int64) string {
	switch kind {
	case dataJPEG:
		return "image/jpeg"
	case dataPNG:
		return "image/png"
	case dataBMP:
		return "image/bmp"
	}
	if m := mimetype.Detect(data); strings.HasPrefix(m.String(), "image/") {
		return m.String()
	}
	w.warn("covr", off, "unknown cover data type %d, assuming JPEG", kind)
	return "image/jpeg"
}

// scanCover looks for a bare covr record in raw: the covr type code, a
// data box size, "data", a 4-byte type and a 4-byte locale, then the
// image. Only the first record is decoded.
func (w *walker) scanCover(raw []byte, base int64) {
	if w.cfg.SkipArtwork {
		return
	}
	i := bytes.Index(raw, []byte("covr"))
	if i < 0 || i+20 > len(raw) || string(raw[i+8:i+12]) != "data" {
		return
	}
	size := int64(binary.BigEndian.Uint32(raw[i+4 : i+8]))
	kind := binary.BigEndian.Uint32(raw[i+12:i+16]) & 0xFFFFFF
	n := size - 16
	if n <= 0 || int64(i+20)+n > int64(len(raw)) {
		w.warn("covr", base+int64(i), "cover record size %d out of range", size)
		return
	}
	if n > int64(w.cfg.MaxArtworkSize) {
		w.warn("covr", base+int64(i), "cover of %d bytes exceeds limit %d", n, w.cfg.MaxArtworkSize)
		return
	}

	mime := "image/jpeg"
	switch kind {
	case dataJPEG:
	case dataPNG:
		mime = "image/png"
	default:
		w.warn("covr", base+int64(i), "unknown cover data type %d, assuming JPEG", kind)
	}
	w.file.Tags.SetArtwork(types.Artwork{
		MIMEType: mime,
		Data:     bytes.Clone(raw[i+20 : int64(i+20)+n]),
		Type:     types.ArtworkFrontCover,
	})
}

func itemText(b []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
