package mp4

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// userDataBoxes maps 3GPP udta box types to their decoders.
var userDataBoxes = map[string]func(w *walker, typ string, p []byte, off int64){
	"titl": (*walker).textBox,
	"dscp": (*walker).textBox,
	"cprt": (*walker).textBox,
	"perf": (*walker).textBox,
	"auth": (*walker).textBox,
	"gnre": (*walker).textBox,
	"albm": (*walker).albumBox,
	"yrrc": (*walker).yearBox,
	"rtng": (*walker).ratingBox,
	"clsf": (*walker).classificationBox,
	"loci": (*walker).locationBox,
	"smta": (*walker).smtaBox,
	"cdis": (*walker).cdisBox,
}

var textBoxFields = map[string]types.Field{
	"titl": types.FieldTitle,
	"dscp": types.FieldDescription,
	"cprt": types.FieldCopyright,
	"perf": types.FieldArtist,
	"auth": types.FieldAuthor,
	"gnre": types.FieldGenre,
}

// textHeaderLen covers version, flags and the packed ISO-639-2 language.
const textHeaderLen = 6

var utf16BOM = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)

// cutText splits b at its string terminator. Text that starts with a
// UTF-16 byte order mark ends at an aligned pair of zero bytes; any other
// text is UTF-8 and ends at the first zero byte. found is false when no
// terminator is present.
func cutText(b []byte) (text string, rest []byte, found bool) {
	if len(b) >= 2 && (b[0] == 0xFE && b[1] == 0xFF || b[0] == 0xFF && b[1] == 0xFE) {
		raw := b
		for i := 2; i+1 < len(b); i += 2 {
			if b[i] == 0 && b[i+1] == 0 {
				raw, rest, found = b[:i], b[i+2:], true
				break
			}
		}
		out, _, err := transform.Bytes(utf16BOM.NewDecoder(), raw)
		if err != nil {
			return "", rest, found
		}
		return string(out), rest, found
	}

	raw := b
	if i := bytes.IndexByte(b, 0); i >= 0 {
		raw, rest, found = b[:i], b[i+1:], true
	}
	if !utf8.Valid(raw) {
		return strings.ToValidUTF8(string(raw), ""), rest, found
	}
	return string(raw), rest, found
}

// textBox decodes titl, dscp, cprt, perf, auth and gnre.
func (w *walker) textBox(typ string, p []byte, off int64) {
	if len(p) < textHeaderLen {
		w.warn(typ, off, "text box shorter than its header")
		return
	}
	text, _, _ := cutText(p[textHeaderLen:])
	w.file.Tags.Set(textBoxFields[typ], text)
}

// albumBox decodes albm: the album title, optionally followed by a
// terminator and a one-byte track number.
func (w *walker) albumBox(typ string, p []byte, off int64) {
	if len(p) < textHeaderLen {
		w.warn(typ, off, "album box shorter than its header")
		return
	}
	title, rest, found := cutText(p[textHeaderLen:])
	w.file.Tags.Set(types.FieldAlbum, title)
	if found && len(rest) == 1 && rest[0] > 0 {
		w.file.Tags.Set(types.FieldTrackNumber, strconv.Itoa(int(rest[0])))
	}
}

// yearBox decodes yrrc: version, flags and a 16-bit year.
func (w *walker) yearBox(typ string, p []byte, off int64) {
	if len(p) < 6 {
		w.warn(typ, off, "year box shorter than 6 bytes")
		return
	}
	if year := binary.BigEndian.Uint16(p[4:6]); year > 0 {
		w.file.Tags.Set(types.FieldYear, strconv.Itoa(int(year)))
	}
}

// ratingBox decodes rtng: rating entity and criteria FourCCs, language and
// the rating text. The entity is used when the text is empty.
func (w *walker) ratingBox(typ string, p []byte, off int64) {
	if len(p) < 14 {
		w.warn(typ, off, "rating box shorter than 14 bytes")
		return
	}
	text, _, _ := cutText(p[14:])
	if text == "" {
		text = strings.TrimRight(string(p[4:8]), " \x00")
	}
	w.file.Tags.Set(types.FieldRating, text)
}

// classificationBox decodes clsf: entity FourCC, table index, language and
// the classification text.
func (w *walker) classificationBox(typ string, p []byte, off int64) {
	if len(p) < 12 {
		w.warn(typ, off, "classification box shorter than 12 bytes")
		return
	}
	text, _, _ := cutText(p[12:])
	w.file.Tags.Set(types.FieldClassification, text)
}

// locationBox decodes loci. Every string must be terminated; a missing
// terminator discards the whole box.
func (w *walker) locationBox(typ string, p []byte, off int64) {
	if len(p) < textHeaderLen {
		w.warn(typ, off, "location box shorter than its header")
		return
	}

	var loc types.Location
	name, rest, ok := cutText(p[textHeaderLen:])
	if !ok {
		w.warn(typ, off, "unterminated place name")
		return
	}
	loc.Name = name

	if len(rest) < 13 {
		w.warn(typ, off, "location box ends before coordinates")
		return
	}
	loc.Role = rest[0]
	loc.Longitude = binutil.Fixed16(binary.BigEndian.Uint32(rest[1:5]))
	loc.Latitude = binutil.Fixed16(binary.BigEndian.Uint32(rest[5:9]))
	loc.Altitude = binutil.Fixed16(binary.BigEndian.Uint32(rest[9:13]))

	body, rest, ok := cutText(rest[13:])
	if !ok {
		w.warn(typ, off, "unterminated astronomical body")
		return
	}
	notes, _, ok := cutText(rest)
	if !ok {
		w.warn(typ, off, "unterminated additional notes")
		return
	}
	loc.AstronomicalBody = body
	loc.Notes = notes
	w.file.Tags.SetLocation(loc)
}

// smtaBox decodes the smta device compatibility marker: a tmp/length
// pair, then "saut" and a big-endian 1.
func (w *walker) smtaBox(typ string, p []byte, off int64) {
	if len(p) < 16 {
		w.warn(typ, off, "smta box shorter than 16 bytes")
		return
	}
	if string(p[8:12]) == "saut" && binary.BigEndian.Uint32(p[12:16]) == 1 {
		w.file.Tags.MarkSMTA()
	}
}

// cdisBox decodes the cdis device compatibility marker.
func (w *walker) cdisBox(typ string, p []byte, off int64) {
	if len(p) < 4 {
		w.warn(typ, off, "cdis box shorter than 4 bytes")
		return
	}
	if binary.BigEndian.Uint32(p[0:4]) == 1 {
		w.file.Tags.MarkCDIS()
	}
}
