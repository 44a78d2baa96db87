package id3

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// V1Size is the fixed length of an ID3v1 tag.
const V1Size = 128

// ReadV1 decodes an ID3v1 tag occupying the last 128 bytes of sr into
// tags. It reports whether a tag was present.
func ReadV1(sr *binary.SafeReader, tags *types.Tags, cfg *types.Config) bool {
	if sr.Size() < V1Size {
		return false
	}
	b, err := sr.Bytes(sr.Size()-V1Size, V1Size, "ID3v1 tag")
	if err != nil {
		return false
	}
	return DecodeV1(b, tags, cfg.Charset)
}

// HasV1 reports whether the last 128 bytes of sr start with "TAG".
func HasV1(sr *binary.SafeReader) bool {
	if sr.Size() < V1Size {
		return false
	}
	var m [3]byte
	return sr.ReadAt(m[:], sr.Size()-V1Size, "ID3v1 marker") == nil && string(m[:]) == "TAG"
}

// DecodeV1 decodes a 128-byte ID3v1 or ID3v1.1 block. Fields already set
// in tags are left untouched.
func DecodeV1(b []byte, tags *types.Tags, charset encoding.Encoding) bool {
	if len(b) != V1Size || string(b[0:3]) != "TAG" {
		return false
	}

	field := func(raw []byte) string {
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		raw = bytes.TrimRight(raw, " ")
		if len(raw) == 0 {
			return ""
		}
		out, _, err := transform.Bytes(charset.NewDecoder(), raw)
		if err != nil {
			return string(raw)
		}
		return strings.TrimRight(string(out), " ")
	}

	tags.Set(types.FieldTitle, field(b[3:33]))
	tags.Set(types.FieldArtist, field(b[33:63]))
	tags.Set(types.FieldAlbum, field(b[63:93]))
	tags.Set(types.FieldYear, field(b[93:97]))

	comment := b[97:127]
	if comment[28] == 0 && comment[29] != 0 {
		tags.Set(types.FieldTrackNumber, strconv.Itoa(int(comment[29])))
		comment = comment[:28]
	}
	tags.Set(types.FieldComment, field(comment))
	tags.Set(types.FieldGenre, Genre(int(b[127])))
	return true
}
