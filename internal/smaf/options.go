package smaf

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/simonhull/mediatag/internal/types"
)

// optionFields maps two-letter option tags to tag fields.
var optionFields = map[string]types.Field{
	"ST": types.FieldTitle,
	"AN": types.FieldArtist,
	"CR": types.FieldCopyright,
	"SW": types.FieldAuthor,
}

// codeTypes maps the CNTI code type byte to a text encoding.
var codeTypes = map[byte]encoding.Encoding{
	0x00: japanese.ShiftJIS,
	0x01: charmap.ISO8859_1,
	0x02: korean.EUCKR,
	0x03: simplifiedchinese.HZGB2312,
	0x04: traditionalchinese.Big5,
	0x05: charmap.KOI8R,
	0x20: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	0x23: unicode.UTF8,
	0x24: unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
}

func decoderFor(code byte, cfg *types.Config) encoding.Encoding {
	if e, ok := codeTypes[code]; ok {
		return e
	}
	return cfg.Charset
}

func decode(b []byte, enc encoding.Encoding) string {
	s, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// cntiOptions reads the comma-separated "XX:value," list that follows the
// fixed CNTI fields. A backslash escapes the next character.
func cntiOptions(b []byte, enc encoding.Encoding, tags *types.Tags) {
	text := decode(b, enc)
	for len(text) >= 3 {
		tag, rest := text[:2], text[2:]
		if rest[0] != ':' {
			return
		}
		value, next, ok := optionValue(rest[1:])
		if f, known := optionFields[tag]; known {
			tags.Set(f, value)
		}
		if !ok {
			return
		}
		text = next
	}
}

// optionValue reads up to the first unescaped comma. ok is false when the
// value ran to the end of s without a terminator.
func optionValue(s string) (value, rest string, ok bool) {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) {
				i++
				sb.WriteByte(s[i])
			}
		case ',':
			return sb.String(), s[i+1:], true
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), "", false
}

// opdaOptions reads MA-3/MA-5 option data: "Dch" chunks whose fourth
// identifier byte is the code type, holding entries of a 2-byte tag, a
// 2-byte big-endian length and the value.
func opdaOptions(b []byte, cfg *types.Config, tags *types.Tags) error {
	chunks, err := splitChunks(b)
	for _, c := range chunks {
		if c.id[:3] != "Dch" {
			continue
		}
		enc := decoderFor(c.id[3], cfg)
		for p := c.data; len(p) >= 4; {
			n := int(binary.BigEndian.Uint16(p[2:4]))
			if n > len(p)-4 {
				break
			}
			if f, ok := optionFields[string(p[:2])]; ok {
				tags.Set(f, decode(p[4:4+n], enc))
			}
			p = p[4+n:]
		}
	}
	return err
}
