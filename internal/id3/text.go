package id3

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Text encodings carried in the first byte of ID3v2 text frames.
const (
	encLatin1  = 0x00
	encUTF16   = 0x01
	encUTF16BE = 0x02
	encUTF8    = 0x03
)

var (
	utf16BOM = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	utf16BE  = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

func wide(enc byte) bool {
	return enc == encUTF16 || enc == encUTF16BE
}

// cut splits b at the first string terminator for enc. UTF-16 terminators
// are two zero bytes on an even boundary. found is false when b holds no
// terminator, in which case text is all of b.
func cut(enc byte, b []byte) (text, rest []byte, found bool) {
	if wide(enc) {
		for i := 0; i+1 < len(b); i += 2 {
			if b[i] == 0 && b[i+1] == 0 {
				return b[:i], b[i+2:], true
			}
		}
		return b, nil, false
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

// decode converts b from enc to UTF-8. Latin-1 text is decoded with the
// caller's charset. A failed conversion falls back to the raw bytes.
func decode(enc byte, b []byte, charset encoding.Encoding) string {
	if len(b) == 0 {
		return ""
	}

	var e encoding.Encoding
	switch enc {
	case encUTF16:
		e = utf16BOM
	case encUTF16BE:
		e = utf16BE
	case encUTF8:
		if utf8.Valid(b) {
			return string(b)
		}
		return strings.ToValidUTF8(string(b), "�")
	default:
		e = charset
	}

	if wide(enc) && len(b)%2 != 0 {
		b = b[:len(b)-1]
	}

	out, _, err := transform.Bytes(e.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// text decodes the first string of b.
func text(enc byte, b []byte, charset encoding.Encoding) string {
	t, _, _ := cut(enc, b)
	return strings.TrimRight(decode(enc, t, charset), "\x00")
}
