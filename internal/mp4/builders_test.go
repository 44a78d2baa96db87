package mp4

import (
	"bytes"
	"encoding/binary"
	"testing"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// lang is "eng" packed as ISO-639-2/T.
var lang = []byte{0x15, 0xC7}

var ftyp = box("ftyp", []byte("3gp6"), u32(0), []byte("3gp6isom"))

func box(typ string, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	b := binary.BigEndian.AppendUint32(nil, uint32(8+len(body)))
	b = append(b, typ...)
	return append(b, body...)
}

func fullBox(typ string, version byte, parts ...[]byte) []byte {
	return box(typ, append([]byte{version, 0, 0, 0}, bytes.Join(parts, nil)...))
}

func u16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }
func u32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }
func u64(v uint64) []byte { return binary.BigEndian.AppendUint64(nil, v) }

func cstr(s string) []byte { return append([]byte(s), 0) }

// text3gp builds a 3GPP text tag box with a UTF-8 value.
func text3gp(typ, s string) []byte {
	return fullBox(typ, 0, lang, cstr(s))
}

func udta(boxes ...[]byte) []byte {
	return box("moov", box("udta", boxes...))
}

func hdlr(handler, reserved string) []byte {
	r := make([]byte, 12)
	copy(r, reserved)
	return fullBox("hdlr", 0, u32(0), []byte(handler), r, []byte{0})
}

// item builds an iTunes ilst item holding one data box.
func item(typ string, kind uint32, value []byte) []byte {
	return box(typ, box("data", u32(kind), u32(0), value))
}

func reader(data []byte) *binutil.SafeReader {
	return binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.3gp")
}

func parse(t *testing.T, parts ...[]byte) *types.File {
	t.Helper()
	data := append(append([]byte{}, ftyp...), bytes.Join(parts, nil)...)
	file, err := Parse(reader(data), types.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return file
}

func testConfig() *types.Config {
	return types.DefaultConfig()
}
