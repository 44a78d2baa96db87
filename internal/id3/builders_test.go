package id3

import (
	"bytes"
	"encoding/binary"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// frame builds a v2.3 (plain size) or v2.4 (synchsafe size) frame.
func frame(version byte, id string, payload []byte) []byte {
	return frameFlags(version, id, 0, payload)
}

func frameFlags(version byte, id string, flags uint16, payload []byte) []byte {
	var buf bytes.Buffer
	if version == 2 {
		buf.WriteString(id)
		n := len(payload)
		buf.Write([]byte{byte(n >> 16), byte(n >> 8), byte(n)})
		buf.Write(payload)
		return buf.Bytes()
	}

	buf.WriteString(id)
	size := make([]byte, 4)
	if version == 4 {
		binutil.PutSynchsafe(size, uint32(len(payload)))
	} else {
		binary.BigEndian.PutUint32(size, uint32(len(payload)))
	}
	buf.Write(size)
	buf.Write([]byte{byte(flags >> 8), byte(flags)})
	buf.Write(payload)
	return buf.Bytes()
}

// tagBytes builds a complete ID3v2 tag around body.
func tagBytes(version, flags byte, body []byte) []byte {
	hdr := []byte{'I', 'D', '3', version, 0, flags, 0, 0, 0, 0}
	binutil.PutSynchsafe(hdr[6:10], uint32(len(body)))
	return append(hdr, body...)
}

func tagWithFrames(version byte, frames ...[]byte) []byte {
	return tagBytes(version, 0, bytes.Join(frames, nil))
}

func textPayload(s string) []byte {
	return append([]byte{encLatin1}, s...)
}

func decodeTag(t interface{ Fatalf(string, ...any) }, tag []byte) *types.File {
	file := types.NewFile("test.mp3", types.FormatMP3, int64(len(tag)))
	if err := DecodeV2(tag, 0, file, types.DefaultConfig()); err != nil {
		t.Fatalf("DecodeV2() error = %v", err)
	}
	return file
}
