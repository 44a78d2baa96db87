package id3

import (
	"cmp"
	"errors"
	"slices"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// v2.3 frame flags
const (
	v23Compressed = 0x0080
	v23Encrypted  = 0x0040
	v23Grouped    = 0x0020
)

// v2.4 frame flags
const (
	v24Grouped    = 0x0040
	v24Compressed = 0x0008
	v24Encrypted  = 0x0004
	v24Unsync     = 0x0002
	v24DataLength = 0x0001
)

// v22Frames maps three-character v2.2 frame IDs to their v2.3 equivalents.
var v22Frames = map[string]string{
	"TT1": "TIT1",
	"TT2": "TIT2",
	"TP1": "TPE1",
	"TP2": "TPE2",
	"TP3": "TPE3",
	"TAL": "TALB",
	"TYE": "TYER",
	"TCO": "TCON",
	"TRK": "TRCK",
	"TEN": "TENC",
	"TCR": "TCOP",
	"TOA": "TOPE",
	"TCM": "TCOM",
	"TRD": "TRDA",
	"WXX": "WXXX",
	"COM": "COMM",
	"ULT": "USLT",
	"SLT": "SYLT",
	"PIC": "PIC",
}

// decoder holds per-tag state. It is created for one call and discarded.
type decoder struct {
	file     *types.File
	cfg      *types.Config
	chapters []types.Chapter
	header   Header
	base     int64
}

// ReadV2 decodes the ID3v2 tag that starts at off in sr into file and
// returns the number of bytes the tag occupies, footer included.
//
// A tag whose declared size runs past the end of the data is a structural
// failure: nothing is decoded and a Truncated error is returned. For a tag
// version above 2.4 the tag length is returned with an UnsupportedVariant
// error so the caller can skip it.
func ReadV2(sr *binary.SafeReader, off int64, file *types.File, cfg *types.Config) (int64, error) {
	hdr, err := sr.Bytes(off, HeaderSize, "ID3v2 header")
	if err != nil {
		return 0, err
	}
	h, err := ParseHeader(hdr, sr.Path())
	if errors.Is(err, types.UnsupportedVariant) {
		// The size field is still meaningful; callers may skip the tag.
		return h.TagLen(), err
	}
	if err != nil {
		return 0, err
	}

	tag, err := sr.Bytes(off, HeaderSize+int(h.Size), "ID3v2 tag")
	if err != nil {
		return 0, err
	}
	return h.TagLen(), DecodeV2(tag, off, file, cfg)
}

// DecodeV2 decodes a complete ID3v2 tag (header included) into file. base
// is the tag's offset in the enclosing file and is used for warnings.
//
// Frame-level problems are recorded as warnings and decoding continues with
// the next frame. Only header problems are returned as errors.
func DecodeV2(tag []byte, base int64, file *types.File, cfg *types.Config) error {
	h, err := ParseHeader(tag, file.Path)
	if err != nil {
		return err
	}
	if int64(len(tag)-HeaderSize) < int64(h.Size) {
		return &types.OutOfBoundsError{
			Path:   file.Path,
			What:   "ID3v2 tag body",
			Offset: base + HeaderSize,
			Length: int(h.Size),
			Size:   base + int64(len(tag)),
		}
	}

	d := &decoder{file: file, cfg: cfg, header: h, base: base}
	body := tag[HeaderSize : HeaderSize+int(h.Size)]
	if h.Version < 4 && h.Flags&flagUnsync != 0 {
		body = removeUnsync(body)
	}

	start, ok := d.skipExtended(body)
	if !ok {
		return nil
	}
	d.frames(body, start)

	if len(d.chapters) > 0 && len(file.Chapters) == 0 {
		slices.SortStableFunc(d.chapters, func(a, b types.Chapter) int {
			return cmp.Compare(a.Start, b.Start)
		})
		for i := range d.chapters {
			d.chapters[i].Index = i + 1
		}
		file.Chapters = d.chapters
	}
	return nil
}

// skipExtended returns the offset of the first frame in body.
func (d *decoder) skipExtended(body []byte) (int, bool) {
	if d.header.Version < 3 || d.header.Flags&flagExtended == 0 {
		return 0, true
	}
	if len(body) < 4 {
		d.warn("", 0, "extended header truncated")
		return 0, false
	}

	size := int64(binary.Synchsafe(body[0:4]))
	if d.header.Version == 3 {
		size += 4
	}
	if size < 4 || size > int64(len(body)) {
		d.warn("", 0, "extended header size %d exceeds tag body %d", size, len(body))
		return 0, false
	}
	return int(size), true
}

// frames walks the frame stream. It stops at padding, at a frame ID that is
// not [0-9A-Z], or at a frame whose declared size overruns the tag.
func (d *decoder) frames(body []byte, pos int) {
	hlen := d.header.frameHeaderLen()
	idLen, sizeLen := 4, 4
	if d.header.Version == 2 {
		idLen, sizeLen = 3, 3
	}

	for len(body)-pos > hlen && validFrameID(body[pos:pos+idLen]) {
		id := string(body[pos : pos+idLen])
		size := int64(d.header.frameSize(body[pos+idLen : pos+idLen+sizeLen]))
		var flags uint16
		if d.header.Version > 2 {
			flags = uint16(body[pos+8])<<8 | uint16(body[pos+9])
		}

		remaining := int64(len(body) - pos - hlen)
		if size > remaining {
			d.warn(id, int64(pos), "declared size %d exceeds remaining tag bytes %d", size, remaining)
			return
		}

		payload := body[pos+hlen : pos+hlen+int(size)]
		offset := int64(pos)
		pos += hlen + int(size)

		payload, ok := d.unwrap(id, flags, payload, offset)
		if !ok {
			continue
		}
		d.frame(id, payload, offset)
	}
}

// unwrap strips per-frame framing (grouping byte, data length indicator,
// unsynchronisation). Compressed and encrypted frames are skipped.
func (d *decoder) unwrap(id string, flags uint16, payload []byte, offset int64) ([]byte, bool) {
	switch d.header.Version {
	case 3:
		if flags&(v23Compressed|v23Encrypted) != 0 {
			d.warn(id, offset, "compressed or encrypted frame skipped")
			return nil, false
		}
		if flags&v23Grouped != 0 {
			if len(payload) < 1 {
				return nil, false
			}
			payload = payload[1:]
		}
	case 4:
		if flags&(v24Compressed|v24Encrypted) != 0 {
			d.warn(id, offset, "compressed or encrypted frame skipped")
			return nil, false
		}
		if flags&v24Grouped != 0 {
			if len(payload) < 1 {
				return nil, false
			}
			payload = payload[1:]
		}
		if flags&v24DataLength != 0 {
			if len(payload) < 4 {
				d.warn(id, offset, "data length indicator truncated")
				return nil, false
			}
			payload = payload[4:]
		}
		if flags&v24Unsync != 0 || d.header.Flags&flagUnsync != 0 {
			payload = removeUnsync(payload)
		}
	}
	return payload, true
}

func (d *decoder) warn(element string, offset int64, format string, args ...any) {
	d.file.Warn("metadata", element, d.base+HeaderSize+offset, format, args...)
	d.cfg.Debug("id3: skip frame", "frame", element, "offset", d.base+HeaderSize+offset)
}
