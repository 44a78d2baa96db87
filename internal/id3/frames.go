package id3

import (
	"cmp"
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"github.com/simonhull/mediatag/internal/types"
)

// textFrames maps v2.3/v2.4 text frame IDs to tag fields.
var textFrames = map[string]types.Field{
	"TIT1": types.FieldContentGroup,
	"TIT2": types.FieldTitle,
	"TPE1": types.FieldArtist,
	"TPE2": types.FieldAlbumArtist,
	"TPE3": types.FieldConductor,
	"TALB": types.FieldAlbum,
	"TYER": types.FieldYear,
	"TCON": types.FieldGenre,
	"TRCK": types.FieldTrackNumber,
	"TENC": types.FieldEncoder,
	"TCOP": types.FieldCopyright,
	"TOPE": types.FieldOriginalArtist,
	"TCOM": types.FieldComposer,
	"TRDA": types.FieldRecordingDate,
	"TDRC": types.FieldRecordingDate,
}

func (d *decoder) frame(id string, p []byte, offset int64) {
	if d.header.Version == 2 {
		mapped, ok := v22Frames[id]
		if !ok {
			d.cfg.Debug("id3: unhandled frame", "frame", id)
			return
		}
		id = mapped
	}

	tags := &d.file.Tags
	if field, ok := textFrames[id]; ok {
		if len(p) < 1 {
			return
		}
		value := text(p[0], p[1:], d.cfg.Charset)
		switch id {
		case "TCON":
			value = ResolveGenre(value)
		case "TDRC":
			if len(value) >= 4 && isDigits(value[:4]) {
				tags.Set(types.FieldYear, value[:4])
			}
		}
		tags.Set(field, value)
		return
	}

	switch id {
	case "COMM":
		if s, ok := d.described(id, p, offset); ok {
			tags.Set(types.FieldComment, s)
		}
	case "USLT":
		if s, ok := d.described(id, p, offset); ok {
			tags.Set(types.FieldLyrics, s)
		}
	case "SYLT":
		d.syncLyrics(p, offset)
	case "WXXX":
		d.userURL(p)
	case "APIC":
		d.picture(p, offset, false)
	case "PIC":
		d.picture(p, offset, true)
	case "CHAP":
		d.chapter(p, offset)
	default:
		d.cfg.Debug("id3: unhandled frame", "frame", id)
	}
}

// described decodes frames laid out as encoding, language(3), descriptor,
// text (COMM, USLT).
func (d *decoder) described(id string, p []byte, offset int64) (string, bool) {
	if len(p) < 4 {
		d.warn(id, offset, "frame too short (%d bytes)", len(p))
		return "", false
	}
	enc := p[0]
	_, rest, found := cut(enc, p[4:])
	if !found {
		// No descriptor terminator: treat the whole run as text.
		return text(enc, p[4:], d.cfg.Charset), true
	}
	return text(enc, rest, d.cfg.Charset), true
}

// syncLyrics decodes SYLT: encoding, language(3), timestamp format,
// content type, descriptor, then (text, 4-byte big-endian time) pairs.
func (d *decoder) syncLyrics(p []byte, offset int64) {
	if len(p) < 6 {
		d.warn("SYLT", offset, "frame too short (%d bytes)", len(p))
		return
	}
	enc := p[0]
	if p[4] != 2 {
		d.cfg.Debug("id3: SYLT timestamps are not milliseconds", "format", p[4])
	}

	_, rest, found := cut(enc, p[6:])
	if !found {
		d.warn("SYLT", offset, "descriptor not terminated")
		return
	}

	var lines []types.SyncLyric
	for len(rest) > 0 {
		t, after, found := cut(enc, rest)
		if !found || len(after) < 4 {
			break
		}
		lines = append(lines, types.SyncLyric{
			Time: int64(binary.BigEndian.Uint32(after[:4])),
			Text: decode(enc, t, d.cfg.Charset),
		})
		rest = after[4:]
	}

	slices.SortStableFunc(lines, func(a, b types.SyncLyric) int {
		return cmp.Compare(a.Time, b.Time)
	})
	d.file.Tags.SetSyncLyrics(lines)
}

// userURL decodes WXXX: encoding, description, Latin-1 URL.
func (d *decoder) userURL(p []byte) {
	if len(p) < 2 {
		return
	}
	_, rest, found := cut(p[0], p[1:])
	if !found {
		return
	}
	url := strings.TrimSpace(text(encLatin1, rest, d.cfg.Charset))
	d.file.Tags.Set(types.FieldURL, url)
}

// chapter decodes CHAP: element ID, start and end times in milliseconds,
// start and end byte offsets, then embedded frames of which TIT2 is used.
func (d *decoder) chapter(p []byte, offset int64) {
	elem, rest, found := cut(encLatin1, p)
	if !found || len(rest) < 16 {
		d.warn("CHAP", offset, "chapter frame truncated")
		return
	}

	ch := types.Chapter{
		ID:    string(elem),
		Start: time.Duration(binary.BigEndian.Uint32(rest[0:4])) * time.Millisecond,
		End:   time.Duration(binary.BigEndian.Uint32(rest[4:8])) * time.Millisecond,
	}

	sub := rest[16:]
	for len(sub) >= 10 && validFrameID(sub[:4]) {
		size := int(d.header.frameSize(sub[4:8]))
		if size > len(sub)-10 {
			break
		}
		payload := sub[10 : 10+size]
		if string(sub[:4]) == "TIT2" && len(payload) > 0 {
			ch.Title = text(payload[0], payload[1:], d.cfg.Charset)
			break
		}
		sub = sub[10+size:]
	}

	d.chapters = append(d.chapters, ch)
}
