package mp4

import (
	"bytes"

	"github.com/simonhull/mediatag/internal/id3"
)

// hdlrLen is the fixed part of a handler box payload: version and flags,
// pre_defined, handler_type and three reserved words.
const hdlrLen = 24

// meta decodes a meta box. The box must open with a hdlr box; its handler
// type selects the ID3v2 branch ("ID3x") or the iTunes branch ("mdir" with
// an "appl" reserved word). Other handlers fall back to scanning the box
// for an ilst item list.
func (w *walker) meta(b Box) {
	start := b.DataOffset()
	// ISO meta is a full box; QuickTime meta has no version word.
	if h := w.sr.Prefix(start, 8); len(h) == 8 && string(h[4:8]) != "hdlr" {
		start += 4
	}

	hdlr, err := readBox(w.sr, start, b.End())
	if err != nil || hdlr.Type != "hdlr" {
		w.warn("meta", b.Offset, "meta box does not start with hdlr")
		return
	}
	p, err := w.sr.Bytes(hdlr.DataOffset(), int(min(hdlr.DataSize(), hdlrLen)), "hdlr box")
	if err != nil || len(p) < hdlrLen {
		w.warn("hdlr", hdlr.Offset, "handler box shorter than %d bytes", hdlrLen)
		return
	}
	handler, reserved := string(p[8:12]), string(p[12:16])
	w.cfg.Debug("mp4: meta handler", "handler", handler, "reserved", reserved)

	switch {
	case handler[:3] == "ID3":
		w.id3(hdlr.End(), b.End())
	case handler == "mdir" && reserved == "appl":
		w.metaChildren(hdlr.End(), b.End())
	default:
		w.scanItems(hdlr.End(), b.End())
	}
}

// id3 decodes the ID32 box that follows an ID3 handler. Its payload holds
// version and flags, a packed language and a complete ID3v2 tag.
func (w *walker) id3(start, end int64) {
	b, err := readBox(w.sr, start, end)
	if err != nil {
		w.warn("ID32", start, "%v", err)
		return
	}
	if b.Type != "ID32" && b.Type != "id32" {
		w.warn(b.Type, b.Offset, "expected ID32 box after ID3 handler")
		return
	}
	w.leaf(b, func(p []byte, off int64) {
		var tag []byte
		switch {
		case len(p) >= 9 && string(p[6:9]) == "ID3":
			tag, off = p[6:], off+6
		case len(p) >= 3 && string(p[0:3]) == "ID3":
			tag = p
		default:
			w.warn("ID32", off, "no ID3v2 tag in ID32 box")
			return
		}
		if err := id3.DecodeV2(tag, off, w.file, w.cfg); err != nil {
			w.warn("ID32", off, "%v", err)
		}
	})
}

// metaChildren visits the boxes of an iTunes meta box after its hdlr.
func (w *walker) metaChildren(start, end int64) {
	for off := start; end-off >= 8; {
		b, err := readBox(w.sr, off, end)
		if err != nil {
			w.warn(b.Type, off, "%v", err)
			return
		}
		if b.Type == "ilst" {
			w.ilst(b)
		}
		off = b.End()
	}
}

// scanItems looks for an ilst box anywhere in [start, end) by its type
// code. When the match does not frame a readable box, the bytes are
// scanned for a bare covr record instead.
func (w *walker) scanItems(start, end int64) {
	if end-start > maxLeaf {
		w.warn("meta", start, "meta box too large to scan")
		return
	}
	raw := w.sr.Prefix(start, int(end-start))
	i := bytes.Index(raw, []byte("ilst"))
	if i < 4 {
		return
	}
	if b, err := readBox(w.sr, start+int64(i-4), end); err == nil {
		w.ilst(b)
		return
	}
	w.scanCover(raw[i:], start+int64(i))
}
