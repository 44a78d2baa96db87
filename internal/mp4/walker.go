package mp4

import (
	"errors"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

const (
	// maxDepth bounds recursion into nested containers.
	maxDepth = 12
	// maxLeaf bounds the payload read for a single leaf box.
	maxLeaf = 16 << 20
)

// containers are walked for children; no payload of their own is decoded.
var containers = map[string]bool{
	"moov": true,
	"udta": true,
	"trak": true,
	"mdia": true,
	"minf": true,
	"stbl": true,
	"edts": true,
}

// walker carries the state of one box-tree traversal.
type walker struct {
	sr    *binary.SafeReader
	file  *types.File
	cfg   *types.Config
	track *track // innermost trak being walked, if any
}

// walk visits every box in [start, end). A box that cannot be read ends the
// walk at this level with a warning; boxes already visited keep their
// results. A container whose declared size overruns end is still walked
// up to end so truncated files yield what they hold.
func (w *walker) walk(start, end int64, depth int) {
	for off := start; end-off >= 8; {
		b, err := readBox(w.sr, off, end)
		if err != nil {
			if errors.Is(err, types.Truncated) && containers[b.Type] {
				w.warn(b.Type, off, "%v; walking children up to the container end", err)
				b.Size = end - off
				w.visit(b, depth)
				return
			}
			w.warn(b.Type, off, "%v", err)
			return
		}
		w.visit(b, depth)
		off = b.End()
	}
}

func (w *walker) visit(b Box, depth int) {
	w.cfg.Debug("mp4: box", "type", b.Type, "offset", b.Offset, "size", b.Size, "depth", depth)

	if containers[b.Type] || b.Type == "meta" {
		if depth >= maxDepth {
			w.warn(b.Type, b.Offset, "nesting deeper than %d boxes", maxDepth)
			return
		}
	}

	switch b.Type {
	case "trak":
		outer := w.track
		w.track = &track{}
		w.walk(b.DataOffset(), b.End(), depth+1)
		w.commit(w.track)
		w.track = outer
	case "meta":
		w.meta(b)
	case "mvhd":
		w.leaf(b, w.mvhd)
	case "tkhd", "mdhd", "hdlr", "stsd":
		if w.track != nil {
			w.leaf(b, w.trackBox(b.Type))
		}
	default:
		if containers[b.Type] {
			w.walk(b.DataOffset(), b.End(), depth+1)
			return
		}
		if h := userDataBoxes[b.Type]; h != nil {
			w.leaf(b, func(p []byte, off int64) { h(w, b.Type, p, off) })
		}
	}
}

// leaf reads the payload of b and hands it to fn. Oversized or unreadable
// payloads are skipped with a warning.
func (w *walker) leaf(b Box, fn func(p []byte, off int64)) {
	if b.DataSize() > maxLeaf {
		w.warn(b.Type, b.Offset, "payload of %d bytes skipped", b.DataSize())
		return
	}
	p, err := w.sr.Bytes(b.DataOffset(), int(b.DataSize()), b.Type+" box")
	if err != nil {
		w.warn(b.Type, b.Offset, "%v", err)
		return
	}
	fn(p, b.DataOffset())
}

func (w *walker) warn(element string, offset int64, format string, args ...any) {
	w.file.Warn("metadata", element, offset, format, args...)
	w.cfg.Debug("mp4: skip box", "box", element, "offset", offset)
}
