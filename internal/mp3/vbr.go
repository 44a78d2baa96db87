package mp3

import (
	"github.com/simonhull/mediatag/internal/binary"
)

// Xing header flags.
const (
	xingFrames  = 0x1
	xingBytes   = 0x2
	xingTOC     = 0x4
	xingQuality = 0x8
)

// VBRHeader is a Xing, Info or VBRI header found in the first frame.
type VBRHeader struct {
	Tag     string // "Xing", "Info" or "VBRI"
	Frames  uint32
	Bytes   uint32
	TOC     []byte
	Quality uint32

	// VBRI only
	Version        uint16
	Delay          uint16
	TOCEntries     uint16
	TOCScale       uint16
	TOCEntrySize   uint16
	FramesPerEntry uint16
}

// xingOffset is the distance from the frame start to the Xing tag.
func xingOffset(h FrameHeader) int64 {
	mono := h.ChannelMode == ChannelMono
	switch {
	case h.Version == MPEG1 && !mono:
		return 32 + 4
	case h.Version == MPEG1:
		return 17 + 4
	case !mono:
		return 17 + 4
	default:
		return 9 + 4
	}
}

// vbriOffset is the distance from the frame start to the VBRI tag.
const vbriOffset = 32 + 4

// ParseVBR looks for a Xing/Info header, then a VBRI header, in the frame
// at off.
func ParseVBR(sr *binary.SafeReader, off int64, h FrameHeader) (*VBRHeader, bool) {
	if v, ok := parseXing(sr, off+xingOffset(h)); ok {
		return v, true
	}
	return parseVBRI(sr, off+vbriOffset)
}

func parseXing(sr *binary.SafeReader, off int64) (*VBRHeader, bool) {
	cr := binary.NewChainReader(sr, off)
	tag := cr.String(4, "Xing tag")
	if tag != "Xing" && tag != "Info" {
		return nil, false
	}

	v := &VBRHeader{Tag: tag}
	flags := binary.ReadChained[uint32](cr, "Xing flags")
	if flags&xingFrames != 0 {
		v.Frames = binary.ReadChained[uint32](cr, "Xing frames")
	}
	if flags&xingBytes != 0 {
		v.Bytes = binary.ReadChained[uint32](cr, "Xing bytes")
	}
	if flags&xingTOC != 0 {
		if toc := cr.String(100, "Xing TOC"); toc != "" {
			v.TOC = []byte(toc)
		}
	}
	if flags&xingQuality != 0 {
		v.Quality = binary.ReadChained[uint32](cr, "Xing quality")
	}
	if cr.Err() != nil {
		return nil, false
	}
	return v, true
}

func parseVBRI(sr *binary.SafeReader, off int64) (*VBRHeader, bool) {
	cr := binary.NewChainReader(sr, off)
	if cr.String(4, "VBRI tag") != "VBRI" {
		return nil, false
	}

	v := &VBRHeader{Tag: "VBRI"}
	v.Version = binary.ReadChained[uint16](cr, "VBRI version")
	v.Delay = binary.ReadChained[uint16](cr, "VBRI delay")
	v.Quality = uint32(binary.ReadChained[uint16](cr, "VBRI quality"))
	v.Bytes = binary.ReadChained[uint32](cr, "VBRI bytes")
	v.Frames = binary.ReadChained[uint32](cr, "VBRI frames")
	v.TOCEntries = binary.ReadChained[uint16](cr, "VBRI TOC entries")
	v.TOCScale = binary.ReadChained[uint16](cr, "VBRI TOC scale")
	v.TOCEntrySize = binary.ReadChained[uint16](cr, "VBRI TOC entry size")
	v.FramesPerEntry = binary.ReadChained[uint16](cr, "VBRI frames per entry")
	if cr.Err() != nil {
		return nil, false
	}
	return v, true
}
