package mp4

import "github.com/simonhull/mediatag/internal/binary"

// ProbeWindow bounds the top-level box headers Probe looks at.
const ProbeWindow = 10 * 1024

// topLevel lists the box types accepted at the top level of a file.
// Boxes marked true identify the file as ISO base media on their own.
var topLevel = map[string]bool{
	"ftyp": true,
	"moov": true,
	"mdat": true,
	"moof": true,
	"styp": true,
	"free": false,
	"skip": false,
	"wide": false,
	"pnot": false,
	"pdin": false,
	"uuid": false,
	"sidx": false,
	"meta": false,
	"udta": false,
}

// Probe reports whether sr starts with a chain of top-level boxes that
// includes an identifying box, looking only at headers within the first
// ProbeWindow bytes.
func Probe(sr *binary.SafeReader) bool {
	for off := int64(0); off < min(sr.Size(), ProbeWindow); {
		b, err := readBox(sr, off, sr.Size())
		if err != nil {
			return false
		}
		identifies, known := topLevel[b.Type]
		if !known {
			return false
		}
		if identifies {
			return true
		}
		off = b.End()
	}
	return false
}
