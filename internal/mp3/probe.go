package mp3

import (
	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/id3"
)

// ScanWindow bounds the search for the first frame after any ID3v2 tag.
const ScanWindow = 100 * 1024

// Probe reports whether sr holds an MPEG audio stream: n consecutive
// frames, each starting where the previous one ends, found within
// ScanWindow bytes of the end of any leading ID3v2 tag.
func Probe(sr *binary.SafeReader, n int) bool {
	_, _, ok := FindStream(sr, AudioStart(sr), n)
	return ok
}

// AudioStart returns the offset just past a leading ID3v2 tag (footer
// included), or 0 when the data does not start with one.
func AudioStart(sr *binary.SafeReader) int64 {
	hdr := sr.Prefix(0, id3.HeaderSize)
	h, err := id3.ParseHeader(hdr, sr.Path())
	if err != nil && h.Version == 0 {
		return 0
	}
	if n := h.TagLen(); n <= sr.Size() {
		return n
	}
	return 0
}

// FindStream scans [start, start+ScanWindow) for the first frame that
// begins a chain of n frames. A chain cut short by the end of the audio
// data is accepted, so a stream shorter than n frames still qualifies.
func FindStream(sr *binary.SafeReader, start int64, n int) (int64, FrameHeader, bool) {
	if n < 1 {
		n = 1
	}
	end := sr.Size()
	if id3.HasV1(sr) {
		end -= id3.V1Size
	}

	window := sr.Prefix(start, ScanWindow+3)
	for i := 0; i+3 < len(window); i++ {
		if window[i] != 0xFF || window[i+1]&0xE0 != 0xE0 {
			continue
		}
		h, ok := ParseHeader(window[i : i+4])
		if !ok || h.FrameLen() == 0 {
			continue
		}
		off := start + int64(i)
		if chain(sr, off, h, n, end) {
			return off, h, true
		}
	}
	return 0, FrameHeader{}, false
}

func chain(sr *binary.SafeReader, off int64, first FrameHeader, n int, end int64) bool {
	h := first
	var buf [4]byte
	for i := 1; i < n; i++ {
		next := off + int64(h.FrameLen())
		if next+4 > end {
			return true
		}
		if err := sr.ReadAt(buf[:], next, "MPEG frame header"); err != nil {
			return false
		}
		nh, ok := ParseHeader(buf[:])
		if !ok || nh.FrameLen() == 0 || !first.compatible(nh) {
			return false
		}
		off, h = next, nh
	}
	return true
}
