package mp4

import (
	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// Parse walks the box tree of an MP4/3GP file and extracts tags and track
// properties.
//
// Only the first box must be intact. Problems deeper in the tree are
// reported as warnings and the walk resumes with the next sibling, so a
// damaged file still yields everything decoded before the damage.
func Parse(sr *binary.SafeReader, cfg *types.Config) (*types.File, error) {
	first, err := readBox(sr, 0, sr.Size())
	if err != nil || !validType(first.Type) {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "no ISO base media box at offset 0"}
	}

	file := types.NewFile(sr.Path(), types.FormatMP4, sr.Size())
	w := &walker{sr: sr, file: file, cfg: cfg}
	w.walk(0, sr.Size(), 0)
	w.finish()
	return file, nil
}
