package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-flac/flacvorbis/v2"
	flac "github.com/go-flac/go-flac/v2"
)

// ParseBlock decodes a comment block: a vendor string, a comment count and
// the comments, each length-prefixed with a little-endian uint32.
//
// Declared lengths are checked against the payload before anything is
// allocated, so a hostile count cannot force a huge allocation.
func ParseBlock(data []byte) (*flacvorbis.MetaDataBlockVorbisComment, error) {
	if err := checkLengths(data); err != nil {
		return nil, err
	}
	return flacvorbis.ParseFromMetaDataBlock(flac.MetaDataBlock{Type: flac.VorbisComment, Data: data})
}

func checkLengths(data []byte) error {
	r := data
	next := func() (uint64, bool) {
		if len(r) < 4 {
			return 0, false
		}
		n := uint64(binary.LittleEndian.Uint32(r))
		r = r[4:]
		return n, true
	}

	n, ok := next()
	if !ok || n > uint64(len(r)) {
		return errors.New("truncated vendor string")
	}
	r = r[n:]

	count, ok := next()
	if !ok {
		return errors.New("truncated comment count")
	}
	if count > uint64(len(r))/4 {
		return fmt.Errorf("comment count %d exceeds block", count)
	}
	for i := range count {
		n, ok := next()
		if !ok || n > uint64(len(r)) {
			return fmt.Errorf("truncated comment %d", i)
		}
		r = r[n:]
	}
	return nil
}
