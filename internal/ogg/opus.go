package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/mediatag/internal/types"
)

const (
	opusHeadMagic = "OpusHead"
	opusTagsMagic = "OpusTags"
	opusHeadLen   = 19

	// opusRate is the decoder output rate and the granule clock of every
	// Opus stream, whatever the input rate was.
	opusRate = 48000
)

// opusHead is the part of the identification header that affects timing.
type opusHead struct {
	stream    types.StreamInfo
	preSkip   int64
	inputRate int
}

func isOpus(pkt []byte) bool {
	return len(pkt) >= 8 && string(pkt[:8]) == opusHeadMagic
}

// parseOpusHead decodes OpusHead:
//
//	[0:8]   "OpusHead"
//	[8]     version (major nibble must be 0)
//	[9]     channels
//	[10:12] pre-skip
//	[12:16] input sample rate (informational)
//	[16:18] output gain
//	[18]    channel mapping family
func parseOpusHead(pkt []byte) (opusHead, error) {
	if len(pkt) < opusHeadLen {
		return opusHead{}, fmt.Errorf("OpusHead too short: %d bytes", len(pkt))
	}
	if !isOpus(pkt) {
		return opusHead{}, fmt.Errorf("not an OpusHead packet")
	}
	// Minor versions are backwards compatible.
	if v := pkt[8]; v>>4 != 0 {
		return opusHead{}, fmt.Errorf("unsupported Opus version %d", v)
	}
	h := opusHead{
		stream: types.StreamInfo{
			Codec:      types.CodecOpus,
			Channels:   int(pkt[9]),
			SampleRate: opusRate,
			VBR:        true,
		},
		preSkip:   int64(binary.LittleEndian.Uint16(pkt[10:12])),
		inputRate: int(binary.LittleEndian.Uint32(pkt[12:16])),
	}
	if h.stream.Channels == 0 {
		return opusHead{}, fmt.Errorf("OpusHead declares no channels")
	}
	return h, nil
}

// opusCommentBlock strips the "OpusTags" prefix.
func opusCommentBlock(pkt []byte) ([]byte, error) {
	if len(pkt) < 8 || string(pkt[:8]) != opusTagsMagic {
		return nil, fmt.Errorf("not an OpusTags packet")
	}
	return pkt[8:], nil
}
