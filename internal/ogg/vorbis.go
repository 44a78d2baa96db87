package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/mediatag/internal/types"
)

const (
	vorbisMagic    = "vorbis"
	vorbisIdentLen = 30

	packetIdent   = 0x01
	packetComment = 0x03
)

// isVorbis reports whether pkt is a Vorbis identification header.
func isVorbis(pkt []byte) bool {
	return len(pkt) >= 7 && pkt[0] == packetIdent && string(pkt[1:7]) == vorbisMagic
}

// parseVorbisIdent decodes the identification header:
//
//	[0]     packet type 0x01
//	[1:7]   "vorbis"
//	[7:11]  version (must be 0)
//	[11]    channels
//	[12:16] sample rate
//	[16:20] maximum bitrate
//	[20:24] nominal bitrate
//	[24:28] minimum bitrate
//	[28]    block sizes
//	[29]    framing flag
func parseVorbisIdent(pkt []byte) (types.StreamInfo, error) {
	if len(pkt) < vorbisIdentLen {
		return types.StreamInfo{}, fmt.Errorf("identification header too short: %d bytes", len(pkt))
	}
	if !isVorbis(pkt) {
		return types.StreamInfo{}, fmt.Errorf("not a Vorbis identification header")
	}
	if v := binary.LittleEndian.Uint32(pkt[7:11]); v != 0 {
		return types.StreamInfo{}, fmt.Errorf("unsupported Vorbis version %d", v)
	}
	s := types.StreamInfo{
		Codec:      types.CodecVorbis,
		Channels:   int(pkt[11]),
		SampleRate: int(binary.LittleEndian.Uint32(pkt[12:16])),
		VBR:        true,
	}
	if s.Channels == 0 || s.SampleRate == 0 {
		return types.StreamInfo{}, fmt.Errorf("invalid Vorbis stream: %d channels at %d Hz", s.Channels, s.SampleRate)
	}
	// Bitrates are signed; zero and negative values mean unset.
	if nominal := int32(binary.LittleEndian.Uint32(pkt[20:24])); nominal > 0 {
		s.BitRate = int(nominal)
	}
	return s, nil
}

// vorbisCommentBlock strips the comment header prefix, leaving the comment
// block that follows it.
func vorbisCommentBlock(pkt []byte) ([]byte, error) {
	if len(pkt) < 7 || pkt[0] != packetComment || string(pkt[1:7]) != vorbisMagic {
		return nil, fmt.Errorf("not a Vorbis comment header")
	}
	return pkt[7:], nil
}
