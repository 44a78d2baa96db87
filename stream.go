package mediatag

import (
	"github.com/simonhull/mediatag/internal/types"
)

// StreamInfo is an alias to types.StreamInfo.
type StreamInfo = types.StreamInfo

// StreamKind is an alias to types.StreamKind.
type StreamKind = types.StreamKind

const (
	StreamAudio = types.StreamAudio
	StreamVideo = types.StreamVideo
)

// Codec is an alias to types.Codec.
type Codec = types.Codec

const (
	CodecUnknown = types.CodecUnknown
	CodecPCM     = types.CodecPCM
	CodecMSADPCM = types.CodecMSADPCM
	CodecALaw    = types.CodecALaw
	CodecMuLaw   = types.CodecMuLaw
	CodecMP3     = types.CodecMP3
	CodecAMR     = types.CodecAMR
	CodecAMRWB   = types.CodecAMRWB
	CodecMIDI    = types.CodecMIDI
	CodecMMF     = types.CodecMMF
	CodecIMelody = types.CodecIMelody
	CodecFLAC    = types.CodecFLAC
	CodecAAC     = types.CodecAAC
	CodecVorbis  = types.CodecVorbis
	CodecOpus    = types.CodecOpus
)
