package probe

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"github.com/go-audio/riff"

	binutil "github.com/simonhull/mediatag/internal/binary"
)

// IsAVI reports whether sr starts with a RIFF header of form "AVI ".
func IsAVI(sr *binutil.SafeReader) bool {
	p := riff.New(sr.Section(0, 12))
	if err := p.ParseHeaders(); err != nil {
		return false
	}
	return p.Format == [4]byte{'A', 'V', 'I', ' '} && p.Size >= 4
}

const flvHeaderLen = 9

// IsFLV reports whether sr starts with an FLV version 1 header whose
// reserved flag bits are clear.
func IsFLV(sr *binutil.SafeReader) bool {
	h := sr.Prefix(0, flvHeaderLen)
	if len(h) < flvHeaderLen || string(h[:3]) != "FLV" || h[3] != 1 || h[4]&0xFA != 0 {
		return false
	}
	return binary.BigEndian.Uint32(h[5:9]) >= flvHeaderLen
}

const (
	ebmlMagic      = "\x1A\x45\xDF\xA3"
	matroskaWindow = 4096
)

// IsMatroska reports whether sr starts with an EBML header whose body
// contains the "matroska" doc type. Only the declared header span is
// searched, and a span running past the probe buffer is rejected.
func IsMatroska(sr *binutil.SafeReader) bool {
	buf := sr.Prefix(0, matroskaWindow)
	if !bytes.HasPrefix(buf, []byte(ebmlMagic)) {
		return false
	}
	body := buf[len(ebmlMagic):]
	size, n, ok := vint(body)
	if !ok || size > uint64(len(body)-n) {
		return false
	}
	return bytes.Contains(body[n:n+int(size)], []byte("matroska"))
}

// vint decodes an EBML variable-length integer. The position of the
// leading one bit in the first byte gives the length, 1 to 8 bytes; the
// marker bit is not part of the value.
func vint(b []byte) (value uint64, n int, ok bool) {
	if len(b) == 0 || b[0] == 0 {
		return 0, 0, false
	}
	n = bits.LeadingZeros8(b[0]) + 1
	if len(b) < n {
		return 0, 0, false
	}
	value = uint64(b[0] & (0xFF >> n))
	for _, c := range b[1:n] {
		value = value<<8 | uint64(c)
	}
	return value, n, true
}

const tsSync = 0x47

// tsPacketSizes are tried in order: standard, DVHS (timecode prefix) and
// FEC (Reed-Solomon suffix) packets.
var tsPacketSizes = []int{188, 192, 204}

// IsMPEGTS reports whether a sync byte found within the first packet is
// followed by another one a whole packet later.
func IsMPEGTS(sr *binutil.SafeReader) bool {
	maxPacket := tsPacketSizes[len(tsPacketSizes)-1]
	buf := sr.Prefix(0, 2*maxPacket+1)
	i := bytes.IndexByte(buf[:min(len(buf), maxPacket)], tsSync)
	if i < 0 {
		return false
	}
	for _, n := range tsPacketSizes {
		if i+n < len(buf) && buf[i+n] == tsSync {
			return true
		}
	}
	return false
}

var packStart = []byte{0x00, 0x00, 0x01, 0xBA}

// IsMPEGPS reports whether sr starts with an MPEG-1 or MPEG-2 program
// stream pack header.
func IsMPEGPS(sr *binutil.SafeReader) bool {
	h := sr.Prefix(0, 5)
	if len(h) < 5 || !bytes.HasPrefix(h, packStart) {
		return false
	}
	switch {
	case h[4]>>6 == 0b01: // MPEG-2
		return true
	case h[4]>>4 == 0b0010: // MPEG-1
		return true
	}
	return false
}
