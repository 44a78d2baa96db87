package binary

// Synchsafe decodes a 4-byte synchsafe integer (7 significant bits per byte).
// The high bit of each byte is ignored.
func Synchsafe(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}

// PutSynchsafe encodes v, which must be below 1<<28, as 4 synchsafe bytes.
func PutSynchsafe(b []byte, v uint32) {
	_ = b[3]
	b[0] = byte(v>>21) & 0x7F
	b[1] = byte(v>>14) & 0x7F
	b[2] = byte(v>>7) & 0x7F
	b[3] = byte(v) & 0x7F
}

// Uint24 decodes a 3-byte big-endian integer.
func Uint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// Fixed16 converts a signed 16.16 fixed-point value to float32.
func Fixed16(raw uint32) float32 {
	return float32(float64(int32(raw)) / 65536)
}
