package binary

import (
	"testing"
	"testing/quick"
)

func TestSynchsafe_Known(t *testing.T) {
	if got := Synchsafe([]byte{0x00, 0x00, 0x02, 0x01}); got != 257 {
		t.Errorf("Synchsafe(00 00 02 01) = %d, want 257", got)
	}
	if got := Synchsafe([]byte{0x7F, 0x7F, 0x7F, 0x7F}); got != 1<<28-1 {
		t.Errorf("Synchsafe(7F 7F 7F 7F) = %d, want %d", got, 1<<28-1)
	}
}

func TestSynchsafe_RoundTrip(t *testing.T) {
	f := func(n uint32) bool {
		n &= 1<<28 - 1
		var b [4]byte
		PutSynchsafe(b[:], n)
		for _, c := range b {
			if c&0x80 != 0 {
				return false
			}
		}
		return Synchsafe(b[:]) == n
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 10000}); err != nil {
		t.Error(err)
	}
}

func TestFixed16(t *testing.T) {
	tests := []struct {
		raw  uint32
		want float32
	}{
		{0x00010000, 1},
		{0xFFFF0000, -1},
		{0x00008000, 0.5},
		{8321700, 126.978},
	}
	for _, tc := range tests {
		got := Fixed16(tc.raw)
		if d := got - tc.want; d > 1e-3 || d < -1e-3 {
			t.Errorf("Fixed16(0x%08x) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
