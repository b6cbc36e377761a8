//go:build linux

package haptic

import "testing"

func TestCapsHaveBit(t *testing.T) {
	// FF_RUMBLE (0x50) is bit 16 of the second 64-bit word.
	cases := []struct {
		caps string
		bit  uint
		want bool
	}{
		{"10000 0", ffRumble, true},
		{"0 0", ffRumble, false},
		{"0", ffRumble, false},
		{"20000 0", ffRumble, false},
		{"1 0", 64, true},
		{"", ffRumble, false},
		{"zz 0", ffRumble, false},
	}
	for _, c := range cases {
		if got := capsHaveBit(c.caps, c.bit); got != c.want {
			t.Errorf("capsHaveBit(%q, %d) = %v, want %v", c.caps, c.bit, got, c.want)
		}
	}
}
