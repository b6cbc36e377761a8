package tone

import (
	"math"
	"time"
)

// Render generates interleaved stereo int16 samples for a sine tone with
// a linear fade-in at the start and a fade-out ending exactly at d.
// Left/Right routing zeroes the opposite channel.
func Render(freqHz float64, d time.Duration, ch Channel) []int16 {
	n := int(float64(SampleRate) * d.Seconds())
	fade := int(float64(SampleRate) * fadeDuration.Seconds())
	if fade*2 > n {
		fade = n / 2
	}

	samples := make([]int16, n*channels)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(SampleRate)
		env := 1.0
		if fade > 0 {
			if i < fade {
				env = float64(i) / float64(fade)
			}
			if tail := float64(n-i) / float64(fade); tail < env {
				env = tail
			}
		}
		s := int16(math.Sin(2*math.Pi*freqHz*t) * 32767 * volume * env)
		l, r := s, s
		switch ch {
		case Left:
			r = 0
		case Right:
			l = 0
		}
		samples[i*channels] = l
		samples[i*channels+1] = r
	}
	return samples
}

// renderBytes is Render in little-endian byte form for byte-oriented backends.
func renderBytes(freqHz float64, d time.Duration, ch Channel) []byte {
	samples := Render(freqHz, d, ch)
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}
