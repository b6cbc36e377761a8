// Package export renders a session plan offline and encodes it as a
// FLAC file, so a cleaning sequence can be played back from another
// device when live output is unsuitable.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"drytone/session"
	"drytone/tone"
)

const (
	blockSize     = 4096
	bitsPerSample = 16
	numChannels   = 2
)

// Render produces the interleaved stereo samples for an entire plan,
// with silent gaps between steps, identical to live playback.
func Render(plan session.Plan, ch tone.Channel) []int16 {
	var out []int16
	for _, step := range plan.Steps {
		out = append(out, tone.Render(step.Frequency, step.Duration, ch)...)
		if step.Gap > 0 {
			gapFrames := int(float64(tone.SampleRate) * step.Gap.Seconds())
			out = append(out, make([]int16, gapFrames*numChannels)...)
		}
	}
	return out
}

// Encode writes interleaved stereo samples as FLAC.
func Encode(w io.Writer, samples []int16) error {
	info := &meta.StreamInfo{
		BlockSizeMin:  blockSize,
		BlockSizeMax:  blockSize,
		SampleRate:    tone.SampleRate,
		NChannels:     numChannels,
		BitsPerSample: bitsPerSample,
		NSamples:      uint64(len(samples) / numChannels),
	}
	enc, err := flac.NewEncoder(w, info)
	if err != nil {
		return fmt.Errorf("creating flac encoder: %w", err)
	}

	frames := len(samples) / numChannels
	for pos := 0; pos < frames; pos += blockSize {
		n := frames - pos
		if n > blockSize {
			n = blockSize
		}

		left := make([]int32, n)
		right := make([]int32, n)
		for i := 0; i < n; i++ {
			left[i] = int32(samples[(pos+i)*numChannels])
			right[i] = int32(samples[(pos+i)*numChannels+1])
		}

		f := &frame.Frame{
			Header: frame.Header{
				BlockSize:     uint16(n),
				SampleRate:    tone.SampleRate,
				Channels:      frame.ChannelsLR,
				BitsPerSample: bitsPerSample,
			},
			Subframes: []*frame.Subframe{
				verbatimSubframe(left),
				verbatimSubframe(right),
			},
		}
		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("writing flac frame: %w", err)
		}
	}
	return enc.Close()
}

func verbatimSubframe(samples []int32) *frame.Subframe {
	return &frame.Subframe{
		SubHeader: frame.SubHeader{
			Pred: frame.PredVerbatim,
		},
		Samples:  samples,
		NSamples: len(samples),
	}
}

// WriteFile renders a plan and writes it to path.
func WriteFile(path string, plan session.Plan, ch tone.Channel) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Encode(f, Render(plan, ch)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
