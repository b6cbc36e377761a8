package tone

import (
	"fmt"
	"strings"
	"time"
)

const (
	// SampleRate is shared by live playback and FLAC export.
	SampleRate = 44100

	channels = 2
	volume   = 0.85

	fadeDuration = 100 * time.Millisecond
)

// Channel selects which speaker a tone is routed to.
type Channel int

const (
	Both Channel = iota
	Left
	Right
)

func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "both"
	}
}

func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "both", "b", "":
		return Both, nil
	}
	return Both, fmt.Errorf("unknown channel %q (use left, right, or both)", s)
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewEmitter(device *DeviceInfo) (Emitter, error)
	Close()
}

// Emitter owns the live audio graph. At most one tone is audible at a
// time: Play silences whatever is currently live before starting the
// new tone, and schedules its own stop at the end of the duration.
type Emitter interface {
	Play(freqHz float64, d time.Duration, ch Channel) error
	// StopAll silences immediately. Safe to call when nothing is playing.
	StopAll()
	Close()
}
