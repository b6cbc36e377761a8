//go:build !linux

package haptic

// No haptic actuator on this platform - vibration mode reports a
// capability error.

func NewDriver() Driver {
	return NewPulser(nil)
}
