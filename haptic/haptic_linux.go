//go:build linux

package haptic

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	evFF     = 0x15
	ffRumble = 0x50

	// ff_effect is 48 bytes on 64-bit Linux:
	// type (2) + id (2) + direction (2) + trigger (4) + replay (4) +
	// padding to 16 + effect union (32)
	ffEffectSize = 48

	eviocsff  = 0x40304580 // _IOW('E', 0x80, struct ff_effect)
	eviocrmff = 0x40044581 // _IOW('E', 0x81, int)

	// input_event is 24 bytes on 64-bit Linux:
	// timeval (16 bytes) + type (2) + code (2) + value (4)
	inputEventSize = 24
)

// NewDriver returns a Pulser backed by the first force-feedback device
// under /dev/input, or an unavailable driver when none can be opened.
// Requires user to be in the 'input' group.
func NewDriver() Driver {
	act, err := newRumbleActuator()
	if err != nil {
		return NewPulser(nil)
	}
	return NewPulser(act)
}

type rumbleActuator struct {
	f        *os.File
	effectID int16
}

func newRumbleActuator() (*rumbleActuator, error) {
	devices, err := findRumbleDevices()
	if err != nil {
		return nil, fmt.Errorf("finding rumble devices: %w", err)
	}

	for _, path := range devices {
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			continue
		}
		a := &rumbleActuator{f: f, effectID: -1}
		if err := a.upload(0); err != nil {
			f.Close()
			continue
		}
		return a, nil
	}
	return nil, fmt.Errorf("no usable rumble device (is user in 'input' group?)")
}

// upload installs (or updates) the rumble effect with the given replay
// length in milliseconds. The kernel writes the allocated effect id back
// into the buffer on first upload.
func (a *rumbleActuator) upload(lengthMs uint16) error {
	var effect [ffEffectSize]byte
	binary.LittleEndian.PutUint16(effect[0:], ffRumble)
	binary.LittleEndian.PutUint16(effect[2:], uint16(a.effectID))
	binary.LittleEndian.PutUint16(effect[10:], lengthMs)
	binary.LittleEndian.PutUint16(effect[16:], 0xC000) // strong magnitude
	binary.LittleEndian.PutUint16(effect[18:], 0x8000) // weak magnitude

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, a.f.Fd(), eviocsff,
		uintptr(unsafe.Pointer(&effect[0])))
	if errno != 0 {
		return errno
	}
	a.effectID = int16(binary.LittleEndian.Uint16(effect[2:]))
	return nil
}

func (a *rumbleActuator) send(value int32) {
	var ev [inputEventSize]byte
	binary.LittleEndian.PutUint16(ev[16:], evFF)
	binary.LittleEndian.PutUint16(ev[18:], uint16(a.effectID))
	binary.LittleEndian.PutUint32(ev[20:], uint32(value))
	a.f.Write(ev[:])
}

func (a *rumbleActuator) Pulse(d time.Duration) {
	ms := d.Milliseconds()
	if ms > 0xFFFF {
		ms = 0xFFFF
	}
	if err := a.upload(uint16(ms)); err != nil {
		return
	}
	a.send(1)
}

func (a *rumbleActuator) Still() {
	a.send(0)
}

func (a *rumbleActuator) Close() {
	if a.effectID >= 0 {
		unix.Syscall(unix.SYS_IOCTL, a.f.Fd(), eviocrmff, uintptr(a.effectID))
	}
	a.f.Close()
}

func findRumbleDevices() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var devices []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if hasRumble(e.Name()) {
			devices = append(devices, filepath.Join("/dev/input", e.Name()))
		}
	}
	return devices, nil
}

func hasRumble(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "ff")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	return capsHaveBit(strings.TrimSpace(string(data)), ffRumble)
}

// capsHaveBit reports whether the given bit is set in a sysfs capability
// bitmap: space-separated hex words, most significant first, 64 bits each.
func capsHaveBit(caps string, bit uint) bool {
	words := strings.Fields(caps)
	idx := int(bit / 64)
	if idx >= len(words) {
		return false
	}
	w, err := strconv.ParseUint(words[len(words)-1-idx], 16, 64)
	if err != nil {
		return false
	}
	return w&(1<<(bit%64)) != 0
}
