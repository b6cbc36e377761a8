//go:build !linux

package tone

import (
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
)

type malgoContext struct {
	ctx *malgo.AllocatedContext
}

func NewContext() (Context, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	return &malgoContext{ctx: ctx}, nil
}

func (m *malgoContext) Devices() ([]DeviceInfo, error) {
	devices, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	var result []DeviceInfo
	for _, d := range devices {
		result = append(result, DeviceInfo{
			ID:   hex.EncodeToString(d.ID.Pointer()[:]),
			Name: d.Name(),
		})
	}
	return result, nil
}

func (m *malgoContext) NewEmitter(device *DeviceInfo) (Emitter, error) {
	e := &malgoEmitter{}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = channels
	config.SampleRate = SampleRate

	if device != nil {
		idBytes, err := hex.DecodeString(device.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid device ID: %w", err)
		}
		var devID malgo.DeviceID
		copy(devID[:], idBytes)
		config.Playback.DeviceID = devID.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: e.dataCallback,
	}

	dev, err := malgo.InitDevice(m.ctx.Context, config, callbacks)
	if err != nil {
		return nil, err
	}
	e.device = dev
	return e, nil
}

func (m *malgoContext) Close() {
	m.ctx.Uninit()
	m.ctx.Free()
}

// malgoEmitter streams the current sample buffer from the device callback.
// Playback state is accessed atomically from the callback thread.
type malgoEmitter struct {
	device *malgo.Device

	playSamples atomic.Pointer[[]byte]
	playPos     atomic.Uint32
	playMu      sync.Mutex
}

func (e *malgoEmitter) dataCallback(pOutput, _ []byte, frameCount uint32) {
	samples := e.playSamples.Load()
	if samples == nil || len(*samples) == 0 {
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	pos := e.playPos.Load()
	total := uint32(len(*samples))
	bytesToWrite := frameCount * channels * 2
	remaining := total - pos

	if remaining == 0 {
		// Buffer drained: the tone stopped itself at its scheduled end.
		e.playSamples.Store(nil)
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	if bytesToWrite > remaining {
		bytesToWrite = remaining
	}

	copy(pOutput[:bytesToWrite], (*samples)[pos:pos+bytesToWrite])
	e.playPos.Store(pos + bytesToWrite)

	for i := bytesToWrite; i < frameCount*channels*2; i++ {
		pOutput[i] = 0
	}
}

func (e *malgoEmitter) Play(freqHz float64, d time.Duration, ch Channel) error {
	buf := renderBytes(freqHz, d, ch)

	e.playMu.Lock()
	defer e.playMu.Unlock()

	// Stop first so the previous tone never overlaps the new one.
	e.device.Stop()
	e.playPos.Store(0)
	e.playSamples.Store(&buf)

	if err := e.device.Start(); err != nil {
		e.playSamples.Store(nil)
		return fmt.Errorf("starting playback: %w", err)
	}
	return nil
}

func (e *malgoEmitter) StopAll() {
	e.playMu.Lock()
	defer e.playMu.Unlock()
	e.playSamples.Store(nil)
	e.device.Stop()
}

func (e *malgoEmitter) Close() {
	e.StopAll()
	e.device.Uninit()
}
