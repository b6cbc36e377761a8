//go:build linux

package tone

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jfreymuth/pulse"
)

type pulseContext struct {
	client *pulse.Client
}

func NewContext() (Context, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseContext{client: c}, nil
}

func (p *pulseContext) Devices() ([]DeviceInfo, error) {
	sinks, err := p.client.ListSinks()
	if err != nil {
		return nil, fmt.Errorf("pulse list sinks: %w", err)
	}
	var devices []DeviceInfo
	for _, s := range sinks {
		devices = append(devices, DeviceInfo{
			ID:   s.ID(),
			Name: s.Name(),
		})
	}
	return devices, nil
}

func (p *pulseContext) NewEmitter(device *DeviceInfo) (Emitter, error) {
	return &pulseEmitter{client: p.client, device: device}, nil
}

func (p *pulseContext) Close() {
	p.client.Close()
}

// pulseEmitter opens a fresh playback stream per tone. The reader closure
// checks a per-stream cancel flag, so StopAll and a superseding Play end
// the live stream at the next buffer refill.
type pulseEmitter struct {
	client *pulse.Client
	device *DeviceInfo

	mu        sync.Mutex
	cancelled *atomic.Bool
}

func (e *pulseEmitter) Play(freqHz float64, d time.Duration, ch Channel) error {
	samples := Render(freqHz, d, ch)

	e.mu.Lock()
	e.silenceLocked()
	cancelled := &atomic.Bool{}
	e.cancelled = cancelled
	e.mu.Unlock()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cancelled.Load() || pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})

	opts := []pulse.PlaybackOption{
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(SampleRate),
		pulse.PlaybackLatency(0.1),
	}
	if e.device != nil {
		sink, err := e.client.SinkByID(e.device.ID)
		if err == nil && sink != nil {
			opts = append(opts, pulse.PlaybackSink(sink))
		}
	}

	stream, err := e.client.NewPlayback(reader, opts...)
	if err != nil {
		return fmt.Errorf("pulse playback: %w", err)
	}

	go func() {
		stream.Start()
		stream.Drain()
		stream.Stop()
		stream.Close()
	}()
	return nil
}

func (e *pulseEmitter) silenceLocked() {
	if e.cancelled != nil {
		e.cancelled.Store(true)
		e.cancelled = nil
	}
}

func (e *pulseEmitter) StopAll() {
	e.mu.Lock()
	e.silenceLocked()
	e.mu.Unlock()
}

func (e *pulseEmitter) Close() {
	e.StopAll()
}
