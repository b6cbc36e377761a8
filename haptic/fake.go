package haptic

import (
	"sync"
	"time"
)

// FakeActuator records pulse and still calls for tests.
type FakeActuator struct {
	mu     sync.Mutex
	pulses []time.Duration
	stills int
	closed bool
}

func NewFakeActuator() *FakeActuator { return &FakeActuator{} }

func (f *FakeActuator) Pulse(d time.Duration) {
	f.mu.Lock()
	f.pulses = append(f.pulses, d)
	f.mu.Unlock()
}

func (f *FakeActuator) Still() {
	f.mu.Lock()
	f.stills++
	f.mu.Unlock()
}

func (f *FakeActuator) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *FakeActuator) Pulses() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.pulses))
	copy(out, f.pulses)
	return out
}

func (f *FakeActuator) Stills() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stills
}

func (f *FakeActuator) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
