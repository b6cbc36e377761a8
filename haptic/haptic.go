// Package haptic issues repeating vibration pulses at a fixed cadence.
package haptic

import (
	"context"
	"sync"
	"time"
)

type Driver interface {
	Available() bool
	// Start begins a repeating pulse/rest cycle, replacing any running one.
	Start(pulse, rest time.Duration)
	// Stop cancels the schedule and ends an in-progress pulse immediately.
	Stop()
	Close()
}

// Actuator is the physical rumble endpoint behind a Pulser.
type Actuator interface {
	Pulse(d time.Duration)
	Still()
	Close()
}

// Pulser drives an Actuator on a pulse+rest cycle. A nil actuator makes
// every method a safe no-op, which is how platforms without haptics
// behave.
type Pulser struct {
	act Actuator

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPulser(act Actuator) *Pulser {
	return &Pulser{act: act}
}

func (p *Pulser) Available() bool {
	return p.act != nil
}

func (p *Pulser) Start(pulse, rest time.Duration) {
	if p.act == nil {
		return
	}
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		defer p.act.Still()
		for {
			p.act.Pulse(pulse)
			if !sleep(ctx, pulse) {
				return
			}
			if !sleep(ctx, rest) {
				return
			}
		}
	}()
}

func (p *Pulser) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *Pulser) Close() {
	p.Stop()
	if p.act != nil {
		p.act.Close()
	}
}

// sleep waits for d unless ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
