package haptic

import (
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestPulserCadence(t *testing.T) {
	act := NewFakeActuator()
	p := NewPulser(act)

	p.Start(10*time.Millisecond, 5*time.Millisecond)
	waitFor(t, time.Second, func() bool { return len(act.Pulses()) >= 3 })
	p.Stop()

	for _, d := range act.Pulses() {
		if d != 10*time.Millisecond {
			t.Errorf("unexpected pulse duration %v", d)
		}
	}
	if act.Stills() == 0 {
		t.Error("expected Still on stop")
	}
}

func TestPulserStopEndsInProgressPulse(t *testing.T) {
	act := NewFakeActuator()
	p := NewPulser(act)

	p.Start(time.Hour, time.Hour)
	waitFor(t, time.Second, func() bool { return len(act.Pulses()) >= 1 })

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on in-progress pulse")
	}
	if act.Stills() != 1 {
		t.Errorf("expected 1 Still, got %d", act.Stills())
	}
}

func TestPulserStartReplacesRunningCadence(t *testing.T) {
	act := NewFakeActuator()
	p := NewPulser(act)

	p.Start(time.Hour, time.Hour)
	p.Start(5*time.Millisecond, 5*time.Millisecond)
	waitFor(t, time.Second, func() bool { return len(act.Pulses()) >= 3 })
	p.Stop()

	// First cadence must have been cancelled when the second started.
	if act.Stills() != 2 {
		t.Errorf("expected 2 Stills (replaced + stopped), got %d", act.Stills())
	}
}

func TestPulserStopIdempotent(t *testing.T) {
	p := NewPulser(NewFakeActuator())
	p.Stop()
	p.Start(5*time.Millisecond, 5*time.Millisecond)
	p.Stop()
	p.Stop()
}

func TestUnavailableDriverNoOps(t *testing.T) {
	p := NewPulser(nil)
	if p.Available() {
		t.Fatal("nil actuator must be unavailable")
	}
	p.Start(time.Millisecond, time.Millisecond)
	p.Stop()
	p.Close()
}

func TestPulserCloseReleasesActuator(t *testing.T) {
	act := NewFakeActuator()
	p := NewPulser(act)
	p.Start(5*time.Millisecond, 5*time.Millisecond)
	p.Close()
	if !act.Closed() {
		t.Error("expected actuator closed")
	}
}
