// Package session runs timed tone-cleaning sequences against a tone
// emitter and an optional haptic driver, reporting progress as it goes.
package session

import (
	"context"
	"sync"
	"time"

	"drytone/haptic"
	"drytone/log"
	"drytone/tone"
)

// State of the controller. At most one phase routine is ever active.
type State int

const (
	Idle State = iota
	RunningWater
	RunningDust
	RunningVibration
	Stopping
)

const stoppedLabel = "Stopped"

// tickInterval is the checkpoint resolution: progress updates and
// cancellation checks happen at this granularity.
const tickInterval = 100 * time.Millisecond

// Reporter receives progress and lifecycle updates from the controller.
type Reporter interface {
	SessionStarted(mode Mode, channel tone.Channel)
	Progress(percent int, label string)
	SessionEnded(status string, completed bool)
	CapabilityError(msg string)
}

// Controller owns the session lifecycle. All runtime handles (emitter,
// haptics, cancellation) live here; there is no package-level state.
type Controller struct {
	emitter  tone.Emitter
	haptics  haptic.Driver
	reporter Reporter

	tick    time.Duration
	planFor func(Mode) Plan

	mu        sync.Mutex
	state     State
	cancel    context.CancelFunc
	done      chan struct{}
	mode      Mode
	channel   tone.Channel
	startedAt time.Time
}

func New(emitter tone.Emitter, haptics haptic.Driver, reporter Reporter) *Controller {
	return &Controller{
		emitter:  emitter,
		haptics:  haptics,
		reporter: reporter,
		tick:     tickInterval,
		planFor:  planFor,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Running() bool {
	return c.State() != Idle
}

func runningState(m Mode) State {
	switch m {
	case Dust:
		return RunningDust
	case Vibration:
		return RunningVibration
	default:
		return RunningWater
	}
}

// Start launches a session. It is a no-op returning false while another
// session is active. Vibration mode aborts up front with a capability
// error when no haptic actuator is present; no tone is ever requested.
func (c *Controller) Start(mode Mode, channel tone.Channel) bool {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return false
	}

	plan := c.planFor(mode)
	if plan.RequiresHaptics() && !c.haptics.Available() {
		c.mu.Unlock()
		log.Warnf("vibration requested without haptic capability")
		c.reporter.CapabilityError("Vibration is not supported on this device")
		c.reporter.Progress(0, stoppedLabel)
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.state = runningState(mode)
	c.cancel = cancel
	c.done = done
	c.mode = mode
	c.channel = channel
	c.startedAt = time.Now()
	c.mu.Unlock()

	log.SessionStart(mode.String(), channel.String())
	c.reporter.SessionStarted(mode, channel)
	c.reporter.Progress(0, stepLabel(mode, plan.Steps[0]))

	go c.run(ctx, plan, mode, channel, done)
	return true
}

// Stop is always safe: when idle or stopped twice it is a benign no-op
// that still resets the visible state to 0% / "Stopped". It silences
// audio and haptics immediately and waits for the phase routine to
// observe cancellation at its next checkpoint.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == Stopping {
		c.mu.Unlock()
		return
	}
	wasRunning := c.state != Idle
	cancel, done := c.cancel, c.done
	startedAt := c.startedAt
	if wasRunning {
		c.state = Stopping
	}
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.haptics.Stop()
	c.emitter.StopAll()
	if wasRunning {
		// Let the phase routine observe cancellation before reporting,
		// so no late checkpoint update lands after "Stopped".
		<-done
	}
	c.reporter.Progress(0, stoppedLabel)
	if wasRunning {
		log.SessionEnd(stoppedLabel, false, time.Since(startedAt))
		c.reporter.SessionEnded(stoppedLabel, false)
	}
}

func (c *Controller) run(ctx context.Context, plan Plan, mode Mode, channel tone.Channel, done chan struct{}) {
	defer close(done)

	completed := c.runPlan(ctx, plan, mode, channel)

	c.mu.Lock()
	cancelled := c.state == Stopping // Stop already reported the outcome
	startedAt := c.startedAt
	c.state = Idle
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	c.emitter.StopAll()
	if cancelled {
		return
	}
	if completed {
		log.SessionEnd(plan.DoneLabel, true, time.Since(startedAt))
		c.reporter.Progress(100, plan.DoneLabel)
		c.reporter.SessionEnded(plan.DoneLabel, true)
	} else {
		// Terminated by an emitter failure rather than Stop.
		log.SessionEnd(stoppedLabel, false, time.Since(startedAt))
		c.reporter.Progress(0, stoppedLabel)
		c.reporter.SessionEnded(stoppedLabel, false)
	}
}

// runPlan plays each step in order, reporting global progress at every
// checkpoint. Returns false when cancelled or when the emitter fails.
func (c *Controller) runPlan(ctx context.Context, plan Plan, mode Mode, channel tone.Channel) bool {
	if plan.RequiresHaptics() {
		c.haptics.Start(plan.HapticPulse, plan.HapticRest)
		defer c.haptics.Stop()
	}

	var donePart time.Duration
	for _, step := range plan.Steps {
		label := stepLabel(mode, step)
		log.PhaseStart(step.Frequency, step.Duration)

		if err := c.emitter.Play(step.Frequency, step.Duration, channel); err != nil {
			log.Errorf("tone playback failed: %v", err)
			return false
		}

		ok := c.wait(ctx, step.Duration, func(elapsed time.Duration) {
			c.reporter.Progress(progressPercent(donePart, elapsed, plan.ToneTotal), label)
		})
		if !ok {
			return false
		}
		donePart += step.Duration
		c.reporter.Progress(progressPercent(donePart, 0, plan.ToneTotal), label)

		if step.Gap > 0 {
			if !c.wait(ctx, step.Gap, nil) {
				return false
			}
		}
	}
	return true
}

// wait sleeps for d, invoking onTick at each checkpoint. Returns false
// as soon as ctx is cancelled.
func (c *Controller) wait(ctx context.Context, d time.Duration, onTick func(elapsed time.Duration)) bool {
	deadline := time.NewTimer(d)
	defer deadline.Stop()
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return true
		case <-ticker.C:
			if onTick != nil {
				elapsed := time.Since(start)
				if elapsed > d {
					elapsed = d
				}
				onTick(elapsed)
			}
		}
	}
}
