package main

import (
	"fmt"
	"sync"

	"drytone/session"
	"drytone/tone"
)

// tuiReporter forwards session updates to the Bubble Tea program.
type tuiReporter struct{}

func (tuiReporter) SessionStarted(session.Mode, tone.Channel) {
	tuiSend(SessionStateMsg{Running: true})
}

func (tuiReporter) Progress(percent int, label string) {
	tuiSend(ProgressMsg{Percent: percent, Label: label})
}

func (tuiReporter) SessionEnded(string, bool) {
	tuiSend(SessionStateMsg{Running: false})
}

func (tuiReporter) CapabilityError(msg string) {
	tuiSend(CapabilityErrorMsg{Text: msg})
}

// consoleReporter prints progress lines for headless runs and closes
// Done once the session ends.
type consoleReporter struct {
	mu          sync.Mutex
	lastPercent int
	lastLabel   string

	done     chan struct{}
	doneOnce sync.Once
}

func newConsoleReporter() *consoleReporter {
	return &consoleReporter{lastPercent: -1, done: make(chan struct{})}
}

func (r *consoleReporter) Done() <-chan struct{} { return r.done }

func (r *consoleReporter) SessionStarted(mode session.Mode, channel tone.Channel) {
	fmt.Printf("Starting %s cleaning on %s channel\n", mode, channel)
}

func (r *consoleReporter) Progress(percent int, label string) {
	r.mu.Lock()
	changed := percent != r.lastPercent || label != r.lastLabel
	r.lastPercent, r.lastLabel = percent, label
	r.mu.Unlock()
	if changed {
		fmt.Printf("%3d%%  %s\n", percent, label)
	}
}

func (r *consoleReporter) SessionEnded(status string, completed bool) {
	fmt.Println(status)
	r.doneOnce.Do(func() { close(r.done) })
}

func (r *consoleReporter) CapabilityError(msg string) {
	fmt.Printf("Error: %s\n", msg)
}
