package tone

import (
	"sync"
	"time"
)

// PlayRecord captures one Play call on a FakeEmitter.
type PlayRecord struct {
	Frequency float64
	Duration  time.Duration
	Channel   Channel
	At        time.Time
}

type FakeEmitter struct {
	mu      sync.Mutex
	plays   []PlayRecord
	stopped int
	live    bool
	playErr error
}

func NewFakeEmitter() *FakeEmitter { return &FakeEmitter{} }

// FailPlays makes every subsequent Play return err.
func (f *FakeEmitter) FailPlays(err error) {
	f.mu.Lock()
	f.playErr = err
	f.mu.Unlock()
}

func (f *FakeEmitter) Play(freqHz float64, d time.Duration, ch Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.plays = append(f.plays, PlayRecord{Frequency: freqHz, Duration: d, Channel: ch, At: time.Now()})
	f.live = true
	return nil
}

func (f *FakeEmitter) StopAll() {
	f.mu.Lock()
	f.stopped++
	f.live = false
	f.mu.Unlock()
}

func (f *FakeEmitter) Close() { f.StopAll() }

func (f *FakeEmitter) Plays() []PlayRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PlayRecord, len(f.plays))
	copy(out, f.plays)
	return out
}

func (f *FakeEmitter) StopCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func (f *FakeEmitter) Live() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

type FakeContext struct {
	emitter *FakeEmitter
}

func NewFakeContext() *FakeContext {
	return &FakeContext{emitter: NewFakeEmitter()}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake output"}}, nil
}

func (f *FakeContext) NewEmitter(_ *DeviceInfo) (Emitter, error) {
	return f.emitter, nil
}

func (f *FakeContext) Emitter() *FakeEmitter { return f.emitter }

func (f *FakeContext) Close() {}
