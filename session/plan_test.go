package session

import (
	"math"
	"testing"
	"time"
)

func TestDustPlanTiming(t *testing.T) {
	p := PlanFor(Dust)

	if len(p.Steps) != 6 {
		t.Fatalf("expected 6 dust steps, got %d", len(p.Steps))
	}
	want := []float64{200, 400, 800, 1600, 3200, 6400}
	for i, s := range p.Steps {
		if s.Frequency != want[i] {
			t.Errorf("step %d: frequency %.0f, want %.0f", i, s.Frequency, want[i])
		}
		if s.Duration != 10*time.Second {
			t.Errorf("step %d: duration %v, want 10s", i, s.Duration)
		}
	}

	// 6 tones plus 5 gaps: 6*10000 + 5*500 = 65000 ms.
	if p.Span() != 65*time.Second {
		t.Errorf("span %v, want 65s", p.Span())
	}
	if p.ToneTotal != 60*time.Second {
		t.Errorf("tone total %v, want 60s", p.ToneTotal)
	}
	if p.Steps[len(p.Steps)-1].Gap != 0 {
		t.Error("last step must not be followed by a gap")
	}
}

func TestWaterPlan(t *testing.T) {
	p := PlanFor(Water)
	if len(p.Steps) != 1 || p.Steps[0].Frequency != 165 || p.Steps[0].Duration != 60*time.Second {
		t.Fatalf("unexpected water plan: %+v", p.Steps)
	}
	if p.RequiresHaptics() {
		t.Error("water must not require haptics")
	}
	if p.DoneLabel != "Water ejection complete!" {
		t.Errorf("done label %q", p.DoneLabel)
	}
}

func TestVibrationPlan(t *testing.T) {
	p := PlanFor(Vibration)
	if len(p.Steps) != 1 || p.Steps[0].Frequency != 80 || p.Steps[0].Duration != 30*time.Second {
		t.Fatalf("unexpected vibration plan: %+v", p.Steps)
	}
	if !p.RequiresHaptics() {
		t.Fatal("vibration must require haptics")
	}
	if p.HapticPulse != 200*time.Millisecond || p.HapticRest != 100*time.Millisecond {
		t.Errorf("cadence %v/%v, want 200ms/100ms", p.HapticPulse, p.HapticRest)
	}
}

func TestDustGlobalPercentAtStepBoundaries(t *testing.T) {
	// Just before each gap, percent equals (i+1)*10000/60000*100.
	for i := 0; i < 6; i++ {
		done := time.Duration(i+1) * 10 * time.Second
		got := progressPercent(done, 0, 60*time.Second)
		want := int(math.Round(float64(i+1) * 10000 / 60000 * 100))
		if got != want {
			t.Errorf("after step %d: percent %d, want %d", i, got, want)
		}
	}
}

func TestProgressPercentMonotonic(t *testing.T) {
	prev := -1
	for elapsed := time.Duration(0); elapsed <= 10*time.Second; elapsed += 100 * time.Millisecond {
		got := progressPercent(20*time.Second, elapsed, 60*time.Second)
		if got < prev {
			t.Fatalf("percent decreased: %d after %d at %v", got, prev, elapsed)
		}
		prev = got
	}
}

func TestProgressPercentClamped(t *testing.T) {
	if got := progressPercent(0, -time.Second, 60*time.Second); got != 0 {
		t.Errorf("negative elapsed: %d, want 0", got)
	}
	if got := progressPercent(70*time.Second, time.Second, 60*time.Second); got != 100 {
		t.Errorf("overshoot: %d, want 100", got)
	}
	if got := progressPercent(0, 0, 0); got != 100 {
		t.Errorf("zero total: %d, want 100", got)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"water": Water, "w": Water, "": Water,
		"dust": Dust, "d": Dust,
		"vibration": Vibration, "vibrate": Vibration, "v": Vibration,
		"WATER": Water,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("steam"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
