package session

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Mode selects which cleaning sequence a session runs.
type Mode int

const (
	Water Mode = iota
	Dust
	Vibration
)

func (m Mode) String() string {
	switch m {
	case Dust:
		return "dust"
	case Vibration:
		return "vibration"
	default:
		return "water"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "water", "w", "":
		return Water, nil
	case "dust", "d":
		return Dust, nil
	case "vibration", "vibrate", "v":
		return Vibration, nil
	}
	return Water, fmt.Errorf("unknown mode %q (use water, dust, or vibration)", s)
}

// Step is one tone segment of a plan, optionally followed by a silent gap.
type Step struct {
	Frequency float64
	Duration  time.Duration
	Gap       time.Duration
}

// Plan is the timed tone sequence for one mode. ToneTotal is the sum of
// step durations and the denominator for global progress: silent gaps do
// not advance the percentage.
type Plan struct {
	Steps     []Step
	ToneTotal time.Duration
	DoneLabel string

	// Haptic cadence, zero when the mode does not vibrate.
	HapticPulse time.Duration
	HapticRest  time.Duration
}

// Span is the wall-clock length of the whole plan including gaps.
func (p Plan) Span() time.Duration {
	var total time.Duration
	for _, s := range p.Steps {
		total += s.Duration + s.Gap
	}
	return total
}

// RequiresHaptics reports whether the plan can only run with a haptic
// actuator present.
func (p Plan) RequiresHaptics() bool {
	return p.HapticPulse > 0
}

var dustFrequencies = []float64{200, 400, 800, 1600, 3200, 6400}

func planFor(m Mode) Plan {
	switch m {
	case Dust:
		steps := make([]Step, len(dustFrequencies))
		for i, f := range dustFrequencies {
			steps[i] = Step{Frequency: f, Duration: 10 * time.Second}
			if i < len(dustFrequencies)-1 {
				steps[i].Gap = 500 * time.Millisecond
			}
		}
		return Plan{
			Steps:     steps,
			ToneTotal: 60 * time.Second,
			DoneLabel: "Dust removal complete!",
		}
	case Vibration:
		return Plan{
			Steps:       []Step{{Frequency: 80, Duration: 30 * time.Second}},
			ToneTotal:   30 * time.Second,
			DoneLabel:   "Vibration complete!",
			HapticPulse: 200 * time.Millisecond,
			HapticRest:  100 * time.Millisecond,
		}
	default:
		return Plan{
			Steps:     []Step{{Frequency: 165, Duration: 60 * time.Second}},
			ToneTotal: 60 * time.Second,
			DoneLabel: "Water ejection complete!",
		}
	}
}

// PlanFor returns the built-in plan for a mode.
func PlanFor(m Mode) Plan { return planFor(m) }

// progressPercent maps completed tone time plus elapsed time in the
// current step onto 0..100, rounded for display and clamped.
func progressPercent(done, elapsed, total time.Duration) int {
	if total <= 0 {
		return 100
	}
	pct := int(math.Round(float64(done+elapsed) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func stepLabel(m Mode, s Step) string {
	switch m {
	case Dust:
		return fmt.Sprintf("Sweeping dust at %.0f Hz", s.Frequency)
	case Vibration:
		return fmt.Sprintf("Vibrating at %.0f Hz", s.Frequency)
	default:
		return fmt.Sprintf("Ejecting water at %.0f Hz", s.Frequency)
	}
}
