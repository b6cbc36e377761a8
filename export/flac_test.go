package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"drytone/session"
	"drytone/tone"
)

func shortPlan() session.Plan {
	return session.Plan{
		Steps: []session.Step{
			{Frequency: 200, Duration: 100 * time.Millisecond, Gap: 50 * time.Millisecond},
			{Frequency: 400, Duration: 100 * time.Millisecond},
		},
		ToneTotal: 200 * time.Millisecond,
	}
}

func TestRenderIncludesGapsAsSilence(t *testing.T) {
	samples := Render(shortPlan(), tone.Both)

	// 100ms tone + 50ms gap + 100ms tone at 44.1kHz stereo.
	wantFrames := int(float64(tone.SampleRate)*0.1) +
		int(float64(tone.SampleRate)*0.05) +
		int(float64(tone.SampleRate)*0.1)
	if len(samples) != wantFrames*2 {
		t.Fatalf("expected %d samples, got %d", wantFrames*2, len(samples))
	}

	// The gap region is silent.
	gapStart := int(float64(tone.SampleRate)*0.1) * 2
	gapEnd := gapStart + int(float64(tone.SampleRate)*0.05)*2
	for i := gapStart; i < gapEnd; i++ {
		if samples[i] != 0 {
			t.Fatalf("gap sample %d not silent: %d", i, samples[i])
		}
	}
}

func TestEncodeProducesFlacStream(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Render(shortPlan(), tone.Both)); err != nil {
		t.Fatal(err)
	}

	out := buf.Bytes()
	if len(out) < 4 || string(out[:4]) != "fLaC" {
		t.Fatalf("missing fLaC magic, got %d bytes", len(out))
	}
	// Verbatim-coded stereo audio should dominate the header size.
	if len(out) < 1000 {
		t.Errorf("suspiciously small stream: %d bytes", len(out))
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dust.flac")
	if err := WriteFile(path, shortPlan(), tone.Left); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty output file")
	}
}

func TestEncodeEmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatalf("empty input must still produce a valid stream: %v", err)
	}
}
