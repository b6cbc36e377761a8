package tone

import (
	"testing"
	"time"
)

func TestRenderLength(t *testing.T) {
	samples := Render(165, time.Second, Both)
	want := SampleRate * channels
	if len(samples) != want {
		t.Fatalf("expected %d samples, got %d", want, len(samples))
	}
}

func TestRenderFadeEnvelope(t *testing.T) {
	samples := Render(440, time.Second, Both)

	// Fade-in starts from silence.
	if samples[0] != 0 || samples[1] != 0 {
		t.Errorf("expected first frame silent, got %d/%d", samples[0], samples[1])
	}

	// Fade-out ends near silence at the scheduled end.
	last := samples[len(samples)-2]
	if last > 800 || last < -800 {
		t.Errorf("expected final frame faded out, got %d", last)
	}

	// Full amplitude somewhere in the middle.
	peak := int16(0)
	for _, s := range samples {
		if s > peak {
			peak = s
		}
	}
	if peak < 20000 {
		t.Errorf("expected near full-scale peak mid-tone, got %d", peak)
	}
}

func TestRenderPanning(t *testing.T) {
	left := Render(440, 200*time.Millisecond, Left)
	for i := 1; i < len(left); i += 2 {
		if left[i] != 0 {
			t.Fatalf("right channel not silent at frame %d: %d", i/2, left[i])
		}
	}

	right := Render(440, 200*time.Millisecond, Right)
	for i := 0; i < len(right); i += 2 {
		if right[i] != 0 {
			t.Fatalf("left channel not silent at frame %d: %d", i/2, right[i])
		}
	}
}

func TestRenderShorterThanFade(t *testing.T) {
	// Tones shorter than two fade windows must still render cleanly.
	samples := Render(6400, 50*time.Millisecond, Both)
	want := int(float64(SampleRate)*0.05) * channels
	if len(samples) != want {
		t.Fatalf("expected %d samples, got %d", want, len(samples))
	}
}

func TestRenderBytesLittleEndian(t *testing.T) {
	samples := Render(165, 200*time.Millisecond, Both)
	buf := renderBytes(165, 200*time.Millisecond, Both)
	if len(buf) != len(samples)*2 {
		t.Fatalf("expected %d bytes, got %d", len(samples)*2, len(buf))
	}
	for i, s := range samples {
		got := int16(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8)
		if got != s {
			t.Fatalf("byte encoding mismatch at sample %d: %d != %d", i, got, s)
		}
	}
}

func TestParseChannel(t *testing.T) {
	cases := map[string]Channel{
		"left": Left, "l": Left,
		"right": Right, "r": Right,
		"both": Both, "b": Both, "": Both,
		"LEFT": Left,
	}
	for in, want := range cases {
		got, err := ParseChannel(in)
		if err != nil || got != want {
			t.Errorf("ParseChannel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseChannel("center"); err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestFakeEmitterSingleLiveTone(t *testing.T) {
	f := NewFakeEmitter()
	if err := f.Play(165, time.Second, Both); err != nil {
		t.Fatal(err)
	}
	if !f.Live() {
		t.Error("expected live tone after Play")
	}
	f.StopAll()
	f.StopAll() // safe when nothing is playing
	if f.Live() {
		t.Error("expected silence after StopAll")
	}
	if f.StopCalls() != 2 {
		t.Errorf("expected 2 stop calls, got %d", f.StopCalls())
	}
}
