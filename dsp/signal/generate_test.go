package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-sonify/internal/testutil"
)

func TestToneStartTime(t *testing.T) {
	// A quarter period offset puts the sine at its crest and the saw at -0.5.
	g := NewGenerator(core.NewClock(core.WithSampleRate(1000), core.WithStartTime(0.25)))
	s, err := g.Tone(1, 4)
	if err != nil {
		t.Fatalf("Tone() error = %v", err)
	}
	want := 1 + 0.2*-0.5 + 0.2*0.5
	if math.Abs(s[0]-want) > 1e-12 {
		t.Fatalf("s[0] = %v, want %v", s[0], want)
	}
}

func TestGeneratorValidation(t *testing.T) {
	g := NewGenerator(core.NewClock())
	if _, err := g.Tone(100, 0); err == nil {
		t.Fatal("Tone() expected error for zero samples")
	}
	if _, err := g.Tone(math.Inf(1), 10); err == nil {
		t.Fatal("Tone() expected error for infinite frequency")
	}
	if g.Clock().SampleRate != 32000 {
		t.Fatalf("default sample rate = %v, want 32000", g.Clock().SampleRate)
	}
	if _, err := NewGenerator(core.Clock{}).Tone(100, 10); err == nil {
		t.Fatal("Tone() expected error for zero sample rate")
	}
}

func TestSaw(t *testing.T) {
	tests := []struct {
		phase, want float64
	}{
		{0, -1},
		{math.Pi / 2, -0.5},
		{math.Pi, 0},
		{3 * math.Pi, 0},
		{-math.Pi / 2, 0.5},
	}
	for _, tt := range tests {
		if got := Saw(tt.phase); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("Saw(%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestToneComposition(t *testing.T) {
	const sr = 8000.0
	g := NewGenerator(core.NewClock(core.WithSampleRate(sr)))
	tone, err := g.Tone(100, 800)
	if err != nil {
		t.Fatalf("Tone() error = %v", err)
	}

	for i, v := range tone {
		wt := 2 * math.Pi * 100 * float64(i) / sr
		saw := Saw(wt)
		want := math.Sin(wt) + 0.2*saw + 0.2*math.Abs(saw)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("tone[%d] = %v, want %v", i, v, want)
		}
	}
	if f := testutil.DominantFrequency(tone, sr); math.Abs(f-100) > 1 {
		t.Fatalf("dominant frequency = %v, want 100", f)
	}
}

func TestToneWithHarmonics(t *testing.T) {
	const sr = 8000.0
	g := NewGenerator(core.NewClock(core.WithSampleRate(sr)), WithHarmonics())
	tone, err := g.Tone(400, 8000)
	if err != nil {
		t.Fatalf("Tone() error = %v", err)
	}
	// The 1.2-weighted sub-octave dominates.
	if f := testutil.DominantFrequency(tone, sr); math.Abs(f-200) > 1 {
		t.Fatalf("dominant frequency = %v, want 200", f)
	}
}

func TestNormalizeInPlace(t *testing.T) {
	x := []float64{-0.5, 0.25, 1}
	if err := NormalizeInPlace(x, 0.8); err != nil {
		t.Fatalf("NormalizeInPlace() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, x, []float64{-0.4, 0.2, 0.8}, 1e-12)

	silent := make([]float64, 4)
	if err := NormalizeInPlace(silent, 1); err != nil {
		t.Fatalf("NormalizeInPlace(silent) error = %v", err)
	}
	testutil.RequireFinite(t, silent)

	if err := NormalizeInPlace(nil, 1); err == nil {
		t.Fatal("NormalizeInPlace(nil) expected error")
	}
	if err := NormalizeInPlace(x, -1); err == nil {
		t.Fatal("NormalizeInPlace() expected error for negative target")
	}
}
