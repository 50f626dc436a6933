package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sonify/internal/testutil"
)

func TestNewPhaseVocoder(t *testing.T) {
	tests := []struct {
		name       string
		windowSize int
		hop        int
		wantWindow int
		wantErr    bool
	}{
		{name: "defaults", windowSize: DefaultWindowSize, hop: DefaultHop, wantWindow: DefaultWindowSize},
		{name: "odd window rounds up", windowSize: 1023, hop: 256, wantWindow: 1024},
		{name: "window too small", windowSize: 2, hop: 1, wantErr: true},
		{name: "zero hop", windowSize: 1024, hop: 0, wantErr: true},
		{name: "hop above window", windowSize: 64, hop: 65, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewPhaseVocoder(tt.windowSize, tt.hop)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPhaseVocoder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.WindowSize() != tt.wantWindow {
				t.Fatalf("WindowSize() = %d, want %d", v.WindowSize(), tt.wantWindow)
			}
		})
	}
}

func TestStretchLength(t *testing.T) {
	v, err := NewPhaseVocoder(512, 128)
	if err != nil {
		t.Fatalf("NewPhaseVocoder() error = %v", err)
	}

	in := testutil.Sine(50, 1000, 1, 3000)
	for _, factor := range []float64{0.5, 1, 2, 1 / 3.0} {
		out, err := v.Stretch(in, factor)
		if err != nil {
			t.Fatalf("Stretch(%v) error = %v", factor, err)
		}
		want := int(3000/factor) + 512
		if len(out) != want {
			t.Fatalf("Stretch(%v) len = %d, want %d", factor, len(out), want)
		}
		testutil.RequireFinite(t, out)
	}

	if _, err := v.Stretch(in, 0); err == nil {
		t.Fatal("Stretch(0) expected error")
	}
}

func TestStretchPreservesFrequency(t *testing.T) {
	const sr = 8000.0
	v, err := NewPhaseVocoder(1024, 256)
	if err != nil {
		t.Fatalf("NewPhaseVocoder() error = %v", err)
	}

	in := testutil.Sine(250, sr, 1, 8000)
	out, err := v.Stretch(in, 0.5)
	if err != nil {
		t.Fatalf("Stretch() error = %v", err)
	}

	// Analyse a stretch of steady state well inside the output.
	mid := out[2048 : 2048+8192]
	if f := testutil.DominantFrequency(mid, sr); math.Abs(f-250) > 2 {
		t.Fatalf("dominant frequency = %v, want 250", f)
	}
	if testutil.Peak(mid) == 0 {
		t.Fatal("stretched output is silent")
	}
}

func TestStretchShortInputSingleFrame(t *testing.T) {
	v, err := NewPhaseVocoder(256, 64)
	if err != nil {
		t.Fatalf("NewPhaseVocoder() error = %v", err)
	}

	in := testutil.Sine(10, 100, 1, 100)
	out, err := v.Stretch(in, 1)
	if err != nil {
		t.Fatalf("Stretch() error = %v", err)
	}
	if len(out) != 356 {
		t.Fatalf("len = %d, want 356", len(out))
	}
	testutil.RequireFinite(t, out)
	if testutil.Peak(out) == 0 {
		t.Fatal("single frame produced silence")
	}
}

func TestStretchSilenceStaysFinite(t *testing.T) {
	v, err := NewPhaseVocoder(128, 32)
	if err != nil {
		t.Fatalf("NewPhaseVocoder() error = %v", err)
	}

	out, err := v.Stretch(make([]float64, 1000), 0.7)
	if err != nil {
		t.Fatalf("Stretch() error = %v", err)
	}
	testutil.RequireFinite(t, out)
	if testutil.Peak(out) != 0 {
		t.Fatalf("silent input produced peak %v", testutil.Peak(out))
	}
}

func TestWrapPhase(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 1.5 * math.Pi},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		if got := wrapPhase(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("wrapPhase(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
