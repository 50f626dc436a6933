package noise

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sonify/dsp/fourier"
	"github.com/cwbudde/algo-sonify/internal/testutil"
)

func TestNewInjectorOptions(t *testing.T) {
	inj, err := NewInjector()
	if err != nil {
		t.Fatalf("NewInjector() error = %v", err)
	}
	if inj.Gain() != defaultGain {
		t.Fatalf("Gain() = %v, want %v", inj.Gain(), defaultGain)
	}
	if inj.Reproducible() {
		t.Fatal("Reproducible() = true without a seed")
	}

	if _, err := NewInjector(WithGain(-1)); err == nil {
		t.Fatal("WithGain(-1) expected error")
	}
	if _, err := NewInjector(WithGain(math.Inf(1))); err == nil {
		t.Fatal("WithGain(+Inf) expected error")
	}
}

func TestGenerateSeededIsDeterministic(t *testing.T) {
	a, _ := NewInjector(WithSeed(7))
	b, _ := NewInjector(WithSeed(7))
	c, _ := NewInjector(WithSeed(8))

	na, err := a.Generate(1000)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	nb, _ := b.Generate(1000)
	nc, _ := c.Generate(1000)

	testutil.RequireSliceNearlyEqual(t, na, nb, 0)
	if d, _ := testutil.MaxAbsDiff(na, nc); d == 0 {
		t.Fatal("different seeds produced identical noise")
	}
	if !a.Reproducible() {
		t.Fatal("Reproducible() = false with WithSeed")
	}
}

func TestGenerateIsFlatBroadband(t *testing.T) {
	inj, _ := NewInjector(WithSeed(12))
	const n = 1024
	x, err := inj.Generate(n)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	testutil.RequireFinite(t, x)

	// The complex sequence has unit energy (N unit bins, 1/N inverse scale);
	// its real part carries about half of it.
	energy := 0.0
	for _, v := range x {
		energy += v * v
	}
	want := 0.5
	if math.Abs(energy-want) > 0.25*want {
		t.Fatalf("energy = %v, want about %v", energy, want)
	}

	// Bin k of the real part is (X[k] + conj(X[-k]))/2, never above 1.
	spec := make([]complex128, n)
	for i, v := range x {
		spec[i] = complex(v, 0)
	}
	if err := fourier.FFT(spec, spec); err != nil {
		t.Fatalf("FFT() error = %v", err)
	}
	for k, c := range spec {
		if mag := math.Hypot(real(c), imag(c)); mag > 1+1e-9 {
			t.Fatalf("bin %d magnitude %v exceeds 1", k, mag)
		}
	}
}

func TestProcessAddsScaledNoise(t *testing.T) {
	in := testutil.Sine(50, 1000, 0.5, 512)

	inj, _ := NewInjector(WithSeed(3), WithGain(2))
	out, err := inj.Process(in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	ref, _ := NewInjector(WithSeed(3))
	noise, _ := ref.Generate(len(in))
	for i := range in {
		want := in[i] + 2*noise[i]
		if math.Abs(out[i]-want) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}

	if in[1] != testutil.Sine(50, 1000, 0.5, 512)[1] {
		t.Fatal("Process() modified its input")
	}
}

func TestProcessZeroGainIsIdentity(t *testing.T) {
	in := testutil.Noise(5, 1, 300)
	inj, _ := NewInjector(WithGain(0), WithSeed(1))
	out, err := inj.Process(in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestProcessEmpty(t *testing.T) {
	inj, _ := NewInjector(WithSeed(1))
	out, err := inj.Process(nil)
	if err != nil {
		t.Fatalf("Process(nil) error = %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("len(out) = %d, want 0", len(out))
	}
}
