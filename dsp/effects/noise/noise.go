package noise

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/cwbudde/algo-sonify/dsp/fourier"
	"github.com/cwbudde/algo-vecmath"
)

const defaultGain = 10.0

type config struct {
	gain   float64
	rng    *rand.Rand
	seeded bool
}

// Option configures an [Injector].
type Option func(*config) error

// WithGain sets the noise scale (default 10, must be >= 0).
func WithGain(gain float64) Option {
	return func(cfg *config) error {
		if gain < 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
			return fmt.Errorf("noise: gain must be >= 0 and finite: %f", gain)
		}
		cfg.gain = gain
		return nil
	}
}

// WithSeed makes the phase sequence deterministic.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.rng = rand.New(rand.NewPCG(seed, 0))
		cfg.seeded = true
		return nil
	}
}

// Injector sums scaled broadband noise into signals. It is not safe for
// concurrent use.
type Injector struct {
	gain   float64
	rng    *rand.Rand
	seeded bool
}

// NewInjector creates an Injector. Without WithSeed it draws
// from a randomly seeded source and every call yields different noise.
func NewInjector(opts ...Option) (*Injector, error) {
	cfg := config{gain: defaultGain}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Injector{gain: cfg.gain, rng: cfg.rng, seeded: cfg.seeded}, nil
}

// Gain returns the noise scale.
func (inj *Injector) Gain() float64 { return inj.gain }

// Reproducible reports whether the phase source was seeded by the caller.
func (inj *Injector) Reproducible() bool { return inj.seeded }

// Generate returns n samples of unscaled noise: Re(IDFT(exp(i*phi_k))) with
// phi_k uniform on [0, 2*pi).
func (inj *Injector) Generate(n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("noise: length must be >= 0: %d", n)
	}
	spec := make([]complex128, n)
	for k := range spec {
		spec[k] = cmplx.Rect(1, 2*math.Pi*inj.rng.Float64())
	}
	if err := fourier.IFFT(spec, spec); err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}

	out := make([]float64, n)
	for i, c := range spec {
		out[i] = real(c)
	}
	return out, nil
}

// Process returns in + gain*noise. The input is not modified.
func (inj *Injector) Process(in []float64) ([]float64, error) {
	noise, err := inj.Generate(len(in))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(in))
	if len(in) == 0 {
		return out, nil
	}
	vecmath.ScaleBlock(out, noise, inj.gain)
	vecmath.AddBlockInPlace(out, in)
	return out, nil
}
