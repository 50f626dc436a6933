package signal

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Partial weights of the band tone.
const (
	SawtoothWeight = 0.2
	TriangleWeight = 0.2
)

var errEmptyInput = errors.New("normalize input must not be empty")

// Generator renders band tones on the time axis of its clock.
type Generator struct {
	clock      core.Clock
	harmonized bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithHarmonics adds the sub-octave and third/fifth partials used with the
// harmonizer.
func WithHarmonics() Option {
	return func(g *Generator) {
		g.harmonized = true
	}
}

// NewGenerator creates a generator on the given clock.
func NewGenerator(clock core.Clock, opts ...Option) *Generator {
	g := &Generator{clock: clock}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Clock returns the generator's time axis.
func (g *Generator) Clock() core.Clock {
	return g.clock
}

func (g *Generator) validate(samples int) error {
	if samples <= 0 {
		return fmt.Errorf("signal samples must be > 0: %d", samples)
	}
	if !core.IsFinitePositive(g.clock.SampleRate) {
		return fmt.Errorf("signal sample rate must be > 0: %f", g.clock.SampleRate)
	}
	return nil
}

// Tone generates the band tone at freqHz:
//
//	sin(wt) + 0.2*saw(wt) + 0.2*|saw(wt)|
//
// With WithHarmonics it also adds 1.2*sin(wt/2) + 0.4*sin(0.6wt) + 0.4*sin(0.75wt).
func (g *Generator) Tone(freqHz float64, samples int) ([]float64, error) {
	if err := g.validate(samples); err != nil {
		return nil, err
	}
	if !core.IsFinite(freqHz) {
		return nil, fmt.Errorf("tone frequency must be finite: %f", freqHz)
	}

	out := make([]float64, samples)
	for i := range out {
		wt := 2 * math.Pi * freqHz * g.clock.At(i)
		saw := Saw(wt)
		v := math.Sin(wt) + SawtoothWeight*saw + TriangleWeight*math.Abs(saw)
		if g.harmonized {
			v += 1.2*math.Sin(wt/2) + 0.4*math.Sin(wt*3/5) + 0.4*math.Sin(wt*3/4)
		}
		out[i] = v
	}
	return out, nil
}

// Saw returns a 2*pi periodic rising sawtooth: -1 at phase 0, approaching
// +1 just before 2*pi.
func Saw(phase float64) float64 {
	p := math.Mod(phase, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p/math.Pi - 1
}

// NormalizeInPlace scales data so that max|data| equals targetPeak. It
// leaves silent input untouched.
func NormalizeInPlace(data []float64, targetPeak float64) error {
	if targetPeak < 0 || math.IsNaN(targetPeak) {
		return fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return errEmptyInput
	}

	maxAbs := vecmath.MaxAbs(data)
	if maxAbs == 0 {
		return nil
	}
	vecmath.ScaleBlockInPlace(data, targetPeak/maxAbs)
	return nil
}
