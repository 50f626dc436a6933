package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Goertzel evaluates a single DFT term over the samples fed to it since the
// last Reset. After exactly N samples at frequency k*sampleRate/N,
// |DFT()| equals |X[k]| of an N-point DFT.
type Goertzel struct {
	omega  float64
	coeff  float64
	s0, s1 float64
}

// NewGoertzel creates a Goertzel analyzer for frequency in [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("goertzel: sample rate must be > 0: %v", sampleRate)
	}
	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("goertzel: frequency must be between 0 and sampleRate/2: %v", frequency)
	}

	omega := 2 * math.Pi * frequency / sampleRate
	return &Goertzel{omega: omega, coeff: 2 * math.Cos(omega)}, nil
}

// Reset clears the internal state.
func (g *Goertzel) Reset() {
	g.s0 = 0
	g.s1 = 0
}

// ProcessBlock updates the internal state with a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}
	g.s0, g.s1 = s0, s1
}

// DFT returns the complex DFT term. It is exact only when the samples
// processed span a whole number of periods of the target frequency.
func (g *Goertzel) DFT() complex128 {
	return cmplx.Exp(complex(0, g.omega))*complex(g.s0, 0) - complex(g.s1, 0)
}
