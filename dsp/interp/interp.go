package interp

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonify/dsp/core"
)

// Mode selects the interpolation kernel used by Uniform.
type Mode int

const (
	// ModeHermite uses 4-point cubic Hermite interpolation.
	ModeHermite Mode = iota
	// ModeLinear uses 2-point linear interpolation.
	ModeLinear
)

func (m Mode) String() string {
	switch m {
	case ModeHermite:
		return "hermite"
	case ModeLinear:
		return "linear"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "hermite" or "linear" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "hermite", "cubic":
		return ModeHermite, nil
	case "linear":
		return ModeLinear, nil
	default:
		return 0, fmt.Errorf("unknown interpolation mode %q", s)
	}
}

// Linear2 interpolates between x0 and x1 at t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// UniformLength returns the number of samples Uniform produces for n input
// samples: every multiple of dtOut that does not pass the last input time.
func UniformLength(n int, dt, dtOut float64) int {
	if n <= 0 || dt <= 0 || dtOut <= 0 {
		return 0
	}
	span := float64(n-1) * dt
	// Guard against k*dtOut landing a hair past span through rounding.
	return int(math.Floor(span/dtOut+1e-9)) + 1
}

// Uniform resamples x, sampled every dt seconds, onto a grid with spacing
// dtOut starting at the first sample. Points between samples use the chosen
// kernel; edge neighbours are clamped.
func Uniform(x []float64, dt, dtOut float64, mode Mode) ([]float64, error) {
	if !core.IsFinitePositive(dt) || !core.IsFinitePositive(dtOut) {
		return nil, fmt.Errorf("interpolation intervals must be positive and finite: dt=%f dtOut=%f", dt, dtOut)
	}
	n := len(x)
	if n == 0 {
		return nil, nil
	}

	out := make([]float64, UniformLength(n, dt, dtOut))
	if n == 1 {
		out[0] = x[0]
		return out, nil
	}

	at := func(i int) float64 {
		return x[max(0, min(i, n-1))]
	}

	ratio := dtOut / dt
	for j := range out {
		pos := float64(j) * ratio
		i := int(pos)
		if i >= n-1 {
			out[j] = x[n-1]
			continue
		}
		frac := pos - float64(i)

		switch mode {
		case ModeLinear:
			out[j] = Linear2(frac, x[i], x[i+1])
		default:
			out[j] = Hermite4(frac, at(i-1), x[i], x[i+1], at(i+2))
		}
	}
	return out, nil
}
