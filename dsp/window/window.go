// Package window holds the two weightings the sonifier needs: symmetric Hann
// frames for the phase vocoder and cosine edge tapers for traces and layers.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var errMismatchedLength = errors.New("samples and coefficients must have same length")

// Hann returns the symmetric size-point Hann window (zero at both ends).
func Hann(size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("hann size must be > 0: %d", size)
	}
	return hann(size), nil
}

func hann(size int) []float64 {
	out := make([]float64, size)
	if size == 1 {
		out[0] = 1
		return out
	}
	step := 2 * math.Pi / float64(size-1)
	for i := range out {
		out[i] = 0.5 - 0.5*math.Cos(step*float64(i))
	}
	return out
}

// ApplyCoefficientsInPlace multiplies samples by coeffs in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}
	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}
