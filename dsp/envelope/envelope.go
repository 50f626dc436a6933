package envelope

import (
	"fmt"

	"github.com/cwbudde/algo-sonify/dsp/fourier"
)

// Analytic returns the analytic signal x + i*H{x}, where H is the Hilbert
// transform, computed by zeroing the negative-frequency half of the
// spectrum. The input is not modified.
func Analytic(x []float64) ([]complex128, error) {
	n := len(x)
	if n == 0 {
		return nil, nil
	}

	spec := make([]complex128, n)
	for i, v := range x {
		spec[i] = complex(v, 0)
	}
	if err := fourier.FFT(spec, spec); err != nil {
		return nil, fmt.Errorf("analytic signal: %w", err)
	}

	// Keep DC (and Nyquist for even n), double positive bins, drop the rest.
	half := (n + 1) / 2
	for k := 1; k < half; k++ {
		spec[k] *= 2
	}
	start := half
	if n%2 == 0 {
		start = n/2 + 1
	}
	for k := start; k < n; k++ {
		spec[k] = 0
	}

	if err := fourier.IFFT(spec, spec); err != nil {
		return nil, fmt.Errorf("analytic signal: %w", err)
	}
	return spec, nil
}

// Envelope returns |Analytic(x)|, a non-negative slice with the same length
// as x. Empty input yields nil.
func Envelope(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, nil
	}
	a, err := Analytic(x)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(a))
	for i, c := range a {
		out[i] = mathHypot(real(c), imag(c))
	}
	return out, nil
}
