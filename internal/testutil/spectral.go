package testutil

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DominantFrequency returns the frequency in Hz of the largest non-DC bin
// of x's one-sided spectrum.
func DominantFrequency(x []float64, sampleRate float64) float64 {
	if len(x) < 2 {
		return 0
	}
	fft := fourier.NewFFT(len(x))
	coeff := fft.Coefficients(nil, x)

	best, bestMag := 0, -1.0
	for k := 1; k < len(coeff); k++ {
		if m := cmplx.Abs(coeff[k]); m > bestMag {
			best, bestMag = k, m
		}
	}
	return fft.Freq(best) * sampleRate
}
