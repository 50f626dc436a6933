// Package fourier wraps the FFT backends used by the spectral stages.
//
// Power-of-two complex transforms run on algo-fft plans; every other length
// falls back to gonum's mixed-radix FFTPACK port. Real one-sided spectra
// always use gonum. Plans are pooled per size, so all functions are safe for
// concurrent use.
//
// Forward transforms are unnormalized and inverse transforms are scaled by
// 1/N, matching numpy's fft/ifft convention.
package fourier
