// Package band designs Butterworth band filters as biquad cascades.
package band

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sonify/dsp/filter/biquad"
)

// MaxCorners bounds the prototype order.
const MaxCorners = 8

// ErrInvalidParams reports band edges, rates or orders no filter exists for.
var ErrInvalidParams = errors.New("band: invalid filter parameters")

// Butterworth designs a digital Butterworth bandpass for [loHz, hiHz] from
// an analog prototype with the given number of corners, so the bandpass has
// 2*corners poles. Band edges are prewarped for the bilinear transform and
// sit at -3 dB.
//
// When hiHz reaches the Nyquist frequency the result is a highpass of the
// same prototype at loHz instead. Sections are scaled to unit gain at the
// geometric band centre, or at Nyquist for the highpass.
func Butterworth(sampleRate, loHz, hiHz float64, corners int) ([]biquad.Coefficients, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate must be positive and finite: %f", ErrInvalidParams, sampleRate)
	}
	if corners < 1 || corners > MaxCorners {
		return nil, fmt.Errorf("%w: corners must be in [1, %d]: %d", ErrInvalidParams, MaxCorners, corners)
	}
	nyq := sampleRate / 2
	if !(loHz > 0) || !(hiHz > loHz) || loHz >= nyq {
		return nil, fmt.Errorf("%w: band [%f, %f] Hz outside (0, %f)", ErrInvalidParams, loHz, hiHz, nyq)
	}

	k := 2 * sampleRate
	warp := func(f float64) float64 { return k * math.Tan(math.Pi*f/sampleRate) }

	// Edges computed as sums of band widths land a rounding error short of
	// Nyquist.
	if hiHz >= nyq*(1-1e-9) {
		return highpass(warp(loHz), k, corners), nil
	}
	return bandpass(warp(loHz), warp(hiHz), k, corners), nil
}

// prototypePole returns pole m of the unit-cutoff analog Butterworth lowpass
// of order n. Poles m < n/2 lie in the upper half plane; for odd n pole
// (n-1)/2 is -1.
func prototypePole(m, n int) complex128 {
	return cmplx.Rect(1, math.Pi*float64(2*m+n+1)/float64(2*n))
}

func bilinear(s complex128, k float64) complex128 {
	kc := complex(k, 0)
	return (kc + s) / (kc - s)
}

// section builds the denominator from a pole pair that is either complex
// conjugate or real.
func section(z1, z2 complex128, num biquad.Coefficients) biquad.Coefficients {
	num.A1 = -real(z1 + z2)
	num.A2 = real(z1 * z2)
	return num
}

func bandpass(w1, w2, k float64, n int) []biquad.Coefficients {
	w0sq := w1 * w2
	bw := complex(w2-w1, 0)
	// One zero at DC and one at Nyquist per section.
	zeros := biquad.Coefficients{B0: 1, B2: -1}

	// s -> (s^2 + w0^2)/(s*bw) turns prototype pole p into the roots of
	// s^2 - p*bw*s + w0^2.
	split := func(p complex128) (complex128, complex128) {
		pb := p * bw
		d := cmplx.Sqrt(pb*pb - complex(4*w0sq, 0))
		return (pb + d) / 2, (pb - d) / 2
	}

	var out []biquad.Coefficients
	for m := 0; m < n/2; m++ {
		s1, s2 := split(prototypePole(m, n))
		for _, s := range [2]complex128{s1, s2} {
			z := bilinear(s, k)
			out = append(out, section(z, cmplx.Conj(z), zeros))
		}
	}
	if n%2 == 1 {
		s1, s2 := split(-1)
		out = append(out, section(bilinear(s1, k), bilinear(s2, k), zeros))
	}

	center := math.Atan(math.Sqrt(w0sq)/k) / math.Pi
	return normalize(out, center)
}

func highpass(wc, k float64, n int) []biquad.Coefficients {
	var out []biquad.Coefficients
	for m := 0; m < n/2; m++ {
		z := bilinear(complex(wc, 0)/prototypePole(m, n), k)
		out = append(out, section(z, cmplx.Conj(z), biquad.Coefficients{B0: 1, B1: -2, B2: 1}))
	}
	if n%2 == 1 {
		z := bilinear(complex(-wc, 0), k)
		out = append(out, biquad.Coefficients{B0: 1, B1: -1, A1: -real(z)})
	}
	return normalize(out, 0.5)
}

// normalize scales every section to unit magnitude at freq, given as a
// fraction of the sample rate.
func normalize(sections []biquad.Coefficients, freq float64) []biquad.Coefficients {
	for i, c := range sections {
		if g := cmplx.Abs(c.Response(freq, 1)); g > 0 {
			sections[i] = c.Scale(1 / g)
		}
	}
	return sections
}
