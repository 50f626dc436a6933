//go:build fastmath

package pitch

import "github.com/meko-christian/algo-approx"

// lnSemitone is ln(2)/12, the natural log of one equal-tempered step.
const lnSemitone = 0.693147180559945309417232121458 / 12

func semitoneRatio(n float64) float64 {
	return approx.FastExp(n * lnSemitone)
}

func semitonesBetween(fromHz, toHz float64) float64 {
	return approx.FastLog(toHz/fromHz) / lnSemitone
}
