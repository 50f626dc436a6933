//go:build !fastmath

package pitch

import "math"

func semitoneRatio(n float64) float64 {
	return math.Exp2(n / 12)
}

func semitonesBetween(fromHz, toHz float64) float64 {
	return 12 * math.Log2(toHz/fromHz)
}
