//go:build !fastmath

package envelope

import "math"

// mathHypot computes sqrt(re^2 + im^2) using standard library math.
func mathHypot(re, im float64) float64 {
	return math.Hypot(re, im)
}
