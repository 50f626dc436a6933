//go:build fastmath

package envelope

import "github.com/meko-christian/algo-approx"

// mathHypot computes sqrt(re^2 + im^2) using fast approximation.
func mathHypot(re, im float64) float64 {
	sq := re*re + im*im
	if sq <= 0 {
		return 0
	}
	return approx.FastSqrt(sq)
}
