package core

import "math"

// Clamp limits value to [lo, hi]. Swapped bounds are reordered.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, value))
}

// FlushDenormals returns 0 for |x| < 1e-30 and x otherwise. Feedback comb
// tails decay into this range on long traces.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < 1e-30 {
		return 0
	}
	return x
}

// IsFinitePositive reports whether v is a finite number greater than zero.
func IsFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// EvenCeil returns n if it is even and n+1 otherwise.
func EvenCeil(n int) int {
	if n%2 != 0 {
		return n + 1
	}

	return n
}
