package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonify/dsp/core"
)

// ErrInvalidFactor indicates a non-positive or non-finite speed factor.
var ErrInvalidFactor = errors.New("resample: invalid speed factor")

// OutputLength returns the number of samples Speedup produces for n input
// samples: one per position 0, factor, 2*factor, ... below n whose rounded
// index is still inside the input.
func OutputLength(n int, factor float64) int {
	if n <= 0 || !core.IsFinitePositive(factor) {
		return 0
	}
	count := int(math.Ceil(float64(n) / factor))
	for count > 0 && index(count-1, factor) >= n {
		count--
	}
	return count
}

// Speedup returns in[round(k*factor)] for k = 0, 1, ... while the index is
// inside in. factor > 1 shortens the signal (raising its pitch on playback),
// factor < 1 repeats samples. Rounding is half-to-even.
func Speedup(in []float64, factor float64) ([]float64, error) {
	if !core.IsFinitePositive(factor) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidFactor, factor)
	}
	if factor == 1 {
		return core.Clone(in), nil
	}

	out := make([]float64, OutputLength(len(in), factor))
	for k := range out {
		out[k] = in[index(k, factor)]
	}
	return out, nil
}

func index(k int, factor float64) int {
	return int(math.RoundToEven(float64(k) * factor))
}
