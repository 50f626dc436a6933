package band_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonify/dsp/filter/biquad"
	"github.com/cwbudde/algo-sonify/dsp/filter/design/band"
)

func ExampleButterworth() {
	coeffs, err := band.Butterworth(100, 5, 10, 2)
	if err != nil {
		panic(err)
	}

	// A tone at 30 Hz is well outside the 5-10 Hz band.
	x := make([]float64, 1000)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 30 * float64(i) / 100)
	}
	biquad.NewChain(coeffs).ZeroPhase(x)

	peak := 0.0
	for _, v := range x[200:800] {
		peak = math.Max(peak, math.Abs(v))
	}
	fmt.Printf("sections=%d residual<0.001=%v\n", len(coeffs), peak < 0.001)
	// Output:
	// sections=2 residual<0.001=true
}
