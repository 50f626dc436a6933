package signal_test

import (
	"fmt"

	"github.com/cwbudde/algo-sonify/dsp/signal"
)

func ExampleNormalizeInPlace() {
	x := []float64{-0.5, 0.25, 1}
	if err := signal.NormalizeInPlace(x, 0.8); err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f\n", x[0], x[1], x[2])

	// Output:
	// -0.40 0.20 0.80
}

func ExampleHarmonizer_Snap() {
	h, _ := signal.NewHarmonizer(signal.ScaleMajorTriad)
	fmt.Println(h.Snap(261.63).Name)

	// Output:
	// C4
}
