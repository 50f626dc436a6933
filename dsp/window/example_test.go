package window

import "fmt"

func ExampleHann() {
	w, _ := Hann(5)
	fmt.Printf("%.2f\n", w)
	// Output:
	// [0.00 0.50 1.00 0.50 0.00]
}

func ExampleTaper() {
	buf := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	_ = Taper(buf, 0.2)
	fmt.Printf("%.2f\n", buf)
	// Output:
	// [0.00 0.50 1.00 1.00 1.00 1.00 1.00 1.00 0.50 0.00]
}
