package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-sonify/dsp/buffer"
)

func ExampleAudioBuffer_Interleaved() {
	b, _ := buffer.NewStereo([]float64{0.25, -0.5}, []float64{0.1, 0.2}, 8000)

	fmt.Println(b.Interleaved(), b.Peak())

	// Output:
	// [0.25 0.1 -0.5 0.2] 0.5
}
