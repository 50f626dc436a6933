package reverb_test

import (
	"fmt"

	"github.com/cwbudde/algo-sonify/dsp/effects/reverb"
)

func ExampleReverb_CombDelays() {
	r, err := reverb.NewReverb(8000)
	if err != nil {
		panic(err)
	}
	fmt.Println(r.CombDelays(), r.AllpassDelay())
	// Output: [1600 1512 1752 1544] 712
}
