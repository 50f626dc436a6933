package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sonify/dsp/core"
)

// MinLocalWindow is the shortest sliding window LocalAmplitude is run with.
const MinLocalWindow = 100

// WindowLength returns the sliding window length for tracking fc in a signal
// sampled at sampleRate: one period, rounded up to even, at least
// MinLocalWindow samples.
func WindowLength(sampleRate, fc float64) int {
	if !core.IsFinitePositive(sampleRate) || !core.IsFinitePositive(fc) {
		return MinLocalWindow
	}
	wlen := core.EvenCeil(int(sampleRate / fc))
	return max(wlen, MinLocalWindow)
}

// LocalTrack is the amplitude of one frequency over time.
type LocalTrack struct {
	// Amplitude[i] is |X[Bin]| of the window centred on sample i. Entries
	// outside [Lo, Hi) are zero: no full window fits there.
	Amplitude []float64
	Lo, Hi    int
	// Bin is the window-spectrum bin nearest the requested frequency and
	// BinFreq its frequency in Hz.
	Bin     int
	BinFreq float64
}

// Covered reports whether sample i had a full analysis window.
func (t *LocalTrack) Covered(i int) bool {
	return i >= t.Lo && i < t.Hi
}

// LocalAmplitude tracks the amplitude of freq in x with a sliding window
// of m = wlen-1 samples: the window of sample i spans [i-wlen/2, i-wlen/2+m).
// Samples in [wlen/2, len(x)-wlen/2) are covered.
//
// Each value equals the nearest-bin amplitude of an m-point FFT of that
// window. The bin is updated with a sliding DFT and re-anchored with a
// Goertzel pass every m samples to bound rounding drift.
func LocalAmplitude(x []float64, dt, freq float64, wlen int) (*LocalTrack, error) {
	if wlen < 3 {
		return nil, fmt.Errorf("local amplitude window must be >= 3: %d", wlen)
	}
	if !core.IsFinitePositive(dt) {
		return nil, fmt.Errorf("local amplitude sample interval must be positive and finite: %f", dt)
	}
	if freq < 0 || math.IsNaN(freq) {
		return nil, fmt.Errorf("local amplitude frequency must be >= 0: %f", freq)
	}

	n := len(x)
	half := wlen / 2
	m := wlen - 1
	k := nearestWindowBin(freq, dt, m)

	track := &LocalTrack{
		Amplitude: make([]float64, n),
		Lo:        half,
		Hi:        max(half, n-half),
		Bin:       k,
		BinFreq:   float64(k) / (float64(m) * dt),
	}
	if track.Hi == track.Lo {
		return track, nil
	}

	g, err := NewGoertzel(float64(k), float64(m))
	if err != nil {
		return nil, err
	}
	rot := cmplx.Exp(complex(0, 2*math.Pi*float64(k)/float64(m)))

	var bin complex128
	for i := track.Lo; i < track.Hi; i++ {
		start := i - half
		if (i-track.Lo)%m == 0 {
			g.Reset()
			g.ProcessBlock(x[start : start+m])
			bin = g.DFT()
		} else {
			bin = (bin - complex(x[start-1], 0) + complex(x[start-1+m], 0)) * rot
		}
		track.Amplitude[i] = cmplx.Abs(bin)
	}
	return track, nil
}

// nearestWindowBin returns the rfft bin of an m-point window closest to
// freq. Ties resolve to the lower bin.
func nearestWindowBin(freq, dt float64, m int) int {
	pos := freq * float64(m) * dt
	k := int(math.Ceil(pos - 0.5))
	return max(0, min(k, m/2))
}
