package spectrum

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-sonify/dsp/fourier"
	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	scratchPool.Put(buf)
	return out
}

// Spectrum is the one-sided amplitude spectrum of a real signal.
type Spectrum struct {
	// Freqs holds the bin centre frequencies in Hz, ascending from 0.
	Freqs []float64
	// Amplitude holds the unnormalized |rfft| of each bin.
	Amplitude []float64
}

// Analyze computes the amplitude spectrum of x sampled every dt seconds.
func Analyze(x []float64, dt float64) (*Spectrum, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("spectrum analysis needs at least 2 samples: %d", len(x))
	}
	if !core.IsFinitePositive(dt) {
		return nil, fmt.Errorf("spectrum sample interval must be positive and finite: %f", dt)
	}

	return &Spectrum{
		Freqs:     fourier.RFFTFreq(len(x), dt),
		Amplitude: Magnitude(fourier.RFFT(x)),
	}, nil
}

// NearestBin returns the index of the bin whose frequency is closest to
// freq. Ties resolve to the lower bin.
func (s *Spectrum) NearestBin(freq float64) int {
	n := len(s.Freqs)
	if n == 0 {
		return -1
	}

	j := sort.SearchFloat64s(s.Freqs, freq)
	switch {
	case j == 0:
		return 0
	case j == n:
		return n - 1
	}
	if freq-s.Freqs[j-1] <= s.Freqs[j]-freq {
		return j - 1
	}
	return j
}

// AmplitudeAt returns the amplitude of the bin nearest freq together with
// the bin index and its frequency.
func (s *Spectrum) AmplitudeAt(freq float64) (amp float64, bin int, binFreq float64) {
	bin = s.NearestBin(freq)
	if bin < 0 {
		return 0, -1, math.NaN()
	}
	return s.Amplitude[bin], bin, s.Freqs[bin]
}

// Peak returns the frequency and amplitude of the strongest bin. The lowest
// such bin wins on ties.
func (s *Spectrum) Peak() (freq, amp float64) {
	best := 0
	for i, a := range s.Amplitude {
		if a > s.Amplitude[best] {
			best = i
		}
	}
	if len(s.Amplitude) == 0 {
		return 0, 0
	}
	return s.Freqs[best], s.Amplitude[best]
}
