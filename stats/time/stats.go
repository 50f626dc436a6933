// Package time summarizes sample buffers in the time domain. Seismogram
// readers and the command line log these summaries for traces and rendered
// audio layers.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Stats holds time-domain level statistics.
type Stats struct {
	Length int
	DC     float64 // mean
	RMS    float64
	RMSdB  float64

	Max    float64
	MaxPos int
	Min    float64
	MinPos int

	Peak          float64 // max(|max|, |min|)
	PeakdB        float64
	CrestFactor   float64 // peak / RMS
	CrestFactordB float64
	ZeroCrossings int
}

// ampTodB converts an amplitude to decibels. Zero maps to -Inf.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

// Calculate summarizes signal. An empty signal yields zero values and -Inf
// decibel fields.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			RMSdB:         math.Inf(-1),
			PeakdB:        math.Inf(-1),
			CrestFactordB: math.Inf(-1),
		}
	}

	s := Stats{
		Length: n,
		DC:     vecmath.Sum(signal) / float64(n),
		RMS:    math.Sqrt(vecmath.DotProduct(signal, signal) / float64(n)),
		Peak:   vecmath.MaxAbs(signal),
		Max:    signal[0],
		Min:    signal[0],
	}
	for i, x := range signal {
		if x > s.Max {
			s.Max, s.MaxPos = x, i
		}
		if x < s.Min {
			s.Min, s.MinPos = x, i
		}
		if i > 0 && signal[i-1]*x < 0 {
			s.ZeroCrossings++
		}
	}

	s.RMSdB = ampTodB(s.RMS)
	s.PeakdB = ampTodB(s.Peak)
	if s.RMS > 0 {
		s.CrestFactor = s.Peak / s.RMS
	}
	s.CrestFactordB = ampTodB(s.CrestFactor)
	return s
}
