package testutil

import (
	"math"
	"math/rand"
)

// Sine returns amplitude*sin(2*pi*freqHz*t) sampled at sampleRate.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// GaussianBurst returns a sine at freqHz under a Gaussian envelope centred
// at center seconds with the given width in seconds.
func GaussianBurst(freqHz, sampleRate, center, width float64, length int) []float64 {
	out := Sine(freqHz, sampleRate, 1, length)
	for i := range out {
		x := (float64(i)/sampleRate - center) / width
		out[i] *= math.Exp(-0.5 * x * x)
	}
	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude] from a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse returns a buffer with a single sample of the given height at pos.
func Impulse(length, pos int, height float64) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = height
	}
	return out
}

// Ramp returns 0, 1/(n-1), ..., 1.
func Ramp(length int) []float64 {
	out := make([]float64, length)
	if length < 2 {
		return out
	}
	for i := range out {
		out[i] = float64(i) / float64(length-1)
	}
	return out
}
