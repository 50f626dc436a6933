package buffer

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

var (
	errChannelLengthMismatch = errors.New("stereo channels must have the same length")
	errNoChannels            = errors.New("audio buffer needs 1 or 2 channels")
)

// AudioBuffer holds planar float64 samples for one or two channels.
type AudioBuffer struct {
	channels   [][]float64
	sampleRate float64
}

// NewMono adopts samples as a single-channel buffer.
func NewMono(samples []float64, sampleRate float64) (*AudioBuffer, error) {
	return New(sampleRate, samples)
}

// NewStereo adopts left and right as a two-channel buffer.
func NewStereo(left, right []float64, sampleRate float64) (*AudioBuffer, error) {
	return New(sampleRate, left, right)
}

// New adopts one or two channel slices. All channels must share one length.
func New(sampleRate float64, channels ...[]float64) (*AudioBuffer, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("audio buffer sample rate must be positive and finite: %f", sampleRate)
	}

	if len(channels) < 1 || len(channels) > 2 {
		return nil, fmt.Errorf("%w: got %d", errNoChannels, len(channels))
	}

	for _, ch := range channels[1:] {
		if len(ch) != len(channels[0]) {
			return nil, fmt.Errorf("%w: %d != %d", errChannelLengthMismatch, len(ch), len(channels[0]))
		}
	}

	return &AudioBuffer{channels: channels, sampleRate: sampleRate}, nil
}

// SampleRate returns the sample rate in Hz.
func (b *AudioBuffer) SampleRate() float64 { return b.sampleRate }

// Channels returns the channel count (1 or 2).
func (b *AudioBuffer) Channels() int { return len(b.channels) }

// Len returns the number of frames (samples per channel).
func (b *AudioBuffer) Len() int { return len(b.channels[0]) }

// Duration returns the playback length in seconds.
func (b *AudioBuffer) Duration() float64 {
	return float64(b.Len()) / b.sampleRate
}

// Channel returns the samples of channel i. The slice is not copied.
func (b *AudioBuffer) Channel(i int) []float64 {
	return b.channels[i]
}

// Peak returns the largest absolute sample value over all channels.
func (b *AudioBuffer) Peak() float64 {
	peak := 0.0
	for _, ch := range b.channels {
		if len(ch) == 0 {
			continue
		}
		peak = max(peak, vecmath.MaxAbs(ch))
	}
	return peak
}

// Interleaved returns frames as L,R,L,R... for stereo and a copy for mono.
func (b *AudioBuffer) Interleaved() []float64 {
	n := b.Len()
	nch := b.Channels()
	out := make([]float64, n*nch)
	for c, ch := range b.channels {
		for i, v := range ch {
			out[i*nch+c] = v
		}
	}
	return out
}
