package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultDryWet = 0.2
	defaultDelay  = 0.2
	defaultDecay  = 0.5

	// Comb delays relative to the base delay, in seconds.
	comb2Offset = -0.011
	comb3Offset = 0.019
	comb4Offset = -0.007

	// Comb decays relative to the base decay.
	comb2DecayOffset = -0.13
	comb3DecayOffset = -0.27
	comb4DecayOffset = -0.31

	allpassDecay     = 0.131
	allpassDelaySec  = 0.089
	allpassCrossTerm = 20

	// Minimum base delay keeping every comb delay positive.
	minDelay = -comb2Offset

	// truncEps absorbs representation error when truncating seconds*rate.
	truncEps = 1e-9
)

// Reverb is a Schroeder reverberator over whole mono buffers.
//
// Comb k feeds its own output forward: out[i+d_k] += out[i]*g_k, starting
// from a copy of the input. The four comb outputs are summed, blended with
// the dry input as (1-dryWet)*dry + dryWet*wet and diffused by two all-pass
// stages, each normalizing its output to unit peak.
type Reverb struct {
	sampleRate float64
	dryWet     float64
	delay      float64
	decay      float64
}

// NewReverb returns a reverb with dry/wet 0.2, delay 0.2 s and decay 0.5.
func NewReverb(sampleRate float64) (*Reverb, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("reverb sample rate must be positive and finite: %f", sampleRate)
	}
	return &Reverb{
		sampleRate: sampleRate,
		dryWet:     defaultDryWet,
		delay:      defaultDelay,
		decay:      defaultDecay,
	}, nil
}

// SampleRate returns the sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// DryWet returns the wet share of the comb mix.
func (r *Reverb) DryWet() float64 { return r.dryWet }

// Delay returns the first comb delay in seconds.
func (r *Reverb) Delay() float64 { return r.delay }

// Decay returns the first comb decay.
func (r *Reverb) Decay() float64 { return r.decay }

// SetDryWet sets the wet share in [0, 1]. Zero bypasses the reverb.
func (r *Reverb) SetDryWet(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("reverb dry/wet must be in [0, 1]: %f", v)
	}
	r.dryWet = v
	return nil
}

// SetDelay sets the first comb delay in seconds. It must exceed 0.011 s so
// that every comb delay is positive.
func (r *Reverb) SetDelay(seconds float64) error {
	if !core.IsFinite(seconds) || seconds <= minDelay {
		return fmt.Errorf("reverb delay must be > %g s: %f", minDelay, seconds)
	}
	r.delay = seconds
	return nil
}

// SetDecay sets the first comb decay in [0, 1).
func (r *Reverb) SetDecay(v float64) error {
	if v < 0 || v >= 1 || math.IsNaN(v) {
		return fmt.Errorf("reverb decay must be in [0, 1): %f", v)
	}
	r.decay = v
	return nil
}

// CombDelays returns the four comb delays in samples.
func (r *Reverb) CombDelays() [4]int {
	d1 := r.samples(r.delay)
	base := float64(d1)
	return [4]int{
		d1,
		int(base + comb2Offset*r.sampleRate + truncEps),
		int(base + comb3Offset*r.sampleRate + truncEps),
		int(base + comb4Offset*r.sampleRate + truncEps),
	}
}

// CombDecays returns the four comb feedback gains.
func (r *Reverb) CombDecays() [4]float64 {
	return [4]float64{
		r.decay,
		r.decay + comb2DecayOffset,
		r.decay + comb3DecayOffset,
		r.decay + comb4DecayOffset,
	}
}

// AllpassDelay returns the all-pass delay in samples.
func (r *Reverb) AllpassDelay() int {
	return r.samples(allpassDelaySec)
}

func (r *Reverb) samples(seconds float64) int {
	return int(seconds*r.sampleRate + truncEps)
}

// Process returns the reverberated signal. The input is not modified. With
// dry/wet 0 the result is an exact copy of in.
func (r *Reverb) Process(in []float64) []float64 {
	if r.dryWet == 0 || len(in) == 0 {
		return core.Clone(in)
	}

	delays := r.CombDelays()
	decays := r.CombDecays()

	wet := make([]float64, len(in))
	comb := make([]float64, len(in))
	for k := range delays {
		copy(comb, in)
		combFilter(comb, delays[k], decays[k])
		vecmath.AddBlockInPlace(wet, comb)
	}

	// mix = (1-dw)*dry + dw*wet
	mix := make([]float64, len(in))
	vecmath.ScaleBlock(mix, in, 1-r.dryWet)
	vecmath.ScaleBlockInPlace(wet, r.dryWet)
	vecmath.AddBlockInPlace(mix, wet)

	d := r.AllpassDelay()
	out := allpassFilter(mix, d)
	return allpassFilter(out, d)
}

// combFilter applies buf[i+delay] += buf[i]*decay for increasing i.
func combFilter(buf []float64, delay int, decay float64) {
	if delay <= 0 {
		return
	}
	for i := 0; i+delay < len(buf); i++ {
		buf[i+delay] = core.FlushDenormals(buf[i+delay] + buf[i]*decay)
	}
}

// allpassFilter returns the diffused and peak-normalized copy of buf:
//
//	f[i] = buf[i] - g*f[i-d] + g*f[i+20-d]
//
// where each feedback term only applies once its index is in range.
func allpassFilter(buf []float64, delay int) []float64 {
	n := len(buf)
	f := make([]float64, n)
	for i := range f {
		f[i] = buf[i]
		if i-delay >= 0 {
			f[i] -= allpassDecay * f[i-delay]
		}
		if j := i + allpassCrossTerm - delay; i-delay >= 1 && j < n {
			f[i] += allpassDecay * f[j]
		}
	}

	if peak := vecmath.MaxAbs(f); peak > 0 {
		vecmath.ScaleBlockInPlace(f, 1/peak)
	}
	return f
}
