package sonify

import (
	"fmt"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-sonify/dsp/effects/pitch"
	"github.com/cwbudde/algo-sonify/dsp/interp"
)

// Plan holds the quantities a run derives from the trace, the target
// duration and the configuration.
type Plan struct {
	// TraceDuration is n*dt in seconds; AudioDuration the requested length.
	TraceDuration float64
	AudioDuration float64
	// SpeedUp is TraceDuration/AudioDuration.
	SpeedUp float64

	// AudioDt is the trace-time interval between audio samples,
	// SpeedUp/SampleRate. AudioLen is the length of every mono layer.
	AudioDt  float64
	AudioLen int

	// FMin and FMax span the usable trace spectrum: 1/TraceDuration up to
	// the Nyquist frequency, capped at 1/MinPeriod when configured.
	FMin, FMax float64
	// BandMin and BandMax span the synthesis bands. BandMin puts the longest
	// period halfway between 1/FMax and 1/FMin.
	BandMin, BandMax float64

	// Semitones is the pitch shift moving the heard Nyquist frequency
	// (Nyquist*SpeedUp) closest to the pitch target.
	Semitones  int
	PitchRatio float64
}

// NewPlan derives the run plan. It fails with ErrConfiguration for a bad
// audio duration and ErrInvalidFrequencyRange when the band range is empty.
func NewPlan(tr *Trace, audioDuration float64, cfg PipelineConfig) (*Plan, error) {
	if !core.IsFinitePositive(audioDuration) {
		return nil, &ConfigError{"audio_duration", audioDuration, "must be positive and finite"}
	}

	p := &Plan{
		TraceDuration: tr.Duration(),
		AudioDuration: audioDuration,
	}
	p.SpeedUp = p.TraceDuration / audioDuration
	p.AudioDt = p.SpeedUp / cfg.SampleRate
	p.AudioLen = interp.UniformLength(tr.Len(), tr.Dt, p.AudioDt)

	p.FMin = 1 / p.TraceDuration
	p.FMax = tr.Nyquist()
	if cfg.MinPeriod > 0 {
		p.FMax = min(p.FMax, 1/cfg.MinPeriod)
	}
	if p.FMin >= p.FMax {
		return nil, fmt.Errorf("%w: fmin %g Hz >= fmax %g Hz", ErrInvalidFrequencyRange, p.FMin, p.FMax)
	}

	tMin := 1 / p.FMax
	tMax := 1 / p.FMin
	p.BandMax = p.FMax
	p.BandMin = 1 / (tMin + 0.5*(tMax-tMin))

	heard := tr.Nyquist() * p.SpeedUp
	n, err := pitch.SemitonesFor(cfg.PitchTargetFreq(), heard)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrequencyRange, err)
	}
	p.Semitones = n
	p.PitchRatio = pitch.RatioForSemitones(float64(n))
	return p, nil
}

// AudioSampleRate returns the trace-time rate of the re-gridded layers,
// SampleRate/SpeedUp.
func (p *Plan) AudioSampleRate() float64 { return 1 / p.AudioDt }

// BandWidth returns the width of each of n equal bands.
func (p *Plan) BandWidth(n int) float64 {
	return (p.BandMax - p.BandMin) / float64(n)
}
