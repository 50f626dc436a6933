package sonify

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sonify/dsp/buffer"
	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-sonify/dsp/effects/noise"
	"github.com/cwbudde/algo-sonify/dsp/effects/reverb"
	"github.com/cwbudde/algo-vecmath"
)

// Mixer combines the pitched and augmented layers into the final mono
// signal and spreads it to stereo.
type Mixer struct {
	cfg    PipelineConfig
	reverb *reverb.Reverb
	noise  *noise.Injector
}

// NewMixer builds the optional reverb and noise stages of cfg. injector may
// be nil when noise is disabled.
//
// The reverb runs at plan.AudioSampleRate(), the trace-time rate of the
// layers, so its delays scale with the speed-up factor like the trace
// content does.
func NewMixer(cfg PipelineConfig, plan *Plan, injector *noise.Injector) (*Mixer, error) {
	m := &Mixer{cfg: cfg, noise: injector}
	if cfg.Reverb.Enabled {
		if plan == nil {
			return nil, &StageError{StageReverb, &ConfigError{"reverb", cfg.Reverb, "needs a plan for its sample rate"}}
		}
		r, err := newReverb(cfg.Reverb, plan.AudioSampleRate())
		if err != nil {
			return nil, &StageError{StageReverb, &ConfigError{"reverb", cfg.Reverb, err.Error()}}
		}
		m.reverb = r
	}
	if cfg.Noise.Enabled && injector == nil {
		return nil, &ConfigError{"noise", cfg.Noise, "enabled without an injector"}
	}
	return m, nil
}

// Mix returns pitched + AugmentedPercentage*augmented, normalized to the
// headroom peak and passed through the enabled reverb and noise stages. The
// result never exceeds unit peak. augmented may be nil.
func (m *Mixer) Mix(pitched, augmented []float64) ([]float64, error) {
	mono := core.Clone(pitched)
	if augmented != nil && m.cfg.AugmentedPercentage > 0 {
		if len(augmented) != len(mono) {
			return nil, &StageError{StageMix, fmt.Errorf("layer lengths differ: %d != %d", len(augmented), len(mono))}
		}
		weighted := make([]float64, len(augmented))
		vecmath.ScaleBlock(weighted, augmented, m.cfg.AugmentedPercentage)
		vecmath.AddBlockInPlace(mono, weighted)
	}

	if err := normalizeLayer(mono); err != nil {
		return nil, &StageError{StageMix, err}
	}
	vecmath.ScaleBlockInPlace(mono, m.cfg.Headroom)

	if m.reverb != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Mix",
			"rate":     m.reverb.SampleRate(),
			"dry_wet":  m.reverb.DryWet(),
			"delays":   m.reverb.CombDelays(),
			"decays":   m.reverb.CombDecays(),
		}).Info("Adding reverb")
		mono = m.reverb.Process(mono)
	}

	if m.cfg.Noise.Enabled {
		logrus.WithFields(logrus.Fields{
			"function":     "Mix",
			"gain":         m.noise.Gain(),
			"reproducible": m.noise.Reproducible(),
		}).Info("Adding noise")
		noisy, err := m.noise.Process(mono)
		if err != nil {
			return nil, &StageError{StageNoise, err}
		}
		mono = noisy
	}

	if peak := vecmath.MaxAbs(mono); peak > 1 {
		vecmath.ScaleBlockInPlace(mono, 1/peak)
	}
	return mono, nil
}

// Localize duplicates mono into a stereo buffer. With localization enabled
// the left channel is scaled by LeftGain and the right channel is delayed by
// LocalizationDelay and scaled by RightGain. This is a static imbalance, not
// a pan law.
func (m *Mixer) Localize(mono []float64) (*buffer.AudioBuffer, error) {
	left := core.Clone(mono)
	right := core.Clone(mono)

	loc := m.cfg.Localization
	if loc.Enabled {
		right = shiftRight(right, m.LocalizationDelay())
		if len(left) > 0 {
			vecmath.ScaleBlockInPlace(left, loc.LeftGain)
			vecmath.ScaleBlockInPlace(right, loc.RightGain)
		}
	}
	return buffer.NewStereo(left, right, m.cfg.SampleRate)
}

// LocalizationDelay returns the right-channel delay in samples.
func (m *Mixer) LocalizationDelay() int {
	return int(m.cfg.Localization.Delay*m.cfg.SampleRate + 1e-9)
}

// shiftRight delays x by k samples in place, zero-filling the head.
func shiftRight(x []float64, k int) []float64 {
	if k <= 0 {
		return x
	}
	if k >= len(x) {
		core.Zero(x)
		return x
	}
	copy(x[k:], x[:len(x)-k])
	core.Zero(x[:k])
	return x
}
