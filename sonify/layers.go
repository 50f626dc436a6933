package sonify

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-sonify/dsp/effects/pitch"
	"github.com/cwbudde/algo-sonify/dsp/interp"
	"github.com/cwbudde/algo-sonify/dsp/signal"
	"github.com/cwbudde/algo-sonify/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

var errSilentLayer = errors.New("layer is silent")

// regrid interpolates trace samples onto the audio grid of plan.
func regrid(x []float64, dt float64, plan *Plan, mode interp.Mode) ([]float64, error) {
	out, err := interp.Uniform(x, dt, plan.AudioDt, mode)
	if err != nil {
		return nil, err
	}
	return core.FitLength(out, plan.AudioLen), nil
}

// RawLayer returns the trace re-gridded to the audio rate and normalized to
// unit peak, without any pitch shift.
func RawLayer(tr *Trace, plan *Plan, cfg PipelineConfig) ([]float64, error) {
	mode, err := cfg.InterpolationMode()
	if err != nil {
		return nil, err
	}
	raw, err := regrid(tr.Samples, tr.Dt, plan, mode)
	if err != nil {
		return nil, err
	}
	if err := normalizeLayer(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// PitchedLayer re-grids and tapers the trace, shifts it by plan.Semitones and
// normalizes the result to unit peak. The output has plan.AudioLen samples.
func PitchedLayer(tr *Trace, plan *Plan, cfg PipelineConfig) ([]float64, error) {
	mode, err := cfg.InterpolationMode()
	if err != nil {
		return nil, err
	}
	audio, err := regrid(tr.Samples, tr.Dt, plan, mode)
	if err != nil {
		return nil, err
	}
	if err := window.Taper(audio, cfg.Taper); err != nil {
		return nil, err
	}

	shifter, err := pitch.NewPitchShifter(cfg.WindowSize, cfg.Hop)
	if err != nil {
		return nil, err
	}
	if err := shifter.SetPitchSemitones(float64(plan.Semitones)); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":    "PitchedLayer",
		"semitones":   plan.Semitones,
		"ratio":       plan.PitchRatio,
		"fmin_heard":  plan.FMin * plan.SpeedUp * plan.PitchRatio,
		"fmax_heard":  plan.FMax * plan.SpeedUp * plan.PitchRatio,
		"window_size": shifter.Vocoder().WindowSize(),
		"hop":         shifter.Vocoder().Hop(),
	}).Info("Shifting pitch")

	shifted, err := shifter.Process(audio)
	if err != nil {
		return nil, err
	}
	shifted = core.FitLength(shifted, plan.AudioLen)
	if err := normalizeLayer(shifted); err != nil {
		return nil, err
	}
	return shifted, nil
}

// normalizeLayer scales x to unit peak and rejects silent layers.
func normalizeLayer(x []float64) error {
	if len(x) == 0 || vecmath.MaxAbs(x) == 0 {
		return errSilentLayer
	}
	return signal.NormalizeInPlace(x, 1)
}
