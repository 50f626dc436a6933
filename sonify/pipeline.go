package sonify

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sonify/dsp/buffer"
	"github.com/cwbudde/algo-sonify/dsp/effects/noise"
)

// Result holds every buffer a run produces. All buffers use the configured
// sample rate.
type Result struct {
	// Name is the "NET.STA.CHA." prefix of the trace.
	Name string
	Plan *Plan

	Raw       *buffer.AudioBuffer
	Pitched   *buffer.AudioBuffer
	Augmented *buffer.AudioBuffer // nil when the augmented layer is disabled
	Mono      *buffer.AudioBuffer
	Stereo    *buffer.AudioBuffer

	// Bands is the frequency layout of the augmented layer, nil when it is
	// disabled.
	Bands []Band

	// NoiseSeed is the seed the noise stage used, also when it was drawn at
	// random. Zero when noise is disabled.
	NoiseSeed uint64
}

// Pipeline runs the sonification stages with one validated configuration.
type Pipeline struct {
	cfg PipelineConfig
}

// NewPipeline validates cfg.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() PipelineConfig { return p.cfg }

// Run sonifies tr into audio of about audioDuration seconds. tr is not
// modified. On error no buffers are returned.
func (p *Pipeline) Run(tr *Trace, audioDuration float64) (*Result, error) {
	cfg := p.cfg

	if err := tr.Validate(); err != nil {
		return nil, stageErr(StageValidate, err)
	}
	src := tr.Copy()
	if cfg.TrimNegativeStart && src.T0 < 0 {
		src = src.TrimNegativeStart()
		logrus.WithFields(logrus.Fields{
			"function":   "Run",
			"start_time": src.T0,
			"samples":    src.Len(),
		}).Info("Cut trace at zero start time")
		if err := src.Validate(); err != nil {
			return nil, stageErr(StageValidate, err)
		}
	}

	plan, err := NewPlan(src, audioDuration, cfg)
	if err != nil {
		return nil, stageErr(StageValidate, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":       "Run",
		"trace":          src.Name(),
		"samples":        src.Len(),
		"dt":             src.Dt,
		"trace_duration": plan.TraceDuration,
		"audio_duration": plan.AudioDuration,
		"speed_up":       plan.SpeedUp,
		"fmin":           plan.FMin,
		"fmax":           plan.FMax,
		"audio_samples":  plan.AudioLen,
	}).Info("Starting sonification")

	res := &Result{Name: src.Name(), Plan: plan}

	raw, err := RawLayer(src, plan, cfg)
	if err != nil {
		return nil, stageErr(StagePitched, err)
	}
	pitched, err := PitchedLayer(src, plan, cfg)
	if err != nil {
		return nil, stageErr(StagePitched, err)
	}

	var augmented []float64
	if cfg.Augmented {
		synth, err := NewBandSynthesizer(cfg, plan, src.T0)
		if err != nil {
			return nil, stageErr(StageAugmented, err)
		}
		augmented, err = synth.Synthesize(src)
		if err != nil {
			return nil, stageErr(StageAugmented, err)
		}
		res.Bands = synth.Bands()
	}

	injector, seed, err := p.noiseInjector()
	if err != nil {
		return nil, stageErr(StageNoise, err)
	}
	res.NoiseSeed = seed

	mixer, err := NewMixer(cfg, plan, injector)
	if err != nil {
		return nil, stageErr(StageMix, err)
	}
	mono, err := mixer.Mix(pitched, augmented)
	if err != nil {
		return nil, stageErr(StageMix, err)
	}
	stereo, err := mixer.Localize(mono)
	if err != nil {
		return nil, stageErr(StageMix, err)
	}

	if res.Raw, err = buffer.NewMono(raw, cfg.SampleRate); err != nil {
		return nil, stageErr(StageMix, err)
	}
	if res.Pitched, err = buffer.NewMono(pitched, cfg.SampleRate); err != nil {
		return nil, stageErr(StageMix, err)
	}
	if augmented != nil {
		if res.Augmented, err = buffer.NewMono(augmented, cfg.SampleRate); err != nil {
			return nil, stageErr(StageMix, err)
		}
	}
	if res.Mono, err = buffer.NewMono(mono, cfg.SampleRate); err != nil {
		return nil, stageErr(StageMix, err)
	}
	res.Stereo = stereo

	logrus.WithFields(logrus.Fields{
		"function":  "Run",
		"trace":     res.Name,
		"samples":   res.Mono.Len(),
		"duration":  res.Mono.Duration(),
		"semitones": plan.Semitones,
	}).Info("Sonification complete")
	return res, nil
}

// noiseInjector returns nil when noise is disabled. Without a configured
// seed it draws one and logs it so the run can be repeated.
func (p *Pipeline) noiseInjector() (*noise.Injector, uint64, error) {
	nc := p.cfg.Noise
	if !nc.Enabled {
		return nil, 0, nil
	}

	var seed uint64
	if nc.Seed != nil {
		seed = *nc.Seed
	} else {
		seed = rand.Uint64()
		logrus.WithFields(logrus.Fields{
			"function": "noiseInjector",
			"seed":     seed,
		}).Warn("Noise seed not configured, output is not reproducible")
	}

	inj, err := noise.NewInjector(noise.WithGain(nc.Gain), noise.WithSeed(seed))
	if err != nil {
		return nil, 0, err
	}
	return inj, seed, nil
}
