package sonify

import (
	"math"
	"runtime"

	"github.com/cwbudde/algo-sonify/dsp/effects/noise"
	"github.com/cwbudde/algo-sonify/dsp/effects/pitch"
	"github.com/cwbudde/algo-sonify/dsp/effects/reverb"
	"github.com/cwbudde/algo-sonify/dsp/interp"
	"github.com/cwbudde/algo-sonify/dsp/signal"
)

// Default pipeline parameters.
const (
	DefaultAudioLowestFreq     = 2.0
	DefaultAudioHighestFreq    = 6000.0
	DefaultSampleRate          = 32000.0
	DefaultBands               = 50
	DefaultAugmentedPercentage = 0.002
	DefaultHarmonizerScale     = int(signal.ScaleDorian)
	DefaultReverbDryWet        = 0.2
	DefaultReverbDelay         = 0.2
	DefaultReverbDecay         = 0.5
	DefaultNoiseGain           = 10.0
	DefaultLeftGain            = 0.9
	DefaultRightGain           = 0.5
	DefaultTaper               = 0.05
	DefaultHeadroom            = 0.8
)

// ReverbConfig holds the Schroeder reverb parameters.
type ReverbConfig struct {
	Enabled bool    `yaml:"enabled"`
	DryWet  float64 `yaml:"dry_wet"`
	Delay   float64 `yaml:"delay"`
	Decay   float64 `yaml:"decay"`
}

// NoiseConfig holds the noise injector parameters. A nil Seed draws a fresh
// random seed on every run.
type NoiseConfig struct {
	Enabled bool    `yaml:"enabled"`
	Gain    float64 `yaml:"gain"`
	Seed    *uint64 `yaml:"seed"`
}

// LocalizationConfig holds the static stereo imbalance. Delay shifts the
// right channel later by that many seconds.
type LocalizationConfig struct {
	Enabled   bool    `yaml:"enabled"`
	LeftGain  float64 `yaml:"left_gain"`
	RightGain float64 `yaml:"right_gain"`
	Delay     float64 `yaml:"delay"`
}

// PipelineConfig is resolved once before a run and passed by value into
// every stage.
type PipelineConfig struct {
	AudioLowestFreq  float64 `yaml:"audio_lowest_freq"`
	AudioHighestFreq float64 `yaml:"audio_highest_freq"`
	SampleRate       float64 `yaml:"audio_sampling_rate"`

	Bands               int     `yaml:"nbandpass_freq"`
	Augmented           bool    `yaml:"add_augmented"`
	AugmentedPercentage float64 `yaml:"augmented_percentage"`
	SpectralWeighting   bool    `yaml:"spectral_weighting"`
	LowBoost            bool    `yaml:"low_boost"`
	// BandpassEnvelope shapes each band with the envelope of the trace
	// bandpassed to that band instead of the broadband envelope.
	BandpassEnvelope    bool    `yaml:"bandpass_envelope"`
	Harmonizer          bool    `yaml:"harmonizer"`
	HarmonizerScale     int     `yaml:"harmonizer_scale_type"`

	Reverb       ReverbConfig       `yaml:"reverb"`
	Noise        NoiseConfig        `yaml:"noise"`
	Localization LocalizationConfig `yaml:"localization"`

	// PitchTarget is the frequency the trace Nyquist is shifted towards.
	// Zero uses AudioHighestFreq.
	PitchTarget float64 `yaml:"pitch_target_freq"`
	WindowSize  int     `yaml:"window_size"`
	Hop         int     `yaml:"hop_size"`

	Taper         float64 `yaml:"taper_percentage"`
	Headroom      float64 `yaml:"headroom"`
	Interpolation string  `yaml:"interpolation"`
	// MinPeriod caps the band range at 1/MinPeriod Hz when that is below
	// the Nyquist frequency. Zero disables the cap.
	MinPeriod         float64 `yaml:"min_period"`
	TrimNegativeStart bool    `yaml:"trim_negative_start"`

	// Workers bounds band-synthesis parallelism. Zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the default pipeline: augmented layer with spectral
// weighting and low boost, reverb on, noise and localization off.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		AudioLowestFreq:     DefaultAudioLowestFreq,
		AudioHighestFreq:    DefaultAudioHighestFreq,
		SampleRate:          DefaultSampleRate,
		Bands:               DefaultBands,
		Augmented:           true,
		AugmentedPercentage: DefaultAugmentedPercentage,
		SpectralWeighting:   true,
		LowBoost:            true,
		HarmonizerScale:     DefaultHarmonizerScale,
		Reverb: ReverbConfig{
			Enabled: true,
			DryWet:  DefaultReverbDryWet,
			Delay:   DefaultReverbDelay,
			Decay:   DefaultReverbDecay,
		},
		Noise: NoiseConfig{Gain: DefaultNoiseGain},
		Localization: LocalizationConfig{
			LeftGain:  DefaultLeftGain,
			RightGain: DefaultRightGain,
		},
		WindowSize:        pitch.DefaultWindowSize,
		Hop:               pitch.DefaultHop,
		Taper:             DefaultTaper,
		Headroom:          DefaultHeadroom,
		Interpolation:     interp.ModeHermite.String(),
		TrimNegativeStart: true,
	}
}

// Option adjusts a PipelineConfig.
type Option func(*PipelineConfig)

// NewConfig applies opts over DefaultConfig. Call Validate on the result.
func NewConfig(opts ...Option) PipelineConfig {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// With returns a copy of c with opts applied.
func (c PipelineConfig) With(opts ...Option) PipelineConfig {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// WithAudioRange sets the audible target range in Hz.
func WithAudioRange(lowest, highest float64) Option {
	return func(c *PipelineConfig) {
		c.AudioLowestFreq = lowest
		c.AudioHighestFreq = highest
	}
}

// WithSampleRate sets the output sample rate in Hz.
func WithSampleRate(sr float64) Option {
	return func(c *PipelineConfig) { c.SampleRate = sr }
}

// WithBands sets the number of synthesis bands.
func WithBands(n int) Option {
	return func(c *PipelineConfig) { c.Bands = n }
}

// WithAugmented enables or disables the synthesized layer.
func WithAugmented(enabled bool) Option {
	return func(c *PipelineConfig) { c.Augmented = enabled }
}

// WithAugmentedPercentage sets the mix weight of the synthesized layer.
func WithAugmentedPercentage(p float64) Option {
	return func(c *PipelineConfig) { c.AugmentedPercentage = p }
}

// WithSpectralWeighting toggles local-amplitude weighting of band tones.
func WithSpectralWeighting(enabled bool) Option {
	return func(c *PipelineConfig) { c.SpectralWeighting = enabled }
}

// WithLowBoost toggles the low-band emphasis.
func WithLowBoost(enabled bool) Option {
	return func(c *PipelineConfig) { c.LowBoost = enabled }
}

// WithBandpassEnvelope toggles per-band envelopes from zero-phase
// Butterworth bandpassed traces.
func WithBandpassEnvelope(enabled bool) Option {
	return func(c *PipelineConfig) { c.BandpassEnvelope = enabled }
}

// WithHarmonizer snaps band frequencies to the given scale.
func WithHarmonizer(scale signal.ScaleType) Option {
	return func(c *PipelineConfig) {
		c.Harmonizer = true
		c.HarmonizerScale = int(scale)
	}
}

// WithReverb enables the reverb with the given parameters.
func WithReverb(dryWet, delay, decay float64) Option {
	return func(c *PipelineConfig) {
		c.Reverb = ReverbConfig{Enabled: true, DryWet: dryWet, Delay: delay, Decay: decay}
	}
}

// WithoutReverb disables the reverb.
func WithoutReverb() Option {
	return func(c *PipelineConfig) { c.Reverb.Enabled = false }
}

// WithNoise enables noise at the given gain.
func WithNoise(gain float64) Option {
	return func(c *PipelineConfig) {
		c.Noise.Enabled = true
		c.Noise.Gain = gain
	}
}

// WithSeed makes the noise reproducible.
func WithSeed(seed uint64) Option {
	return func(c *PipelineConfig) { c.Noise.Seed = &seed }
}

// WithLocalization enables the static stereo imbalance.
func WithLocalization(left, right float64) Option {
	return func(c *PipelineConfig) {
		c.Localization.Enabled = true
		c.Localization.LeftGain = left
		c.Localization.RightGain = right
	}
}

// WithLocalizationDelay delays the right channel by seconds.
func WithLocalizationDelay(seconds float64) Option {
	return func(c *PipelineConfig) { c.Localization.Delay = seconds }
}

// WithPitchTarget sets the frequency the trace Nyquist maps to.
func WithPitchTarget(hz float64) Option {
	return func(c *PipelineConfig) { c.PitchTarget = hz }
}

// WithVocoder sets the phase vocoder frame length and hop.
func WithVocoder(windowSize, hop int) Option {
	return func(c *PipelineConfig) {
		c.WindowSize = windowSize
		c.Hop = hop
	}
}

// WithInterpolation selects "hermite" or "linear" re-gridding.
func WithInterpolation(mode interp.Mode) Option {
	return func(c *PipelineConfig) { c.Interpolation = mode.String() }
}

// WithMinPeriod caps the band range at 1/seconds.
func WithMinPeriod(seconds float64) Option {
	return func(c *PipelineConfig) { c.MinPeriod = seconds }
}

// WithTrimNegativeStart toggles dropping samples before t = 0.
func WithTrimNegativeStart(enabled bool) Option {
	return func(c *PipelineConfig) { c.TrimNegativeStart = enabled }
}

// WithWorkers bounds band-synthesis parallelism.
func WithWorkers(n int) Option {
	return func(c *PipelineConfig) { c.Workers = n }
}

// PitchTargetFreq returns the effective pitch-shift target.
func (c PipelineConfig) PitchTargetFreq() float64 {
	if c.PitchTarget > 0 {
		return c.PitchTarget
	}
	return c.AudioHighestFreq
}

// WorkerCount returns the effective worker count.
func (c PipelineConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// InterpolationMode returns the parsed interpolation mode.
func (c PipelineConfig) InterpolationMode() (interp.Mode, error) {
	return interp.ParseMode(c.Interpolation)
}

// Validate rejects out-of-range parameters. Errors are *ConfigError.
func (c PipelineConfig) Validate() error {
	switch {
	case !finiteAtLeast(c.AudioLowestFreq, 0):
		return &ConfigError{"audio_lowest_freq", c.AudioLowestFreq, "must be >= 0 and finite"}
	case !finiteAtLeast(c.AudioHighestFreq, 0) || c.AudioHighestFreq <= c.AudioLowestFreq:
		return &ConfigError{"audio_highest_freq", c.AudioHighestFreq, "must be finite and above audio_lowest_freq"}
	case !finiteAtLeast(c.SampleRate, 0) || c.SampleRate == 0:
		return &ConfigError{"audio_sampling_rate", c.SampleRate, "must be positive and finite"}
	case c.Bands < 1:
		return &ConfigError{"nbandpass_freq", c.Bands, "must be >= 1"}
	case !finiteAtLeast(c.AugmentedPercentage, 0):
		return &ConfigError{"augmented_percentage", c.AugmentedPercentage, "must be >= 0 and finite"}
	case !finiteAtLeast(c.PitchTarget, 0):
		return &ConfigError{"pitch_target_freq", c.PitchTarget, "must be >= 0 and finite"}
	case !finiteAtLeast(c.Taper, 0) || c.Taper > 0.5:
		return &ConfigError{"taper_percentage", c.Taper, "must be in [0, 0.5]"}
	case !finiteAtLeast(c.Headroom, 0) || c.Headroom == 0 || c.Headroom > 1:
		return &ConfigError{"headroom", c.Headroom, "must be in (0, 1]"}
	case !finiteAtLeast(c.MinPeriod, 0):
		return &ConfigError{"min_period", c.MinPeriod, "must be >= 0 and finite"}
	case c.Workers < 0:
		return &ConfigError{"workers", c.Workers, "must be >= 0"}
	}

	if _, err := c.InterpolationMode(); err != nil {
		return &ConfigError{"interpolation", c.Interpolation, err.Error()}
	}
	if _, err := signal.NewHarmonizer(signal.ScaleType(c.HarmonizerScale)); err != nil {
		return &ConfigError{"harmonizer_scale_type", c.HarmonizerScale, err.Error()}
	}
	if _, err := pitch.NewPhaseVocoder(c.WindowSize, c.Hop); err != nil {
		return &ConfigError{"window_size/hop_size", [2]int{c.WindowSize, c.Hop}, err.Error()}
	}
	if _, err := newReverb(c.Reverb, c.SampleRate); err != nil {
		return &ConfigError{"reverb", c.Reverb, err.Error()}
	}
	if _, err := noise.NewInjector(noise.WithGain(c.Noise.Gain)); err != nil {
		return &ConfigError{"noise.gain", c.Noise.Gain, err.Error()}
	}

	loc := c.Localization
	switch {
	case !finiteAtLeast(loc.LeftGain, 0) || loc.LeftGain > 1:
		return &ConfigError{"localization.left_gain", loc.LeftGain, "must be in [0, 1]"}
	case !finiteAtLeast(loc.RightGain, 0) || loc.RightGain > 1:
		return &ConfigError{"localization.right_gain", loc.RightGain, "must be in [0, 1]"}
	case !finiteAtLeast(loc.Delay, 0):
		return &ConfigError{"localization.delay", loc.Delay, "must be >= 0 and finite"}
	}
	return nil
}

func newReverb(rc ReverbConfig, sampleRate float64) (*reverb.Reverb, error) {
	r, err := reverb.NewReverb(sampleRate)
	if err != nil {
		return nil, err
	}
	if err := r.SetDryWet(rc.DryWet); err != nil {
		return nil, err
	}
	if err := r.SetDelay(rc.Delay); err != nil {
		return nil, err
	}
	if err := r.SetDecay(rc.Decay); err != nil {
		return nil, err
	}
	return r, nil
}

func finiteAtLeast(v, lo float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= lo
}
