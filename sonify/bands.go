package sonify

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-sonify/dsp/envelope"
	"github.com/cwbudde/algo-sonify/dsp/filter/biquad"
	bandfilter "github.com/cwbudde/algo-sonify/dsp/filter/design/band"
	"github.com/cwbudde/algo-sonify/dsp/interp"
	"github.com/cwbudde/algo-sonify/dsp/signal"
	"github.com/cwbudde/algo-sonify/dsp/spectrum"
	"github.com/cwbudde/algo-sonify/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// Per-band envelope filtering: a two-corner Butterworth bandpass with a
// taper of one band period, as a fraction of the trace, within these bounds.
const (
	bandpassCorners = 2
	minBandTaper    = 0.05
	maxBandTaper    = 0.3
)

// Band is one synthesis band of the trace spectrum.
type Band struct {
	Index int
	// Center, Low and High are trace frequencies in Hz.
	Center, Low, High float64
	// AudioFreq is the tone frequency on the trace time axis. Played back at
	// the output rate it sounds at AudioFreq*SpeedUp.
	AudioFreq float64
	// Note is the harmonized note name, empty without harmonizer.
	Note string
	// Boost is the low-band emphasis weight.
	Boost float64
}

// BandSynthesizer renders one envelope-shaped tone per band and sums them.
type BandSynthesizer struct {
	cfg        PipelineConfig
	plan       *Plan
	mode       interp.Mode
	harmonizer *signal.Harmonizer
	gen        *signal.Generator
	bands      []Band
}

// NewBandSynthesizer prepares the bands for plan. The configuration must
// have been validated.
func NewBandSynthesizer(cfg PipelineConfig, plan *Plan, t0 float64) (*BandSynthesizer, error) {
	if plan.BandMin >= plan.BandMax {
		return nil, fmt.Errorf("%w: band range [%g, %g] Hz", ErrInvalidFrequencyRange, plan.BandMin, plan.BandMax)
	}
	mode, err := cfg.InterpolationMode()
	if err != nil {
		return nil, err
	}

	b := &BandSynthesizer{cfg: cfg, plan: plan, mode: mode}

	var genOpts []signal.Option
	if cfg.Harmonizer {
		h, err := signal.NewHarmonizer(signal.ScaleType(cfg.HarmonizerScale))
		if err != nil {
			return nil, err
		}
		b.harmonizer = h
		genOpts = append(genOpts, signal.WithHarmonics())
	}
	b.gen = signal.NewGenerator(core.NewClock(
		core.WithSampleRate(plan.AudioSampleRate()),
		core.WithStartTime(t0),
	), genOpts...)

	b.bands = b.layout()
	return b, nil
}

// Bands returns the band layout in ascending frequency order.
func (b *BandSynthesizer) Bands() []Band {
	out := make([]Band, len(b.bands))
	copy(out, b.bands)
	return out
}

func (b *BandSynthesizer) layout() []Band {
	n := b.cfg.Bands
	fmin := b.plan.BandMin
	frange := b.plan.BandMax - fmin
	delta := b.plan.BandWidth(n)

	bands := make([]Band, n)
	for i := range bands {
		fc := fmin + float64(i)/float64(n)*frange + 0.5*delta
		freq, note := b.AudibleFrequency(fc)

		boost := 1.0
		if b.cfg.LowBoost {
			boost = 0.5 * (2 - (fc-fmin)/frange)
		}
		bands[i] = Band{
			Index:     i,
			Center:    fc,
			Low:       fc - 0.5*delta,
			High:      fc + 0.5*delta,
			AudioFreq: freq,
			Note:      note,
			Boost:     boost,
		}
	}
	return bands
}

// AudibleFrequency maps a trace frequency linearly from the band range onto
// the audible range, snaps it to the harmonizer scale when enabled and
// divides it by the speed-up factor.
func (b *BandSynthesizer) AudibleFrequency(fc float64) (float64, string) {
	fmin := b.plan.BandMin
	frange := b.plan.BandMax - fmin
	audioRange := b.cfg.AudioHighestFreq - b.cfg.AudioLowestFreq

	freq := (fc-fmin)/frange*audioRange + b.cfg.AudioLowestFreq

	var name string
	if b.harmonizer != nil {
		note := b.harmonizer.Snap(freq)
		freq, name = note.Frequency, note.Name
	}
	return freq / b.plan.SpeedUp, name
}

// bandSource is the per-run input shared read-only by all band workers.
type bandSource struct {
	tr       *Trace
	tapered  []float64
	spectrum *spectrum.Spectrum
}

// Synthesize renders the augmented layer for tr, normalized to unit peak.
//
// Bands run on up to cfg.WorkerCount() goroutines. Each batch is reduced in
// ascending band order, so the result does not depend on scheduling.
func (b *BandSynthesizer) Synthesize(tr *Trace) ([]float64, error) {
	src := &bandSource{tr: tr, tapered: core.Clone(tr.Samples)}
	if err := window.Taper(src.tapered, b.cfg.Taper); err != nil {
		return nil, err
	}

	// With per-band envelopes renderBand shapes each tone itself.
	var env []float64
	if !b.cfg.BandpassEnvelope {
		var err error
		if env, err = b.envelope(src.tapered, tr.Dt); err != nil {
			return nil, fmt.Errorf("envelope: %w", err)
		}
	}

	if b.cfg.SpectralWeighting {
		var err error
		src.spectrum, err = spectrum.Analyze(tr.Samples, tr.Dt)
		if err != nil {
			return nil, fmt.Errorf("spectrum: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Synthesize",
		"bands":     len(b.bands),
		"band_min":  b.plan.BandMin,
		"band_max":  b.plan.BandMax,
		"band_step": b.plan.BandWidth(len(b.bands)),
		"workers":   b.cfg.WorkerCount(),
		"bandpass":  b.cfg.BandpassEnvelope,
	}).Info("Synthesizing frequency bands")

	acc := make([]float64, b.plan.AudioLen)
	workers := max(1, min(b.cfg.WorkerCount(), len(b.bands)))

	for start := 0; start < len(b.bands); start += workers {
		batch := b.bands[start:min(start+workers, len(b.bands))]
		tones := make([][]float64, len(batch))
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for j := range batch {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				tones[j], errs[j] = b.renderBand(batch[j], src)
			}(j)
		}
		wg.Wait()

		for j, tone := range tones {
			if errs[j] != nil {
				return nil, fmt.Errorf("band %d: %w", batch[j].Index, errs[j])
			}
			if env == nil {
				vecmath.AddBlockInPlace(acc, tone)
				continue
			}
			vecmath.MulAddBlock(acc, tone, env, acc)
		}
	}

	if err := normalizeLayer(acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// envelope returns the analytic envelope of the tapered trace on the audio
// grid, tapered again.
func (b *BandSynthesizer) envelope(tapered []float64, dt float64) ([]float64, error) {
	env, err := envelope.Envelope(tapered)
	if err != nil {
		return nil, err
	}
	audio, err := regrid(env, dt, b.plan, b.mode)
	if err != nil {
		return nil, err
	}
	if err := window.Taper(audio, b.cfg.Taper); err != nil {
		return nil, err
	}
	return audio, nil
}

// bandEnvelope returns the envelope of tr bandpassed to [band.Low,
// band.High] with zero phase, on the audio grid. The trace is tapered before
// and after filtering.
func (b *BandSynthesizer) bandEnvelope(band Band, tr *Trace) ([]float64, error) {
	perc := core.Clamp(1/band.Center/tr.Duration(), minBandTaper, maxBandTaper)
	x := core.Clone(tr.Samples)
	if err := window.Taper(x, perc); err != nil {
		return nil, err
	}

	coeffs, err := bandfilter.Butterworth(tr.SampleRate(), band.Low, band.High, bandpassCorners)
	if err != nil {
		return nil, err
	}
	biquad.NewChain(coeffs).ZeroPhase(x)

	if err := window.Taper(x, perc); err != nil {
		return nil, err
	}
	return b.envelope(x, tr.Dt)
}

// renderBand returns the band tone scaled by its spectral weights and boost.
// The broadband envelope is applied by the caller; a per-band envelope is
// applied here.
func (b *BandSynthesizer) renderBand(band Band, src *bandSource) ([]float64, error) {
	tone, err := b.gen.Tone(band.AudioFreq, b.plan.AudioLen)
	if err != nil {
		return nil, err
	}

	if src.spectrum != nil {
		weights, err := b.spectralWeights(band, src)
		if err != nil {
			return nil, err
		}
		vecmath.MulBlockInPlace(tone, weights)
	}
	if band.Boost != 1 {
		vecmath.ScaleBlockInPlace(tone, band.Boost)
	}
	if b.cfg.BandpassEnvelope {
		env, err := b.bandEnvelope(band, src.tr)
		if err != nil {
			return nil, err
		}
		vecmath.MulBlockInPlace(tone, env)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "renderBand",
		"band":       band.Index,
		"center":     band.Center,
		"audio_freq": band.AudioFreq * b.plan.SpeedUp,
		"note":       band.Note,
		"boost":      band.Boost,
	}).Debug("Rendered band tone")
	return tone, nil
}

// spectralWeights tracks how strongly band.Center is present around each
// trace sample, relative to its whole-trace amplitude and clamped to 1, and
// re-grids the weights to the audio rate. Samples without a full analysis
// window keep weight 1.
func (b *BandSynthesizer) spectralWeights(band Band, src *bandSource) ([]float64, error) {
	tr := src.tr
	wlen := spectrum.WindowLength(tr.SampleRate(), band.Center)
	track, err := spectrum.LocalAmplitude(src.tapered, tr.Dt, band.Center, wlen)
	if err != nil {
		return nil, err
	}
	ampAll, _, _ := src.spectrum.AmplitudeAt(band.Center)

	weights := make([]float64, tr.Len())
	for i := range weights {
		weights[i] = 1
		if track.Covered(i) && ampAll > 0 {
			weights[i] = core.Clamp(track.Amplitude[i]/ampAll, 0, 1)
		}
	}
	return regrid(weights, tr.Dt, b.plan, b.mode)
}
