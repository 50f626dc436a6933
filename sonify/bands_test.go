package sonify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-sonify/dsp/envelope"
	"github.com/cwbudde/algo-sonify/dsp/signal"
	"github.com/cwbudde/algo-sonify/internal/testutil"
)

func testSynth(t *testing.T, tr *Trace, opts ...Option) (*BandSynthesizer, *Plan) {
	t.Helper()
	cfg := NewConfig(append([]Option{WithAudioRange(20, 1000), WithSampleRate(4000)}, opts...)...)
	require.NoError(t, cfg.Validate())

	plan, err := NewPlan(tr, 10, cfg)
	require.NoError(t, err)

	synth, err := NewBandSynthesizer(cfg, plan, tr.T0)
	require.NoError(t, err)
	return synth, plan
}

func TestBandLayout(t *testing.T) {
	synth, plan := testSynth(t, sineTrace(1, 0.1, 1000), WithBands(4))
	bands := synth.Bands()
	require.Len(t, bands, 4)

	assert.InDelta(t, plan.BandMin, bands[0].Low, 1e-12)
	assert.InDelta(t, plan.BandMax, bands[3].High, 1e-9)
	for i, b := range bands {
		assert.Equal(t, i, b.Index)
		assert.InDelta(t, 0.5*(b.Low+b.High), b.Center, 1e-12)
		assert.GreaterOrEqual(t, b.Low, 0.0)
		if i > 0 {
			assert.InDelta(t, bands[i-1].High, b.Low, 1e-9, "bands must be contiguous")
			assert.Greater(t, b.Center, bands[i-1].Center)
			assert.Less(t, b.Boost, bands[i-1].Boost, "lower bands get more boost")
		}
		assert.Empty(t, b.Note)
	}

	// The first center sits half a band above fmin: boost 0.5*(2 - 1/8).
	assert.InDelta(t, 0.9375, bands[0].Boost, 1e-12)
}

func TestAudibleFrequency(t *testing.T) {
	synth, plan := testSynth(t, sineTrace(1, 0.1, 1000))

	f, note := synth.AudibleFrequency(plan.BandMin)
	assert.InDelta(t, 20/plan.SpeedUp, f, 1e-9)
	assert.Empty(t, note)

	f, _ = synth.AudibleFrequency(plan.BandMax)
	assert.InDelta(t, 1000/plan.SpeedUp, f, 1e-9)

	f, _ = synth.AudibleFrequency(0.5 * (plan.BandMin + plan.BandMax))
	assert.InDelta(t, 510/plan.SpeedUp, f, 1e-9)
}

func TestAudibleFrequencyHarmonized(t *testing.T) {
	synth, plan := testSynth(t, sineTrace(1, 0.1, 1000), WithHarmonizer(signal.ScaleMajorTriad), WithBands(3))
	for _, b := range synth.Bands() {
		require.NotEmpty(t, b.Note)
		heard := b.AudioFreq * plan.SpeedUp
		steps := 12 * math.Log2(heard/signal.C0)
		// Just ratios of C, E and G sit close to 0, 4 and 7 semitones.
		pc := math.Mod(steps+0.5, 12) - 0.5
		assert.True(t, math.Abs(pc) < 0.2 || math.Abs(pc-3.86) < 0.2 || math.Abs(pc-7.02) < 0.2,
			"band %d at %v Hz is not on the C-E-G scale", b.Index, heard)
	}
}

func TestSynthesizeIsNormalized(t *testing.T) {
	tr := sineTrace(0.3, 0.1, 1000)
	synth, plan := testSynth(t, tr, WithBands(6))

	out, err := synth.Synthesize(tr)
	require.NoError(t, err)
	require.Len(t, out, plan.AudioLen)
	testutil.RequireFinite(t, out)
	assert.InDelta(t, 1.0, testutil.Peak(out), 1e-12)
}

func TestSynthesizeIndependentOfWorkerCount(t *testing.T) {
	tr := &Trace{Samples: testutil.Noise(3, 1, 800), Dt: 0.1}

	serial, _ := testSynth(t, tr, WithBands(7), WithWorkers(1))
	parallel, _ := testSynth(t, tr, WithBands(7), WithWorkers(4))

	a, err := serial.Synthesize(tr)
	require.NoError(t, err)
	b, err := parallel.Synthesize(tr)
	require.NoError(t, err)

	assert.Equal(t, a, b, "reduction order must not depend on scheduling")
}

func TestSynthesizeSingleBandFollowsEnvelope(t *testing.T) {
	// A 1 Hz tone under a Gaussian centred at 50 s.
	samples := testutil.GaussianBurst(1, 10, 50, 10, 1000)
	tr := &Trace{Samples: samples, Dt: 0.1}
	synth, plan := testSynth(t, tr, WithBands(1), WithSpectralWeighting(false))

	out, err := synth.Synthesize(tr)
	require.NoError(t, err)

	got, err := envelope.Envelope(out)
	require.NoError(t, err)

	want := make([]float64, plan.AudioLen)
	for i := range want {
		x := (float64(i)*plan.AudioDt - 50) / 10
		want[i] = math.Exp(-0.5 * x * x)
	}

	assert.Greater(t, testutil.Correlation(got, want), 0.9)

	// Silence in the source stays silent in the band.
	edge := testutil.Peak(out[:plan.AudioLen/20])
	assert.Less(t, edge, 1e-3)
}

func TestSynthesizeWithSpectralWeighting(t *testing.T) {
	tr := sineTrace(2, 0.1, 1000)
	synth, _ := testSynth(t, tr, WithBands(5), WithSpectralWeighting(true))

	out, err := synth.Synthesize(tr)
	require.NoError(t, err)
	testutil.RequireFinite(t, out)
	assert.InDelta(t, 1.0, testutil.Peak(out), 1e-12)
}

func TestBandEnvelopeIgnoresBandsWithoutContent(t *testing.T) {
	// A 1 Hz trace: only the lowest of four bands up to 5 Hz holds energy,
	// and the top band reaches Nyquist.
	tr := sineTrace(1, 0.1, 1000)
	synth, plan := testSynth(t, tr, WithBands(4), WithBandpassEnvelope(true))
	bands := synth.Bands()
	require.Len(t, bands, 4)
	require.Less(t, bands[0].Low, 1.0)
	require.Greater(t, bands[0].High, 1.0)
	require.InDelta(t, tr.Nyquist(), bands[3].High, 1e-9)

	peaks := make([]float64, len(bands))
	for i, band := range bands {
		env, err := synth.bandEnvelope(band, tr)
		require.NoError(t, err, "band %d", i)
		require.Len(t, env, plan.AudioLen)
		testutil.RequireFinite(t, env)
		peaks[i] = testutil.Peak(env)
	}

	assert.Greater(t, peaks[0], 0.5, "in-band envelope")
	for i := 2; i < len(bands); i++ {
		assert.Less(t, peaks[i], 0.01*peaks[0], "band %d has no content", i)
	}
	assert.Less(t, peaks[1], peaks[0])
}

func TestSynthesizeWithBandpassEnvelope(t *testing.T) {
	tr := sineTrace(1, 0.1, 1000)
	synth, plan := testSynth(t, tr, WithBands(4), WithBandpassEnvelope(true))

	out, err := synth.Synthesize(tr)
	require.NoError(t, err)
	require.Len(t, out, plan.AudioLen)
	testutil.RequireFinite(t, out)
	assert.InDelta(t, 1.0, testutil.Peak(out), 1e-12)
}

func TestBandpassEnvelopeDefaultsOff(t *testing.T) {
	assert.False(t, DefaultConfig().BandpassEnvelope)

	cfg, err := ParseConfig([]byte("bandpass_envelope: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.BandpassEnvelope)
}

func TestNewBandSynthesizerRejectsEmptyRange(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewBandSynthesizer(cfg, &Plan{BandMin: 1, BandMax: 1, SpeedUp: 1, AudioDt: 1}, 0)
	require.ErrorIs(t, err, ErrInvalidFrequencyRange)
}
