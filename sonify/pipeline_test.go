package sonify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-sonify/internal/testutil"
)

func e2eConfig(opts ...Option) PipelineConfig {
	base := []Option{WithAudioRange(20, 1000), WithSampleRate(4000), WithBands(8)}
	return NewConfig(append(base, opts...)...)
}

func TestPipelineEndToEndSine(t *testing.T) {
	// 1000 samples at dt = 0.1 s: 100 s of a 1 Hz tone, Nyquist 5 Hz.
	tr := sineTrace(1, 0.1, 1000)
	orig := tr.Copy()

	p, err := NewPipeline(e2eConfig())
	require.NoError(t, err)

	res, err := p.Run(tr, 10)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, res.Plan.SpeedUp, 1e-9)
	assert.Equal(t, 52, res.Plan.Semitones)
	assert.Equal(t, "IU.ANMO.BXZ.", res.Name)
	assert.Equal(t, orig.Samples, tr.Samples, "input trace must not change")

	const window = 8192
	for name, buf := range map[string]interface{ Len() int }{
		"raw": res.Raw, "pitched": res.Pitched, "augmented": res.Augmented, "mono": res.Mono, "stereo": res.Stereo,
	} {
		assert.InDelta(t, 4000*10, buf.Len(), window, name)
	}
	assert.Equal(t, 4000.0, res.Stereo.SampleRate())
	assert.Equal(t, 2, res.Stereo.Channels())

	// The 1 Hz tone plays at 10 Hz and is shifted up by 2^(52/12).
	want := 10 * res.Plan.PitchRatio
	got := testutil.DominantFrequency(res.Pitched.Channel(0), 4000)
	assert.InDelta(t, want, got, 0.02*want)
	assert.GreaterOrEqual(t, got, 20.0)
	assert.LessOrEqual(t, got, 1000.0)

	// The raw layer keeps the sped-up frequency.
	assert.InDelta(t, 10.0, testutil.DominantFrequency(res.Raw.Channel(0), 4000), 0.5)

	assert.InDelta(t, 1.0, res.Pitched.Peak(), 1e-12)
	assert.InDelta(t, 1.0, res.Augmented.Peak(), 1e-12)
	require.Len(t, res.Bands, 8)
	assert.InDelta(t, res.Plan.BandMax, res.Bands[7].High, 1e-9)
	for c := range 2 {
		testutil.RequireFinite(t, res.Stereo.Channel(c))
		testutil.RequireBounded(t, res.Stereo.Channel(c), 1)
	}
	assert.Zero(t, res.NoiseSeed)
}

func TestPipelineWithoutReverbKeepsHeadroom(t *testing.T) {
	tr := sineTrace(0.5, 0.1, 600)
	p, err := NewPipeline(e2eConfig(WithoutReverb(), WithAugmented(false)))
	require.NoError(t, err)

	res, err := p.Run(tr, 6)
	require.NoError(t, err)

	assert.Nil(t, res.Augmented)
	assert.Nil(t, res.Bands)
	assert.InDelta(t, DefaultHeadroom, res.Mono.Peak(), 1e-12)
	assert.Equal(t, res.Mono.Channel(0), res.Stereo.Channel(0))
}

func TestPipelineSeededNoiseIsReproducible(t *testing.T) {
	tr := sineTrace(0.5, 0.1, 600)
	cfg := e2eConfig(WithNoise(0.5), WithSeed(42), WithLocalization(0.9, 0.5))

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	a, err := p.Run(tr, 6)
	require.NoError(t, err)
	b, err := p.Run(tr, 6)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), a.NoiseSeed)
	assert.Equal(t, a.Mono.Channel(0), b.Mono.Channel(0))

	left, right := a.Stereo.Channel(0), a.Stereo.Channel(1)
	for i := range left {
		if math.Abs(left[i]*0.5/0.9-right[i]) > 1e-12 {
			t.Fatalf("sample %d: right %v is not 5/9 of left %v", i, right[i], left[i])
		}
	}
}

func TestPipelineUnseededNoiseReportsSeed(t *testing.T) {
	tr := sineTrace(0.5, 0.1, 600)
	p, err := NewPipeline(e2eConfig(WithNoise(0.5)))
	require.NoError(t, err)

	res, err := p.Run(tr, 6)
	require.NoError(t, err)

	replay, err := NewPipeline(e2eConfig(WithNoise(0.5), WithSeed(res.NoiseSeed)))
	require.NoError(t, err)
	again, err := replay.Run(tr, 6)
	require.NoError(t, err)
	assert.Equal(t, res.Mono.Channel(0), again.Mono.Channel(0))
}

func TestPipelineTrimsNegativeStart(t *testing.T) {
	tr := sineTrace(0.5, 0.1, 700)
	tr.T0 = -10

	p, err := NewPipeline(e2eConfig())
	require.NoError(t, err)
	res, err := p.Run(tr, 6)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, res.Plan.TraceDuration, 1e-9)
	assert.Equal(t, -10.0, tr.T0)
}

func TestPipelineErrors(t *testing.T) {
	_, err := NewPipeline(NewConfig(WithBands(-1)))
	require.ErrorIs(t, err, ErrConfiguration)

	p, err := NewPipeline(e2eConfig())
	require.NoError(t, err)

	var se *StageError

	_, err = p.Run(&Trace{Samples: make([]float64, 100), Dt: 0.1}, 5)
	require.ErrorIs(t, err, ErrInvalidTrace)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageValidate, se.Stage)

	_, err = p.Run(&Trace{Samples: []float64{1}, Dt: 0.1}, 5)
	require.ErrorIs(t, err, ErrInvalidTrace)

	_, err = p.Run(&Trace{Samples: []float64{1, -1}, Dt: 0.1}, 5)
	require.ErrorIs(t, err, ErrInvalidFrequencyRange)

	_, err = p.Run(sineTrace(1, 0.1, 100), -1)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestStageErrorMessage(t *testing.T) {
	err := stageErr(StageReverb, ErrConfiguration)
	assert.EqualError(t, err, "sonify: reverb stage: sonify: invalid configuration")
	assert.Same(t, err, stageErr(StageMix, err), "existing stage is kept")
	assert.NoError(t, stageErr(StageMix, nil))
}
