package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-sonify/dsp/resample"
)

// PitchShifter shifts pitch by a number of semitones without changing
// duration.
type PitchShifter struct {
	vocoder   *PhaseVocoder
	semitones float64
}

// NewPitchShifter creates a shifter over a PhaseVocoder with the given
// frame length and hop, initially set to no shift.
func NewPitchShifter(windowSize, hop int) (*PitchShifter, error) {
	v, err := NewPhaseVocoder(windowSize, hop)
	if err != nil {
		return nil, err
	}
	return &PitchShifter{vocoder: v}, nil
}

// Vocoder returns the underlying PhaseVocoder.
func (p *PitchShifter) Vocoder() *PhaseVocoder { return p.vocoder }

// PitchSemitones returns the configured shift.
func (p *PitchShifter) PitchSemitones() float64 { return p.semitones }

// PitchRatio returns 2^(semitones/12).
func (p *PitchShifter) PitchRatio() float64 { return RatioForSemitones(p.semitones) }

// SetPitchSemitones sets the shift in semitones.
func (p *PitchShifter) SetPitchSemitones(semitones float64) error {
	if !core.IsFinite(semitones) {
		return fmt.Errorf("pitch shifter semitones must be finite: %f", semitones)
	}
	if r := RatioForSemitones(semitones); !core.IsFinitePositive(r) || !core.IsFinitePositive(1/r) {
		return fmt.Errorf("pitch shifter semitones out of range: %f", semitones)
	}
	p.semitones = semitones
	return nil
}

// Process stretches in by 1/ratio, drops the WindowSize leading samples the
// vocoder adds and speeds the remainder up by ratio. The result has about
// len(in) samples; it is not bit-exact even for a zero shift.
func (p *PitchShifter) Process(in []float64) ([]float64, error) {
	ratio := p.PitchRatio()

	stretched, err := p.vocoder.Stretch(in, 1/ratio)
	if err != nil {
		return nil, fmt.Errorf("pitch shift by %g semitones: %w", p.semitones, err)
	}

	w := p.vocoder.WindowSize()
	if len(stretched) <= w {
		return []float64{}, nil
	}

	out, err := resample.Speedup(stretched[w:], ratio)
	if err != nil {
		return nil, fmt.Errorf("pitch shift by %g semitones: %w", p.semitones, err)
	}
	return out, nil
}

// RatioForSemitones returns the frequency ratio 2^(n/12).
func RatioForSemitones(n float64) float64 {
	return semitoneRatio(n)
}

// SemitonesFor returns the whole number of semitones that moves sourceHz
// closest to targetHz: round(12*log2(target/source)), half to even.
func SemitonesFor(targetHz, sourceHz float64) (int, error) {
	if !core.IsFinitePositive(targetHz) || !core.IsFinitePositive(sourceHz) {
		return 0, fmt.Errorf("semitone frequencies must be positive and finite: target=%f source=%f", targetHz, sourceHz)
	}
	return int(math.RoundToEven(semitonesBetween(sourceHz, targetHz))), nil
}
