package dither

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Quantizer maps samples in [-1, 1] to signed integer codes of a fixed bit
// depth. It is not safe for concurrent use.
type Quantizer struct {
	bitDepth        int
	ditherType      DitherType
	ditherAmplitude float64
	seed            int64

	tpdf *vecmath.DitherState
	rng  *rand.Rand

	fullScale float64
	limitLo   int
	limitHi   int
}

// NewQuantizer creates a Quantizer. The default is 16 bit with triangular
// dither of 1 LSB peak and a fixed seed.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	q := &Quantizer{
		bitDepth:        16,
		ditherType:      DitherTriangular,
		ditherAmplitude: 1,
		seed:            1,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(q); err != nil {
			return nil, err
		}
	}

	full := math.Exp2(float64(q.bitDepth-1)) - 1
	q.fullScale = full
	q.limitLo = -int(full) - 1
	q.limitHi = int(full)
	q.tpdf = vecmath.NewDitherState(q.seed)
	q.rng = rand.New(rand.NewPCG(uint64(q.seed), 0))
	return q, nil
}

// BitDepth returns the PCM word length.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise PDF.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// DitherAmplitude returns the peak dither noise in LSB.
func (q *Quantizer) DitherAmplitude() float64 { return q.ditherAmplitude }

// FullScale returns the code that 1.0 maps to, 2^(bits-1)-1.
func (q *Quantizer) FullScale() int { return q.limitHi }

// QuantizeBlock writes the integer codes of src into dst, clamped to the
// bit-depth range. NaN samples are not allowed.
func (q *Quantizer) QuantizeBlock(dst []int, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("dither: dst and src lengths differ: %d != %d", len(dst), len(src))
	}
	if len(src) == 0 {
		return nil
	}

	scaled := make([]float64, len(src))
	vecmath.ScaleBlock(scaled, src, q.fullScale)

	if q.ditherAmplitude > 0 {
		switch q.ditherType {
		case DitherTriangular:
			vecmath.AddDitherTPDF(scaled, q.ditherAmplitude, q.tpdf)
		case DitherRectangular:
			for i := range scaled {
				scaled[i] += q.ditherAmplitude * (q.rng.Float64()*2 - 1)
			}
		}
	}

	lo, hi := float64(q.limitLo), float64(q.limitHi)
	for i, v := range scaled {
		dst[i] = int(core.Clamp(math.RoundToEven(v), lo, hi))
	}
	return nil
}

// Dequantize returns the normalized value of code.
func (q *Quantizer) Dequantize(code int) float64 {
	return float64(code) / q.fullScale
}
