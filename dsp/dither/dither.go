// Package dither turns normalized float samples into integer PCM codes,
// optionally adding sub-LSB noise to decorrelate the rounding error.
package dither

import (
	"fmt"
	"math"
)

// DitherType selects the probability distribution of the dither noise.
type DitherType int

const (
	DitherNone        DitherType = iota // plain rounding
	DitherRectangular                   // uniform on [-a, a]
	DitherTriangular                    // TPDF, sum of two uniforms
)

func (dt DitherType) String() string {
	switch dt {
	case DitherNone:
		return "None"
	case DitherRectangular:
		return "Rectangular"
	case DitherTriangular:
		return "Triangular"
	}
	return fmt.Sprintf("DitherType(%d)", int(dt))
}

// Option adjusts a Quantizer before its scaling and noise sources are
// derived.
type Option func(*Quantizer) error

// WithBitDepth sets the PCM word length, 8 to 32 bits.
func WithBitDepth(bits int) Option {
	return func(q *Quantizer) error {
		if bits < 8 || bits > 32 {
			return fmt.Errorf("dither: bit depth must be in [8, 32]: %d", bits)
		}
		q.bitDepth = bits
		return nil
	}
}

// WithDitherType sets the noise distribution.
func WithDitherType(dt DitherType) Option {
	return func(q *Quantizer) error {
		if dt < DitherNone || dt > DitherTriangular {
			return fmt.Errorf("dither: invalid dither type: %d", int(dt))
		}
		q.ditherType = dt
		return nil
	}
}

// WithDitherAmplitude sets the peak noise in LSB.
func WithDitherAmplitude(lsb float64) Option {
	return func(q *Quantizer) error {
		if !(lsb >= 0) || math.IsInf(lsb, 0) {
			return fmt.Errorf("dither: amplitude must be >= 0 and finite: %f", lsb)
		}
		q.ditherAmplitude = lsb
		return nil
	}
}

// WithSeed seeds the noise sources. Equal seeds and settings give equal
// codes.
func WithSeed(seed int64) Option {
	return func(q *Quantizer) error {
		q.seed = seed
		return nil
	}
}
