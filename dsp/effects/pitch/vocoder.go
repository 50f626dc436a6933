package pitch

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sonify/dsp/core"
	"github.com/cwbudde/algo-sonify/dsp/fourier"
	"github.com/cwbudde/algo-sonify/dsp/window"
)

const (
	// DefaultWindowSize is the analysis frame length in samples.
	DefaultWindowSize = 1 << 13
	// DefaultHop is the offset between the current and look-ahead frames.
	DefaultHop = 1 << 11

	minWindowSize = 4
)

// PhaseVocoder time-stretches mono signals.
//
// Frames of WindowSize samples are taken every Hop*factor samples from the
// input, padded by WindowSize/2 on both sides. Each frame is compared with
// the frame Hop samples later; the bin-wise phase difference is accumulated
// modulo 2*pi and the later frame's magnitudes are resynthesized with the
// accumulated phase at round(position/factor) in the output.
//
// A PhaseVocoder holds no per-call state and is safe for concurrent use.
type PhaseVocoder struct {
	windowSize int
	hop        int
	window     []float64
}

// NewPhaseVocoder returns a vocoder with the given frame length and hop.
// An odd windowSize is rounded up to even.
func NewPhaseVocoder(windowSize, hop int) (*PhaseVocoder, error) {
	windowSize = core.EvenCeil(windowSize)
	if windowSize < minWindowSize {
		return nil, fmt.Errorf("phase vocoder window size must be >= %d: %d", minWindowSize, windowSize)
	}
	if hop < 1 || hop > windowSize {
		return nil, fmt.Errorf("phase vocoder hop must be in [1, %d]: %d", windowSize, hop)
	}

	win, err := window.Hann(windowSize)
	if err != nil {
		return nil, fmt.Errorf("phase vocoder window: %w", err)
	}

	return &PhaseVocoder{windowSize: windowSize, hop: hop, window: win}, nil
}

// WindowSize returns the frame length in samples.
func (v *PhaseVocoder) WindowSize() int { return v.windowSize }

// Hop returns the look-ahead offset in samples.
func (v *PhaseVocoder) Hop() int { return v.hop }

// OutputLength returns the length Stretch allocates for n input samples:
// int(n/factor) + WindowSize.
func (v *PhaseVocoder) OutputLength(n int, factor float64) int {
	return int(float64(n)/factor) + v.windowSize
}

// Stretch returns in stretched in time by 1/factor: factor < 1 lengthens the
// signal, factor > 1 shortens it. The result has OutputLength samples, the
// first WindowSize/2 of which correspond to the leading pad. Inputs shorter
// than WindowSize+Hop still produce one frame.
func (v *PhaseVocoder) Stretch(in []float64, factor float64) ([]float64, error) {
	if !core.IsFinitePositive(factor) {
		return nil, fmt.Errorf("phase vocoder factor must be positive and finite: %f", factor)
	}

	w := v.windowSize
	h := v.hop

	padded := make([]float64, len(in)+w)
	copy(padded[w/2:], in)
	sample := func(i int) float64 {
		if i < len(padded) {
			return padded[i]
		}
		return 0
	}

	out := make([]float64, v.OutputLength(len(in), factor))
	phase := make([]float64, w)
	ft1 := make([]complex128, w)
	ft2 := make([]complex128, w)

	step := max(1, int(float64(h)*factor))
	limit := len(padded) - (w + h)

	for i := 0; i == 0 || i < limit; i += step {
		for k := range w {
			ft1[k] = complex(v.window[k]*sample(i+k), 0)
			ft2[k] = complex(v.window[k]*sample(i+h+k), 0)
		}
		if err := fourier.FFT(ft1, ft1); err != nil {
			return nil, fmt.Errorf("phase vocoder: %w", err)
		}
		if err := fourier.FFT(ft2, ft2); err != nil {
			return nil, fmt.Errorf("phase vocoder: %w", err)
		}

		for k := range w {
			ref := ft1[k]
			if ref == 0 {
				ref = 1
			}
			phase[k] = wrapPhase(phase[k] + cmplx.Phase(ft2[k]/ref))
			ft2[k] = cmplx.Rect(cmplx.Abs(ft2[k]), phase[k])
		}
		if err := fourier.IFFT(ft2, ft2); err != nil {
			return nil, fmt.Errorf("phase vocoder: %w", err)
		}

		pos := int(math.Round(float64(i) / factor))
		n := min(w, len(out)-pos)
		for k := 0; k < n; k++ {
			out[pos+k] += v.window[k] * real(ft2[k])
		}
	}

	return out, nil
}

// wrapPhase maps x into [0, 2*pi).
func wrapPhase(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}
