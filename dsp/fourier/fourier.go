package fourier

import (
	"errors"
	"fmt"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

var errLengthMismatch = errors.New("fourier: dst and src lengths differ")

var (
	powPlans   sync.Map // int -> *sync.Pool of *algofft.Plan[complex128]
	cmplxPlans sync.Map // int -> *sync.Pool of *fourier.CmplxFFT
	realPlans  sync.Map // int -> *sync.Pool of *fourier.FFT
)

func pool(m *sync.Map, n int, mk func() any) *sync.Pool {
	if p, ok := m.Load(n); ok {
		return p.(*sync.Pool)
	}
	fresh := &sync.Pool{}
	if mk != nil {
		fresh.New = mk
	}
	p, _ := m.LoadOrStore(n, fresh)
	return p.(*sync.Pool)
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func powPlan(n int) (*algofft.Plan[complex128], error) {
	if v := pool(&powPlans, n, nil).Get(); v != nil {
		return v.(*algofft.Plan[complex128]), nil
	}
	return algofft.NewPlan64(n)
}

// FFT computes the forward DFT of src into dst. dst and src may alias.
func FFT(dst, src []complex128) error {
	return transform(dst, src, false)
}

// IFFT computes the inverse DFT of src into dst, scaled by 1/N.
// dst and src may alias.
func IFFT(dst, src []complex128) error {
	return transform(dst, src, true)
}

func transform(dst, src []complex128, inverse bool) error {
	n := len(src)
	if len(dst) != n {
		return fmt.Errorf("%w: %d != %d", errLengthMismatch, len(dst), n)
	}
	if n == 0 {
		return nil
	}
	if n == 1 {
		dst[0] = src[0]
		return nil
	}

	if IsPowerOf2(n) {
		plan, err := powPlan(n)
		if err != nil {
			return fmt.Errorf("fourier: failed to create FFT plan of size %d: %w", n, err)
		}
		defer pool(&powPlans, n, nil).Put(plan)

		if inverse {
			if err := plan.Inverse(dst, src); err != nil {
				return fmt.Errorf("fourier: inverse FFT failed: %w", err)
			}
			return nil
		}
		if err := plan.Forward(dst, src); err != nil {
			return fmt.Errorf("fourier: forward FFT failed: %w", err)
		}
		return nil
	}

	p := pool(&cmplxPlans, n, func() any { return fourier.NewCmplxFFT(n) })
	plan := p.Get().(*fourier.CmplxFFT)
	defer p.Put(plan)

	if !inverse {
		plan.Coefficients(dst, src)
		return nil
	}

	plan.Sequence(dst, src)
	scale := complex(1/float64(n), 0)
	for i := range dst {
		dst[i] *= scale
	}
	return nil
}

// RFFT returns the one-sided spectrum (n/2+1 bins) of the real sequence x.
// The result is unnormalized.
func RFFT(x []float64) []complex128 {
	n := len(x)
	if n == 0 {
		return nil
	}
	p := pool(&realPlans, n, func() any { return fourier.NewFFT(n) })
	plan := p.Get().(*fourier.FFT)
	defer p.Put(plan)

	return plan.Coefficients(nil, x)
}

// RFFTFreq returns the frequency axis in Hz for an n-sample real spectrum
// sampled every dt seconds.
func RFFTFreq(n int, dt float64) []float64 {
	if n <= 0 || dt <= 0 {
		return nil
	}
	freqs := make([]float64, n/2+1)
	step := 1 / (float64(n) * dt)
	for i := range freqs {
		freqs[i] = float64(i) * step
	}
	return freqs
}
