package fourier

import (
	"math"
	"math/cmplx"
	"sync"
	"testing"
)

func naiveDFT(x []complex128) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range out {
		var sum complex128
		for i, v := range x {
			angle := -2 * math.Pi * float64(k*i) / float64(n)
			sum += v * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}

func testSignal(n int) []complex128 {
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(0.3*float64(i))+0.25*float64(i%3), math.Cos(0.7*float64(i)))
	}
	return x
}

func TestFFTMatchesNaiveDFT(t *testing.T) {
	for _, n := range []int{1, 2, 8, 12, 64, 100, 101} {
		x := testSignal(n)
		want := naiveDFT(x)

		got := make([]complex128, n)
		if err := FFT(got, x); err != nil {
			t.Fatalf("FFT(n=%d) error = %v", n, err)
		}
		for k := range want {
			if cmplx.Abs(got[k]-want[k]) > 1e-9*float64(n) {
				t.Fatalf("FFT(n=%d)[%d] = %v, want %v", n, k, got[k], want[k])
			}
		}
	}
}

func TestIFFTRoundTrip(t *testing.T) {
	for _, n := range []int{16, 30, 8192} {
		x := testSignal(n)
		spec := make([]complex128, n)
		if err := FFT(spec, x); err != nil {
			t.Fatalf("FFT() error = %v", err)
		}
		if err := IFFT(spec, spec); err != nil {
			t.Fatalf("IFFT() error = %v", err)
		}
		for i := range x {
			if cmplx.Abs(spec[i]-x[i]) > 1e-9 {
				t.Fatalf("n=%d round trip [%d] = %v, want %v", n, i, spec[i], x[i])
			}
		}
	}
}

func TestFFTLengthMismatch(t *testing.T) {
	if err := FFT(make([]complex128, 4), make([]complex128, 8)); err == nil {
		t.Fatal("FFT() expected error for mismatched lengths")
	}
}

func TestRFFTPureTone(t *testing.T) {
	const n = 100
	x := make([]float64, n)
	for i := range x {
		x[i] = 2 * math.Cos(2*math.Pi*5*float64(i)/n)
	}

	spec := RFFT(x)
	if len(spec) != n/2+1 {
		t.Fatalf("len(RFFT) = %d, want %d", len(spec), n/2+1)
	}
	if got := cmplx.Abs(spec[5]); math.Abs(got-n) > 1e-9 {
		t.Fatalf("|RFFT[5]| = %v, want %v", got, float64(n))
	}
}

func TestRFFTFreq(t *testing.T) {
	freqs := RFFTFreq(10, 0.1)
	want := []float64{0, 1, 2, 3, 4, 5}
	if len(freqs) != len(want) {
		t.Fatalf("len(RFFTFreq) = %d, want %d", len(freqs), len(want))
	}
	for i := range want {
		if math.Abs(freqs[i]-want[i]) > 1e-12 {
			t.Fatalf("RFFTFreq[%d] = %v, want %v", i, freqs[i], want[i])
		}
	}
	if RFFTFreq(0, 1) != nil || RFFTFreq(4, 0) != nil {
		t.Fatal("RFFTFreq should return nil for degenerate input")
	}
}

func TestIsPowerOf2(t *testing.T) {
	tests := []struct {
		n  int
		is bool
	}{
		{0, false}, {1, true}, {3, false}, {8, true}, {1000, false}, {1024, true},
	}
	for _, tt := range tests {
		if got := IsPowerOf2(tt.n); got != tt.is {
			t.Fatalf("IsPowerOf2(%d) = %v, want %v", tt.n, got, tt.is)
		}
	}
}

func TestConcurrentTransforms(t *testing.T) {
	x := testSignal(256)
	want := make([]complex128, len(x))
	if err := FFT(want, x); err != nil {
		t.Fatalf("FFT() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := make([]complex128, len(x))
			if err := FFT(got, x); err != nil {
				errs <- err.Error()
				return
			}
			for k := range got {
				if got[k] != want[k] {
					errs <- "concurrent FFT result differs"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}
