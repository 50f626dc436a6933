package window

import "fmt"

// TaperCoefficients returns an n-point edge taper: Hann half-windows of
// int(percentage*n) samples at each end and unity in between.
func TaperCoefficients(n int, percentage float64) ([]float64, error) {
	if percentage < 0 || percentage > 0.5 {
		return nil, fmt.Errorf("taper percentage must be in [0,0.5]: %f", percentage)
	}
	if n <= 0 {
		return nil, nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}

	wlen := int(percentage * float64(n))
	if wlen == 0 {
		return out, nil
	}

	// Halves of a symmetric Hann of length 2*wlen+1.
	side := hann(2*wlen + 1)
	for i := range wlen {
		out[i] = side[i]
		out[n-wlen+i] = side[wlen+1+i]
	}
	return out, nil
}

// Taper applies TaperCoefficients to buf in place.
func Taper(buf []float64, percentage float64) error {
	coeffs, err := TaperCoefficients(len(buf), percentage)
	if err != nil {
		return err
	}
	if len(coeffs) == 0 {
		return nil
	}
	return ApplyCoefficientsInPlace(buf, coeffs)
}
