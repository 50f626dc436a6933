// Package envelope extracts amplitude envelopes from real signals via the
// FFT-based analytic signal.
//
// Build with -tags fastmath to use algo-approx for the magnitude square
// root; the default build uses the standard library.
package envelope
