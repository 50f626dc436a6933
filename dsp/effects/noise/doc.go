// Package noise adds phase-randomized broadband noise to a signal.
//
// The noise is the real part of the inverse DFT of a unit-magnitude spectrum
// whose phases are drawn uniformly from [0, 2*pi). Output is reproducible
// only when the Injector is built with WithSeed.
package noise
