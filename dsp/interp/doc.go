// Package interp re-grids uniformly sampled signals.
//
// Traces arrive at their recording interval and have to be played back at
// an audio rate; [Uniform] resamples them onto a new sample interval with
// either [Linear2] or [Hermite4] kernels.
package interp
