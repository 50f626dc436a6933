// Package resample changes playback speed by nearest-index selection.
//
// [Speedup] keeps every factor-th sample (fractional factors select the
// nearest index) and applies no anti-aliasing filter, so content above the
// new Nyquist folds back. The sonification path pairs it with a
// time-stretch, which leaves the band of interest well below that limit.
package resample
