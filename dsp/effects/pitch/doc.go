// Package pitch moves trace content into the audible range.
//
// [PhaseVocoder] time-stretches a signal by an arbitrary factor while keeping
// its frequency content, carrying per-bin phase across overlapping Hann
// frames. [PitchShifter] stretches by 1/ratio and then speeds the result up
// by ratio, which scales every frequency by ratio at the original duration.
//
// Build with -tags fastmath to compute semitone ratios with algo-approx.
package pitch
