// Package spectrum implements the frequency analysis used to shape
// synthesized bands: one-sided amplitude spectra of traces, nearest-bin
// lookup, and the time-localized amplitude of a single frequency over a
// sliding window.
package spectrum
