// Package signal synthesizes the band tones used for sonic augmentation and
// provides peak normalization.
package signal
