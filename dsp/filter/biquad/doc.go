// Package biquad runs cascades of second-order IIR sections.
//
// A [Section] processes in Direct Form II Transposed. A [Chain] cascades
// sections and can filter a block forward and backward for zero phase.
// Coefficient design lives in dsp/filter/design/band.
package biquad
