// Package reverb provides the Schroeder reverberator applied to the mixed
// sonification signal: four parallel comb filters followed by two
// cascaded all-pass filters, processed offline over whole buffers.
package reverb
