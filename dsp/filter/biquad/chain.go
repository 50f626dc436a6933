package biquad

import "slices"

// Chain is a series cascade of sections. It is not safe for concurrent use.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade with one section per coefficient set.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}
	return c
}

// ProcessBlock filters buf in place through the cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears every delay line.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// ZeroPhase filters buf in place forward and then backward, each pass from
// zero state. The result has no phase shift and the squared magnitude
// response. The chain is left reset.
func (c *Chain) ZeroPhase(buf []float64) {
	c.Reset()
	c.ProcessBlock(buf)
	slices.Reverse(buf)
	c.Reset()
	c.ProcessBlock(buf)
	slices.Reverse(buf)
	c.Reset()
}
