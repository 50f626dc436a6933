package core

// DefaultSampleRate is the sonification output rate in Hz.
const DefaultSampleRate = 32000

// Clock places samples on a time axis: sample i sits at Start + i/SampleRate.
type Clock struct {
	SampleRate float64
	Start      float64
}

// ClockOption adjusts a Clock.
type ClockOption func(*Clock)

// WithSampleRate sets the clock rate. Non-finite or non-positive rates are
// ignored.
func WithSampleRate(sampleRate float64) ClockOption {
	return func(c *Clock) {
		if IsFinitePositive(sampleRate) {
			c.SampleRate = sampleRate
		}
	}
}

// WithStartTime sets the time of sample zero in seconds.
func WithStartTime(t0 float64) ClockOption {
	return func(c *Clock) {
		if IsFinite(t0) {
			c.Start = t0
		}
	}
}

// NewClock returns a clock at DefaultSampleRate starting at zero, adjusted by
// opts.
func NewClock(opts ...ClockOption) Clock {
	c := Clock{SampleRate: DefaultSampleRate}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// At returns the time of sample i.
func (c Clock) At(i int) float64 {
	return c.Start + float64(i)/c.SampleRate
}
