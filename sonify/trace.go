package sonify

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-sonify/dsp/core"
)

// Trace is a uniformly sampled displacement time series. Pipeline stages
// read it and never modify it.
type Trace struct {
	Samples []float64
	// Dt is the sample interval in seconds.
	Dt float64
	// T0 is the time of the first sample in seconds.
	T0 float64

	Network string
	Station string
	Channel string
}

// Len returns the sample count.
func (t *Trace) Len() int { return len(t.Samples) }

// Duration returns n*dt in seconds.
func (t *Trace) Duration() float64 { return float64(len(t.Samples)) * t.Dt }

// SampleRate returns 1/dt in Hz.
func (t *Trace) SampleRate() float64 { return 1 / t.Dt }

// Nyquist returns 1/(2*dt) in Hz.
func (t *Trace) Nyquist() float64 { return 0.5 / t.Dt }

// Time returns the time of sample i.
func (t *Trace) Time(i int) float64 { return t.T0 + float64(i)*t.Dt }

// Name returns the "NET.STA.CHA." prefix used for output files. Missing
// fields are left empty; a trace without metadata yields "".
func (t *Trace) Name() string {
	if t.Network == "" && t.Station == "" && t.Channel == "" {
		return ""
	}
	return strings.Join([]string{t.Network, t.Station, t.Channel, ""}, ".")
}

// Copy returns a deep copy.
func (t *Trace) Copy() *Trace {
	c := *t
	c.Samples = core.Clone(t.Samples)
	return &c
}

// Validate checks the trace invariants. Failures wrap ErrInvalidTrace.
func (t *Trace) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil trace", ErrInvalidTrace)
	}
	if len(t.Samples) < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidTrace, len(t.Samples))
	}
	if !core.IsFinitePositive(t.Dt) {
		return fmt.Errorf("%w: sample interval must be positive and finite: %g", ErrInvalidTrace, t.Dt)
	}
	if !core.IsFinite(t.T0) {
		return fmt.Errorf("%w: start time must be finite: %g", ErrInvalidTrace, t.T0)
	}

	silent := true
	for i, v := range t.Samples {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: sample %d is not finite: %g", ErrInvalidTrace, i, v)
		}
		if v != 0 {
			silent = false
		}
	}
	if silent {
		return fmt.Errorf("%w: all samples are zero", ErrInvalidTrace)
	}
	return nil
}

// TrimNegativeStart returns a copy starting at the first sample with
// t >= 0, so audio lines up with the event origin. Traces that already start
// at or after zero are copied unchanged.
func (t *Trace) TrimNegativeStart() *Trace {
	c := t.Copy()
	if t.T0 >= 0 || !core.IsFinitePositive(t.Dt) {
		return c
	}

	k := int(-t.T0 / t.Dt)
	if t.Time(k) < -1e-9*t.Dt {
		k++
	}
	k = min(k, len(t.Samples))

	c.Samples = c.Samples[k:]
	c.T0 = t.Time(k)
	if math.Abs(c.T0) < 1e-9*t.Dt {
		c.T0 = 0
	}
	return c
}
