package sonify

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTrace reports a trace that cannot be sonified: fewer than two
	// samples, a non-positive sample interval or an all-zero signal.
	ErrInvalidTrace = errors.New("sonify: invalid trace")

	// ErrInvalidFrequencyRange reports a band range with fmin >= fmax.
	ErrInvalidFrequencyRange = errors.New("sonify: invalid frequency range")

	// ErrConfiguration reports an out-of-range pipeline parameter.
	ErrConfiguration = errors.New("sonify: invalid configuration")
)

// ConfigError names the offending configuration parameter.
type ConfigError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sonify: config %s = %v: %s", e.Param, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// Stage names used in StageError.
const (
	StageValidate  = "validate"
	StagePitched   = "pitched"
	StageAugmented = "augmented"
	StageMix       = "mix"
	StageReverb    = "reverb"
	StageNoise     = "noise"
)

// StageError wraps a failure with the pipeline stage it occurred in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("sonify: %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}
