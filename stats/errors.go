package stats

import "errors"

var (
	// ErrInvalidInput is returned by Observe for NaN or infinite values.
	ErrInvalidInput = errors.New("observation is not a finite number")

	// ErrEmptyAccumulator is returned when querying an accumulator that
	// has seen no observations.
	ErrEmptyAccumulator = errors.New("accumulator is empty")

	// ErrInsufficientSamples is returned by Variance when ddof leaves a
	// non-positive divisor.
	ErrInsufficientSamples = errors.New("not enough observations for requested ddof")
)
