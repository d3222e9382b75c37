package core

import (
	"errors"
	"fmt"
	"math"
)

var ErrorUnknownEncoding = errors.New("unknown state representation")

// InsufficientDataError is returned when a series has fewer samples than an
// operation can work with.
type InsufficientDataError struct {
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d sample(s), got %d", e.Need, e.Got)
}

// DimensionMismatchError is returned when a sample does not have the
// dimensionality of the series or of the normalization ranges.
type DimensionMismatchError struct {
	Index int // sample index, -1 when not tied to a sample
	Want  int
	Got   int
}

func (e *DimensionMismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("dimension mismatch: want %d, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("dimension mismatch at sample %d: want %d, got %d", e.Index, e.Want, e.Got)
}

// InvalidSampleError is returned when a sample holds NaN or an infinity.
type InvalidSampleError struct {
	Index int // sample index, -1 when not tied to a sample
	Value float64
}

func (e *InvalidSampleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid sample value %v", e.Value)
	}
	return fmt.Sprintf("invalid sample %d: value %v is not finite", e.Index, e.Value)
}

// DataUnavailableError is returned when telemetry cannot be read or nothing
// usable is left after filtering.
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("data unavailable from %s", e.Source)
	}
	return fmt.Sprintf("data unavailable from %s: %s", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
