// Package encoder maps telemetry values to rotation angles.
package encoder

import (
	"math"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"gonum.org/v1/gonum/floats"
)

// Epsilon guards the normalization denominator when min == max.
const Epsilon = 1e-6

// Range is the normalization range of one dimension. Max >= Min.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Ranges holds one Range per dimension.
type Ranges []Range

func NewRange(values []float64) (Range, error) {
	if len(values) == 0 {
		return Range{}, &core.InsufficientDataError{Need: 1, Got: 0}
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Range{}, &core.InvalidSampleError{Index: i, Value: v}
		}
	}
	return Range{Min: floats.Min(values), Max: floats.Max(values)}, nil
}

// NewRanges computes the per-dimension range over the whole series.
func NewRanges(s *core.Series) (Ranges, error) {
	d, err := s.Dim()
	if err != nil {
		return nil, err
	}
	rs := make(Ranges, d)
	for i := 0; i < d; i++ {
		r, err := NewRange(s.Column(i))
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return rs, nil
}

// Angle maps v into [0, π] for values inside r. Values outside r are not
// clamped and map outside [0, π].
func Angle(v float64, r Range) float64 {
	return ((v - r.Min) / (r.Max - r.Min + Epsilon)) * math.Pi
}

// Angles encodes one sample, one angle per dimension.
func (rs Ranges) Angles(smp core.Sample) ([]float64, error) {
	if len(smp) != len(rs) {
		return nil, &core.DimensionMismatchError{Index: -1, Want: len(rs), Got: len(smp)}
	}
	angles := make([]float64, len(smp))
	for i, v := range smp {
		angles[i] = Angle(v, rs[i])
	}
	return angles, nil
}

// Angles normalizes a scalar sequence by its own range.
func Angles(values []float64) ([]float64, error) {
	r, err := NewRange(values)
	if err != nil {
		return nil, err
	}
	angles := make([]float64, len(values))
	for i, v := range values {
		angles[i] = Angle(v, r)
	}
	return angles, nil
}

// ProductSpec places each angle on its own qubit with no couplings, so the
// encoded state is the product of the single-qubit rotations.
func ProductSpec(angles []float64) *core.EncodingSpec {
	rs := make([]core.Rotation, len(angles))
	for i, a := range angles {
		rs[i] = core.Rotation{Angle: a, Target: i}
	}
	return &core.EncodingSpec{Qubits: len(angles), Rotations: rs}
}
