package qstate

import (
	"fmt"
	"math"

	"github.com/go-faster/errors"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"go.uber.org/zap"
)

const defaultMaxQubits = 16

// StatevectorEncoder prepares states with the in-process simulator.
type StatevectorEncoder struct {
	maxQubits int
}

func (e *StatevectorEncoder) Setup(conf *core.Conf) error {
	e.maxQubits = conf.MaxQubits
	if e.maxQubits <= 0 {
		e.maxQubits = defaultMaxQubits
	}
	zap.L().Debug(fmt.Sprintf("setting up statevector encoder/max_qubits:%d", e.maxQubits))
	return nil
}

func (e *StatevectorEncoder) limit() int {
	if e.maxQubits <= 0 {
		return defaultMaxQubits
	}
	return e.maxQubits
}

// Encode applies, per layer, RY(angle/layers) on every rotation target and
// then the CX couplings in order.
func (e *StatevectorEncoder) Encode(spec *core.EncodingSpec) (core.State, error) {
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid encoding")
	}
	if spec.Qubits > e.limit() {
		return nil, errors.Errorf("%d qubits exceed the limit of %d", spec.Qubits, e.limit())
	}
	sv := NewStateVector(spec.Qubits)
	layers := spec.LayerCount()
	for l := 0; l < layers; l++ {
		for _, r := range spec.Rotations {
			if err := sv.RY(r.Angle/float64(layers), r.Target); err != nil {
				return nil, err
			}
		}
		for _, c := range spec.Couplings {
			if err := sv.CX(c.Control, c.Target); err != nil {
				return nil, err
			}
		}
	}
	return sv, nil
}

func (e *StatevectorEncoder) Similarity(a, b core.State) (float64, error) {
	sa, ok := a.(*StateVector)
	if !ok {
		return 0, core.ErrorUnknownEncoding
	}
	sb, ok := b.(*StateVector)
	if !ok {
		return 0, core.ErrorUnknownEncoding
	}
	if sa.Dimension() != sb.Dimension() {
		return 0, &core.DimensionMismatchError{Index: -1, Want: sa.Dimension(), Got: sb.Dimension()}
	}
	return sa.Fidelity(sb)
}

type dummyState struct {
	angles []float64
}

func (d *dummyState) Dimension() int { return 1 << len(d.angles) }

// DummyEncoder is a deterministic stand-in for the simulator. It keeps the
// total rotation per qubit, ignores couplings, and reports cos² of half the
// mean angle distance as the similarity.
type DummyEncoder struct{}

func (d *DummyEncoder) Setup(*core.Conf) error {
	zap.L().Debug("setting up dummy encoder")
	return nil
}

func (d *DummyEncoder) Encode(spec *core.EncodingSpec) (core.State, error) {
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid encoding")
	}
	angles := make([]float64, spec.Qubits)
	for _, r := range spec.Rotations {
		angles[r.Target] += r.Angle
	}
	return &dummyState{angles: angles}, nil
}

func (d *DummyEncoder) Similarity(a, b core.State) (float64, error) {
	da, ok := a.(*dummyState)
	if !ok {
		return 0, core.ErrorUnknownEncoding
	}
	db, ok := b.(*dummyState)
	if !ok {
		return 0, core.ErrorUnknownEncoding
	}
	if len(da.angles) != len(db.angles) {
		return 0, &core.DimensionMismatchError{Index: -1, Want: da.Dimension(), Got: db.Dimension()}
	}
	dist := 0.0
	for i := range da.angles {
		dist += math.Abs(da.angles[i] - db.angles[i])
	}
	dist /= float64(len(da.angles))
	c := math.Cos(dist / 2)
	return c * c, nil
}
