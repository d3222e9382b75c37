package scorer

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/qtelemetry/qtelemetry/coreapp/encoder"
	"gonum.org/v1/gonum/stat"
)

// RingTopology couples axis i with axis (i+1) mod d. Two axes get a single
// coupling and one axis gets none.
func RingTopology(d int) []core.Coupling {
	switch {
	case d <= 1:
		return nil
	case d == 2:
		return []core.Coupling{{Control: 0, Target: 1}}
	}
	cs := make([]core.Coupling, d)
	for i := 0; i < d; i++ {
		cs[i] = core.Coupling{Control: i, Target: (i + 1) % d}
	}
	return cs
}

// Entangled scores vector series by the fidelity of a joint state: one qubit
// per axis, coupled along RingTopology.
type Entangled struct {
	Encoder        core.StateEncoder
	BaselineWindow int
	// Layers is the number of rotation plus coupling layers; each layer
	// rotates by angle/Layers.
	Layers  int
	Workers int
}

func NewEntangled(enc core.StateEncoder, window, layers int) *Entangled {
	if window <= 0 {
		window = DefaultEntangledWindow
	}
	if layers <= 0 {
		layers = DefaultLayers
	}
	return &Entangled{Encoder: enc, BaselineWindow: window, Layers: layers}
}

func (e *Entangled) Method() string { return MethodEntangled }

func (e *Entangled) spec(angles []float64, couplings []core.Coupling) *core.EncodingSpec {
	rs := make([]core.Rotation, len(angles))
	for i, a := range angles {
		rs[i] = core.Rotation{Angle: a, Target: i}
	}
	return &core.EncodingSpec{
		Qubits:    len(angles),
		Rotations: rs,
		Couplings: couplings,
		Layers:    e.Layers,
	}
}

func (e *Entangled) Score(ctx context.Context, s *core.Series) (res *Result, err error) {
	ctx, span := startSpan(ctx, MethodEntangled, s.Len())
	defer func() { endSpan(ctx, span, MethodEntangled, res, err) }()

	d, err := s.Dim()
	if err != nil {
		return nil, err
	}
	ranges, err := encoder.NewRanges(s)
	if err != nil {
		return nil, err
	}
	couplings := RingTopology(d)
	k := effectiveWindow(e.BaselineWindow, DefaultEntangledWindow, s.Len())
	ref := make(core.Sample, d)
	for i := 0; i < d; i++ {
		ref[i] = stat.Mean(s.Column(i)[:k], nil)
	}
	refAngles, err := ranges.Angles(ref)
	if err != nil {
		return nil, err
	}
	refState, err := e.Encoder.Encode(e.spec(refAngles, couplings))
	if err != nil {
		return nil, errors.Wrap(err, "encode reference")
	}

	scores, err := scan(ctx, e.Workers, s.Len(), func(i int) (float64, error) {
		angles, err := ranges.Angles(s.Samples[i])
		if err != nil {
			return 0, err
		}
		st, err := e.Encoder.Encode(e.spec(angles, couplings))
		if err != nil {
			return 0, errors.Wrapf(err, "encode sample %d", i)
		}
		sim, err := e.Encoder.Similarity(refState, st)
		if err != nil {
			return 0, errors.Wrapf(err, "similarity of sample %d", i)
		}
		return 1 - sim, nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Method:    MethodEntangled,
		Window:    k,
		Reference: ref,
		Scores:    scores,
	}, nil
}

// Decoupled scores every axis of a vector series on its own with Quantum
// and reports the per-sample mean of the axis scores.
type Decoupled struct {
	Encoder        core.StateEncoder
	BaselineWindow int
	Workers        int
}

func NewDecoupled(enc core.StateEncoder, window int) *Decoupled {
	if window <= 0 {
		window = DefaultEntangledWindow
	}
	return &Decoupled{Encoder: enc, BaselineWindow: window}
}

func (dc *Decoupled) Method() string { return MethodDecoupled }

func (dc *Decoupled) Score(ctx context.Context, s *core.Series) (res *Result, err error) {
	ctx, span := startSpan(ctx, MethodDecoupled, s.Len())
	defer func() { endSpan(ctx, span, MethodDecoupled, res, err) }()

	d, err := s.Dim()
	if err != nil {
		return nil, err
	}
	q := &Quantum{Encoder: dc.Encoder, BaselineWindow: dc.BaselineWindow, Workers: dc.Workers}
	scores := make([]float64, s.Len())
	ref := make([]float64, d)
	window := 0
	for axis := 0; axis < d; axis++ {
		r, err := q.Score(ctx, core.NewScalarSeries(s.Column(axis)))
		if err != nil {
			return nil, errors.Wrapf(err, "axis %d", axis)
		}
		for i, v := range r.Scores {
			scores[i] += v / float64(d)
		}
		ref[axis] = r.Reference[0]
		window = r.Window
	}
	return &Result{
		Method:    MethodDecoupled,
		Window:    window,
		Reference: ref,
		Scores:    scores,
	}, nil
}
