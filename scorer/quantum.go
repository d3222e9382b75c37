package scorer

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/qtelemetry/qtelemetry/coreapp/encoder"
	"gonum.org/v1/gonum/stat"
)

// Quantum scores scalar series by single-qubit state fidelity.
type Quantum struct {
	Encoder        core.StateEncoder
	BaselineWindow int
	Workers        int
}

func NewQuantum(enc core.StateEncoder, window int) *Quantum {
	if window <= 0 {
		window = DefaultQuantumWindow
	}
	return &Quantum{Encoder: enc, BaselineWindow: window}
}

func (q *Quantum) Method() string { return MethodQuantum }

// Score encodes the mean of the first BaselineWindow samples as the
// reference state and scores every sample as 1 - similarity to it.
func (q *Quantum) Score(ctx context.Context, s *core.Series) (res *Result, err error) {
	ctx, span := startSpan(ctx, MethodQuantum, s.Len())
	defer func() { endSpan(ctx, span, MethodQuantum, res, err) }()

	values, err := s.Values()
	if err != nil {
		return nil, err
	}
	r, err := encoder.NewRange(values)
	if err != nil {
		return nil, err
	}
	k := effectiveWindow(q.BaselineWindow, DefaultQuantumWindow, len(values))
	ref := stat.Mean(values[:k], nil)
	refState, err := q.Encoder.Encode(scalarSpec(encoder.Angle(ref, r)))
	if err != nil {
		return nil, errors.Wrap(err, "encode reference")
	}

	scores, err := scan(ctx, q.Workers, len(values), func(i int) (float64, error) {
		st, err := q.Encoder.Encode(scalarSpec(encoder.Angle(values[i], r)))
		if err != nil {
			return 0, errors.Wrapf(err, "encode sample %d", i)
		}
		sim, err := q.Encoder.Similarity(refState, st)
		if err != nil {
			return 0, errors.Wrapf(err, "similarity of sample %d", i)
		}
		return 1 - sim, nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Method:    MethodQuantum,
		Window:    k,
		Reference: []float64{ref},
		Scores:    scores,
	}, nil
}
