package scorer

import (
	"context"
	"math"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/qtelemetry/qtelemetry/coreapp/encoder"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Classical is the z-score baseline. Scores are |v-mean|/std normalized by
// their maximum, with mean and population std taken over the baseline
// window and std floored by encoder.Epsilon.
type Classical struct {
	BaselineWindow int
}

func NewClassical(window int) *Classical {
	if window <= 0 {
		window = DefaultClassicalWindow
	}
	return &Classical{BaselineWindow: window}
}

func (c *Classical) Method() string { return MethodClassical }

// Score returns all zeros when every sample equals the window mean.
func (c *Classical) Score(ctx context.Context, s *core.Series) (res *Result, err error) {
	ctx, span := startSpan(ctx, MethodClassical, s.Len())
	defer func() { endSpan(ctx, span, MethodClassical, res, err) }()

	values, err := s.Values()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := effectiveWindow(c.BaselineWindow, DefaultClassicalWindow, len(values))
	mean, std := stat.PopMeanStdDev(values[:k], nil)
	std += encoder.Epsilon

	z := make([]float64, len(values))
	for i, v := range values {
		z[i] = math.Abs(v-mean) / std
	}
	if m := floats.Max(z); m > 0 {
		for i := range z {
			z[i] /= m
		}
	}
	return &Result{
		Method:    MethodClassical,
		Window:    k,
		Reference: []float64{mean},
		Scores:    z,
	}, nil
}
