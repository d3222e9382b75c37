// Package scorer computes per-sample anomaly scores against a reference
// built from the first samples of a series.
package scorer

import (
	"context"
	"fmt"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MethodQuantum   = "quantum"
	MethodEntangled = "entangled"
	MethodDecoupled = "decoupled"
	MethodClassical = "classical"
)

const (
	DefaultQuantumWindow   = 10
	DefaultEntangledWindow = 20
	DefaultClassicalWindow = 20
	DefaultLayers          = 1
)

const instrumentationName = "github.com/qtelemetry/qtelemetry/coreapp/scorer"

var (
	tracer        = otel.Tracer(instrumentationName)
	scoredSamples metric.Int64Counter
)

func init() {
	var err error
	scoredSamples, err = otel.Meter(instrumentationName).Int64Counter(
		"qtelemetry.scorer.samples",
		metric.WithDescription("number of samples scored"),
		metric.WithUnit("{sample}"))
	if err != nil {
		otel.Handle(err)
	}
}

type Scorer interface {
	Method() string
	Score(ctx context.Context, s *core.Series) (*Result, error)
}

// Result holds one score per input sample, in input order.
type Result struct {
	Method string
	// Window is the number of samples the reference was built from.
	Window    int
	Reference []float64
	Scores    []float64
}

// Options configures New. Zero values select the method defaults.
type Options struct {
	BaselineWindow int
	Layers         int
	Workers        int
}

func Methods() []string {
	return []string{MethodQuantum, MethodEntangled, MethodDecoupled, MethodClassical}
}

func New(method string, enc core.StateEncoder, opts Options) (Scorer, error) {
	switch method {
	case MethodQuantum:
		q := NewQuantum(enc, opts.BaselineWindow)
		q.Workers = opts.Workers
		return q, nil
	case MethodEntangled:
		e := NewEntangled(enc, opts.BaselineWindow, opts.Layers)
		e.Workers = opts.Workers
		return e, nil
	case MethodDecoupled:
		d := NewDecoupled(enc, opts.BaselineWindow)
		d.Workers = opts.Workers
		return d, nil
	case MethodClassical:
		return NewClassical(opts.BaselineWindow), nil
	default:
		return nil, fmt.Errorf("unknown scoring method:%s", method)
	}
}

// effectiveWindow clamps the baseline window to the series length.
func effectiveWindow(window, def, n int) int {
	if window <= 0 {
		window = def
	}
	if window > n {
		zap.L().Debug(fmt.Sprintf("baseline window %d is longer than the series, using %d samples", window, n))
		return n
	}
	return window
}

func scalarSpec(angle float64) *core.EncodingSpec {
	return &core.EncodingSpec{
		Qubits:    1,
		Rotations: []core.Rotation{{Angle: angle, Target: 0}},
	}
}

// scan scores samples 0..n-1. With more than one worker the index range is
// split into contiguous chunks scored concurrently; the output order is the
// input order either way.
func scan(ctx context.Context, workers, n int, at func(i int) (float64, error)) ([]float64, error) {
	scores := make([]float64, n)
	run := func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := at(i)
			if err != nil {
				return err
			}
			scores[i] = v
		}
		return nil
	}
	if workers <= 1 || n < 2 {
		if err := run(ctx, 0, n); err != nil {
			return nil, err
		}
		return scores, nil
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			return run(gctx, start, end)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func startSpan(ctx context.Context, method string, n int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "scorer."+method,
		trace.WithAttributes(
			attribute.String("scorer.method", method),
			attribute.Int("scorer.samples", n)))
}

func endSpan(ctx context.Context, span trace.Span, method string, res *Result, err error) {
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	scoredSamples.Add(ctx, int64(len(res.Scores)),
		metric.WithAttributes(attribute.String("scorer.method", method)))
}
