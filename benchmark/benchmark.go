// Package benchmark replays the quantum and classical scorers on copies of
// a series perturbed by Gaussian noise.
package benchmark

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/go-faster/errors"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/qtelemetry/qtelemetry/coreapp/scorer"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"
)

const DefaultWindow = 20

// DefaultAmplitudes are the noise standard deviations in nT.
func DefaultAmplitudes() []float64 {
	return []float64{0, 5, 10}
}

// Level is the outcome for one noise amplitude.
type Level struct {
	Amplitude float64
	Noisy     []float64
	Quantum   *scorer.Result
	Classical *scorer.Result
}

type Harness struct {
	Encoder core.StateEncoder
	Seed    uint64
	// Window is the baseline window of both scorers.
	Window  int
	Workers int
}

func NewHarness(enc core.StateEncoder, seed uint64) *Harness {
	return &Harness{Encoder: enc, Seed: seed, Window: DefaultWindow}
}

// AddNoise returns values plus independent N(0, amplitude) samples drawn
// from src. Amplitude 0 returns an unchanged copy.
func AddNoise(values []float64, amplitude float64, src rand.Source) ([]float64, error) {
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must not be negative/amplitude:%v", amplitude)
	}
	noisy := make([]float64, len(values))
	copy(noisy, values)
	if amplitude == 0 {
		return noisy, nil
	}
	n := distuv.Normal{Mu: 0, Sigma: amplitude, Src: src}
	for i := range noisy {
		noisy[i] += n.Rand()
	}
	return noisy, nil
}

// Run scores the series once per amplitude. Level i draws its noise from a
// PCG source seeded with (Seed, i), so levels do not share random state.
func (h *Harness) Run(ctx context.Context, raw *core.Series, amplitudes []float64) ([]Level, error) {
	values, err := raw.Values()
	if err != nil {
		return nil, err
	}
	if len(amplitudes) == 0 {
		amplitudes = DefaultAmplitudes()
	}
	q := &scorer.Quantum{Encoder: h.Encoder, BaselineWindow: h.Window, Workers: h.Workers}
	c := scorer.NewClassical(h.Window)

	levels := make([]Level, 0, len(amplitudes))
	for i, amp := range amplitudes {
		noisy, err := AddNoise(values, amp, rand.NewPCG(h.Seed, uint64(i)))
		if err != nil {
			return nil, err
		}
		s := core.NewScalarSeries(noisy)
		qr, err := q.Score(ctx, s)
		if err != nil {
			return nil, errors.Wrapf(err, "quantum scores at amplitude %v", amp)
		}
		cr, err := c.Score(ctx, s)
		if err != nil {
			return nil, errors.Wrapf(err, "classical scores at amplitude %v", amp)
		}
		zap.L().Debug(fmt.Sprintf("benchmark level done/amplitude:%v/samples:%d", amp, len(noisy)))
		levels = append(levels, Level{
			Amplitude: amp,
			Noisy:     noisy,
			Quantum:   qr,
			Classical: cr,
		})
	}
	return levels, nil
}

// Report flattens the levels into one report with a quantum and a classical
// score sequence per amplitude.
func Report(source string, window int, levels []Level) *core.Report {
	rep := core.NewReport(source, window)
	for _, l := range levels {
		rep.AddScores(fmt.Sprintf("%s@%g", scorer.MethodQuantum, l.Amplitude), l.Quantum.Scores)
		rep.AddScores(fmt.Sprintf("%s@%g", scorer.MethodClassical, l.Amplitude), l.Classical.Scores)
	}
	return rep
}
