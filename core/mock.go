package core

import (
	"fmt"

	"go.uber.org/dig"
)

const MockMaxQubits int = 10

type unimplementedState struct {
	dim int
}

func (u *unimplementedState) Dimension() int { return u.dim }

// UnimplementedEncoder returns states of the right size and reports every
// pair of states as identical.
type UnimplementedEncoder struct{}

func (u *UnimplementedEncoder) Setup(*Conf) error { return nil }

func (u *UnimplementedEncoder) Encode(spec *EncodingSpec) (State, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &unimplementedState{dim: 1 << spec.Qubits}, nil
}

func (u *UnimplementedEncoder) Similarity(a, b State) (float64, error) {
	if a.Dimension() != b.Dimension() {
		return 0, &DimensionMismatchError{Index: -1, Want: a.Dimension(), Got: b.Dimension()}
	}
	return 1, nil
}

type failingEncoderForTest struct {
	UnimplementedEncoder
}

func (failingEncoderForTest) Setup(*Conf) error {
	return fmt.Errorf("encoder is not available")
}

// UnimplementedLoader always returns the series it was built with.
type UnimplementedLoader struct {
	Series *Series
}

func (u *UnimplementedLoader) Setup(*Conf) error { return nil }

func (u *UnimplementedLoader) Load(path string) (*Series, error) {
	if u.Series == nil {
		return nil, &DataUnavailableError{Source: path}
	}
	return u.Series.Clone(), nil
}

type tearDownErrorLoaderForTest struct {
	UnimplementedLoader
}

func (tearDownErrorLoaderForTest) TearDown() error {
	return fmt.Errorf("loader is busy")
}

func SCWithUnimplementedContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() StateEncoder { return &UnimplementedEncoder{} })
	c.Provide(func() TelemetryLoader {
		return &UnimplementedLoader{Series: NewScalarSeries([]float64{1, 2, 3})}
	})
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithEncoder(enc StateEncoder) *SystemComponents {
	c := dig.New()
	c.Provide(func() StateEncoder { return enc })
	c.Provide(func() TelemetryLoader { return &UnimplementedLoader{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{MaxQubits: MockMaxQubits})
	return s
}
