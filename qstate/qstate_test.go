//go:build unit
// +build unit

package qstate

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/stretchr/testify/assert"
)

var ring3 = []core.Coupling{{Control: 0, Target: 1}, {Control: 1, Target: 2}, {Control: 2, Target: 0}}

func rotations(angles ...float64) []core.Rotation {
	rs := make([]core.Rotation, len(angles))
	for i, a := range angles {
		rs[i] = core.Rotation{Angle: a, Target: i}
	}
	return rs
}

func encodeForTest(t *testing.T, e core.StateEncoder, spec *core.EncodingSpec) core.State {
	t.Helper()
	st, err := e.Encode(spec)
	assert.Nil(t, err)
	return st
}

func TestGates(t *testing.T) {
	sv := NewStateVector(1)
	assert.Nil(t, sv.RY(math.Pi, 0))
	assert.InDeltaSlice(t, []float64{0, 1}, sv.Probabilities(), 1e-12)

	sv = NewStateVector(2)
	assert.Nil(t, sv.X(0))
	assert.Nil(t, sv.CX(0, 1))
	assert.InDeltaSlice(t, []float64{0, 0, 0, 1}, sv.Probabilities(), 1e-12)

	sv = NewStateVector(1)
	assert.Nil(t, sv.H(0))
	assert.Nil(t, sv.Z(0))
	assert.Nil(t, sv.H(0))
	assert.InDeltaSlice(t, []float64{0, 1}, sv.Probabilities(), 1e-12)

	assert.NotNil(t, sv.RY(1, 1))
	assert.NotNil(t, NewStateVector(2).CX(1, 1))
	assert.NotNil(t, NewStateVector(2).CZ(0, 0))
}

func TestSingleQubitFidelity(t *testing.T) {
	e := &StatevectorEncoder{}
	assert.Nil(t, e.Setup(&core.Conf{}))
	tests := []struct {
		name string
		a, b float64
	}{
		{name: "identical", a: 1.2, b: 1.2},
		{name: "quarter", a: 0, b: math.Pi / 2},
		{name: "opposite", a: 0, b: math.Pi},
		{name: "outside range", a: -0.5, b: 3.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa := encodeForTest(t, e, &core.EncodingSpec{Qubits: 1, Rotations: rotations(tt.a)})
			sb := encodeForTest(t, e, &core.EncodingSpec{Qubits: 1, Rotations: rotations(tt.b)})
			got, err := e.Similarity(sa, sb)
			assert.Nil(t, err)
			want := math.Pow(math.Cos((tt.a-tt.b)/2), 2)
			assert.InDelta(t, want, got, 1e-12)
			back, err := e.Similarity(sb, sa)
			assert.Nil(t, err)
			assert.Equal(t, got, back)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestRingEncoding(t *testing.T) {
	e := &StatevectorEncoder{}
	assert.Nil(t, e.Setup(&core.Conf{MaxQubits: 4}))

	ref := []float64{0.3, 1.2, 2.0}
	cur := []float64{1.1, 0.4, 2.5}
	product := 1.0
	for i := range ref {
		product *= math.Pow(math.Cos((ref[i]-cur[i])/2), 2)
	}

	sim := func(layers int, a, b []float64) float64 {
		sa := encodeForTest(t, e, &core.EncodingSpec{Qubits: 3, Rotations: rotations(a...), Couplings: ring3, Layers: layers})
		sb := encodeForTest(t, e, &core.EncodingSpec{Qubits: 3, Rotations: rotations(b...), Couplings: ring3, Layers: layers})
		assert.Equal(t, 8, sa.Dimension())
		got, err := e.Similarity(sa, sb)
		assert.Nil(t, err)
		return got
	}

	// a single layer applies the same couplings to both states
	assert.InDelta(t, product, sim(1, ref, cur), 1e-12)
	assert.InDelta(t, 0.8041736687156836, sim(2, ref, cur), 1e-9)
	assert.InDelta(t, 0.25, sim(2, []float64{0, 0, 0}, []float64{math.Pi, 0, 0}), 1e-12)
	assert.InDelta(t, 1.0, sim(2, ref, ref), 1e-12)
}

func TestStatevectorEncoderErrors(t *testing.T) {
	e := &StatevectorEncoder{}
	assert.Nil(t, e.Setup(&core.Conf{MaxQubits: 2}))

	_, err := e.Encode(&core.EncodingSpec{Qubits: 3})
	assert.NotNil(t, err)
	_, err = e.Encode(&core.EncodingSpec{Qubits: 1, Rotations: rotations(1, 2)})
	assert.NotNil(t, err)

	one := encodeForTest(t, e, &core.EncodingSpec{Qubits: 1})
	two := encodeForTest(t, e, &core.EncodingSpec{Qubits: 2})
	_, err = e.Similarity(one, two)
	var dme *core.DimensionMismatchError
	assert.True(t, errors.As(err, &dme))

	_, err = e.Similarity(one, &dummyState{angles: []float64{0}})
	assert.True(t, errors.Is(err, core.ErrorUnknownEncoding))
}

func TestDummyEncoder(t *testing.T) {
	e := &DummyEncoder{}
	assert.Nil(t, e.Setup(&core.Conf{}))

	a := encodeForTest(t, e, &core.EncodingSpec{Qubits: 3, Rotations: rotations(0, 0, 0), Couplings: ring3})
	b := encodeForTest(t, e, &core.EncodingSpec{Qubits: 3, Rotations: rotations(math.Pi, 0, 0), Couplings: ring3})
	assert.Equal(t, 8, a.Dimension())

	got, err := e.Similarity(a, a)
	assert.Nil(t, err)
	assert.Equal(t, 1.0, got)

	got, err = e.Similarity(a, b)
	assert.Nil(t, err)
	assert.InDelta(t, math.Pow(math.Cos(math.Pi/6), 2), got, 1e-12)

	_, err = e.Similarity(a, NewStateVector(3))
	assert.True(t, errors.Is(err, core.ErrorUnknownEncoding))
}

func TestNamedCircuits(t *testing.T) {
	assert.Equal(t, []string{"bell", "grover", "hadamard"}, CircuitNames())
	_, err := NamedCircuit("teleport")
	assert.NotNil(t, err)

	tests := []struct {
		name string
		want []float64
	}{
		{name: "hadamard", want: []float64{0.5, 0.5}},
		{name: "bell", want: []float64{0.5, 0, 0, 0.5}},
		{name: "grover", want: []float64{0, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NamedCircuit(tt.name)
			assert.Nil(t, err)
			sv, err := c.Run()
			assert.Nil(t, err)
			assert.InDeltaSlice(t, tt.want, sv.Probabilities(), 1e-12)
		})
	}
}

func TestCircuitRunErrors(t *testing.T) {
	c := &Circuit{Name: "bad", Qubits: 1, Gates: []Gate{{Name: "swap", Targets: []int{0}}}}
	_, err := c.Run()
	assert.NotNil(t, err)

	c = &Circuit{Name: "bad", Qubits: 2, Gates: []Gate{{Name: "cx", Targets: []int{0}}}}
	_, err = c.Run()
	assert.NotNil(t, err)
}

func TestSample(t *testing.T) {
	c, _ := NamedCircuit("hadamard")
	sv, _ := c.Run()
	counts, err := Sample(sv, 1000, rand.NewPCG(1, 2))
	assert.Nil(t, err)
	assert.Equal(t, uint32(1000), counts["0"]+counts["1"])
	assert.Greater(t, counts["0"], uint32(400))
	assert.Less(t, counts["0"], uint32(600))

	again, err := Sample(sv, 1000, rand.NewPCG(1, 2))
	assert.Nil(t, err)
	assert.Equal(t, counts, again)

	g, _ := NamedCircuit("grover")
	gsv, _ := g.Run()
	gc, err := Sample(gsv, 100, rand.NewPCG(3, 4))
	assert.Nil(t, err)
	best, bestCount := "", uint32(0)
	for k, v := range gc {
		if v > bestCount {
			best, bestCount = k, v
		}
	}
	assert.Equal(t, "11", best)

	sv = NewStateVector(3)
	assert.Nil(t, sv.X(0))
	xc, err := Sample(sv, 10, rand.NewPCG(5, 6))
	assert.Nil(t, err)
	assert.Equal(t, core.Counts{"001": 10}, xc)

	_, err = Sample(sv, 0, rand.NewPCG(5, 6))
	assert.NotNil(t, err)
}
