package qstate

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"gonum.org/v1/gonum/stat/distuv"
)

type Gate struct {
	Name    string  `json:"name"`
	Targets []int   `json:"targets"`
	Angle   float64 `json:"angle,omitempty"`
}

type Circuit struct {
	Name   string `json:"name"`
	Qubits int    `json:"qubits"`
	Gates  []Gate `json:"gates"`
}

func h(q int) Gate     { return Gate{Name: "h", Targets: []int{q}} }
func x(q int) Gate     { return Gate{Name: "x", Targets: []int{q}} }
func cx(c, t int) Gate { return Gate{Name: "cx", Targets: []int{c, t}} }
func cz(a, b int) Gate { return Gate{Name: "cz", Targets: []int{a, b}} }

var namedCircuits = map[string]func() *Circuit{
	"hadamard": func() *Circuit {
		return &Circuit{Name: "hadamard", Qubits: 1, Gates: []Gate{h(0)}}
	},
	"bell": func() *Circuit {
		return &Circuit{Name: "bell", Qubits: 2, Gates: []Gate{h(0), cx(0, 1)}}
	},
	// oracle marks |11>, followed by one diffusion step
	"grover": func() *Circuit {
		return &Circuit{Name: "grover", Qubits: 2, Gates: []Gate{
			h(0), h(1),
			cz(0, 1),
			h(0), h(1), x(0), x(1),
			cz(0, 1),
			x(0), x(1), h(0), h(1),
		}}
	},
}

func CircuitNames() []string {
	names := make([]string, 0, len(namedCircuits))
	for n := range namedCircuits {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func NamedCircuit(name string) (*Circuit, error) {
	f, ok := namedCircuits[name]
	if !ok {
		return nil, fmt.Errorf("unknown circuit:%s", name)
	}
	return f(), nil
}

// Run simulates the circuit from |0...0>.
func (c *Circuit) Run() (*StateVector, error) {
	sv := NewStateVector(c.Qubits)
	for _, g := range c.Gates {
		var err error
		switch g.Name {
		case "h":
			err = arity(g, 1, func() error { return sv.H(g.Targets[0]) })
		case "x":
			err = arity(g, 1, func() error { return sv.X(g.Targets[0]) })
		case "z":
			err = arity(g, 1, func() error { return sv.Z(g.Targets[0]) })
		case "ry":
			err = arity(g, 1, func() error { return sv.RY(g.Angle, g.Targets[0]) })
		case "cx":
			err = arity(g, 2, func() error { return sv.CX(g.Targets[0], g.Targets[1]) })
		case "cz":
			err = arity(g, 2, func() error { return sv.CZ(g.Targets[0], g.Targets[1]) })
		default:
			err = fmt.Errorf("unsupported gate:%s", g.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("circuit %s: %w", c.Name, err)
		}
	}
	return sv, nil
}

func arity(g Gate, n int, apply func() error) error {
	if len(g.Targets) != n {
		return fmt.Errorf("gate %s takes %d target(s), got %d", g.Name, n, len(g.Targets))
	}
	return apply()
}

// Bitstring renders basis index i with qubit 0 as the rightmost character.
func Bitstring(i, qubits int) string {
	return fmt.Sprintf("%0*b", qubits, i)
}

// Sample draws shots measurement outcomes from the state.
func Sample(sv *StateVector, shots int, src rand.Source) (core.Counts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive/shots:%d", shots)
	}
	cat := distuv.NewCategorical(sv.Probabilities(), src)
	counts := core.Counts{}
	for i := 0; i < shots; i++ {
		counts[Bitstring(int(cat.Rand()), sv.Qubits())]++
	}
	return counts, nil
}
