// Package qstate holds the in-process statevector simulator behind
// core.StateEncoder and the demo circuits sampled by the circuit command.
package qstate

import (
	"fmt"
	"math"
	"math/cmplx"
)

// StateVector is a pure state of n qubits. Basis index bit q is qubit q.
type StateVector struct {
	qubits int
	amp    []complex128
}

// NewStateVector returns |0...0> on n qubits.
func NewStateVector(n int) *StateVector {
	amp := make([]complex128, 1<<n)
	amp[0] = 1
	return &StateVector{qubits: n, amp: amp}
}

func (s *StateVector) Qubits() int { return s.qubits }

func (s *StateVector) Dimension() int { return len(s.amp) }

func (s *StateVector) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amp))
	copy(out, s.amp)
	return out
}

func (s *StateVector) check(qs ...int) error {
	for _, q := range qs {
		if q < 0 || q >= s.qubits {
			return fmt.Errorf("qubit %d is out of range [0,%d)", q, s.qubits)
		}
	}
	return nil
}

// pairs calls f for every index pair differing only in bit q.
func (s *StateVector) pairs(q int, f func(i, j int)) {
	bit := 1 << q
	for i := range s.amp {
		if i&bit == 0 {
			f(i, i|bit)
		}
	}
}

func (s *StateVector) RY(theta float64, q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	s.pairs(q, func(i, j int) {
		a0, a1 := s.amp[i], s.amp[j]
		s.amp[i] = c*a0 - sn*a1
		s.amp[j] = sn*a0 + c*a1
	})
	return nil
}

func (s *StateVector) H(q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	r := complex(1/math.Sqrt2, 0)
	s.pairs(q, func(i, j int) {
		a0, a1 := s.amp[i], s.amp[j]
		s.amp[i] = r * (a0 + a1)
		s.amp[j] = r * (a0 - a1)
	})
	return nil
}

func (s *StateVector) X(q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	s.pairs(q, func(i, j int) {
		s.amp[i], s.amp[j] = s.amp[j], s.amp[i]
	})
	return nil
}

func (s *StateVector) Z(q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	s.pairs(q, func(_, j int) {
		s.amp[j] = -s.amp[j]
	})
	return nil
}

func (s *StateVector) CX(control, target int) error {
	if err := s.check(control, target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("control and target are the same qubit %d", control)
	}
	cbit := 1 << control
	s.pairs(target, func(i, j int) {
		if i&cbit != 0 {
			s.amp[i], s.amp[j] = s.amp[j], s.amp[i]
		}
	})
	return nil
}

func (s *StateVector) CZ(a, b int) error {
	if err := s.check(a, b); err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("cz needs two distinct qubits, got %d twice", a)
	}
	mask := 1<<a | 1<<b
	for i := range s.amp {
		if i&mask == mask {
			s.amp[i] = -s.amp[i]
		}
	}
	return nil
}

// Probabilities returns the Born probabilities of the basis states.
func (s *StateVector) Probabilities() []float64 {
	p := make([]float64, len(s.amp))
	for i, a := range s.amp {
		m := cmplx.Abs(a)
		p[i] = m * m
	}
	return p
}

// Fidelity is |<s|o>|^2, clamped to [0,1] against rounding.
func (s *StateVector) Fidelity(o *StateVector) (float64, error) {
	if len(s.amp) != len(o.amp) {
		return 0, fmt.Errorf("state dimensions differ: %d and %d", len(s.amp), len(o.amp))
	}
	var inner complex128
	for i := range s.amp {
		inner += cmplx.Conj(s.amp[i]) * o.amp[i]
	}
	m := cmplx.Abs(inner)
	return math.Min(1, math.Max(0, m*m)), nil
}
