package core

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/dig"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var systemComponents *SystemComponents

// State is an encoded quantum state. Its representation belongs to the
// StateEncoder that produced it.
type State interface {
	// Dimension is the length of the state vector, 2^qubits.
	Dimension() int
}

// Rotation is an RY rotation by Angle on qubit Target.
type Rotation struct {
	Angle  float64 `json:"angle"`
	Target int     `json:"target"`
}

// Coupling is a controlled-NOT entangler from Control to Target.
type Coupling struct {
	Control int `json:"control"`
	Target  int `json:"target"`
}

// EncodingSpec describes a state preparation: every layer applies the
// rotations (angle divided by Layers) followed by the couplings.
// Layers <= 0 is treated as 1.
type EncodingSpec struct {
	Qubits    int        `json:"qubits"`
	Rotations []Rotation `json:"rotations"`
	Couplings []Coupling `json:"couplings,omitempty"`
	Layers    int        `json:"layers,omitempty"`
}

func (e *EncodingSpec) LayerCount() int {
	if e.Layers <= 0 {
		return 1
	}
	return e.Layers
}

func (e *EncodingSpec) Validate() error {
	if e.Qubits <= 0 {
		return fmt.Errorf("qubits must be positive/qubits:%d", e.Qubits)
	}
	for _, r := range e.Rotations {
		if r.Target < 0 || r.Target >= e.Qubits {
			return fmt.Errorf("rotation target %d is out of range [0,%d)", r.Target, e.Qubits)
		}
	}
	for _, c := range e.Couplings {
		if c.Control < 0 || c.Control >= e.Qubits || c.Target < 0 || c.Target >= e.Qubits {
			return fmt.Errorf("coupling (%d,%d) is out of range [0,%d)", c.Control, c.Target, e.Qubits)
		}
		if c.Control == c.Target {
			return fmt.Errorf("coupling control and target are the same qubit %d", c.Control)
		}
	}
	return nil
}

type StateEncoder interface {
	Setup(*Conf) error
	Encode(*EncodingSpec) (State, error)
	// Similarity is symmetric, bounded in [0,1] and 1 for identical states.
	Similarity(a, b State) (float64, error)
}

type TelemetryLoader interface {
	Setup(*Conf) error
	Load(path string) (*Series, error)
}

// MonitorStats is the latest outcome of a periodic rescoring.
type MonitorStats struct {
	Task           string    `json:"task"`
	Method         string    `json:"method"`
	Samples        int       `json:"samples"`
	Latest         float64   `json:"latest"`
	Max            float64   `json:"max"`
	AboveThreshold int       `json:"above_threshold"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SystemComponents struct {
	*dig.Container

	mu    sync.RWMutex
	stats map[string]MonitorStats
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{
		Container: con,
		stats:     make(map[string]MonitorStats),
	}
}

func GetSystemComponents() *SystemComponents {
	return systemComponents
}

func (s *SystemComponents) Setup(conf *Conf) error {
	zap.L().Debug("Setting up state encoder")
	err := s.Invoke(
		func(e StateEncoder) error {
			return e.Setup(conf)
		})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up telemetry loader")
	err = s.Invoke(
		func(l TelemetryLoader) error {
			return l.Setup(conf)
		})
	if err != nil {
		return err
	}
	systemComponents = s
	return nil
}

type tearDowner interface {
	TearDown() error
}

// TearDown releases every component that holds resources.
func (s *SystemComponents) TearDown() error {
	var errs error
	_ = s.Invoke(
		func(e StateEncoder) {
			if t, ok := e.(tearDowner); ok {
				errs = multierr.Append(errs, t.TearDown())
			}
		})
	_ = s.Invoke(
		func(l TelemetryLoader) {
			if t, ok := l.(tearDowner); ok {
				errs = multierr.Append(errs, t.TearDown())
			}
		})
	if errs != nil {
		zap.L().Error(fmt.Sprintf("failed to tear down system components/reason:%s", errs))
	}
	return errs
}

func (s *SystemComponents) GetStateEncoder() (StateEncoder, error) {
	var enc StateEncoder
	err := s.Invoke(func(e StateEncoder) {
		enc = e
	})
	return enc, err
}

func (s *SystemComponents) GetLoader() (TelemetryLoader, error) {
	var loader TelemetryLoader
	err := s.Invoke(func(l TelemetryLoader) {
		loader = l
	})
	return loader, err
}

func (s *SystemComponents) PublishStats(st MonitorStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[st.Task] = st
}

// LatestStats returns a copy of the published stats keyed by task name.
func (s *SystemComponents) LatestStats() map[string]MonitorStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]MonitorStats, len(s.stats))
	for k, v := range s.stats {
		out[k] = v
	}
	return out
}
