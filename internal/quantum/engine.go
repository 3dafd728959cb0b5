package quantum

import (
	"fmt"
	"strings"
)

// Strategy is one way of carrying out a validated gate application. The
// Engine checks every index before calling into a Strategy, so
// implementations may assume their arguments are in range and distinct.
type Strategy interface {
	Name() string
	// MaxQubits is the widest state the strategy accepts; 0 means no limit.
	MaxQubits() int
	ApplySingle(s *StateVector, m Matrix, target int)
	ApplyCNOT(s *StateVector, control, target int)
}

// Engine applies gates to state vectors. It holds no per-state data, so a
// single Engine may serve any number of independent states concurrently.
type Engine struct {
	strategy Strategy
}

type Option func(*Engine)

// WithStrategy selects how gates are applied. The default is BitIndexed.
func WithStrategy(st Strategy) Option {
	return func(e *Engine) {
		if st != nil {
			e.strategy = st
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{strategy: BitIndexed{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// WithStrategy returns a copy of e that uses st, or e's own strategy when st
// is nil.
func (e *Engine) WithStrategy(st Strategy) *Engine {
	if st == nil {
		return &Engine{strategy: e.strategy}
	}
	return &Engine{strategy: st}
}

// ApplySingleQubitGate applies m to the target qubit of s. On error s is left
// untouched.
func (e *Engine) ApplySingleQubitGate(s *StateVector, m Matrix, target int) error {
	if err := e.checkState(s); err != nil {
		return err
	}
	if err := checkQubit("target", target, s.NumQubits); err != nil {
		return err
	}
	e.strategy.ApplySingle(s, m, target)
	return nil
}

// ApplyGate applies the catalog gate kind to the target qubit of s.
func (e *Engine) ApplyGate(s *StateVector, kind GateKind, target int) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, kind)
	}
	return e.ApplySingleQubitGate(s, GateMatrix(kind), target)
}

// ApplyCNOT flips the target qubit of every basis state whose control qubit
// is 1. On error s is left untouched.
func (e *Engine) ApplyCNOT(s *StateVector, control, target int) error {
	if err := e.checkState(s); err != nil {
		return err
	}
	if err := checkQubit("control", control, s.NumQubits); err != nil {
		return err
	}
	if err := checkQubit("target", target, s.NumQubits); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("%w: control and target are both qubit %d", ErrInvalidArgument, control)
	}
	e.strategy.ApplyCNOT(s, control, target)
	return nil
}

func (e *Engine) checkState(s *StateVector) error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidArgument)
	}
	if s.NumQubits < 1 || s.NumQubits > MaxQubits || len(s.Amplitudes) != 1<<s.NumQubits {
		return fmt.Errorf("%w: %d amplitudes for %d qubits", ErrInvalidArgument, len(s.Amplitudes), s.NumQubits)
	}
	if limit := e.strategy.MaxQubits(); limit > 0 && s.NumQubits > limit {
		return fmt.Errorf("%w: %s strategy supports at most %d qubits, state has %d",
			ErrInvalidArgument, e.strategy.Name(), limit, s.NumQubits)
	}
	return nil
}

// ApplySingleQubitGate applies m with the default bit-indexed engine.
func ApplySingleQubitGate(s *StateVector, m Matrix, target int) error {
	return defaultEngine.ApplySingleQubitGate(s, m, target)
}

// ApplyGate applies a catalog gate with the default bit-indexed engine.
func ApplyGate(s *StateVector, kind GateKind, target int) error {
	return defaultEngine.ApplyGate(s, kind, target)
}

// ApplyCNOT applies a controlled NOT with the default bit-indexed engine.
func ApplyCNOT(s *StateVector, control, target int) error {
	return defaultEngine.ApplyCNOT(s, control, target)
}

// StrategyNames lists the names accepted by ParseStrategy.
var StrategyNames = []string{"bitindexed", "parallel", "tensor", "dense"}

// ParseStrategy builds a strategy by name. workers only affects "parallel";
// zero means GOMAXPROCS.
func ParseStrategy(name string, workers int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bitindexed":
		return BitIndexed{}, nil
	case "parallel":
		if workers < 0 {
			return nil, fmt.Errorf("%w: negative worker count %d", ErrInvalidArgument, workers)
		}
		return Parallel{Workers: workers}, nil
	case "tensor":
		return TensorContract{}, nil
	case "dense":
		return Dense{}, nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q (want one of %s)",
		ErrInvalidArgument, name, strings.Join(StrategyNames, ", "))
}
