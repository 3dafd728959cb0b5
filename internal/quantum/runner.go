package quantum

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Runner sequences a circuit's ops through an Engine.
type Runner struct {
	engine *Engine
	logger *log.Logger
}

type RunnerOption func(*Runner)

// WithLogger routes per-op debug output and normalization warnings to l.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner returns a runner over engine, or over the default bit-indexed
// engine when engine is nil.
func NewRunner(engine *Engine, opts ...RunnerOption) *Runner {
	if engine == nil {
		engine = defaultEngine
	}
	r := &Runner{
		engine: engine,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Engine() *Engine {
	return r.engine
}

// Run evolves a fresh |0...0> state through c. If an op fails, the returned
// state holds every op before it and the error is an *OpError.
func (r *Runner) Run(c *Circuit) (*StateVector, error) {
	s, err := New(c.NumQubits)
	if err != nil {
		return nil, err
	}
	return s, r.Apply(s, c)
}

// Apply runs c against an existing state, stopping at the first failing op.
func (r *Runner) Apply(s *StateVector, c *Circuit) error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidArgument)
	}
	if c.NumQubits > s.NumQubits {
		return fmt.Errorf("%w: circuit needs %d qubits, state has %d", ErrInvalidArgument, c.NumQubits, s.NumQubits)
	}
	strategy := r.engine.Strategy().Name()
	for i, op := range c.Ops {
		if err := r.applyOp(s, op); err != nil {
			r.logger.Debug("circuit aborted", "index", i, "op", op, "err", err)
			return &OpError{Index: i, Op: op, Err: err}
		}
		r.logger.Debug("applied", "index", i, "op", op, "strategy", strategy)
	}
	return nil
}

func (r *Runner) applyOp(s *StateVector, op Op) error {
	if strings.EqualFold(op.Type, OpCX) {
		return r.engine.ApplyCNOT(s, op.Control, op.Target)
	}
	kind, err := ParseGateKind(op.Type)
	if err != nil {
		return err
	}
	if !kind.Unitary() {
		r.logger.Warn("gate does not preserve normalization", "gate", kind, "target", op.Target)
	}
	return r.engine.ApplyGate(s, kind, op.Target)
}
