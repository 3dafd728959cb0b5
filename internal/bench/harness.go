// Package bench times the standard circuit across qubit counts and reports
// the results to pluggable sinks.
package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"svsim/internal/quantum"
)

type Harness struct {
	runner  *quantum.Runner
	// timed shares runner's engine but never logs, so log I/O stays out of
	// the measured region.
	timed   *quantum.Runner
	sink    Sink
	logger  *log.Logger
	repeats int
	runID   string
}

type Option func(*Harness)

func WithLogger(l *log.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRepeats sets how many runs are averaged per qubit count.
func WithRepeats(n int) Option {
	return func(h *Harness) {
		if n > 0 {
			h.repeats = n
		}
	}
}

// WithRunID tags observations with id instead of a fresh UUID.
func WithRunID(id string) Option {
	return func(h *Harness) {
		if id != "" {
			h.runID = id
		}
	}
}

// NewHarness returns a harness driving runner. A nil sink discards
// observations.
func NewHarness(runner *quantum.Runner, sink Sink, opts ...Option) *Harness {
	if runner == nil {
		runner = quantum.NewRunner(nil)
	}
	if sink == nil {
		sink = nopSink{}
	}
	h := &Harness{
		runner:  runner,
		timed:   quantum.NewRunner(runner.Engine()),
		sink:    sink,
		logger:  log.New(io.Discard),
		repeats: 1,
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Harness) RunID() string    { return h.runID }
func (h *Harness) Strategy() string { return h.runner.Engine().Strategy().Name() }

// RunStandardCircuit builds |0...0> on numQubits qubits and times the gate
// application of the standard circuit. Allocation is not timed.
func (h *Harness) RunStandardCircuit(numQubits int) (time.Duration, error) {
	s, err := quantum.New(numQubits)
	if err != nil {
		return 0, err
	}
	return h.timeCircuit(s, quantum.StandardCircuit(numQubits))
}

// timeCircuit resets s to |0...0> and times only the gate application of c.
func (h *Harness) timeCircuit(s *quantum.StateVector, c *quantum.Circuit) (time.Duration, error) {
	s.Reset()
	start := time.Now()
	err := h.timed.Apply(s, c)
	elapsed := time.Since(start)
	if err != nil {
		return 0, err
	}
	return elapsed, nil
}

// Measure runs the standard circuit Repeats times on one reused state and
// records the mean.
func (h *Harness) Measure(ctx context.Context, numQubits int) (Observation, error) {
	obs := Observation{
		NumQubits: numQubits,
		Repeats:   h.repeats,
		Strategy:  h.Strategy(),
		RunID:     h.runID,
	}
	s, err := quantum.New(numQubits)
	if err != nil {
		return obs, fmt.Errorf("measure %d qubits: %w", numQubits, err)
	}
	c := quantum.StandardCircuit(numQubits)

	var total time.Duration
	for i := 0; i < h.repeats; i++ {
		if err := ctx.Err(); err != nil {
			return obs, err
		}
		d, err := h.timeCircuit(s, c)
		if err != nil {
			return obs, fmt.Errorf("measure %d qubits: %w", numQubits, err)
		}
		h.logger.Debug("run", "qubits", numQubits, "repeat", i, "elapsed", d)
		total += d
		if i == 0 || d < obs.Min {
			obs.Min = d
		}
		if d > obs.Max {
			obs.Max = d
		}
	}
	obs.Elapsed = total / time.Duration(h.repeats)
	obs.Timestamp = time.Now()

	h.logger.Debug("measured", "qubits", numQubits, "elapsed", obs.Elapsed, "strategy", obs.Strategy)
	if err := h.sink.Record(ctx, obs); err != nil {
		return obs, fmt.Errorf("record %d qubits: %w", numQubits, err)
	}
	return obs, nil
}

// Sweep measures every qubit count in [minQubits, maxQubits] in order. It
// stops at the first failure or cancellation and returns what it measured.
func (h *Harness) Sweep(ctx context.Context, minQubits, maxQubits int) ([]Observation, error) {
	if minQubits < 1 || maxQubits < minQubits || maxQubits > quantum.MaxQubits {
		return nil, fmt.Errorf("%w: sweep range [%d, %d] outside [1, %d]",
			quantum.ErrInvalidArgument, minQubits, maxQubits, quantum.MaxQubits)
	}
	h.logger.Info("sweep started", "run_id", h.runID, "strategy", h.Strategy(),
		"min", minQubits, "max", maxQubits, "repeats", h.repeats)

	results := make([]Observation, 0, maxQubits-minQubits+1)
	for n := minQubits; n <= maxQubits; n++ {
		if err := ctx.Err(); err != nil {
			h.logger.Warn("sweep cancelled", "completed", len(results))
			return results, err
		}
		obs, err := h.Measure(ctx, n)
		if err != nil {
			return results, err
		}
		results = append(results, obs)
		h.logger.Info("measured", "qubits", n, "seconds", fmt.Sprintf("%.6f", obs.Elapsed.Seconds()))
	}
	return results, nil
}
