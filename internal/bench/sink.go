package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Observation is one benchmark measurement of the standard circuit.
type Observation struct {
	NumQubits int
	// Elapsed is the mean over Repeats runs; Min and Max bound it.
	Elapsed   time.Duration
	Min       time.Duration
	Max       time.Duration
	Repeats   int
	Strategy  string
	RunID     string
	Timestamp time.Time
}

// Sink receives observations as the harness produces them.
type Sink interface {
	Record(ctx context.Context, obs Observation) error
	Close() error
}

// FileSink appends "<num_qubits> <elapsed_seconds>" lines, the format the
// plotting scripts read.
type FileSink struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// NewFileSink opens path for appending, creating it if needed.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open benchmark output: %w", err)
	}
	return &FileSink{w: f, c: f}, nil
}

// NewWriterSink writes the FileSink format to w. Close does not close w.
func NewWriterSink(w io.Writer) *FileSink {
	return &FileSink{w: w}
}

func (s *FileSink) Record(_ context.Context, obs Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "%d %.6f\n", obs.NumQubits, obs.Elapsed.Seconds()); err != nil {
		return fmt.Errorf("write observation: %w", err)
	}
	return nil
}

func (s *FileSink) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}

// MultiSink fans each observation out to every sink. A failing sink does not
// stop the others; their errors are joined.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, obs Observation) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, obs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemorySink keeps observations in memory, for the TUI and tests.
type MemorySink struct {
	mu  sync.Mutex
	obs []Observation
}

func (m *MemorySink) Record(_ context.Context, obs Observation) error {
	m.mu.Lock()
	m.obs = append(m.obs, obs)
	m.mu.Unlock()
	return nil
}

func (m *MemorySink) Close() error { return nil }

// Observations returns a copy of everything recorded so far.
func (m *MemorySink) Observations() []Observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Observation(nil), m.obs...)
}

type nopSink struct{}

func (nopSink) Record(context.Context, Observation) error { return nil }
func (nopSink) Close() error                              { return nil }
