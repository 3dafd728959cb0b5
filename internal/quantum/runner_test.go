package quantum

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerAbortsAtFailingOp(t *testing.T) {
	c := &Circuit{NumQubits: 2, Ops: []Op{
		{Type: OpX, Target: 0, Control: -1},
		{Type: OpH, Target: 5, Control: -1},
		{Type: OpX, Target: 1, Control: -1},
	}}

	s, err := NewRunner(nil).Run(c)
	require.Error(t, err)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, 1, opErr.Index)
	assert.ErrorIs(t, err, ErrInvalidQubitIndex)
	assert.Contains(t, err.Error(), "op 1 (H q[5])")

	// Only the X before the failure has been applied.
	require.NotNil(t, s)
	assert.Equal(t, []float64{0, 1, 0, 0}, s.Amplitudes)
}

func TestRunnerUnknownOpType(t *testing.T) {
	c := &Circuit{NumQubits: 1, Ops: []Op{{Type: "Z", Target: 0, Control: -1}}}
	_, err := NewRunner(nil).Run(c)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRunnerAcceptsLowercaseTypes(t *testing.T) {
	c := &Circuit{NumQubits: 2, Ops: []Op{
		{Type: "h", Target: 0, Control: -1},
		{Type: "cx", Target: 1, Control: 0},
	}}
	s, err := NewRunner(nil).Run(c)
	require.NoError(t, err)
	bell, err := NewRunner(nil).Run(BellCircuit())
	require.NoError(t, err)
	assert.True(t, s.Equal(bell, tol))
}

func TestRunnerApplyChecksWidth(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	r := NewRunner(nil)
	assert.ErrorIs(t, r.Apply(s, StandardCircuit(2)), ErrInvalidArgument)
	assert.ErrorIs(t, r.Apply(nil, StandardCircuit(1)), ErrInvalidArgument)
	assert.Equal(t, []float64{1, 0}, s.Amplitudes)

	// A narrower circuit runs against the low qubits of a wider state.
	wide, err := New(3)
	require.NoError(t, err)
	require.NoError(t, r.Apply(wide, NewCircuit(1).AddGate(GateX, 0)))
	assert.Equal(t, 1.0, wide.Amplitudes[1])
}

func TestRunnerWarnsOnNonUnitaryGate(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	r := NewRunner(NewEngine(WithStrategy(TensorContract{})), WithLogger(logger))

	_, err := r.Run(NewCircuit(1).AddGate(GateH, 0).AddGate(GateT, 0))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "does not preserve normalization")
	assert.Contains(t, out, "strategy=tensor")
	assert.Equal(t, "tensor", r.Engine().Strategy().Name())
}
