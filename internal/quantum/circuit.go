package quantum

import (
	"fmt"
	"strings"
)

// Op types understood by the runner.
const (
	OpX  = "X"
	OpH  = "H"
	OpT  = "T"
	OpCX = "CX"
)

// Op is one gate placed on a circuit.
type Op struct {
	Type    string
	Target  int
	Control int // -1 for single-qubit gates
}

func (o Op) String() string {
	if o.Control >= 0 {
		return fmt.Sprintf("%s q[%d], q[%d]", o.Type, o.Control, o.Target)
	}
	return fmt.Sprintf("%s q[%d]", o.Type, o.Target)
}

// Qubits returns the qubits the op touches, control first.
func (o Op) Qubits() []int {
	if o.Control >= 0 {
		return []int{o.Control, o.Target}
	}
	return []int{o.Target}
}

// Circuit is an ordered list of ops over a fixed register width.
type Circuit struct {
	NumQubits int
	Ops       []Op
}

// NewCircuit returns an empty circuit on numQubits qubits.
func NewCircuit(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// AddGate appends a catalog gate on target.
func (c *Circuit) AddGate(kind GateKind, target int) *Circuit {
	c.Ops = append(c.Ops, Op{Type: kind.String(), Target: target, Control: -1})
	return c
}

// AddCNOT appends a controlled NOT.
func (c *Circuit) AddCNOT(control, target int) *Circuit {
	c.Ops = append(c.Ops, Op{Type: OpCX, Target: target, Control: control})
	return c
}

// StandardCircuit is the benchmark circuit: X and H on qubit 0, then
// CNOT(0, 1) when there is a second qubit.
func StandardCircuit(numQubits int) *Circuit {
	c := NewCircuit(numQubits).AddGate(GateX, 0).AddGate(GateH, 0)
	if numQubits > 1 {
		c.AddCNOT(0, 1)
	}
	return c
}

// BellCircuit prepares (|00> + |11>)/sqrt2.
func BellCircuit() *Circuit {
	return NewCircuit(2).AddGate(GateH, 0).AddCNOT(0, 1)
}

// Validate checks every op against the register width without touching any
// state.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 || c.NumQubits > MaxQubits {
		return fmt.Errorf("%w: qubit count %d outside [1, %d]", ErrInvalidArgument, c.NumQubits, MaxQubits)
	}
	for i, op := range c.Ops {
		if err := op.validate(c.NumQubits); err != nil {
			return &OpError{Index: i, Op: op, Err: err}
		}
	}
	return nil
}

func (o Op) validate(numQubits int) error {
	switch strings.ToUpper(o.Type) {
	case OpX, OpH, OpT:
		return checkQubit("target", o.Target, numQubits)
	case OpCX:
		if err := checkQubit("control", o.Control, numQubits); err != nil {
			return err
		}
		if err := checkQubit("target", o.Target, numQubits); err != nil {
			return err
		}
		if o.Control == o.Target {
			return fmt.Errorf("%w: control and target are both qubit %d", ErrInvalidArgument, o.Control)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown op type %q", ErrInvalidArgument, o.Type)
}

// Layers schedules ops as early as possible: each op lands one step after the
// last op sharing a qubit with it. Ops inside a layer touch disjoint qubits.
func (c *Circuit) Layers() [][]Op {
	var layers [][]Op
	lastStep := make(map[int]int)
	for _, op := range c.Ops {
		step := 0
		for _, q := range op.Qubits() {
			if s, ok := lastStep[q]; ok && s+1 > step {
				step = s + 1
			}
		}
		for len(layers) <= step {
			layers = append(layers, nil)
		}
		layers[step] = append(layers[step], op)
		for _, q := range op.Qubits() {
			lastStep[q] = step
		}
	}
	return layers
}
