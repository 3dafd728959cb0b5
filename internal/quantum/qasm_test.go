package quantum

import (
	"errors"
	"strings"
	"testing"
)

func TestParseQASM(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[3];

// prepare
x q[0];
h q[0];
cx q[0], q[1];
barrier q;
t q[2];
CNOT q[2],q[1];`

	c, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	if c.NumQubits != 3 {
		t.Fatalf("expected 3 qubits, got %d", c.NumQubits)
	}

	want := []Op{
		{Type: OpX, Target: 0, Control: -1},
		{Type: OpH, Target: 0, Control: -1},
		{Type: OpCX, Target: 1, Control: 0},
		{Type: OpT, Target: 2, Control: -1},
		{Type: OpCX, Target: 1, Control: 2},
	}
	if len(c.Ops) != len(want) {
		t.Fatalf("expected %d ops, got %d: %v", len(want), len(c.Ops), c.Ops)
	}
	for i, op := range c.Ops {
		if op != want[i] {
			t.Errorf("op %d: got %+v, want %+v", i, op, want[i])
		}
	}
}

func TestParseQASMErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no qreg", "OPENQASM 2.0;\n", "no qreg"},
		{"gate before qreg", "h q[0];\nqreg q[1];", "line 1"},
		{"second qreg", "qreg q[2];\nqreg r[2];", "second qreg"},
		{"oversized qreg", "qreg q[31];", "qreg size"},
		{"unknown gate", "qreg q[2];\nrz(pi) q[0];", "line 2"},
		{"unsupported gate", "qreg q[2];\ny q[0];", "unsupported gate"},
		{"unsupported two-qubit gate", "qreg q[2];\ncz q[0], q[1];", "unsupported two-qubit gate"},
		{"unknown register", "qreg q[2];\nx r[0];", "unknown register"},
		{"target out of range", "qreg q[2];\nx q[2];", "outside [0, 2)"},
		{"cnot on one qubit", "qreg q[2];\ncx q[1], q[1];", "control and target"},
		{"measure", "qreg q[1];\ncreg c[1];\nmeasure q[0] -> c[0];", "line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQASM(tt.src)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrInvalidArgument) && !errors.Is(err, ErrInvalidQubitIndex) {
				t.Errorf("error %v does not wrap the invalid argument taxonomy", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestRoundTripQASM(t *testing.T) {
	c := StandardCircuit(4).AddGate(GateT, 3).AddCNOT(3, 2)

	qasm := c.ToQASM()
	if !strings.Contains(qasm, "qreg q[4];") {
		t.Errorf("expected qreg declaration, got:\n%s", qasm)
	}
	if !strings.Contains(qasm, "cx q[0], q[1];") {
		t.Errorf("expected 'cx q[0], q[1];', got:\n%s", qasm)
	}

	c2, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("round-trip parse: %v", err)
	}
	if c2.NumQubits != c.NumQubits || len(c2.Ops) != len(c.Ops) {
		t.Fatalf("round-trip: got %d qubits %d ops, want %d qubits %d ops",
			c2.NumQubits, len(c2.Ops), c.NumQubits, len(c.Ops))
	}
	for i := range c.Ops {
		if c.Ops[i] != c2.Ops[i] {
			t.Errorf("round-trip op %d: got %+v, want %+v", i, c2.Ops[i], c.Ops[i])
		}
	}
}
