package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"svsim/internal/bench"
	"svsim/internal/quantum"
)

func TestFormatKet(t *testing.T) {
	tests := []struct {
		index, n int
		want     string
	}{
		{0, 1, "|0⟩"},
		{1, 1, "|1⟩"},
		{3, 2, "|11⟩"},
		{1, 3, "|001⟩"},
		{4, 3, "|100⟩"},
	}
	for _, tt := range tests {
		if got := formatKet(tt.index, tt.n); got != tt.want {
			t.Errorf("formatKet(%d, %d) = %q, want %q", tt.index, tt.n, got, tt.want)
		}
	}
}

func TestPadCenter(t *testing.T) {
	if got := padCenter("H", 5); got != "  H  " {
		t.Errorf("padCenter(H, 5) = %q", got)
	}
	if got := padCenter("CX", 5); got != " CX  " {
		t.Errorf("padCenter(CX, 5) = %q", got)
	}
	if got := padCenter("TOOLONG", 5); got != "TOOLO" {
		t.Errorf("padCenter(TOOLONG, 5) = %q", got)
	}
}

func TestDiagramColumnsSplitsCrossingWires(t *testing.T) {
	// CX q[0],q[2] and H q[1] share a moment but the CNOT wire crosses q[1].
	c := quantum.NewCircuit(3).AddCNOT(0, 2).AddGate(quantum.GateH, 1)
	if got := len(c.Layers()); got != 1 {
		t.Fatalf("expected 1 moment, got %d", got)
	}
	cols := diagramColumns(c)
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d: %v", len(cols), cols)
	}

	// Disjoint spans stay together.
	c = quantum.NewCircuit(4).AddCNOT(0, 1).AddCNOT(3, 2)
	if cols := diagramColumns(c); len(cols) != 1 {
		t.Errorf("expected 1 column, got %d: %v", len(cols), cols)
	}
}

func TestCellAt(t *testing.T) {
	col := []quantum.Op{{Type: quantum.OpCX, Control: 3, Target: 0}}

	target := cellAt(col, 0)
	if !target.isTarget || target.vertAbove || !target.vertBelow {
		t.Errorf("q[0]: got %+v", target)
	}
	mid := cellAt(col, 2)
	if !mid.passThrough || !mid.vertAbove || !mid.vertBelow {
		t.Errorf("q[2]: got %+v", mid)
	}
	control := cellAt(col, 3)
	if !control.isControl || !control.vertAbove || control.vertBelow {
		t.Errorf("q[3]: got %+v", control)
	}
	if empty := cellAt(col, 4); empty.op != nil || empty.passThrough {
		t.Errorf("q[4]: got %+v", empty)
	}
}

func TestRenderCellWidth(t *testing.T) {
	h := quantum.Op{Type: quantum.OpH, Target: 0, Control: -1}
	cells := []cellInfo{
		{},
		{op: &h},
		{op: &h, isControl: true, vertBelow: true},
		{op: &h, isTarget: true, vertAbove: true},
		{passThrough: true, vertAbove: true, vertBelow: true},
	}
	for i, info := range cells {
		top, mid, bot := renderCell(info)
		for _, line := range []string{top, mid, bot} {
			if w := lipgloss.Width(line); w != cellW {
				t.Errorf("cell %d: line %q has width %d, want %d", i, line, w, cellW)
			}
		}
	}
}

func TestRenderCircuit(t *testing.T) {
	out := renderCircuit(quantum.StandardCircuit(3))
	for _, want := range []string{"q[0]", "q[1]", "q[2]", "┤  X  ├", "┤  H  ├", "●", "⊕"} {
		if !strings.Contains(out, want) {
			t.Errorf("diagram missing %q:\n%s", want, out)
		}
	}
	// Header plus three lines per qubit.
	if lines := strings.Count(out, "\n") + 1; lines != 1+3*3 {
		t.Errorf("expected 10 lines, got %d:\n%s", lines, out)
	}
}

func TestRenderAmplitudes(t *testing.T) {
	s, err := quantum.NewRunner(nil).Run(quantum.BellCircuit())
	if err != nil {
		t.Fatal(err)
	}
	out := renderAmplitudes(s, quantum.DefaultThreshold)
	for _, want := range []string{"|00⟩", "|11⟩", "+0.70710678", "0.500000"} {
		if !strings.Contains(out, want) {
			t.Errorf("amplitude table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "|01⟩") {
		t.Errorf("amplitude table lists a zero amplitude:\n%s", out)
	}

	zero := &quantum.StateVector{NumQubits: 1, Amplitudes: []float64{0, 0}}
	if out := renderAmplitudes(zero, quantum.DefaultThreshold); !strings.Contains(out, "no amplitude") {
		t.Errorf("expected empty notice, got %q", out)
	}
}

func TestRenderObservations(t *testing.T) {
	out := renderObservations([]bench.Observation{{NumQubits: 12, Repeats: 3}})
	if !strings.Contains(out, "12") || !strings.Contains(out, "mean (s)") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestVerifyStrategies(t *testing.T) {
	results, err := verifyStrategies(5, 7, 1e-9)
	if err != nil {
		t.Fatalf("verifyStrategies: %v", err)
	}
	// bitindexed, parallel and tensor, each at 1..5 qubits.
	if len(results) != 15 {
		t.Fatalf("expected 15 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("%s at %d qubits: max diff %g", r.Strategy, r.NumQubits, r.MaxDiff)
		}
		want := 3*r.NumQubits + r.NumQubits*(r.NumQubits-1)
		if r.Checks != want {
			t.Errorf("%s at %d qubits: %d checks, want %d", r.Strategy, r.NumQubits, r.Checks, want)
		}
	}

	if _, err := verifyStrategies(quantum.DenseMaxQubits+1, 1, 1e-9); err == nil {
		t.Error("expected an error above the dense limit")
	}
}
