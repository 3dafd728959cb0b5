package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"svsim/internal/bench"
	"svsim/internal/quantum"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// formatKet writes basis index i as |q[n-1]...q[0]>, qubit 0 rightmost.
func formatKet(index, numQubits int) string {
	return "|" + fmt.Sprintf("%0*b", numQubits, index) + "⟩"
}

// ──────────────────────────── Circuit diagram ────────────────────────────

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	op          *quantum.Op
	isControl   bool
	isTarget    bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// diagramColumns lays the circuit's moments out as drawable columns. A moment
// whose CNOT wire would cross another op in the same moment is split so no
// two ops share a vertical span.
func diagramColumns(c *quantum.Circuit) [][]quantum.Op {
	var cols [][]quantum.Op
	for _, layer := range c.Layers() {
		var pending [][]quantum.Op
		for _, op := range layer {
			placed := false
			for i, col := range pending {
				if !spansOverlap(col, op) {
					pending[i] = append(col, op)
					placed = true
					break
				}
			}
			if !placed {
				pending = append(pending, []quantum.Op{op})
			}
		}
		cols = append(cols, pending...)
	}
	return cols
}

func span(op quantum.Op) (lo, hi int) {
	if op.Control < 0 {
		return op.Target, op.Target
	}
	return min(op.Control, op.Target), max(op.Control, op.Target)
}

func spansOverlap(col []quantum.Op, op quantum.Op) bool {
	lo, hi := span(op)
	for _, other := range col {
		olo, ohi := span(other)
		if lo <= ohi && olo <= hi {
			return true
		}
	}
	return false
}

// cellAt returns rendering information for qubit within one column.
func cellAt(col []quantum.Op, qubit int) cellInfo {
	var info cellInfo
	for i := range col {
		op := &col[i]
		lo, hi := span(*op)
		if qubit < lo || qubit > hi {
			continue
		}
		switch {
		case op.Control < 0:
			info.op = op
		case qubit == op.Control:
			info.op = op
			info.isControl = true
		case qubit == op.Target:
			info.op = op
			info.isTarget = true
		default:
			info.passThrough = true
		}
		info.vertAbove = qubit > lo
		info.vertBelow = qubit < hi
		return info
	}
	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case info.isControl:
		mid = strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR)
	case info.isTarget:
		mid = strings.Repeat("─", dashL) + gateStyle.Render("⊕") + strings.Repeat("─", dashR)
	case info.op != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.op.Type, gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
	default:
		mid = strings.Repeat("─", cellW)
	}
	return top, mid, bot
}

// renderCircuit draws the circuit as one wire per qubit, qubit 0 on top.
func renderCircuit(c *quantum.Circuit) string {
	cols := diagramColumns(c)
	var sb strings.Builder

	header := strings.Repeat(" ", labelVisualW)
	for i := range cols {
		header += dimStyle.Render(padCenter(strconv.Itoa(i), cellW))
	}
	sb.WriteString(header + "\n")

	for qubit := range c.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)
		for _, col := range cols {
			top, mid, bot := renderCell(cellAt(col, qubit))
			topLine += top
			midLine += mid
			botLine += bot
		}
		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ──────────────────────────── Tables ────────────────────────────

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tableBorderColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderAmplitudes lists the basis states whose amplitude magnitude exceeds
// threshold.
func renderAmplitudes(s *quantum.StateVector, threshold float64) string {
	amps := s.SignificantAmplitudes(threshold)
	if len(amps) == 0 {
		return dimStyle.Render(fmt.Sprintf("no amplitude above %g", threshold))
	}
	t := newTable("basis", "index", "amplitude", "probability")
	for _, a := range amps {
		t.Row(
			formatKet(a.Index, s.NumQubits),
			strconv.Itoa(a.Index),
			fmt.Sprintf("%+.8f", a.Value),
			fmt.Sprintf("%.6f", a.Probability()),
		)
	}
	return t.String()
}

func renderQubitProbabilities(s *quantum.StateVector) string {
	t := newTable("qubit", "P(0)", "P(1)")
	for q, p := range s.QubitProbabilities() {
		t.Row(fmt.Sprintf("q[%d]", q), fmt.Sprintf("%.6f", p.Prob0), fmt.Sprintf("%.6f", p.Prob1))
	}
	return t.String()
}

func renderObservations(obs []bench.Observation) string {
	t := newTable("qubits", "mean (s)", "min (s)", "max (s)", "runs")
	for _, o := range obs {
		t.Row(
			strconv.Itoa(o.NumQubits),
			fmt.Sprintf("%.6f", o.Elapsed.Seconds()),
			fmt.Sprintf("%.6f", o.Min.Seconds()),
			fmt.Sprintf("%.6f", o.Max.Seconds()),
			strconv.Itoa(o.Repeats),
		)
	}
	return t.String()
}

func renderVerifyResults(results []verifyResult) string {
	t := newTable("strategy", "qubits", "checks", "max |Δ|", "result")
	for _, r := range results {
		status := okStyle.Render("ok")
		if !r.Passed {
			status = errorStyle.Render("MISMATCH")
		}
		t.Row(r.Strategy, strconv.Itoa(r.NumQubits), strconv.Itoa(r.Checks), fmt.Sprintf("%.2e", r.MaxDiff), status)
	}
	return t.String()
}
