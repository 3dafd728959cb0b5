package quantum

import (
	"fmt"
	"math"
	"strings"
)

// GateKind identifies a single-qubit gate in the catalog.
type GateKind int

const (
	GateX GateKind = iota
	GateH
	GateT
)

// Matrix is a 2x2 real coefficient table. Row r, column c maps the
// (target bit = 0, target bit = 1) amplitude pair onto the new pair.
type Matrix [2][2]float64

var catalog = [...]Matrix{
	GateX: {
		{0, 1},
		{1, 0},
	},
	GateH: {
		{1 / math.Sqrt2, 1 / math.Sqrt2},
		{1 / math.Sqrt2, -1 / math.Sqrt2},
	},
	// Real stand-in for the phase gate: the true T needs e^{i*pi/4}, which a
	// real-valued state cannot carry. It does not preserve normalization.
	GateT: {
		{1, 0},
		{0, math.Sqrt2 / 2},
	},
}

// GateMatrix returns the catalog entry for kind. It panics on a kind outside
// the catalog, like any out-of-range table lookup.
func GateMatrix(kind GateKind) Matrix {
	return catalog[kind]
}

// Valid reports whether kind names a catalog entry.
func (k GateKind) Valid() bool {
	return k >= GateX && int(k) < len(catalog)
}

// Unitary reports whether applying the gate preserves the state norm.
func (k GateKind) Unitary() bool {
	return k.Valid() && GateMatrix(k).IsOrthogonal(1e-12)
}

func (k GateKind) String() string {
	switch k {
	case GateX:
		return "X"
	case GateH:
		return "H"
	case GateT:
		return "T"
	default:
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
}

// ParseGateKind maps a case-insensitive gate name ("x", "H", ...) to its kind.
func ParseGateKind(name string) (GateKind, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "X":
		return GateX, nil
	case "H":
		return GateH, nil
	case "T":
		return GateT, nil
	}
	return 0, fmt.Errorf("%w: unknown gate %q", ErrInvalidArgument, name)
}

// IsOrthogonal reports whether the rows of m are orthonormal within tol.
// For a real 2x2 matrix that is equivalent to m being unitary.
func (m Matrix) IsOrthogonal(tol float64) bool {
	r0 := m[0][0]*m[0][0] + m[0][1]*m[0][1]
	r1 := m[1][0]*m[1][0] + m[1][1]*m[1][1]
	dot := m[0][0]*m[1][0] + m[0][1]*m[1][1]
	return math.Abs(r0-1) <= tol && math.Abs(r1-1) <= tol && math.Abs(dot) <= tol
}
