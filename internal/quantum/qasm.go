package quantum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex       = regexp.MustCompile(`^qreg\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+(\w+)\s*\[\s*(\d+)\s*\]\s*,\s*(\w+)\s*\[\s*(\d+)\s*\]$`)
)

// ToQASM generates OpenQASM 2.0 for the circuit.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", c.NumQubits)
	for _, op := range c.Ops {
		if op.Control >= 0 {
			fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", strings.ToLower(op.Type), op.Control, op.Target)
		} else {
			fmt.Fprintf(&sb, "%s q[%d];\n", strings.ToLower(op.Type), op.Target)
		}
	}
	return sb.String()
}

// ParseQASM reads the OpenQASM 2.0 subset the simulator can run: one qreg
// and the x, h, t and cx gates. Headers, creg, barrier and comments are
// skipped; any other statement is an error naming its line.
func ParseQASM(src string) (*Circuit, error) {
	c := &Circuit{}
	reg := ""

	for n, raw := range strings.Split(src, "\n") {
		lineNo := n + 1
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}

		if matches := qregRegex.FindStringSubmatch(line); matches != nil {
			if reg != "" {
				return nil, qasmError(lineNo, "second qreg %q, only one register is supported", matches[1])
			}
			size, err := strconv.Atoi(matches[2])
			if err != nil || size < 1 || size > MaxQubits {
				return nil, qasmError(lineNo, "qreg size %s outside [1, %d]", matches[2], MaxQubits)
			}
			reg = matches[1]
			c.NumQubits = size
			continue
		}

		if reg == "" {
			return nil, qasmError(lineNo, "gate %q before qreg declaration", line)
		}

		// Two-qubit gates: cx
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			if gateType != OpCX && gateType != "CNOT" {
				return nil, qasmError(lineNo, "unsupported two-qubit gate %q", matches[1])
			}
			control, err := qubitRef(lineNo, reg, matches[2], matches[3])
			if err != nil {
				return nil, err
			}
			target, err := qubitRef(lineNo, reg, matches[4], matches[5])
			if err != nil {
				return nil, err
			}
			c.AddCNOT(control, target)
			continue
		}

		// Single-qubit gates: x, h, t
		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			kind, err := ParseGateKind(matches[1])
			if err != nil {
				return nil, qasmError(lineNo, "unsupported gate %q", matches[1])
			}
			target, err := qubitRef(lineNo, reg, matches[2], matches[3])
			if err != nil {
				return nil, err
			}
			c.AddGate(kind, target)
			continue
		}

		return nil, qasmError(lineNo, "unsupported statement %q", line)
	}

	if reg == "" {
		return nil, fmt.Errorf("%w: qasm: no qreg declaration", ErrInvalidArgument)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("qasm: %w", err)
	}
	return c, nil
}

func qubitRef(lineNo int, reg, name, index string) (int, error) {
	if name != reg {
		return 0, qasmError(lineNo, "unknown register %q", name)
	}
	q, err := strconv.Atoi(index)
	if err != nil {
		return 0, qasmError(lineNo, "bad qubit index %q", index)
	}
	return q, nil
}

func qasmError(lineNo int, format string, args ...any) error {
	return fmt.Errorf("%w: qasm line %d: %s", ErrInvalidArgument, lineNo, fmt.Sprintf(format, args...))
}
