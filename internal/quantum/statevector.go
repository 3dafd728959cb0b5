package quantum

import (
	"fmt"
	"math"
)

const (
	// MaxQubits bounds construction: 2^30 float64 amplitudes take 8 GiB.
	MaxQubits = 30

	// DefaultThreshold is the magnitude below which an amplitude is treated
	// as zero when enumerating significant amplitudes.
	DefaultThreshold = 1e-10
)

// StateVector holds the 2^NumQubits real amplitudes of a register. Bit k of
// a basis index is the value of qubit k.
type StateVector struct {
	Amplitudes []float64
	NumQubits  int
}

// New returns the |0...0> state on numQubits qubits.
func New(numQubits int) (*StateVector, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: qubit count %d outside [1, %d]", ErrInvalidArgument, numQubits, MaxQubits)
	}
	amps := make([]float64, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}, nil
}

// Dimension is the number of basis states, 2^NumQubits.
func (s *StateVector) Dimension() int {
	return len(s.Amplitudes)
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]float64, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Reset puts the register back into |0...0> without reallocating.
func (s *StateVector) Reset() {
	clear(s.Amplitudes)
	s.Amplitudes[0] = 1
}

// Norm returns the sum of squared amplitudes.
func (s *StateVector) Norm() float64 {
	sum := 0.0
	for _, a := range s.Amplitudes {
		sum += a * a
	}
	return sum
}

// Equal reports whether both states have the same width and every amplitude
// differs by at most tol.
func (s *StateVector) Equal(other *StateVector, tol float64) bool {
	if other == nil || s.NumQubits != other.NumQubits || len(s.Amplitudes) != len(other.Amplitudes) {
		return false
	}
	for i, a := range s.Amplitudes {
		if math.Abs(a-other.Amplitudes[i]) > tol {
			return false
		}
	}
	return true
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal probability of each qubit reading
// 0 or 1.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, a := range s.Amplitudes {
		p := a * a
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// Amplitude pairs a basis index with its coefficient.
type Amplitude struct {
	Index int
	Value float64
}

// Probability is the squared magnitude of the amplitude.
func (a Amplitude) Probability() float64 {
	return a.Value * a.Value
}

// SignificantAmplitudes lists, in index order, the amplitudes whose
// magnitude exceeds threshold.
func (s *StateVector) SignificantAmplitudes(threshold float64) []Amplitude {
	var out []Amplitude
	for i, a := range s.Amplitudes {
		if math.Abs(a) > threshold {
			out = append(out, Amplitude{Index: i, Value: a})
		}
	}
	return out
}
