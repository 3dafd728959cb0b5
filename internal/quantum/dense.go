package quantum

// DenseMaxQubits bounds the Dense strategy: a 12-qubit operator is
// 4096x4096 float64, 128 MiB.
const DenseMaxQubits = 12

// Dense builds the full 2^n x 2^n operator for every gate and multiplies it
// into the state. It exists as a slow reference for the other strategies.
// Time: O(4^n); Memory: O(4^n).
type Dense struct{}

func (Dense) Name() string   { return "dense" }
func (Dense) MaxQubits() int { return DenseMaxQubits }

func (Dense) ApplySingle(s *StateVector, m Matrix, target int) {
	multiplyInto(s.Amplitudes, DenseOperator(m, target, s.NumQubits))
}

func (Dense) ApplyCNOT(s *StateVector, control, target int) {
	multiplyInto(s.Amplitudes, DenseCNOTOperator(control, target, s.NumQubits))
}

// DenseOperator expands m acting on target into the operator on numQubits
// qubits: identity on every other qubit. Entry [i][j] is non-zero only when
// i and j agree everywhere except the target bit, and then equals
// m[bit_i][bit_j].
func DenseOperator(m Matrix, target, numQubits int) [][]float64 {
	dim := 1 << numQubits
	mask := ^(1 << target)
	op := newSquare(dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i&mask == j&mask {
				op[i][j] = m[(i>>target)&1][(j>>target)&1]
			}
		}
	}
	return op
}

// DenseCNOTOperator returns the permutation matrix of a controlled NOT.
func DenseCNOTOperator(control, target, numQubits int) [][]float64 {
	dim := 1 << numQubits
	op := newSquare(dim)
	for i := 0; i < dim; i++ {
		if (i>>control)&1 == 1 {
			op[i][i^(1<<target)] = 1
		} else {
			op[i][i] = 1
		}
	}
	return op
}

func newSquare(dim int) [][]float64 {
	backing := make([]float64, dim*dim)
	rows := make([][]float64, dim)
	for i := range rows {
		rows[i] = backing[i*dim : (i+1)*dim]
	}
	return rows
}

// multiplyInto overwrites v with op*v.
func multiplyInto(v []float64, op [][]float64) {
	result := make([]float64, len(v))
	for i, row := range op {
		sum := 0.0
		for j, x := range row {
			sum += x * v[j]
		}
		result[i] = sum
	}
	copy(v, result)
}
