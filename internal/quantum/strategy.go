package quantum

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BitIndexed updates amplitude pairs in place in a single pass.
// Time: O(2^n); Memory: O(1).
type BitIndexed struct{}

func (BitIndexed) Name() string   { return "bitindexed" }
func (BitIndexed) MaxQubits() int { return 0 }

func (BitIndexed) ApplySingle(s *StateVector, m Matrix, target int) {
	amps := s.Amplitudes
	bit := 1 << target
	for i := range amps {
		if i&bit == 0 {
			j := i | bit
			a, b := amps[i], amps[j]
			amps[i] = m[0][0]*a + m[0][1]*b
			amps[j] = m[1][0]*a + m[1][1]*b
		}
	}
}

func (BitIndexed) ApplyCNOT(s *StateVector, control, target int) {
	amps := s.Amplitudes
	cBit := 1 << control
	tBit := 1 << target
	for i := range amps {
		// Only the member of each pair with the target bit clear swaps.
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

// DefaultParallelMinDimension is the state size below which Parallel runs
// the sequential loops; goroutine setup dominates on smaller vectors.
const DefaultParallelMinDimension = 1 << 14

// Parallel splits the pairs touched by a gate into contiguous chunks and
// updates them concurrently. Pairs never overlap, so chunks share no
// amplitudes. Results are identical to BitIndexed.
type Parallel struct {
	// Workers caps concurrent chunks; zero means GOMAXPROCS.
	Workers int
	// MinDimension is the smallest state that is split into chunks; zero
	// means DefaultParallelMinDimension.
	MinDimension int
}

func (Parallel) Name() string   { return "parallel" }
func (Parallel) MaxQubits() int { return 0 }

func (p Parallel) minDimension() int {
	if p.MinDimension > 0 {
		return p.MinDimension
	}
	return DefaultParallelMinDimension
}

func (p Parallel) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (p Parallel) ApplySingle(s *StateVector, m Matrix, target int) {
	if s.Dimension() < p.minDimension() {
		BitIndexed{}.ApplySingle(s, m, target)
		return
	}
	amps := s.Amplitudes
	bit := 1 << target
	p.forEachChunk(len(amps)/2, func(lo, hi int) {
		for k := lo; k < hi; k++ {
			i := insertZeroBit(k, target)
			j := i | bit
			a, b := amps[i], amps[j]
			amps[i] = m[0][0]*a + m[0][1]*b
			amps[j] = m[1][0]*a + m[1][1]*b
		}
	})
}

func (p Parallel) ApplyCNOT(s *StateVector, control, target int) {
	if s.Dimension() < p.minDimension() {
		BitIndexed{}.ApplyCNOT(s, control, target)
		return
	}
	amps := s.Amplitudes
	cBit := 1 << control
	tBit := 1 << target
	low, high := min(control, target), max(control, target)
	p.forEachChunk(len(amps)/4, func(lo, hi int) {
		for k := lo; k < hi; k++ {
			i := insertZeroBit(insertZeroBit(k, low), high) | cBit
			j := i | tBit
			amps[i], amps[j] = amps[j], amps[i]
		}
	})
}

// forEachChunk runs fn over [0, n) split into at most workers ranges and
// waits for all of them.
func (p Parallel) forEachChunk(n int, fn func(lo, hi int)) {
	w := p.workers()
	chunk := (n + w - 1) / w
	var g errgroup.Group
	g.SetLimit(w)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// insertZeroBit widens k by inserting a 0 at bit position pos, shifting the
// higher bits left. Counting k over [0, 2^(n-1)) visits every n-bit index
// whose bit pos is clear exactly once.
func insertZeroBit(k, pos int) int {
	lowMask := 1<<pos - 1
	return (k>>pos)<<(pos+1) | k&lowMask
}

// TensorContract accumulates each amplitude's contribution into a fresh
// buffer and copies it back.
// Time: O(2^n); Memory: O(2^n).
type TensorContract struct{}

func (TensorContract) Name() string   { return "tensor" }
func (TensorContract) MaxQubits() int { return 0 }

func (TensorContract) ApplySingle(s *StateVector, m Matrix, target int) {
	bit := 1 << target
	next := make([]float64, len(s.Amplitudes))
	for i, v := range s.Amplitudes {
		b0, b1 := i&^bit, i|bit
		if i&bit == 0 {
			next[b0] += m[0][0] * v
			next[b1] += m[1][0] * v
		} else {
			next[b0] += m[0][1] * v
			next[b1] += m[1][1] * v
		}
	}
	copy(s.Amplitudes, next)
}

func (TensorContract) ApplyCNOT(s *StateVector, control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	next := make([]float64, len(s.Amplitudes))
	for i := range next {
		if i&cBit != 0 {
			next[i] = s.Amplitudes[i^tBit]
		} else {
			next[i] = s.Amplitudes[i]
		}
	}
	copy(s.Amplitudes, next)
}
