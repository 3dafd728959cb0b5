package quantum

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every engine entry point. Returned errors wrap one
// of these so callers can classify them with errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidQubitIndex = errors.New("invalid qubit index")
)

// OpError reports the circuit operation that aborted a run.
type OpError struct {
	Index int
	Op    Op
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("op %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func checkQubit(role string, qubit, numQubits int) error {
	if qubit < 0 || qubit >= numQubits {
		return fmt.Errorf("%w: %s %d outside [0, %d)", ErrInvalidQubitIndex, role, qubit, numQubits)
	}
	return nil
}
