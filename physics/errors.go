package physics

import (
	"errors"
	"fmt"
)

// ErrDisposed is returned by operations on a world that has been disposed.
var ErrDisposed = errors.New("physics: world disposed")

// InvalidStepError reports a Step call that breaks the fixed-step contract.
// It indicates a programming error in the caller.
type InvalidStepError struct {
	Dt       float64
	Expected float64 // dt of the first accepted step, 0 if none yet
	Reason   string
}

func (e *InvalidStepError) Error() string {
	if e.Expected > 0 {
		return fmt.Sprintf("physics: invalid step dt=%v (expected %v): %s", e.Dt, e.Expected, e.Reason)
	}
	return fmt.Sprintf("physics: invalid step dt=%v: %s", e.Dt, e.Reason)
}
