package descent

import (
	"errors"
	"fmt"
)

var (
	// ErrParameterBounds indicates a learning rate, start or step count outside its valid range.
	ErrParameterBounds = errors.New("descent: parameter out of valid bounds")

	// ErrDiverged indicates the position or loss left the finite range.
	ErrDiverged = errors.New("descent: iterate diverged (NaN or Inf)")
)

// StepError wraps an error with the step that produced it.
type StepError struct {
	Step    int
	W       float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at w=%g: %v", e.Step, e.W, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
