package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed scalar inputs: unknown style,
	// non-positive duration, zero open value, non-positive counts.
	ErrInvalidInput = errors.New("simulation: invalid input")

	// ErrBoundaryViolation marks a start or end value outside the daily band.
	ErrBoundaryViolation = errors.New("simulation: boundary violation")

	// ErrNumericDefect marks a non-finite value reaching the output stage.
	// This is an internal invariant failure, not a user input error.
	ErrNumericDefect = errors.New("simulation: numeric defect")
)

func invalidInputf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, a...))
}

func boundaryViolationf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBoundaryViolation, fmt.Sprintf(format, a...))
}

func numericDefectf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNumericDefect, fmt.Sprintf(format, a...))
}
