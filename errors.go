package dcp

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed computation.
type ErrorCode string

const (
	ErrInvalidRange             ErrorCode = "INVALID_RANGE"
	ErrBracketingFailure        ErrorCode = "BRACKETING_FAILURE"
	ErrRootSolveFailure         ErrorCode = "ROOT_SOLVE_FAILURE"
	ErrInvalidSelector          ErrorCode = "INVALID_SELECTOR"
	ErrInvalidBoundaryCondition ErrorCode = "INVALID_BOUNDARY_CONDITION"
	ErrInvalidArgument          ErrorCode = "INVALID_ARGUMENT"
	ErrReflectionLimit          ErrorCode = "REFLECTION_LIMIT"
	ErrNonMonotonic             ErrorCode = "NON_MONOTONIC"
	ErrCanceled                 ErrorCode = "CANCELED"
)

// Error is the failure type of every computation in this package. Any Error
// aborts the whole calling chain; no partial result accompanies it.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsCode reports whether err, or anything it wraps, is an *Error with code.
func IsCode(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

func newInvalidRange(x float64) *Error {
	return &Error{
		Code:    ErrInvalidRange,
		Message: "bracket endpoints must differ",
		Details: map[string]any{"x": x},
	}
}

func newBracketingFailure(x1, x2 float64, tries int) *Error {
	return &Error{
		Code:    ErrBracketingFailure,
		Message: fmt.Sprintf("no sign change found after %d tries", tries),
		Details: map[string]any{"x1": x1, "x2": x2},
	}
}

func newRootSolveFailure(msg string, a, b float64) *Error {
	return &Error{
		Code:    ErrRootSolveFailure,
		Message: msg,
		Details: map[string]any{"a": a, "b": b},
	}
}

func newInvalidSelector(s Selector) *Error {
	return &Error{
		Code:    ErrInvalidSelector,
		Message: fmt.Sprintf("selector must be 1, 2, 3 or 4, got %d", int(s)),
	}
}

func newInvalidBoundaryCondition(b float64) *Error {
	return &Error{
		Code:    ErrInvalidBoundaryCondition,
		Message: fmt.Sprintf("b must be 0 (Dirichlet-Dirichlet) or 0.5 (Neumann-Dirichlet), got %v", b),
		Details: map[string]any{"b": b},
	}
}

func newInvalidArgument(msg string) *Error {
	return &Error{Code: ErrInvalidArgument, Message: msg}
}

func newCanceled(err error) *Error {
	return &Error{Code: ErrCanceled, Message: "computation canceled", Err: err}
}
