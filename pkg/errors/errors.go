// Package errors provides the typed error taxonomy used across the
// scheduling core (spec §7). Each Error carries a Code for structured
// payloads, a Status reused as the CLI exit code (spec §6), and an
// optionally wrapped cause.
package errors

import (
	"errors"
	"fmt"
)

// CLI exit codes, reused as Error.Status (spec §6).
const (
	ExitOK          = 0
	ExitBadInput    = 1
	ExitInfeasible  = 2
	ExitCancelled   = 3
)

// Error represents a typed domain error from the scheduling core.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Sentinel errors, one per spec §7 taxonomy entry.
var (
	// ErrBadInput: raised by validation before C3. Fatal; caller must fix data.
	ErrBadInput = New("BAD_INPUT", ExitBadInput, "invalid input data")

	// ErrSplitConflict: raised by C3 when a hard course_group pairing
	// cannot land in one term. Fatal for that faculty/term.
	ErrSplitConflict = New("SPLIT_CONFLICT", ExitInfeasible, "conflicting term preferences for paired courses")

	// ErrInfeasibleDomain: raised by C4 when a variable's candidate set is
	// empty on one axis. Fatal for that variable.
	ErrInfeasibleDomain = New("INFEASIBLE_DOMAIN", ExitInfeasible, "no feasible candidates for session")

	// ErrNoSolution: raised by C7 when the node/time budget is exhausted or
	// every candidate has been tried without a complete assignment.
	// Warning; a partial assignment is returned alongside it.
	ErrNoSolution = New("NO_SOLUTION", ExitInfeasible, "search budget exhausted before a complete assignment was found")

	// ErrCancelled: raised by any phase when the caller's cancellation
	// signal fires. Returned with partial state.
	ErrCancelled = New("CANCELLED", ExitCancelled, "generation cancelled")

	ErrValidation = New("VALIDATION_ERROR", ExitBadInput, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", ExitBadInput, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
