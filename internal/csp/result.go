package csp

import (
	"fmt"

	"github.com/campustt/timetable-core/internal/domain"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// Result is the successful output of a CSP search: a complete Assignment
// per synthesized session.
type Result struct {
	Assignments []domain.Assignment
	Nodes       int
}

// NoSolutionError is raised when the search stops before every variable is
// assigned, either because the node/time budget ran out or because every
// candidate was tried (spec §4.5 Termination).
type NoSolutionError struct {
	Err      *appErrors.Error
	Placed   []domain.Assignment
	Unplaced []domain.SessionID
	Nodes    int
}

// Error implements the error interface.
func (e *NoSolutionError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying *appErrors.Error to errors.As/errors.Is.
func (e *NoSolutionError) Unwrap() error { return e.Err }

func newNoSolution(placed []domain.Assignment, unplaced []domain.SessionID, nodes int) *NoSolutionError {
	return &NoSolutionError{
		Err:      appErrors.Clone(appErrors.ErrNoSolution, fmt.Sprintf("search budget exhausted: %d placed, %d unplaced", len(placed), len(unplaced))),
		Placed:   placed,
		Unplaced: unplaced,
		Nodes:    nodes,
	}
}
