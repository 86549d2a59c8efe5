// Package dto defines the boundary types the core's orchestrator (C12)
// accepts and returns, mirroring spec §6's GenerationRequest/
// GenerationResult wire shapes.
package dto

import (
	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/verifier"
)

// ResourceBundle is the raw, caller-supplied resource collection for one
// per-faculty generation call (spec §6, "resources").
type ResourceBundle struct {
	Lecturers       []domain.Lecturer             `validate:"required,min=1"`
	Rooms           []domain.Room                 `validate:"required,min=1"`
	Courses         []domain.Course                `validate:"required,min=1"`
	CanonicalGroups []domain.CanonicalCourseGroup
	Cohorts         []domain.Cohort                `validate:"required,min=1"`
	TimeSlots       []domain.TimeSlot              `validate:"required,min=1"`
}

// Options governs one generation run; zero numeric, weight and seed fields
// are replaced with DefaultOptions() values by the orchestrator before use.
// Optimize is used as given: false skips the GGA pass.
type Options struct {
	Optimize           bool
	CSPNodeBudget      uint
	CSPTimeBudgetS     uint
	GGAPopulation      uint
	GGAMaxGenerations  uint
	GGATargetFitness   float64
	FitnessWeights     chromosome.Weights
	Seed               uint64
}

// DefaultOptions returns spec §6's stated defaults.
func DefaultOptions() Options {
	return Options{
		Optimize:          true,
		CSPNodeBudget:     10000,
		CSPTimeBudgetS:    300,
		GGAPopulation:     100,
		GGAMaxGenerations: 500,
		GGATargetFitness:  0.90,
		FitnessWeights:    chromosome.DefaultWeights(),
		Seed:              1,
	}
}

// GenerationRequest is one per-faculty, per-term generation call.
type GenerationRequest struct {
	Term      domain.Term    `validate:"required"`
	Faculty   string          `validate:"required"`
	Resources ResourceBundle `validate:"required"`
	Options   Options
}

// Status is the high-level outcome of a generation run.
type Status string

const (
	StatusSuccess    Status = "SUCCESS"
	StatusNoSolution Status = "NO_SOLUTION"
	StatusCancelled  Status = "CANCELLED"
)

// Stats carries the timing/search-effort counters spec §6 names.
type Stats struct {
	CSPMillis      int64
	GGAMillis      int64
	CSPNodes       int
	GGAGenerations int
	FinalFitness   float64
}

// GenerationResult is the orchestrator's output for one generation call.
type GenerationResult struct {
	Status       Status
	RunID        string
	Assignments  []domain.Assignment
	Fitness      *chromosome.Score
	Verification []verifier.ViolationRecord
	Stats        Stats
}
