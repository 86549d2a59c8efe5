// Package gga implements C9: the guided genetic algorithm that polishes a
// feasible CSP solution toward the fitness targets in spec §4.6/§4.7.
package gga

import (
	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
)

func toCandidate(g chromosome.Gene, cohortSize int) constraint.Candidate {
	return constraint.Candidate{
		SessionID:  g.VariableID,
		CohortID:   g.CohortID,
		CourseCode: g.CourseCode,
		Canonical:  g.Canonical,
		LecturerID: g.Lecturer,
		RoomID:     g.Room,
		Day:        g.Day,
		Period:     g.Period,
		Term:       g.Term,
		CohortSize: cohortSize,
	}
}

// placeAll loads every gene of `c` into a fresh constraint context,
// skipping hard-constraint validation (the chromosome is assumed feasible
// already — it came from the CSP or a previously-repaired generation).
// Used to give crossover/mutation a baseline to diff against.
func placeAll(c *chromosome.Chromosome, res *domain.Resources, ctx *constraint.Context) {
	for _, g := range c.Genes {
		ctx.Place(toCandidate(g, cohortSizeOf(res, g.CohortID)))
	}
}

func cohortSizeOf(res *domain.Resources, id domain.CohortID) int {
	if cohort, ok := res.Cohorts[id]; ok {
		return cohort.Size
	}
	return 0
}
