package gga

import (
	"math/rand"

	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
)

// Seed builds the initial population: one clone of the CSP solution plus
// n-1 mutants produced by single-variable reassignment that still passes
// the constraint suite (spec §4.7 Seeding).
func Seed(solution *chromosome.Chromosome, vars map[domain.SessionID]*variable.Variable, res *domain.Resources, reg *timeslot.Registry, suite []constraint.Predicate, n int, rng *rand.Rand) []*chromosome.Chromosome {
	pop := make([]*chromosome.Chromosome, 0, n)
	pop = append(pop, solution.Clone())

	for len(pop) < n {
		mutant := solution.Clone()
		ctx := constraint.NewContext(res, reg)
		placeAll(mutant, res, ctx)

		idx := rng.Intn(len(mutant.Genes))
		g := mutant.Genes[idx]
		v, ok := vars[g.VariableID]
		if !ok {
			pop = append(pop, mutant)
			continue
		}

		ctx.Unplace(toCandidate(g, cohortSizeOf(res, g.CohortID)))
		if replacement, found := randomFeasibleReassignment(ctx, v, g, suite, rng); found {
			mutant.Genes[idx] = replacement
			ctx.Place(toCandidate(replacement, cohortSizeOf(res, g.CohortID)))
		} else {
			ctx.Place(toCandidate(g, cohortSizeOf(res, g.CohortID)))
		}
		pop = append(pop, mutant)
	}
	return pop
}

// randomFeasibleReassignment tries a shuffled walk of v's domain, looking
// for any (slot, lecturer, room) triple — other than the gene's current
// one — that the suite accepts.
func randomFeasibleReassignment(ctx *constraint.Context, v *variable.Variable, current chromosome.Gene, suite []constraint.Predicate, rng *rand.Rand) (chromosome.Gene, bool) {
	slots := shuffleSlots(v.Slots, rng)
	lects := shuffleLecturers(v.Lecturers, rng)
	rooms := shuffleRooms(v.Rooms, rng)

	for _, slot := range slots {
		for _, lect := range lects {
			for _, room := range rooms {
				if slot == (timeslot.DayPeriod{Day: current.Day, Period: current.Period}) && lect == current.Lecturer && room == current.Room {
					continue
				}
				cand := constraint.Candidate{
					SessionID:  current.VariableID,
					CohortID:   current.CohortID,
					CourseCode: current.CourseCode,
					Canonical:  current.Canonical,
					LecturerID: lect,
					RoomID:     room,
					Day:        slot.Day,
					Period:     slot.Period,
					Term:       current.Term,
					CohortSize: cohortSizeOfCtx(ctx, current.CohortID),
				}
				if ok, _ := constraint.Allow(ctx, cand, suite); ok {
					next := current
					next.Day, next.Period, next.Lecturer, next.Room = slot.Day, slot.Period, lect, room
					return next, true
				}
			}
		}
	}
	return current, false
}

func cohortSizeOfCtx(ctx *constraint.Context, id domain.CohortID) int {
	if cohort, ok := ctx.Resources.Cohorts[id]; ok {
		return cohort.Size
	}
	return 0
}

func shuffleSlots(in []timeslot.DayPeriod, rng *rand.Rand) []timeslot.DayPeriod {
	out := append([]timeslot.DayPeriod(nil), in...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func shuffleLecturers(in []domain.LecturerID, rng *rand.Rand) []domain.LecturerID {
	out := append([]domain.LecturerID(nil), in...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func shuffleRooms(in []domain.RoomID, rng *rand.Rand) []domain.RoomID {
	out := append([]domain.RoomID(nil), in...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
