package gga

import (
	"math/rand"

	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
)

// MutationRates holds the per-kind mutation probabilities from spec §4.7.
type MutationRates struct {
	Slot     float64
	Room     float64
	Lecturer float64
	Swap     float64
}

// DefaultMutationRates is a conservative default: each kind independently
// rolled per gene, low enough that most genes survive a generation
// untouched.
func DefaultMutationRates() MutationRates {
	return MutationRates{Slot: 0.05, Room: 0.05, Lecturer: 0.05, Swap: 0.03}
}

// Mutate applies targeted, conflict-weighted mutation to a clone of `c`.
// Genes with a higher conflict_score are proportionally more likely to be
// picked for each mutation kind (spec §4.7 Mutation); every mutation is
// guarded by a feasibility check and discarded if none exists.
func Mutate(c *chromosome.Chromosome, vars map[domain.SessionID]*variable.Variable, res *domain.Resources, reg *timeslot.Registry, suite []constraint.Predicate, rates MutationRates, rng *rand.Rand) *chromosome.Chromosome {
	out := c.Clone()
	ctx := constraint.NewContext(res, reg)
	placeAll(out, res, ctx)

	for i := range out.Genes {
		g := out.Genes[i]
		weight := conflictWeight(g.ConflictScore)

		if rng.Float64() < rates.Slot*weight {
			mutateAxis(ctx, out, i, vars, res, suite, rng, axisSlot)
		}
		if rng.Float64() < rates.Room*weight {
			mutateAxis(ctx, out, i, vars, res, suite, rng, axisRoom)
		}
		if rng.Float64() < rates.Lecturer*weight {
			mutateAxis(ctx, out, i, vars, res, suite, rng, axisLecturer)
		}
	}
	if rng.Float64() < rates.Swap {
		trySwap(ctx, out, res, suite, rng)
	}
	return out
}

func conflictWeight(score int) float64 {
	return 1.0 + float64(score)
}

type axis int

const (
	axisSlot axis = iota
	axisRoom
	axisLecturer
)

func mutateAxis(ctx *constraint.Context, c *chromosome.Chromosome, idx int, vars map[domain.SessionID]*variable.Variable, res *domain.Resources, suite []constraint.Predicate, rng *rand.Rand, which axis) {
	g := c.Genes[idx]
	v, ok := vars[g.VariableID]
	if !ok {
		return
	}
	size := cohortSizeOf(res, g.CohortID)
	ctx.Unplace(toCandidate(g, size))

	var replacement chromosome.Gene
	var found bool
	switch which {
	case axisSlot:
		for _, slot := range shuffleSlots(v.Slots, rng) {
			cand := toCandidate(g, size)
			cand.Day, cand.Period = slot.Day, slot.Period
			if allowed, _ := constraint.Allow(ctx, cand, suite); allowed {
				replacement = g
				replacement.Day, replacement.Period = slot.Day, slot.Period
				found = true
				break
			}
		}
	case axisRoom:
		for _, room := range shuffleRooms(v.Rooms, rng) {
			cand := toCandidate(g, size)
			cand.RoomID = room
			if allowed, _ := constraint.Allow(ctx, cand, suite); allowed {
				replacement = g
				replacement.Room = room
				found = true
				break
			}
		}
	case axisLecturer:
		for _, lect := range shuffleLecturers(v.Lecturers, rng) {
			cand := toCandidate(g, size)
			cand.LecturerID = lect
			if allowed, _ := constraint.Allow(ctx, cand, suite); allowed {
				replacement = g
				replacement.Lecturer = lect
				found = true
				break
			}
		}
	}

	if found {
		c.Genes[idx] = replacement
		ctx.Place(toCandidate(replacement, size))
	} else {
		ctx.Place(toCandidate(g, size))
	}
}

// trySwap exchanges the (day, period) of two randomly chosen genes if both
// resulting placements are independently feasible (spec §4.7 Mutation:
// swap two genes' slots if compatible).
func trySwap(ctx *constraint.Context, c *chromosome.Chromosome, res *domain.Resources, suite []constraint.Predicate, rng *rand.Rand) {
	if len(c.Genes) < 2 {
		return
	}
	i := rng.Intn(len(c.Genes))
	j := rng.Intn(len(c.Genes))
	if i == j {
		return
	}
	gi, gj := c.Genes[i], c.Genes[j]
	sizeI, sizeJ := cohortSizeOf(res, gi.CohortID), cohortSizeOf(res, gj.CohortID)

	ctx.Unplace(toCandidate(gi, sizeI))
	ctx.Unplace(toCandidate(gj, sizeJ))

	swappedI, swappedJ := gi, gj
	swappedI.Day, swappedI.Period = gj.Day, gj.Period
	swappedJ.Day, swappedJ.Period = gi.Day, gi.Period

	okI, _ := constraint.Allow(ctx, toCandidate(swappedI, sizeI), suite)
	okJ, _ := constraint.Allow(ctx, toCandidate(swappedJ, sizeJ), suite)

	if okI && okJ {
		c.Genes[i], c.Genes[j] = swappedI, swappedJ
		ctx.Place(toCandidate(swappedI, sizeI))
		ctx.Place(toCandidate(swappedJ, sizeJ))
		return
	}
	ctx.Place(toCandidate(gi, sizeI))
	ctx.Place(toCandidate(gj, sizeJ))
}
