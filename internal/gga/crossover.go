package gga

import (
	"math/rand"

	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
)

// Crossover produces one offspring from two parents by uniform gene
// selection, repairing any hard-constraint violation against the genes
// already committed to the offspring (spec §4.7 Crossover). Parents must
// share the same gene ordering (both built from the same variable list).
func Crossover(a, b *chromosome.Chromosome, vars map[domain.SessionID]*variable.Variable, res *domain.Resources, reg *timeslot.Registry, suite []constraint.Predicate, rng *rand.Rand) *chromosome.Chromosome {
	offspring := &chromosome.Chromosome{Genes: make([]chromosome.Gene, len(a.Genes))}
	ctx := constraint.NewContext(res, reg)

	for i := range a.Genes {
		from := a.Genes[i]
		if rng.Intn(2) == 1 {
			from = b.Genes[i]
		}

		size := cohortSizeOf(res, from.CohortID)
		cand := toCandidate(from, size)
		if ok, _ := constraint.Allow(ctx, cand, suite); ok {
			ctx.Place(cand)
			offspring.Genes[i] = from
			continue
		}

		if v, found := vars[from.VariableID]; found {
			if repaired, ok := randomFeasibleReassignment(ctx, v, from, suite, rng); ok {
				ctx.Place(toCandidate(repaired, size))
				offspring.Genes[i] = repaired
				continue
			}
		}
		// No feasible repair: keep the drawn parent gene as-is (spec §4.7).
		offspring.Genes[i] = from
	}
	return offspring
}
