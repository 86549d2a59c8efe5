package gga

import (
	"context"
	"math/rand"
	"runtime"
	"sort"

	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// Options controls the generation loop. Defaults follow spec §4.7.
type Options struct {
	PopulationSize   int
	TournamentK      int
	ElitismFraction  float64
	TargetFitness    float64
	MaxGenerations   int
	StagnationLimit  int
	Rates            MutationRates
	Seed             int64
	Workers          int
}

// DefaultOptions returns the spec's stated defaults.
func DefaultOptions() Options {
	return Options{
		PopulationSize:  100,
		TournamentK:     3,
		ElitismFraction: 0.05,
		TargetFitness:   0.90,
		MaxGenerations:  500,
		StagnationLimit: 50,
		Rates:           DefaultMutationRates(),
		Seed:            1,
		Workers:         runtime.GOMAXPROCS(0),
	}
}

// Result is the GGA's final output: the best chromosome seen across every
// generation, materialized back into assignments, plus run statistics.
type Result struct {
	Assignments []domain.Assignment
	Score       chromosome.Score
	Generations int
}

// Run polishes `seed` (a complete CSP solution) across Options.MaxGenerations
// generations, terminating early on target fitness or stagnation (spec
// §4.7 Termination).
func Run(ctx context.Context, seedSolution *chromosome.Chromosome, vars map[domain.SessionID]*variable.Variable, res *domain.Resources, reg *timeslot.Registry, suite []constraint.Predicate, weights chromosome.Weights, opts Options) (*Result, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	pop := Seed(seedSolution, vars, res, reg, suite, opts.PopulationSize, rng)
	for _, c := range pop {
		chromosome.RecomputeConflictScores(c, res, reg, suite)
	}

	scores, err := evaluatePopulation(ctx, pop, res, reg, weights, workerCount(opts.Workers))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCancelled.Code, appErrors.ErrCancelled.Status, "generation cancelled")
	}

	bestIdx := bestOf(scores)
	best := pop[bestIdx].Clone()
	bestScore := scores[bestIdx]
	stagnant := 0

	eliteCount := int(float64(opts.PopulationSize) * opts.ElitismFraction)
	if eliteCount < 1 {
		eliteCount = 1
	}

	gen := 0
	for ; gen < opts.MaxGenerations; gen++ {
		if bestScore.Overall >= opts.TargetFitness {
			break
		}
		if stagnant >= opts.StagnationLimit {
			break
		}
		select {
		case <-ctx.Done():
			return nil, appErrors.Wrap(ctx.Err(), appErrors.ErrCancelled.Code, appErrors.ErrCancelled.Status, "generation cancelled")
		default:
		}

		fitness := make([]float64, len(pop))
		for i, s := range scores {
			fitness[i] = s.Overall
		}

		ranked := rankByFitness(fitness)
		next := make([]*chromosome.Chromosome, 0, opts.PopulationSize)
		for i := 0; i < eliteCount && i < len(ranked); i++ {
			next = append(next, pop[ranked[i]].Clone())
		}

		for len(next) < opts.PopulationSize {
			pa := tournamentSelect(fitness, opts.TournamentK, rng)
			pb := tournamentSelect(fitness, opts.TournamentK, rng)
			child := Crossover(pop[pa], pop[pb], vars, res, reg, suite, rng)
			child = Mutate(child, vars, res, reg, suite, opts.Rates, rng)
			next = append(next, child)
		}

		pop = next
		for _, c := range pop {
			chromosome.RecomputeConflictScores(c, res, reg, suite)
		}
		scores, err = evaluatePopulation(ctx, pop, res, reg, weights, workerCount(opts.Workers))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCancelled.Code, appErrors.ErrCancelled.Status, "generation cancelled")
		}

		genBestIdx := bestOf(scores)
		if scores[genBestIdx].Overall > bestScore.Overall {
			bestScore = scores[genBestIdx]
			best = pop[genBestIdx].Clone()
			stagnant = 0
		} else {
			stagnant++
		}
	}

	return &Result{
		Assignments: best.ToAssignments(),
		Score:       bestScore,
		Generations: gen,
	}, nil
}

func workerCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func bestOf(scores []chromosome.Score) int {
	best := 0
	for i, s := range scores {
		if s.Overall > scores[best].Overall {
			best = i
		}
	}
	return best
}

// rankByFitness returns population indices sorted best-first, used to pick
// the elite carry-over.
func rankByFitness(fitness []float64) []int {
	idx := make([]int, len(fitness))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return fitness[idx[i]] > fitness[idx[j]] })
	return idx
}
