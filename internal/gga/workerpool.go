package gga

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
)

// evaluatePopulation scores every chromosome concurrently. chromosome.Evaluate
// only reads `res`/`reg` and the chromosome's own genes, so population
// members can be scored in parallel without per-goroutine context clones.
func evaluatePopulation(ctx context.Context, pop []*chromosome.Chromosome, res *domain.Resources, reg *timeslot.Registry, weights chromosome.Weights, workers int) ([]chromosome.Score, error) {
	scores := make([]chromosome.Score, len(pop))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range pop {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			scores[i] = chromosome.Evaluate(c, res, reg, weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
