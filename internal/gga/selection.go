package gga

import "math/rand"

// tournamentSelect runs a k-way tournament over `fitness` (indexed the same
// as the population) and returns the winning index (spec §4.7 Selection).
func tournamentSelect(fitness []float64, k int, rng *rand.Rand) int {
	best := rng.Intn(len(fitness))
	for i := 1; i < k; i++ {
		challenger := rng.Intn(len(fitness))
		if fitness[challenger] > fitness[best] {
			best = challenger
		}
	}
	return best
}
