package gga

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/csp"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
)

// fixture mirrors internal/csp's smallFixture: two cohorts sharing one
// course, wide enough that the CSP always finds a complete assignment,
// giving the GGA a feasible seed to polish.
func fixture() (*domain.Resources, *timeslot.Registry) {
	res := &domain.Resources{
		Lecturers: map[domain.LecturerID]domain.Lecturer{
			"L1": {ID: "L1", Role: domain.RoleFullTime, Specializations: map[domain.CanonicalGroupID]struct{}{"CSFUND": {}}},
			"L2": {ID: "L2", Role: domain.RoleFullTime, Specializations: map[domain.CanonicalGroupID]struct{}{"CSFUND": {}}},
		},
		Rooms: map[domain.RoomID]domain.Room{
			"R1": {ID: "R1", Type: domain.RoomTypeTheory, Capacity: 40},
			"R2": {ID: "R2", Type: domain.RoomTypeTheory, Capacity: 40},
		},
		Courses: map[domain.CourseCode]domain.Course{
			"CS101": {Code: "CS101", WeeklyHours: 2, PreferredRoomType: domain.RoomTypeTheory, CanonicalGroup: "CSFUND"},
		},
		Cohorts: map[domain.CohortID]domain.Cohort{
			"SG_A": {ID: "SG_A", Size: 20, Term: domain.Term1, Courses: []domain.CourseCode{"CS101"}},
			"SG_B": {ID: "SG_B", Size: 20, Term: domain.Term1, Courses: []domain.CourseCode{"CS101"}},
		},
	}
	reg := timeslot.NewRegistry([]domain.TimeSlot{
		{Period: "SLOT_1", Start: "08:00", SortOrder: 1},
		{Period: "SLOT_2", Start: "10:00", SortOrder: 2},
		{Period: "SLOT_3", Start: "12:00", SortOrder: 3},
		{Period: "SLOT_4", Start: "14:00", SortOrder: 4},
	})
	return res, reg
}

func buildVarsAndSolution(t *testing.T) (map[domain.SessionID]*variable.Variable, *domain.Resources, *timeslot.Registry, *chromosome.Chromosome) {
	t.Helper()
	res, reg := fixture()
	var varsList []*variable.Variable
	for _, cohortID := range []domain.CohortID{"SG_A", "SG_B"} {
		built, err := variable.Build(res.Cohorts[cohortID], res, reg, nil)
		require.NoError(t, err)
		varsList = append(varsList, built...)
	}
	vars := map[domain.SessionID]*variable.Variable{}
	for _, v := range varsList {
		vars[v.ID] = v
	}

	suite := constraint.DefaultSuite(true)
	cctx := constraint.NewContext(res, reg)
	engine := csp.NewEngine(res, cctx, suite, nil, csp.DefaultOptions())
	result, err := engine.Solve(context.Background(), varsList)
	require.NoError(t, err)

	solution := chromosome.FromAssignments(result.Assignments, vars)
	return vars, res, reg, solution
}

func TestSeedProducesRequestedPopulationSize(t *testing.T) {
	vars, res, reg, solution := buildVarsAndSolution(t)
	suite := constraint.DefaultSuite(true)
	rng := rand.New(rand.NewSource(1))

	pop := Seed(solution, vars, res, reg, suite, 10, rng)
	assert.Len(t, pop, 10)
	assert.Equal(t, solution.Genes, pop[0].Genes)
}

func TestTournamentSelectReturnsBestUnderDeterministicRNG(t *testing.T) {
	fitness := []float64{0.1, 0.9, 0.2}
	rng := rand.New(rand.NewSource(1))
	seenBest := false
	for i := 0; i < 50; i++ {
		if tournamentSelect(fitness, 3, rng) == 1 {
			seenBest = true
			break
		}
	}
	assert.True(t, seenBest, "tournament never picked the strictly best candidate across many draws")
}

func TestCrossoverProducesFeasibleOffspring(t *testing.T) {
	vars, res, reg, solution := buildVarsAndSolution(t)
	suite := constraint.DefaultSuite(true)
	rng := rand.New(rand.NewSource(2))

	pop := Seed(solution, vars, res, reg, suite, 5, rng)
	child := Crossover(pop[0], pop[1], vars, res, reg, suite, rng)
	assert.Len(t, child.Genes, len(solution.Genes))

	ctx := constraint.NewContext(res, reg)
	for _, g := range child.Genes {
		size := cohortSizeOf(res, g.CohortID)
		cand := toCandidate(g, size)
		ok, rej := constraint.Allow(ctx, cand, suite)
		require.True(t, ok, "offspring gene violates suite: %v", rej)
		ctx.Place(cand)
	}
}

func TestMutateKeepsGeneCountStable(t *testing.T) {
	vars, res, reg, solution := buildVarsAndSolution(t)
	suite := constraint.DefaultSuite(true)
	rng := rand.New(rand.NewSource(3))

	mutated := Mutate(solution, vars, res, reg, suite, MutationRates{Slot: 1, Room: 1, Lecturer: 1, Swap: 1}, rng)
	assert.Len(t, mutated.Genes, len(solution.Genes))

	ctx := constraint.NewContext(res, reg)
	for _, g := range mutated.Genes {
		size := cohortSizeOf(res, g.CohortID)
		cand := toCandidate(g, size)
		ok, rej := constraint.Allow(ctx, cand, suite)
		require.True(t, ok, "mutated gene violates suite: %v", rej)
		ctx.Place(cand)
	}
}

func TestRunReturnsAssignmentsForEveryVariable(t *testing.T) {
	vars, res, reg, solution := buildVarsAndSolution(t)
	suite := constraint.DefaultSuite(true)
	weights := chromosome.DefaultWeights()

	opts := DefaultOptions()
	opts.PopulationSize = 12
	opts.MaxGenerations = 5
	opts.StagnationLimit = 5
	opts.Workers = 2

	result, err := Run(context.Background(), solution, vars, res, reg, suite, weights, opts)
	require.NoError(t, err)
	assert.Len(t, result.Assignments, len(solution.Genes))
	assert.GreaterOrEqual(t, result.Score.Overall, 0.0)
	assert.LessOrEqual(t, result.Score.Overall, 1.0)
}

func TestRunStopsAtTargetFitness(t *testing.T) {
	vars, res, reg, solution := buildVarsAndSolution(t)
	suite := constraint.DefaultSuite(true)
	weights := chromosome.DefaultWeights()

	opts := DefaultOptions()
	opts.PopulationSize = 8
	opts.MaxGenerations = 200
	opts.TargetFitness = 0.0 // trivially satisfied by generation zero
	opts.Workers = 2

	result, err := Run(context.Background(), solution, vars, res, reg, suite, weights, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Generations, "loop should not have run past generation zero when the target is already met")
}
