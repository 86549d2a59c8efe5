package chromosome

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
)

func fixtureRegistry() *timeslot.Registry {
	return timeslot.NewRegistry([]domain.TimeSlot{
		{Period: "SLOT_1", Start: "08:00", SortOrder: 1},
		{Period: "SLOT_2", Start: "10:00", SortOrder: 2},
		{Period: "SLOT_3", Start: "13:00", SortOrder: 3},
		{Period: "SLOT_4", Start: "15:00", SortOrder: 4},
	})
}

func fixtureChromosome() *Chromosome {
	return &Chromosome{Genes: []Gene{
		{VariableID: "SG_A/CS101#1", CohortID: "SG_A", Lecturer: "L1", Room: "R1", Day: domain.Monday, Period: "SLOT_1"},
		{VariableID: "SG_A/CS101#2", CohortID: "SG_A", Lecturer: "L1", Room: "R1", Day: domain.Monday, Period: "SLOT_2"},
		{VariableID: "SG_B/CS102#1", CohortID: "SG_B", Lecturer: "L2", Room: "R2", Day: domain.Tuesday, Period: "SLOT_1"},
	}}
}

func fixtureResourcesForFitness() *domain.Resources {
	return &domain.Resources{
		Lecturers: map[domain.LecturerID]domain.Lecturer{
			"L1": {ID: "L1", Role: domain.RoleFullTime},
			"L2": {ID: "L2", Role: domain.RoleFullTime},
		},
		Rooms: map[domain.RoomID]domain.Room{
			"R1": {ID: "R1", Capacity: 30},
			"R2": {ID: "R2", Capacity: 30},
		},
		Cohorts: map[domain.CohortID]domain.Cohort{
			"SG_A": {ID: "SG_A", Size: 25},
			"SG_B": {ID: "SG_B", Size: 20},
		},
	}
}

func TestEvaluateProducesBoundedScores(t *testing.T) {
	c := fixtureChromosome()
	res := fixtureResourcesForFitness()
	reg := fixtureRegistry()

	score := Evaluate(c, res, reg, DefaultWeights())
	assert.GreaterOrEqual(t, score.Overall, 0.0)
	assert.LessOrEqual(t, score.Overall, 1.0)
	assert.GreaterOrEqual(t, score.IdleTime, 0.0)
	assert.GreaterOrEqual(t, score.WorkloadBalance, 0.0)
	assert.GreaterOrEqual(t, score.RoomUtilization, 0.0)
	assert.GreaterOrEqual(t, score.WeekdayDistribution, 0.0)
}

func TestIdleTimeScorePenalizesGaps(t *testing.T) {
	reg := fixtureRegistry()
	tight := &Chromosome{Genes: []Gene{
		{CohortID: "SG_A", Day: domain.Monday, Period: "SLOT_1"},
		{CohortID: "SG_A", Day: domain.Monday, Period: "SLOT_2"},
	}}
	gappy := &Chromosome{Genes: []Gene{
		{CohortID: "SG_A", Day: domain.Monday, Period: "SLOT_1"},
		{CohortID: "SG_A", Day: domain.Monday, Period: "SLOT_4"},
	}}
	assert.Greater(t, idleTimeScore(tight, reg), idleTimeScore(gappy, reg))
}

func TestRoomUtilizationReflectsOccupancy(t *testing.T) {
	res := fixtureResourcesForFitness()
	full := &Chromosome{Genes: []Gene{{CohortID: "SG_A", Room: "R1", Day: domain.Monday, Period: "SLOT_1"}}}
	score := roomUtilizationScore(full, res)
	assert.InDelta(t, 25.0/30.0, score, 0.001)
}

func TestWeekdayDistributionPenalizesEmptyDays(t *testing.T) {
	reg := fixtureRegistry()
	spread := &Chromosome{Genes: []Gene{
		{Day: domain.Monday}, {Day: domain.Tuesday}, {Day: domain.Wednesday}, {Day: domain.Thursday}, {Day: domain.Friday},
	}}
	lopsided := &Chromosome{Genes: []Gene{
		{Day: domain.Monday}, {Day: domain.Monday}, {Day: domain.Monday}, {Day: domain.Monday}, {Day: domain.Monday},
	}}
	assert.Greater(t, weekdayDistributionScore(spread, reg), weekdayDistributionScore(lopsided, reg))
}
