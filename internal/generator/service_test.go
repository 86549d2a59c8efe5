package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/dto"
	"github.com/campustt/timetable-core/internal/ledger"
)

func fixtureRequest() dto.GenerationRequest {
	return dto.GenerationRequest{
		Term:    domain.Term1,
		Faculty: "Engineering",
		Resources: dto.ResourceBundle{
			Lecturers: []domain.Lecturer{
				{ID: "L1", Role: domain.RoleFullTime, Specializations: map[domain.CanonicalGroupID]struct{}{"CSFUND": {}}},
				{ID: "L2", Role: domain.RoleFullTime, Specializations: map[domain.CanonicalGroupID]struct{}{"CSFUND": {}}},
			},
			Rooms: []domain.Room{
				{ID: "R1", Type: domain.RoomTypeTheory, Capacity: 40, Available: true},
				{ID: "R2", Type: domain.RoomTypeTheory, Capacity: 40, Available: true},
			},
			Courses: []domain.Course{
				{Code: "CS101", WeeklyHours: 2, PreferredRoomType: domain.RoomTypeTheory, CanonicalGroup: "CSFUND"},
			},
			CanonicalGroups: []domain.CanonicalCourseGroup{
				{ID: "CSFUND", Name: "CS Fundamentals"},
			},
			Cohorts: []domain.Cohort{
				{ID: "SG_A", Size: 20, Term: domain.Term1, Courses: []domain.CourseCode{"CS101"}, Faculty: "Engineering", Active: true},
				{ID: "SG_B", Size: 20, Term: domain.Term1, Courses: []domain.CourseCode{"CS101"}, Faculty: "Engineering", Active: true},
			},
			TimeSlots: []domain.TimeSlot{
				{Period: "SLOT_1", Start: "08:00", SortOrder: 1},
				{Period: "SLOT_2", Start: "10:00", SortOrder: 2},
				{Period: "SLOT_3", Start: "12:00", SortOrder: 3},
				{Period: "SLOT_4", Start: "14:00", SortOrder: 4},
			},
		},
		Options: dto.Options{Optimize: false},
	}
}

func TestGenerateProducesSuccessWithoutOptimization(t *testing.T) {
	svc := NewService(ledger.New(), nil)
	result, err := svc.Generate(context.Background(), fixtureRequest())
	require.NoError(t, err)
	assert.Equal(t, dto.StatusSuccess, result.Status)
	assert.Len(t, result.Assignments, 2)
	assert.NotEmpty(t, result.RunID)

	for _, v := range result.Verification {
		assert.NotEqual(t, "ERROR", string(v.Severity), "clean CSP-only result must have zero hard violations")
	}
}

func TestGenerateWithOptimizationReturnsFitness(t *testing.T) {
	req := fixtureRequest()
	req.Options.Optimize = true
	req.Options.GGAPopulation = 8
	req.Options.GGAMaxGenerations = 3

	svc := NewService(ledger.New(), nil)
	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusSuccess, result.Status)
	require.NotNil(t, result.Fitness)
	assert.GreaterOrEqual(t, result.Fitness.Overall, 0.0)
}

func TestGenerateSecondFacultyHonoursLedger(t *testing.T) {
	l := ledger.New()
	first := NewService(l, nil)
	_, err := first.Generate(context.Background(), fixtureRequest())
	require.NoError(t, err)

	second := fixtureRequest()
	second.Faculty = "Science"
	second.Resources.Cohorts = []domain.Cohort{
		{ID: "SG_SCI_A", Size: 15, Term: domain.Term1, Courses: []domain.CourseCode{"CS101"}, Faculty: "Science", Active: true},
	}

	svc := NewService(l, nil)
	result, err := svc.Generate(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusSuccess, result.Status)
	assert.Len(t, result.Assignments, 1)
}

// TestGenerateMergesCrossCohortSessionsIntoOneAssignment exercises spec §8
// scenario 2 end to end: two cohorts whose courses share a canonical
// group, one Lab room, one qualified lecturer. Generate must place both
// cohorts in the same (room, day, period) under that lecturer and report
// that merge on both assignments.
func TestGenerateMergesCrossCohortSessionsIntoOneAssignment(t *testing.T) {
	req := dto.GenerationRequest{
		Term:    domain.Term1,
		Faculty: "Engineering",
		Resources: dto.ResourceBundle{
			Lecturers: []domain.Lecturer{
				{ID: "L1", Role: domain.RoleFullTime, Specializations: map[domain.CanonicalGroupID]struct{}{"PROGC": {}}},
			},
			Rooms: []domain.Room{
				{ID: "R2", Type: domain.RoomTypeLab, Capacity: 50, Available: true},
			},
			Courses: []domain.Course{
				{Code: "PROGC_A", WeeklyHours: 2, PreferredRoomType: domain.RoomTypeLab, CanonicalGroup: "PROGC"},
				{Code: "PROGC_B", WeeklyHours: 2, PreferredRoomType: domain.RoomTypeLab, CanonicalGroup: "PROGC"},
			},
			CanonicalGroups: []domain.CanonicalCourseGroup{
				{ID: "PROGC", Name: "Programming Core"},
			},
			Cohorts: []domain.Cohort{
				{ID: "SG_A", Size: 25, Term: domain.Term1, Courses: []domain.CourseCode{"PROGC_A"}, Faculty: "Engineering", Active: true},
				{ID: "SG_B", Size: 20, Term: domain.Term1, Courses: []domain.CourseCode{"PROGC_B"}, Faculty: "Engineering", Active: true},
			},
			TimeSlots: []domain.TimeSlot{
				{Period: "SLOT_1", Start: "08:00", End: "10:00", SortOrder: 1},
				{Period: "SLOT_2", Start: "10:00", End: "12:00", SortOrder: 2},
			},
		},
		Options: dto.Options{Optimize: false},
	}

	svc := NewService(ledger.New(), nil)
	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, dto.StatusSuccess, result.Status)
	require.Len(t, result.Assignments, 2)

	a, b := result.Assignments[0], result.Assignments[1]
	assert.Equal(t, a.RoomID, b.RoomID)
	assert.Equal(t, a.Day, b.Day)
	assert.Equal(t, a.Period, b.Period)
	assert.Equal(t, a.LecturerID, b.LecturerID)
	assert.NotEmpty(t, a.Start)
	assert.NotEmpty(t, a.End)
	assert.Equal(t, "Engineering", a.Faculty)

	require.True(t, a.IsMerged())
	require.True(t, b.IsMerged())
	assert.Equal(t, []domain.CohortID{b.CohortID}, a.MergedWith)
	assert.Equal(t, []domain.CohortID{a.CohortID}, b.MergedWith)

	for _, v := range result.Verification {
		assert.NotEqual(t, "ERROR", string(v.Severity), "a valid merge must not trip any hard constraint")
	}
}

func TestGenerateRejectsMissingFaculty(t *testing.T) {
	req := fixtureRequest()
	req.Faculty = ""
	svc := NewService(ledger.New(), nil)
	_, err := svc.Generate(context.Background(), req)
	assert.Error(t, err)
}
