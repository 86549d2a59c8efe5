package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
)

func fixtureResources() *domain.Resources {
	groups := map[domain.CanonicalGroupID]domain.CanonicalCourseGroup{
		"CSFUND": {ID: "CSFUND", EquivalentCodes: map[domain.CourseCode]struct{}{"CS101": {}}},
	}
	courses := map[domain.CourseCode]domain.Course{
		"CS101": {Code: "CS101", WeeklyHours: 4, PreferredRoomType: domain.RoomTypeTheory, CanonicalGroup: "CSFUND"},
	}
	rooms := map[domain.RoomID]domain.Room{
		"R1": {ID: "R1", Type: domain.RoomTypeTheory, Capacity: 40, Available: true},
	}
	lecturers := map[domain.LecturerID]domain.Lecturer{
		"L1": {ID: "L1", Role: domain.RoleFullTime, Specializations: map[domain.CanonicalGroupID]struct{}{"CSFUND": {}}},
	}
	return &domain.Resources{Lecturers: lecturers, Rooms: rooms, Courses: courses, CanonicalGroups: groups}
}

func fixtureRegistry() *timeslot.Registry {
	return timeslot.NewRegistry([]domain.TimeSlot{
		{Period: "SLOT_1", Start: "08:00", SortOrder: 1},
		{Period: "SLOT_2", Start: "10:00", SortOrder: 2},
	})
}

func TestBuildEmitsOneVariablePerSession(t *testing.T) {
	res := fixtureResources()
	reg := fixtureRegistry()
	cohort := domain.Cohort{ID: "SG_CS_A_S1_T1", Size: 30, Term: domain.Term1, Courses: []domain.CourseCode{"CS101"}}

	vars, err := Build(cohort, res, reg, nil)
	require.NoError(t, err)
	assert.Len(t, vars, 2) // ceil(4/2) = 2
	for _, v := range vars {
		assert.Contains(t, v.Lecturers, domain.LecturerID("L1"))
		assert.Contains(t, v.Rooms, domain.RoomID("R1"))
		assert.NotEmpty(t, v.Slots)
	}
}

func TestBuildFailsWhenNoQualifiedLecturer(t *testing.T) {
	res := fixtureResources()
	delete(res.Lecturers, "L1")
	reg := fixtureRegistry()
	cohort := domain.Cohort{ID: "SG_X", Size: 30, Courses: []domain.CourseCode{"CS101"}}

	_, err := Build(cohort, res, reg, nil)
	require.Error(t, err)
	var infeasible *InfeasibleDomainError
	assert.ErrorAs(t, err, &infeasible)
	assert.Equal(t, AxisLecturers, infeasible.Axis)
}

func TestBuildFailsWhenNoRoomType(t *testing.T) {
	res := fixtureResources()
	delete(res.Rooms, "R1")
	reg := fixtureRegistry()
	cohort := domain.Cohort{ID: "SG_Y", Size: 30, Courses: []domain.CourseCode{"CS101"}}

	_, err := Build(cohort, res, reg, nil)
	require.Error(t, err)
	var infeasible *InfeasibleDomainError
	assert.ErrorAs(t, err, &infeasible)
	assert.Equal(t, AxisRooms, infeasible.Axis)
}

func TestBuildFailsWhenRoomTooSmall(t *testing.T) {
	res := fixtureResources()
	res.Rooms["R1"] = domain.Room{ID: "R1", Type: domain.RoomTypeTheory, Capacity: 10, Available: true}
	reg := fixtureRegistry()
	cohort := domain.Cohort{ID: "SG_Z", Size: 30, Courses: []domain.CourseCode{"CS101"}}

	_, err := Build(cohort, res, reg, nil)
	require.Error(t, err)
}
