package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
)

func fixtureResources() (*domain.Resources, *timeslot.Registry) {
	res := &domain.Resources{
		Lecturers: map[domain.LecturerID]domain.Lecturer{
			"L1": {ID: "L1", Role: domain.RoleFullTime, Specializations: map[domain.CanonicalGroupID]struct{}{"CSFUND": {}}},
		},
		Rooms: map[domain.RoomID]domain.Room{
			"R1": {ID: "R1", Type: domain.RoomTypeTheory, Capacity: 40, Available: true},
		},
		Courses: map[domain.CourseCode]domain.Course{
			"CS101": {Code: "CS101", WeeklyHours: 4, PreferredRoomType: domain.RoomTypeTheory, CanonicalGroup: "CSFUND"},
		},
		Cohorts: map[domain.CohortID]domain.Cohort{
			"SG_A": {ID: "SG_A", Size: 20, Term: domain.Term1, Courses: []domain.CourseCode{"CS101"}, Faculty: "Engineering", Active: true},
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

func TestVerifyCleanTimetableHasNoErrors(t *testing.T) {
	res, reg := fixtureResources()
	tt := domain.NewTimetable("Engineering", domain.Term1)
	tt.Put(domain.Assignment{SessionID: "s1", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R1", Day: domain.Monday, Period: "SLOT_1", Term: domain.Term1, Ordinal: 1})
	tt.Put(domain.Assignment{SessionID: "s2", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R1", Day: domain.Tuesday, Period: "SLOT_1", Term: domain.Term1, Ordinal: 2})

	violations := Verify(res, reg, tt, constraint.DefaultSuite(true))
	for _, v := range violations {
		assert.NotEqual(t, SeverityError, v.Severity, "unexpected error: %s", v.Message)
	}
}

func TestVerifyFlagsDoubleBookingAsError(t *testing.T) {
	res, reg := fixtureResources()
	tt := domain.NewTimetable("Engineering", domain.Term1)
	tt.Put(domain.Assignment{SessionID: "s1", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R1", Day: domain.Monday, Period: "SLOT_1", Term: domain.Term1, Ordinal: 1})
	// Same lecturer, same slot, different room — an impossible double booking.
	res.Rooms["R2"] = domain.Room{ID: "R2", Type: domain.RoomTypeTheory, Capacity: 40, Available: true}
	tt.Put(domain.Assignment{SessionID: "s2", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R2", Day: domain.Monday, Period: "SLOT_1", Term: domain.Term1, Ordinal: 2})

	violations := Verify(res, reg, tt, constraint.DefaultSuite(true))
	var found bool
	for _, v := range violations {
		if v.ConstraintTag == string(constraint.TagDoubleBooking) && v.Severity == SeverityError {
			found = true
		}
	}
	assert.True(t, found, "expected a double-booking error")
}

func TestVerifyFlagsScheduleGap(t *testing.T) {
	res, reg := fixtureResources()
	tt := domain.NewTimetable("Engineering", domain.Term1)
	tt.Put(domain.Assignment{SessionID: "s1", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R1", Day: domain.Monday, Period: "SLOT_1", Term: domain.Term1, Ordinal: 1})
	tt.Put(domain.Assignment{SessionID: "s2", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R1", Day: domain.Monday, Period: "SLOT_4", Term: domain.Term1, Ordinal: 2})

	violations := Verify(res, reg, tt, constraint.DefaultSuite(true))
	var found bool
	for _, v := range violations {
		if v.ConstraintTag == TagScheduleGap {
			found = true
		}
	}
	assert.True(t, found, "expected a schedule-gap warning for the two empty slots between slot 1 and slot 4")
}

func TestVerifyFlagsCourseIncomplete(t *testing.T) {
	res, reg := fixtureResources()
	tt := domain.NewTimetable("Engineering", domain.Term1)
	// CS101 needs 2 sessions (4 weekly hours / 2-hour slots); only one given.
	tt.Put(domain.Assignment{SessionID: "s1", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R1", Day: domain.Monday, Period: "SLOT_1", Term: domain.Term1, Ordinal: 1})

	violations := Verify(res, reg, tt, constraint.DefaultSuite(true))
	var found bool
	for _, v := range violations {
		if v.ConstraintTag == TagCourseIncomplete {
			found = true
		}
	}
	assert.True(t, found, "expected a course-incomplete warning")
}

func TestVerifyFlagsTermMismatch(t *testing.T) {
	res, reg := fixtureResources()
	tt := domain.NewTimetable("Engineering", domain.Term1)
	// Cohort is scoped to Term 1, but this assignment claims Term 2.
	tt.Put(domain.Assignment{SessionID: "s1", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R1", Day: domain.Monday, Period: "SLOT_1", Term: domain.Term2, Ordinal: 1})

	violations := Verify(res, reg, tt, constraint.DefaultSuite(true))
	var found bool
	for _, v := range violations {
		if v.ConstraintTag == TagTermMismatch && v.Severity == SeverityError {
			found = true
		}
	}
	assert.True(t, found, "expected a term-mismatch error")
}
