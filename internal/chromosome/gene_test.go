package chromosome

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
)

func TestFromAssignmentsRoundTrips(t *testing.T) {
	assignments := []domain.Assignment{
		{SessionID: "SG_A/CS101#1", CohortID: "SG_A", CourseCode: "CS101", CanonicalGroup: "CSFUND", LecturerID: "L1", RoomID: "R1", Day: domain.Monday, Period: "SLOT_1", Ordinal: 1},
	}
	vars := map[domain.SessionID]*variable.Variable{
		"SG_A/CS101#1": {
			ID:        "SG_A/CS101#1",
			Slots:     []timeslot.DayPeriod{{Day: domain.Monday, Period: "SLOT_1"}},
			Lecturers: []domain.LecturerID{"L1", "L2"},
			Rooms:     []domain.RoomID{"R1"},
		},
	}

	c := FromAssignments(assignments, vars)
	assert.Len(t, c.Genes, 1)
	assert.Equal(t, 2, c.Genes[0].Flexibility) // domain product: 1 slot * 2 lecturers * 1 room = 2

	back := c.ToAssignments()
	assert.Equal(t, assignments, back)
}

func TestCloneIsIndependent(t *testing.T) {
	c := &Chromosome{Genes: []Gene{{VariableID: "A", Lecturer: "L1"}}}
	clone := c.Clone()
	clone.Genes[0].Lecturer = "L2"
	assert.Equal(t, domain.LecturerID("L1"), c.Genes[0].Lecturer)
	assert.Equal(t, domain.LecturerID("L2"), clone.Genes[0].Lecturer)
}
