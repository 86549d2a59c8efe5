// Package variable implements C4: one scheduling Variable per required
// teaching session, with its initial pruned candidate domains (spec §4.2).
package variable

import (
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
)

// Axis names used in InfeasibleDomainError payloads.
const (
	AxisSlots     = "slots"
	AxisLecturers = "lecturers"
	AxisRooms     = "rooms"
)

// Variable is one synthesized teaching session with its mutable candidate
// domains. Domains are pruned in place by forward checking (internal/csp)
// and restored from the trail on backtrack.
type Variable struct {
	ID         domain.SessionID
	CohortID   domain.CohortID
	CourseCode domain.CourseCode
	Canonical  domain.CanonicalGroupID
	Term       domain.Term
	Ordinal    int
	Total      int // sessions_per_week for this course

	Slots     []timeslot.DayPeriod
	Lecturers []domain.LecturerID
	Rooms     []domain.RoomID
}

// DomainSize returns the MRV product |slots|*|lecturers|*|rooms|.
func (v *Variable) DomainSize() int {
	return len(v.Slots) * len(v.Lecturers) * len(v.Rooms)
}

// Clone returns a copy of the variable whose domain slices do not share
// storage with the original.
func (v *Variable) Clone() *Variable {
	c := *v
	c.Slots = append([]timeslot.DayPeriod(nil), v.Slots...)
	c.Lecturers = append([]domain.LecturerID(nil), v.Lecturers...)
	c.Rooms = append([]domain.RoomID(nil), v.Rooms...)
	return &c
}
