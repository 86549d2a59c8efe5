package variable

import (
	"fmt"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// InfeasibleDomainError is raised when a variable's candidate set is empty
// on one axis after pruning (spec §4.2).
type InfeasibleDomainError struct {
	Err        *appErrors.Error
	VariableID domain.SessionID
	Axis       string
}

// Error implements the error interface.
func (e *InfeasibleDomainError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying *appErrors.Error to errors.As/errors.Is.
func (e *InfeasibleDomainError) Unwrap() error { return e.Err }

func newInfeasible(id domain.SessionID, axis string) *InfeasibleDomainError {
	return &InfeasibleDomainError{
		Err:        appErrors.Clone(appErrors.ErrInfeasibleDomain, fmt.Sprintf("session %s has no candidates on axis %q", id, axis)),
		VariableID: id,
		Axis:       axis,
	}
}

// Forbidden restricts domain construction against resources another faculty
// already owns in this term (projected from the booking ledger, C10).
type Forbidden struct {
	// LecturerSlots and RoomSlots list (lecturer, day, period) and
	// (room, day, period) tuples that must not be offered as candidates.
	LecturerSlots map[domain.LecturerID]map[timeslot.DayPeriod]struct{}
	RoomSlots     map[domain.RoomID]map[timeslot.DayPeriod]struct{}
}

// Build emits one Variable per required session for every course in
// `cohort`'s (already term-split) course list.
func Build(cohort domain.Cohort, res *domain.Resources, reg *timeslot.Registry, forbidden *Forbidden) ([]*Variable, error) {
	pairs := reg.Pairs()
	var out []*Variable

	for _, code := range cohort.Courses {
		course, ok := res.Courses[code]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrBadInput, fmt.Sprintf("unknown course %s", code))
		}
		sessions := course.SessionsPerWeek()
		for ordinal := 1; ordinal <= sessions; ordinal++ {
			id := domain.NewSessionID(cohort.ID, code, ordinal)
			v := &Variable{
				ID:         id,
				CohortID:   cohort.ID,
				CourseCode: code,
				Canonical:  course.CanonicalGroup,
				Term:       cohort.Term,
				Ordinal:    ordinal,
				Total:      sessions,
			}

			v.Slots = slotCandidates(pairs, forbidden)
			if len(v.Slots) == 0 {
				return nil, newInfeasible(id, AxisSlots)
			}

			v.Lecturers = lecturerCandidates(res, course, v.Slots, forbidden)
			if len(v.Lecturers) == 0 {
				return nil, newInfeasible(id, AxisLecturers)
			}

			v.Rooms = roomCandidates(res, course, cohort.Size)
			if len(v.Rooms) == 0 {
				return nil, newInfeasible(id, AxisRooms)
			}

			out = append(out, v)
		}
	}
	return out, nil
}

func slotCandidates(pairs []timeslot.DayPeriod, forbidden *Forbidden) []timeslot.DayPeriod {
	// Slot pruning against the ledger is per resource, not per slot (a slot
	// itself is never globally forbidden; only a specific resource at that
	// slot is): lecturers with no unforbidden slot are dropped below, and
	// RoomSlots is checked per (slot, lecturer, room) triple by the CSP
	// engine's candidate ordering.
	return append([]timeslot.DayPeriod(nil), pairs...)
}

func lecturerCandidates(res *domain.Resources, course domain.Course, slots []timeslot.DayPeriod, forbidden *Forbidden) []domain.LecturerID {
	var out []domain.LecturerID
	for id, l := range res.Lecturers {
		if !l.CanTeach(course.CanonicalGroup) {
			continue
		}
		if !hasAvailableSlot(l, slots, forbidden, id) {
			continue
		}
		out = append(out, id)
	}
	sortLecturerIDs(out)
	return out
}

func hasAvailableSlot(l domain.Lecturer, slots []timeslot.DayPeriod, forbidden *Forbidden, id domain.LecturerID) bool {
	var banned map[timeslot.DayPeriod]struct{}
	if forbidden != nil {
		banned = forbidden.LecturerSlots[id]
	}
	for _, s := range slots {
		if !l.AvailableAt(s.Day, s.Period) {
			continue
		}
		if banned != nil {
			if _, blocked := banned[s]; blocked {
				continue
			}
		}
		return true
	}
	return false
}

func roomCandidates(res *domain.Resources, course domain.Course, cohortSize int) []domain.RoomID {
	var out []domain.RoomID
	for id, room := range res.Rooms {
		if room.Type != course.PreferredRoomType {
			continue
		}
		if !room.FitsCohortSize(cohortSize) {
			continue
		}
		out = append(out, id)
	}
	sortRoomIDs(out)
	return out
}

func sortLecturerIDs(ids []domain.LecturerID) {
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && ids[j] < ids[j-1] {
			ids[j], ids[j-1] = ids[j-1], ids[j]
			j--
		}
	}
}

func sortRoomIDs(ids []domain.RoomID) {
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && ids[j] < ids[j-1] {
			ids[j], ids[j-1] = ids[j-1], ids[j]
			j--
		}
	}
}
