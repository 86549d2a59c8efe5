// Package ledger implements C10: the cross-faculty resource-booking
// ledger that lets per-faculty generation runs execute sequentially
// without a monolithic global CSP (spec §4.8).
package ledger

import (
	"sort"
	"sync"

	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
)

// Booking is one confirmed (resource, day, slot, faculty-owner) tuple.
// It carries enough of the original assignment to re-seed a fresh
// constraint context (SeedContext) and to decide room merge-eligibility
// at projection time.
type Booking struct {
	Faculty    string
	Term       domain.Term
	SessionID  domain.SessionID
	CohortID   domain.CohortID
	CourseCode domain.CourseCode
	Canonical  domain.CanonicalGroupID
	LecturerID domain.LecturerID
	RoomID     domain.RoomID
	Day        domain.Day
	Period     domain.Period
	CohortSize int
}

func (b Booking) slot() timeslot.DayPeriod {
	return timeslot.DayPeriod{Day: b.Day, Period: b.Period}
}

func (b Booking) candidate() constraint.Candidate {
	return constraint.Candidate{
		SessionID:  b.SessionID,
		CohortID:   b.CohortID,
		CourseCode: b.CourseCode,
		Canonical:  b.Canonical,
		LecturerID: b.LecturerID,
		RoomID:     b.RoomID,
		Day:        b.Day,
		Period:     b.Period,
		Term:       b.Term,
		CohortSize: b.CohortSize,
	}
}

// Ledger holds every booking confirmed so far in the current term, across
// every faculty run that has completed. It is the single source of truth
// projected into the next faculty's variable domains (spec §4.8).
type Ledger struct {
	mu       sync.RWMutex
	bookings []Booking
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Commit appends one faculty run's finished assignments as confirmed
// bookings. Called once, after a successful per-faculty CSP/GGA run
// (spec §4.8: "After a successful run, the new assignments are added to
// the ledger").
func (l *Ledger) Commit(faculty string, res *domain.Resources, assignments []domain.Assignment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range assignments {
		size := 0
		if cohort, ok := res.Cohorts[a.CohortID]; ok {
			size = cohort.Size
		}
		l.bookings = append(l.bookings, Booking{
			Faculty:    faculty,
			Term:       a.Term,
			SessionID:  a.SessionID,
			CohortID:   a.CohortID,
			CourseCode: a.CourseCode,
			Canonical:  a.CanonicalGroup,
			LecturerID: a.LecturerID,
			RoomID:     a.RoomID,
			Day:        a.Day,
			Period:     a.Period,
			CohortSize: size,
		})
	}
}

// Bookings returns a stable, deterministic-order snapshot of every
// confirmed booking, usable for serialization (C15) or inspection.
func (l *Ledger) Bookings() []Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := append([]Booking(nil), l.bookings...)
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Project builds the Forbidden set a about-to-run faculty's variable
// builder (C4) and CSP engine (C7) must respect (spec §4.8):
//
//   - A lecturer can never be shared across faculties at the same slot, so
//     every other-faculty lecturer booking is unconditionally forbidden.
//   - A room booked by another faculty is forbidden UNLESS its existing
//     occupant's canonical group is one the incoming faculty also offers,
//     in which case it is left open as a merge candidate — the constraint
//     suite's mergeCompatibility/roomCapacity predicates make the final
//     call once a concrete lecturer is on the table (see DESIGN.md Open
//     Question #4).
func (l *Ledger) Project(faculty string, res *domain.Resources) *variable.Forbidden {
	l.mu.RLock()
	defer l.mu.RUnlock()

	mergeable := incomingCanonicalGroups(res, faculty)
	forbidden := &variable.Forbidden{
		LecturerSlots: map[domain.LecturerID]map[timeslot.DayPeriod]struct{}{},
		RoomSlots:     map[domain.RoomID]map[timeslot.DayPeriod]struct{}{},
	}

	for _, b := range l.bookings {
		if b.Faculty == faculty {
			continue
		}
		slot := b.slot()

		if forbidden.LecturerSlots[b.LecturerID] == nil {
			forbidden.LecturerSlots[b.LecturerID] = map[timeslot.DayPeriod]struct{}{}
		}
		forbidden.LecturerSlots[b.LecturerID][slot] = struct{}{}

		if _, canMerge := mergeable[b.Canonical]; canMerge {
			continue
		}
		if forbidden.RoomSlots[b.RoomID] == nil {
			forbidden.RoomSlots[b.RoomID] = map[timeslot.DayPeriod]struct{}{}
		}
		forbidden.RoomSlots[b.RoomID][slot] = struct{}{}
	}
	return forbidden
}

// SeedContext loads every confirmed booking into `ctx` as a baseline
// placement, regardless of owning faculty. This is what lets the live
// constraint suite see an existing occupant's canonical group and
// lecturer when a later faculty attempts to merge into the same room
// (mergeCompatibility, roomCapacity) rather than only blocking the slot
// outright. Call once per faculty run, before variables are solved.
func (l *Ledger) SeedContext(ctx *constraint.Context) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, b := range l.bookings {
		ctx.Place(b.candidate())
	}
}

func incomingCanonicalGroups(res *domain.Resources, faculty string) map[domain.CanonicalGroupID]struct{} {
	out := map[domain.CanonicalGroupID]struct{}{}
	for _, cohort := range res.CohortsForFaculty(faculty) {
		for _, code := range cohort.Courses {
			if course, ok := res.Courses[code]; ok {
				out[course.CanonicalGroup] = struct{}{}
			}
		}
	}
	return out
}
