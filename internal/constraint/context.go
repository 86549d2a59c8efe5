// Package constraint implements C5 (the incremental constraint context) and
// C6 (the pluggable hard-constraint suite) from spec §4.3/§4.4.
package constraint

import (
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
)

// Candidate is a fully-resolved (session, day, slot, lecturer, room) tuple
// under consideration for placement. It carries just enough denormalized
// data (canonical group, cohort size) for O(1) predicate checks without
// re-dereferencing the resource tables on every call.
type Candidate struct {
	SessionID  domain.SessionID
	CohortID   domain.CohortID
	CourseCode domain.CourseCode
	Canonical  domain.CanonicalGroupID
	LecturerID domain.LecturerID
	RoomID     domain.RoomID
	Day        domain.Day
	Period     domain.Period
	Term       domain.Term
	CohortSize int
}

func (c Candidate) slot() timeslot.DayPeriod {
	return timeslot.DayPeriod{Day: c.Day, Period: c.Period}
}

// Context maintains the primary indices over a partial assignment, plus
// read-only reference tables for capability lookups. All mutation happens
// through Place/Unplace so every index stays consistent; Clone produces an
// independent deep copy.
type Context struct {
	Resources *domain.Resources
	Registry  *timeslot.Registry

	placements map[domain.SessionID]Candidate

	lecturerBusy   map[domain.LecturerID]map[timeslot.DayPeriod]domain.SessionID
	roomBusy       map[domain.RoomID]map[timeslot.DayPeriod]map[domain.SessionID]struct{}
	roomGroup      map[domain.RoomID]map[timeslot.DayPeriod]domain.CanonicalGroupID
	cohortBusy     map[domain.CohortID]map[timeslot.DayPeriod]domain.SessionID
	lectDayCount   map[domain.LecturerID]map[domain.Day]int
	lectMorning    map[domain.LecturerID]map[domain.Day]bool
	lectAfternoon  map[domain.LecturerID]map[domain.Day]bool
	lectWeeklyHrs  map[domain.LecturerID]float64
	cohortDayGroup map[domain.CohortID]map[domain.Day]map[domain.CanonicalGroupID]int
	roomOccupants  map[domain.RoomID]map[timeslot.DayPeriod]int
}

// NewContext creates an empty constraint context backed by the given
// resources and time-slot registry.
func NewContext(res *domain.Resources, reg *timeslot.Registry) *Context {
	return &Context{
		Resources:      res,
		Registry:       reg,
		placements:     map[domain.SessionID]Candidate{},
		lecturerBusy:   map[domain.LecturerID]map[timeslot.DayPeriod]domain.SessionID{},
		roomBusy:       map[domain.RoomID]map[timeslot.DayPeriod]map[domain.SessionID]struct{}{},
		roomGroup:      map[domain.RoomID]map[timeslot.DayPeriod]domain.CanonicalGroupID{},
		cohortBusy:     map[domain.CohortID]map[timeslot.DayPeriod]domain.SessionID{},
		lectDayCount:   map[domain.LecturerID]map[domain.Day]int{},
		lectMorning:    map[domain.LecturerID]map[domain.Day]bool{},
		lectAfternoon:  map[domain.LecturerID]map[domain.Day]bool{},
		lectWeeklyHrs:  map[domain.LecturerID]float64{},
		cohortDayGroup: map[domain.CohortID]map[domain.Day]map[domain.CanonicalGroupID]int{},
		roomOccupants:  map[domain.RoomID]map[timeslot.DayPeriod]int{},
	}
}

// Place records `c` as assigned and updates every index. Callers must run
// it through the constraint suite's Allow first; Place itself does not
// validate.
func (ctx *Context) Place(c Candidate) {
	ctx.placements[c.SessionID] = c
	slot := c.slot()

	if ctx.lecturerBusy[c.LecturerID] == nil {
		ctx.lecturerBusy[c.LecturerID] = map[timeslot.DayPeriod]domain.SessionID{}
	}
	ctx.lecturerBusy[c.LecturerID][slot] = c.SessionID

	if ctx.roomBusy[c.RoomID] == nil {
		ctx.roomBusy[c.RoomID] = map[timeslot.DayPeriod]map[domain.SessionID]struct{}{}
	}
	if ctx.roomBusy[c.RoomID][slot] == nil {
		ctx.roomBusy[c.RoomID][slot] = map[domain.SessionID]struct{}{}
	}
	ctx.roomBusy[c.RoomID][slot][c.SessionID] = struct{}{}

	if ctx.roomGroup[c.RoomID] == nil {
		ctx.roomGroup[c.RoomID] = map[timeslot.DayPeriod]domain.CanonicalGroupID{}
	}
	ctx.roomGroup[c.RoomID][slot] = c.Canonical

	if ctx.cohortBusy[c.CohortID] == nil {
		ctx.cohortBusy[c.CohortID] = map[timeslot.DayPeriod]domain.SessionID{}
	}
	ctx.cohortBusy[c.CohortID][slot] = c.SessionID

	if ctx.lectDayCount[c.LecturerID] == nil {
		ctx.lectDayCount[c.LecturerID] = map[domain.Day]int{}
	}
	ctx.lectDayCount[c.LecturerID][c.Day]++

	if ctx.Registry.IsAfternoon(c.Period) {
		if ctx.lectAfternoon[c.LecturerID] == nil {
			ctx.lectAfternoon[c.LecturerID] = map[domain.Day]bool{}
		}
		ctx.lectAfternoon[c.LecturerID][c.Day] = true
	} else {
		if ctx.lectMorning[c.LecturerID] == nil {
			ctx.lectMorning[c.LecturerID] = map[domain.Day]bool{}
		}
		ctx.lectMorning[c.LecturerID][c.Day] = true
	}

	ctx.lectWeeklyHrs[c.LecturerID] += float64(domain.SlotHours)

	if ctx.cohortDayGroup[c.CohortID] == nil {
		ctx.cohortDayGroup[c.CohortID] = map[domain.Day]map[domain.CanonicalGroupID]int{}
	}
	if ctx.cohortDayGroup[c.CohortID][c.Day] == nil {
		ctx.cohortDayGroup[c.CohortID][c.Day] = map[domain.CanonicalGroupID]int{}
	}
	ctx.cohortDayGroup[c.CohortID][c.Day][c.Canonical]++

	if ctx.roomOccupants[c.RoomID] == nil {
		ctx.roomOccupants[c.RoomID] = map[timeslot.DayPeriod]int{}
	}
	ctx.roomOccupants[c.RoomID][slot] += c.CohortSize
}

// Unplace reverses everything Place did for `c`. It is the caller's
// responsibility to pass the exact Candidate that was placed.
func (ctx *Context) Unplace(c Candidate) {
	delete(ctx.placements, c.SessionID)
	slot := c.slot()

	if m := ctx.lecturerBusy[c.LecturerID]; m != nil {
		delete(m, slot)
	}
	if m := ctx.roomBusy[c.RoomID][slot]; m != nil {
		delete(m, c.SessionID)
		if len(m) == 0 {
			delete(ctx.roomBusy[c.RoomID], slot)
			delete(ctx.roomGroup[c.RoomID], slot)
		}
	}
	if m := ctx.cohortBusy[c.CohortID]; m != nil {
		delete(m, slot)
	}
	if m := ctx.lectDayCount[c.LecturerID]; m != nil {
		m[c.Day]--
		if m[c.Day] <= 0 {
			delete(m, c.Day)
		}
	}
	if ctx.Registry.IsAfternoon(c.Period) {
		delete(ctx.lectAfternoon[c.LecturerID], c.Day)
	} else {
		delete(ctx.lectMorning[c.LecturerID], c.Day)
	}
	ctx.lectWeeklyHrs[c.LecturerID] -= float64(domain.SlotHours)

	if m := ctx.cohortDayGroup[c.CohortID][c.Day]; m != nil {
		m[c.Canonical]--
		if m[c.Canonical] <= 0 {
			delete(m, c.Canonical)
		}
	}
	if m := ctx.roomOccupants[c.RoomID]; m != nil {
		m[slot] -= c.CohortSize
		if m[slot] <= 0 {
			delete(m, slot)
		}
	}
}

// RoomGroupAt reports the canonical group a room is currently dedicated to
// at (day, slot), if any. Used by the CSP engine's value ordering to spot
// merge opportunities.
func (ctx *Context) RoomGroupAt(room domain.RoomID, slot timeslot.DayPeriod) (domain.CanonicalGroupID, bool) {
	group, ok := ctx.roomGroup[room][slot]
	return group, ok
}

// Placements returns every currently-placed candidate, keyed by session.
// The caller must not mutate the returned map.
func (ctx *Context) Placements() map[domain.SessionID]Candidate {
	return ctx.placements
}

// Clone deep-copies the context so the copy can be mutated without
// disturbing the original.
func (ctx *Context) Clone() *Context {
	out := NewContext(ctx.Resources, ctx.Registry)
	for id, c := range ctx.placements {
		out.placements[id] = c
	}
	for k, v := range ctx.lecturerBusy {
		m := make(map[timeslot.DayPeriod]domain.SessionID, len(v))
		for kk, vv := range v {
			m[kk] = vv
		}
		out.lecturerBusy[k] = m
	}
	for k, v := range ctx.roomBusy {
		m := make(map[timeslot.DayPeriod]map[domain.SessionID]struct{}, len(v))
		for kk, vv := range v {
			set := make(map[domain.SessionID]struct{}, len(vv))
			for s := range vv {
				set[s] = struct{}{}
			}
			m[kk] = set
		}
		out.roomBusy[k] = m
	}
	for k, v := range ctx.roomGroup {
		m := make(map[timeslot.DayPeriod]domain.CanonicalGroupID, len(v))
		for kk, vv := range v {
			m[kk] = vv
		}
		out.roomGroup[k] = m
	}
	for k, v := range ctx.cohortBusy {
		m := make(map[timeslot.DayPeriod]domain.SessionID, len(v))
		for kk, vv := range v {
			m[kk] = vv
		}
		out.cohortBusy[k] = m
	}
	for k, v := range ctx.lectDayCount {
		m := make(map[domain.Day]int, len(v))
		for kk, vv := range v {
			m[kk] = vv
		}
		out.lectDayCount[k] = m
	}
	for k, v := range ctx.lectMorning {
		m := make(map[domain.Day]bool, len(v))
		for kk, vv := range v {
			m[kk] = vv
		}
		out.lectMorning[k] = m
	}
	for k, v := range ctx.lectAfternoon {
		m := make(map[domain.Day]bool, len(v))
		for kk, vv := range v {
			m[kk] = vv
		}
		out.lectAfternoon[k] = m
	}
	for k, v := range ctx.lectWeeklyHrs {
		out.lectWeeklyHrs[k] = v
	}
	for k, v := range ctx.cohortDayGroup {
		m := make(map[domain.Day]map[domain.CanonicalGroupID]int, len(v))
		for kk, vv := range v {
			inner := make(map[domain.CanonicalGroupID]int, len(vv))
			for kkk, vvv := range vv {
				inner[kkk] = vvv
			}
			m[kk] = inner
		}
		out.cohortDayGroup[k] = m
	}
	for k, v := range ctx.roomOccupants {
		m := make(map[timeslot.DayPeriod]int, len(v))
		for kk, vv := range v {
			m[kk] = vv
		}
		out.roomOccupants[k] = m
	}
	return out
}
