package csp

import (
	"sort"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
)

// selectVariable applies MRV (smallest remaining candidate product), tied by
// degree (number of other unassigned variables sharing a cohort or
// canonical group), per spec §4.5.
func (e *Engine) selectVariable(unassigned []domain.SessionID) domain.SessionID {
	best := unassigned[0]
	bestSize := e.vars[best].DomainSize()
	bestDegree := e.degree(best, unassigned)

	for _, id := range unassigned[1:] {
		v := e.vars[id]
		size := v.DomainSize()
		degree := e.degree(id, unassigned)
		if size < bestSize || (size == bestSize && degree > bestDegree) {
			best, bestSize, bestDegree = id, size, degree
		}
	}
	return best
}

func (e *Engine) degree(id domain.SessionID, unassigned []domain.SessionID) int {
	v := e.vars[id]
	count := 0
	for _, other := range unassigned {
		if other == id {
			continue
		}
		ov := e.vars[other]
		if ov.CohortID == v.CohortID || ov.Canonical == v.Canonical {
			count++
		}
	}
	return count
}

// candidateTriple is one concrete (slot, lecturer, room) choice for a
// variable, scored for LCV ordering. tiebreak is drawn from the engine's
// seeded RNG so equal-score candidates still resolve deterministically run
// to run (spec §4.5 Determinism).
type candidateTriple struct {
	Slot     timeslot.DayPeriod
	Lecturer domain.LecturerID
	Room     domain.RoomID
	score    int
	tiebreak int64
}

// orderedCandidates enumerates every (slot, lecturer, room) triple in a
// variable's current domain, scored to prefer (a) merge opportunities,
// (b) lightly-used slots, (c) tightest room fit (spec §4.5 LCV).
func (e *Engine) orderedCandidates(v *variable.Variable, cohortSize int) []candidateTriple {
	out := make([]candidateTriple, 0, len(v.Slots)*len(v.Lecturers)*len(v.Rooms))
	for _, slot := range v.Slots {
		mergeBonus := 0
		for _, room := range v.Rooms {
			if group, occupied := e.ctx.RoomGroupAt(room, slot); occupied && group == v.Canonical {
				mergeBonus = 100
				break
			}
		}
		for _, lect := range v.Lecturers {
			if e.lecturerForbidden(lect, slot) {
				continue
			}
			for _, room := range v.Rooms {
				if e.roomForbidden(room, slot) {
					continue
				}
				fit := 0
				if r, ok := e.ctx.Resources.Rooms[room]; ok {
					fit = r.Capacity - cohortSize
				}
				score := mergeBonus - e.slotUsage(slot) - fit
				out = append(out, candidateTriple{Slot: slot, Lecturer: lect, Room: room, score: score, tiebreak: e.rng.Int63()})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].tiebreak > out[j].tiebreak
	})
	return out
}

func (e *Engine) slotUsage(slot timeslot.DayPeriod) int {
	return e.slotLoad[slot]
}

func (e *Engine) lecturerForbidden(id domain.LecturerID, slot timeslot.DayPeriod) bool {
	if e.forbidden == nil || e.forbidden.LecturerSlots == nil {
		return false
	}
	_, banned := e.forbidden.LecturerSlots[id][slot]
	return banned
}

func (e *Engine) roomForbidden(id domain.RoomID, slot timeslot.DayPeriod) bool {
	if e.forbidden == nil || e.forbidden.RoomSlots == nil {
		return false
	}
	_, banned := e.forbidden.RoomSlots[id][slot]
	return banned
}
