package constraint

import (
	"fmt"

	"github.com/campustt/timetable-core/internal/domain"
)

// Tag identifies which hard constraint rejected a candidate. The verifier
// (C11) reuses these tags on its ViolationRecord output.
type Tag string

const (
	TagDoubleBooking       Tag = "DOUBLE_BOOKING"
	TagRoomTypeMismatch    Tag = "ROOM_TYPE_MISMATCH"
	TagLecturerSpecialty   Tag = "LECTURER_SPECIALIZATION"
	TagRoomCapacity        Tag = "ROOM_CAPACITY"
	TagMergeIncompatible   Tag = "MERGE_INCOMPATIBLE"
	TagLecturerWeeklyCap   Tag = "LECTURER_WEEKLY_CAP"
	TagLecturerDailyCap    Tag = "LECTURER_SESSIONS_PER_DAY"
	TagMorningAfternoon    Tag = "MORNING_AFTERNOON_BOUND"
	TagSameDayRepetition   Tag = "SAME_DAY_COURSE_REPETITION"
	TagPartTimeAvailabilty Tag = "PART_TIME_AVAILABILITY"
	TagFridayLastSlot      Tag = "FRIDAY_LAST_SLOT_BAN"
)

// Reject is the structured outcome of a failed predicate.
type Reject struct {
	Tag     Tag
	Entity  string
	Message string
}

func (r *Reject) Error() string {
	return fmt.Sprintf("%s: %s (%s)", r.Tag, r.Message, r.Entity)
}

func reject(tag Tag, entity, message string) *Reject {
	return &Reject{Tag: tag, Entity: entity, Message: message}
}

// Predicate is one pluggable hard-constraint rule (spec §4.4).
type Predicate func(ctx *Context, c Candidate) *Reject

// DefaultSuite returns the canonical 11-predicate set in the spec's
// checking order. fridayLastSlotBanned toggles predicate 11 (resolves
// Open Question ii).
func DefaultSuite(fridayLastSlotBanned bool) []Predicate {
	suite := []Predicate{
		noDoubleBooking,
		roomTypeMatch,
		lecturerSpecialization,
		roomCapacity,
		mergeCompatibility,
		lecturerWeeklyCap,
		lecturerSessionsPerDay,
		morningAfternoonBound,
		sameDayRepetition,
		partTimeAvailability,
	}
	if fridayLastSlotBanned {
		suite = append(suite, fridayLastSlotBan)
	}
	return suite
}

// Allow runs `suite` against `c` in order, short-circuiting on the first
// rejection.
func Allow(ctx *Context, c Candidate, suite []Predicate) (bool, *Reject) {
	for _, p := range suite {
		if rej := p(ctx, c); rej != nil {
			return false, rej
		}
	}
	return true, nil
}

// 1. No double-booking: lecturer/cohort/room free at (day, slot), unless
// the room already holds a session of the same canonical group (merge
// path handled by predicate 5, not rejected here).
func noDoubleBooking(ctx *Context, c Candidate) *Reject {
	slot := c.slot()
	if sid, busy := ctx.lecturerBusy[c.LecturerID][slot]; busy && sid != c.SessionID {
		return reject(TagDoubleBooking, string(c.LecturerID), "lecturer already teaching at this slot")
	}
	if sid, busy := ctx.cohortBusy[c.CohortID][slot]; busy && sid != c.SessionID {
		return reject(TagDoubleBooking, string(c.CohortID), "cohort already has a session at this slot")
	}
	if group, occupied := ctx.roomGroup[c.RoomID][slot]; occupied && group != c.Canonical {
		return reject(TagDoubleBooking, string(c.RoomID), "room holds a different canonical group at this slot")
	}
	return nil
}

func roomTypeMatch(ctx *Context, c Candidate) *Reject {
	room, ok := ctx.Resources.Rooms[c.RoomID]
	if !ok {
		return reject(TagRoomTypeMismatch, string(c.RoomID), "unknown room")
	}
	course, ok := ctx.Resources.Courses[c.CourseCode]
	if !ok {
		return reject(TagRoomTypeMismatch, string(c.CourseCode), "unknown course")
	}
	if room.Type != course.PreferredRoomType {
		return reject(TagRoomTypeMismatch, string(c.RoomID), "room type does not match course's preferred type")
	}
	return nil
}

func lecturerSpecialization(ctx *Context, c Candidate) *Reject {
	lect, ok := ctx.Resources.Lecturers[c.LecturerID]
	if !ok || !lect.CanTeach(c.Canonical) {
		return reject(TagLecturerSpecialty, string(c.LecturerID), "lecturer is not specialized in this canonical group")
	}
	return nil
}

func roomCapacity(ctx *Context, c Candidate) *Reject {
	room, ok := ctx.Resources.Rooms[c.RoomID]
	if !ok {
		return reject(TagRoomCapacity, string(c.RoomID), "unknown room")
	}
	slot := c.slot()
	existing := ctx.roomOccupants[c.RoomID][slot]
	if existing == 0 {
		if room.Capacity < c.CohortSize {
			return reject(TagRoomCapacity, string(c.RoomID), "room capacity below cohort size")
		}
		return nil
	}
	if existing+c.CohortSize > room.Capacity {
		return reject(TagRoomCapacity, string(c.RoomID), "merged occupancy exceeds room capacity")
	}
	return nil
}

func mergeCompatibility(ctx *Context, c Candidate) *Reject {
	slot := c.slot()
	occupants := ctx.roomBusy[c.RoomID][slot]
	if len(occupants) == 0 {
		return nil
	}
	group, hasGroup := ctx.roomGroup[c.RoomID][slot]
	if hasGroup && group != c.Canonical {
		return reject(TagMergeIncompatible, string(c.RoomID), "merge target holds a different canonical group")
	}
	for sid := range occupants {
		if sid == c.SessionID {
			continue
		}
		existing, ok := ctx.placements[sid]
		if !ok {
			continue
		}
		if existing.LecturerID != c.LecturerID {
			return reject(TagMergeIncompatible, string(c.RoomID), "merge requires the same lecturer teaching the combined class")
		}
	}
	return nil
}

func lecturerWeeklyCap(ctx *Context, c Candidate) *Reject {
	lect, ok := ctx.Resources.Lecturers[c.LecturerID]
	if !ok {
		return reject(TagLecturerWeeklyCap, string(c.LecturerID), "unknown lecturer")
	}
	if ctx.lectWeeklyHrs[c.LecturerID]+float64(domain.SlotHours) > float64(lect.EffectiveMaxWeeklyHours()) {
		return reject(TagLecturerWeeklyCap, string(c.LecturerID), "assignment would exceed weekly hour cap")
	}
	return nil
}

func lecturerSessionsPerDay(ctx *Context, c Candidate) *Reject {
	lect, ok := ctx.Resources.Lecturers[c.LecturerID]
	if !ok {
		return reject(TagLecturerDailyCap, string(c.LecturerID), "unknown lecturer")
	}
	if ctx.lectDayCount[c.LecturerID][c.Day] >= lect.EffectiveSessionsPerDay() {
		return reject(TagLecturerDailyCap, string(c.LecturerID), "lecturer already at sessions-per-day cap")
	}
	return nil
}

func morningAfternoonBound(ctx *Context, c Candidate) *Reject {
	afternoon := ctx.Registry.IsAfternoon(c.Period)
	if afternoon {
		if ctx.lectAfternoon[c.LecturerID][c.Day] {
			return reject(TagMorningAfternoon, string(c.LecturerID), "lecturer already has an afternoon slot this day")
		}
	} else {
		if ctx.lectMorning[c.LecturerID][c.Day] {
			return reject(TagMorningAfternoon, string(c.LecturerID), "lecturer already has a morning slot this day")
		}
	}
	return nil
}

func sameDayRepetition(ctx *Context, c Candidate) *Reject {
	if ctx.cohortDayGroup[c.CohortID][c.Day][c.Canonical] > 0 {
		return reject(TagSameDayRepetition, string(c.CohortID), "cohort already has a session of this canonical group today")
	}
	return nil
}

func partTimeAvailability(ctx *Context, c Candidate) *Reject {
	lect, ok := ctx.Resources.Lecturers[c.LecturerID]
	if !ok {
		return reject(TagPartTimeAvailabilty, string(c.LecturerID), "unknown lecturer")
	}
	if lect.IsPartTime() && !lect.AvailableAt(c.Day, c.Period) {
		return reject(TagPartTimeAvailabilty, string(c.LecturerID), "slot outside part-time lecturer's availability")
	}
	return nil
}

func fridayLastSlotBan(ctx *Context, c Candidate) *Reject {
	if !ctx.Registry.Allowed(c.Day, c.Period) {
		return reject(TagFridayLastSlot, string(c.SessionID), "Friday last slot is banned by policy")
	}
	return nil
}
