// Package verifier implements C11: the post-hoc check that re-validates a
// completed timetable against every hard predicate plus the soft-quality
// issues named in spec §4.9. Its output is the single source of truth
// consumed by downstream tooling (CLI, export, dashboards).
package verifier

import (
	"fmt"
	"sort"

	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
)

// Severity classifies how serious a ViolationRecord is.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Soft-issue tags, alongside constraint.Tag's 11 hard-constraint tags
// (spec §4.9).
const (
	TagScheduleGap       = "SCHEDULE_GAP"
	TagDailyOverload     = "DAILY_OVERLOAD"
	TagRoomUnderUtilized = "ROOM_UNDER_UTILIZED"
	TagRoomOverUtilized  = "ROOM_OVER_UTILIZED"
	TagCourseIncomplete  = "COURSE_INCOMPLETE"
	TagTermMismatch      = "TERM_MISMATCH"
)

// Thresholds picked conservatively; spec §4.9 names the categories but not
// exact cutoffs (documented as a resolved implementation ambiguity in
// DESIGN.md).
const (
	maxGapSlots          = 1
	maxSessionsPerDay    = 4
	roomUnderUtilization = 0.15
	roomOverUtilization  = 0.90
)

// ViolationRecord is one finding against a completed timetable.
type ViolationRecord struct {
	ConstraintTag  string
	Severity       Severity
	AffectedEntity string
	Message        string
	Payload        map[string]any
}

// Verify re-checks every hard predicate in `suite` against the timetable's
// own assignments (in placement order) and reports any soft-quality
// issues. A report with zero ERROR records means the timetable is
// hard-constraint feasible; WARNING records never block acceptance.
func Verify(res *domain.Resources, reg *timeslot.Registry, tt *domain.Timetable, suite []constraint.Predicate) []ViolationRecord {
	var violations []ViolationRecord
	assignments := tt.List()

	violations = append(violations, checkHardConstraints(res, reg, assignments, suite)...)
	violations = append(violations, checkScheduleGaps(reg, assignments)...)
	violations = append(violations, checkDailyOverload(assignments)...)
	violations = append(violations, checkRoomUtilization(res, reg, assignments)...)
	violations = append(violations, checkCourseCompleteness(res, assignments)...)
	violations = append(violations, checkTermMismatches(res, assignments)...)

	return violations
}

// checkHardConstraints replays every assignment through a fresh context in
// list order, recording one ERROR per rejected placement (spec §4.9:
// "re-runs every hard predicate from §4.4").
func checkHardConstraints(res *domain.Resources, reg *timeslot.Registry, assignments []domain.Assignment, suite []constraint.Predicate) []ViolationRecord {
	var out []ViolationRecord
	ctx := constraint.NewContext(res, reg)
	for _, a := range assignments {
		size := 0
		if cohort, ok := res.Cohorts[a.CohortID]; ok {
			size = cohort.Size
		}
		cand := constraint.Candidate{
			SessionID:  a.SessionID,
			CohortID:   a.CohortID,
			CourseCode: a.CourseCode,
			Canonical:  a.CanonicalGroup,
			LecturerID: a.LecturerID,
			RoomID:     a.RoomID,
			Day:        a.Day,
			Period:     a.Period,
			Term:       a.Term,
			CohortSize: size,
		}
		if ok, rej := constraint.Allow(ctx, cand, suite); !ok {
			out = append(out, ViolationRecord{
				ConstraintTag:  string(rej.Tag),
				Severity:       SeverityError,
				AffectedEntity: string(a.SessionID),
				Message:        rej.Message,
				Payload: map[string]any{
					"entity": rej.Entity,
					"day":    a.Day,
					"period": a.Period,
				},
			})
			continue
		}
		ctx.Place(cand)
	}
	return out
}

func checkScheduleGaps(reg *timeslot.Registry, assignments []domain.Assignment) []ViolationRecord {
	var out []ViolationRecord
	byCohortDay := map[domain.CohortID]map[domain.Day][]int{}
	for _, a := range assignments {
		ts, ok := reg.Lookup(a.Period)
		if !ok {
			continue
		}
		if byCohortDay[a.CohortID] == nil {
			byCohortDay[a.CohortID] = map[domain.Day][]int{}
		}
		byCohortDay[a.CohortID][a.Day] = append(byCohortDay[a.CohortID][a.Day], ts.SortOrder)
	}

	for _, cohort := range sortedCohortIDs(byCohortDay) {
		byDay := byCohortDay[cohort]
		for _, day := range domain.Days {
			orders := byDay[day]
			if len(orders) < 2 {
				continue
			}
			sort.Ints(orders)
			for i := 1; i < len(orders); i++ {
				gap := orders[i] - orders[i-1] - 1
				if gap > maxGapSlots {
					out = append(out, ViolationRecord{
						ConstraintTag:  TagScheduleGap,
						Severity:       SeverityWarning,
						AffectedEntity: string(cohort),
						Message:        fmt.Sprintf("cohort %s has a %d-slot gap on %s", cohort, gap, day),
						Payload:        map[string]any{"day": day, "gap_slots": gap},
					})
				}
			}
		}
	}
	return out
}

func checkDailyOverload(assignments []domain.Assignment) []ViolationRecord {
	var out []ViolationRecord
	counts := map[domain.CohortID]map[domain.Day]int{}
	for _, a := range assignments {
		if counts[a.CohortID] == nil {
			counts[a.CohortID] = map[domain.Day]int{}
		}
		counts[a.CohortID][a.Day]++
	}
	for _, cohort := range sortedCohortCountIDs(counts) {
		for _, day := range domain.Days {
			n := counts[cohort][day]
			if n > maxSessionsPerDay {
				out = append(out, ViolationRecord{
					ConstraintTag:  TagDailyOverload,
					Severity:       SeverityWarning,
					AffectedEntity: string(cohort),
					Message:        fmt.Sprintf("cohort %s has %d sessions on %s, above the daily cap of %d", cohort, n, day, maxSessionsPerDay),
					Payload:        map[string]any{"day": day, "session_count": n},
				})
			}
		}
	}
	return out
}

func checkRoomUtilization(res *domain.Resources, reg *timeslot.Registry, assignments []domain.Assignment) []ViolationRecord {
	var out []ViolationRecord
	slotCount := len(reg.Slots()) * len(domain.Days)
	if slotCount == 0 {
		return out
	}

	occupied := map[domain.RoomID]int{}
	for _, a := range assignments {
		occupied[a.RoomID]++
	}

	roomIDs := make([]domain.RoomID, 0, len(res.Rooms))
	for id := range res.Rooms {
		roomIDs = append(roomIDs, id)
	}
	sort.Slice(roomIDs, func(i, j int) bool { return roomIDs[i] < roomIDs[j] })

	for _, id := range roomIDs {
		if !res.Rooms[id].Available {
			continue
		}
		ratio := float64(occupied[id]) / float64(slotCount)
		switch {
		case ratio > roomOverUtilization:
			out = append(out, ViolationRecord{
				ConstraintTag:  TagRoomOverUtilized,
				Severity:       SeverityWarning,
				AffectedEntity: string(id),
				Message:        fmt.Sprintf("room %s is booked %.0f%% of available slots", id, ratio*100),
				Payload:        map[string]any{"utilization": ratio},
			})
		case ratio > 0 && ratio < roomUnderUtilization:
			out = append(out, ViolationRecord{
				ConstraintTag:  TagRoomUnderUtilized,
				Severity:       SeverityWarning,
				AffectedEntity: string(id),
				Message:        fmt.Sprintf("room %s is booked only %.0f%% of available slots", id, ratio*100),
				Payload:        map[string]any{"utilization": ratio},
			})
		}
	}
	return out
}

func checkCourseCompleteness(res *domain.Resources, assignments []domain.Assignment) []ViolationRecord {
	var out []ViolationRecord
	type key struct {
		cohort domain.CohortID
		course domain.CourseCode
	}
	seen := map[key]map[int]struct{}{}
	for _, a := range assignments {
		k := key{a.CohortID, a.CourseCode}
		if seen[k] == nil {
			seen[k] = map[int]struct{}{}
		}
		seen[k][a.Ordinal] = struct{}{}
	}

	keys := make([]key, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cohort != keys[j].cohort {
			return keys[i].cohort < keys[j].cohort
		}
		return keys[i].course < keys[j].course
	})

	for _, k := range keys {
		course, ok := res.Courses[k.course]
		if !ok {
			continue
		}
		want := course.SessionsPerWeek()
		got := len(seen[k])
		if got < want {
			out = append(out, ViolationRecord{
				ConstraintTag:  TagCourseIncomplete,
				Severity:       SeverityWarning,
				AffectedEntity: fmt.Sprintf("%s/%s", k.cohort, k.course),
				Message:        fmt.Sprintf("%s has %d of %d required weekly sessions for %s", k.cohort, got, want, k.course),
				Payload:        map[string]any{"sessions_found": got, "sessions_required": want},
			})
		}
	}
	return out
}

func checkTermMismatches(res *domain.Resources, assignments []domain.Assignment) []ViolationRecord {
	var out []ViolationRecord
	for _, a := range assignments {
		cohort, ok := res.Cohorts[a.CohortID]
		if ok && cohort.Term != "" && cohort.Term != a.Term {
			out = append(out, ViolationRecord{
				ConstraintTag:  TagTermMismatch,
				Severity:       SeverityError,
				AffectedEntity: string(a.SessionID),
				Message:        fmt.Sprintf("assignment term %s does not match cohort %s's term %s", a.Term, cohort.ID, cohort.Term),
				Payload:        map[string]any{"assignment_term": a.Term, "cohort_term": cohort.Term},
			})
		}
		course, ok := res.Courses[a.CourseCode]
		if ok && course.PreferredTerm != nil && *course.PreferredTerm != a.Term {
			out = append(out, ViolationRecord{
				ConstraintTag:  TagTermMismatch,
				Severity:       SeverityWarning,
				AffectedEntity: string(a.SessionID),
				Message:        fmt.Sprintf("course %s prefers term %s but was scheduled in %s", a.CourseCode, *course.PreferredTerm, a.Term),
				Payload:        map[string]any{"assignment_term": a.Term, "preferred_term": *course.PreferredTerm},
			})
		}
	}
	return out
}

func sortedCohortIDs(m map[domain.CohortID]map[domain.Day][]int) []domain.CohortID {
	out := make([]domain.CohortID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedCohortCountIDs(m map[domain.CohortID]map[domain.Day]int) []domain.CohortID {
	out := make([]domain.CohortID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
