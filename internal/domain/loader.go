package domain

import (
	"fmt"

	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// Load validates a caller-supplied resource bundle and returns the closed,
// typed Resources the rest of the core consumes. This is the sole boundary
// at which the core trusts external data; everything downstream treats
// Resources as already-valid (spec §9, "Dynamic resource dicts").
func Load(lecturers []Lecturer, rooms []Room, courses []Course, groups []CanonicalCourseGroup, cohorts []Cohort, slots []TimeSlot) (*Resources, error) {
	r := &Resources{
		Lecturers:       make(map[LecturerID]Lecturer, len(lecturers)),
		Rooms:           make(map[RoomID]Room, len(rooms)),
		Courses:         make(map[CourseCode]Course, len(courses)),
		CanonicalGroups: make(map[CanonicalGroupID]CanonicalCourseGroup, len(groups)),
		Cohorts:         make(map[CohortID]Cohort, len(cohorts)),
		TimeSlots:       append([]TimeSlot(nil), slots...),
	}

	for _, l := range lecturers {
		if l.ID == "" {
			return nil, badInput("lecturer missing id")
		}
		if l.IsPartTime() && (l.Availability == nil || len(l.Availability) == 0) {
			return nil, badInput(fmt.Sprintf("part-time lecturer %s must declare availability", l.ID))
		}
		r.Lecturers[l.ID] = l
	}

	for _, room := range rooms {
		if room.ID == "" {
			return nil, badInput("room missing id")
		}
		if room.Capacity <= 0 {
			return nil, badInput(fmt.Sprintf("room %s must have positive capacity", room.ID))
		}
		r.Rooms[room.ID] = room
	}

	for _, g := range groups {
		if g.ID == "" {
			return nil, badInput("canonical group missing id")
		}
		r.CanonicalGroups[g.ID] = g
	}

	for _, c := range courses {
		if c.Code == "" {
			return nil, badInput("course missing code")
		}
		if c.WeeklyHours <= 0 {
			return nil, badInput(fmt.Sprintf("course %s must have positive weekly_hours", c.Code))
		}
		if c.CanonicalGroup != "" {
			if _, ok := r.CanonicalGroups[c.CanonicalGroup]; !ok {
				return nil, badInput(fmt.Sprintf("course %s references unknown canonical group %s", c.Code, c.CanonicalGroup))
			}
		}
		r.Courses[c.Code] = c
	}

	for _, c := range cohorts {
		if c.ID == "" {
			return nil, badInput("cohort missing id")
		}
		if c.Size <= 0 {
			return nil, badInput(fmt.Sprintf("cohort %s must have positive size", c.ID))
		}
		for _, code := range c.Courses {
			if _, ok := r.Courses[code]; !ok {
				return nil, badInput(fmt.Sprintf("cohort %s references unknown course %s", c.ID, code))
			}
		}
		r.Cohorts[c.ID] = c
	}

	if len(r.TimeSlots) == 0 {
		return nil, badInput("time slot registry must not be empty")
	}

	return r, nil
}

func badInput(message string) error {
	return appErrors.Clone(appErrors.ErrBadInput, message)
}
