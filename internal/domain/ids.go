// Package domain holds the closed, typed entity records the scheduling core
// operates over: lecturers, rooms, courses, canonical course groups,
// cohorts, time slots, assignments, and the timetable they compose into.
//
// Entities are kept in id-keyed arenas (see Resources) rather than linked
// by pointer. Relations — cohort to courses, course to canonical group,
// lecturer to specializations — are resolved through id lookups against
// those arenas. This avoids reference cycles between the entity types and
// lets a constraint context be cloned cheaply for parallel fitness
// evaluation (see internal/gga).
package domain

// LecturerID identifies a Lecturer within a run's resource set.
type LecturerID string

// RoomID identifies a Room within a run's resource set.
type RoomID string

// CourseCode identifies a Course/Subject (the course code is the primary key).
type CourseCode string

// CanonicalGroupID identifies a CanonicalCourseGroup.
type CanonicalGroupID string

// CohortID identifies a Program/Cohort, format SG_<program>_<batch>_<semester>_<term>.
type CohortID string

// Day is one of the five fixed teaching weekdays.
type Day string

const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
)

// Days is the canonical, ordered weekday list used throughout the core.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// Period identifies a canonical slot such as SLOT_1..SLOT_4.
type Period string

// Term is a half-semester partition; every cohort runs as two cohort
// records, one per term.
type Term string

const (
	Term1 Term = "TERM_1"
	Term2 Term = "TERM_2"
)

// RoomType classifies teaching rooms and the courses that need them.
type RoomType string

const (
	RoomTypeTheory RoomType = "THEORY"
	RoomTypeLab    RoomType = "LAB"
)

// LecturerRole drives the default weekly-hour and sessions-per-day caps.
type LecturerRole string

const (
	RoleFacultyDean LecturerRole = "FACULTY_DEAN"
	RoleFullTime    LecturerRole = "FULL_TIME"
	RolePartTime    LecturerRole = "PART_TIME"
)

// Semester is one of a program's six teaching semesters.
type Semester string

const (
	S1 Semester = "S1"
	S2 Semester = "S2"
	S3 Semester = "S3"
	S4 Semester = "S4"
	S5 Semester = "S5"
	S6 Semester = "S6"
)
