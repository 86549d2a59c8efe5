// Package splitter implements C3: partitioning a semester cohort's course
// list across Term 1 / Term 2 while honoring explicit preferences,
// course_group pairing, and total-workload balance (spec §4.1).
package splitter

import (
	"sort"

	"github.com/campustt/timetable-core/internal/domain"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// MaxCoursesPerTermHard is the upper course count per cohort per term
// (spec §4.1 rule 3). A term above it still splits successfully; it only
// carries a Warning, as a term above the soft target does.
const MaxCoursesPerTermHard = 4

// SoftTargetCoursesPerTerm is the soft target; exceeding it only emits a
// Warning.
const SoftTargetCoursesPerTerm = 3

// Warning is a non-fatal split outcome (e.g. a term carrying more than the
// soft course-count target).
type Warning struct {
	CohortID domain.CohortID
	Term     domain.Term
	Message  string
}

// SplitConflictError is raised when a hard course_group pairing cannot be
// satisfied because its two courses declare conflicting preferred terms.
type SplitConflictError struct {
	Err          *appErrors.Error
	CodeA, CodeB domain.CourseCode
}

// Error implements the error interface.
func (e *SplitConflictError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying *appErrors.Error to errors.As/errors.Is.
func (e *SplitConflictError) Unwrap() error { return e.Err }

func newSplitConflict(a, b domain.CourseCode) *SplitConflictError {
	return &SplitConflictError{
		Err:   appErrors.Clone(appErrors.ErrSplitConflict, "paired courses declare conflicting preferred terms"),
		CodeA: a,
		CodeB: b,
	}
}

// Result is the pair of term-scoped cohort records produced for one input
// cohort, plus any soft warnings.
type Result struct {
	Term1    domain.Cohort
	Term2    domain.Cohort
	Warnings []Warning
}

// Split partitions `cohort`'s course list into Term 1 / Term 2 cohort
// records. `courses` must contain every code referenced by cohort.Courses.
func Split(cohort domain.Cohort, courses map[domain.CourseCode]domain.Course) (*Result, error) {
	term1 := domain.Cohort{ID: deriveTermID(cohort.ID, domain.Term1), Program: cohort.Program, Batch: cohort.Batch, Semester: cohort.Semester, Term: domain.Term1, Size: cohort.Size, Faculty: cohort.Faculty, Active: cohort.Active}
	term2 := term1
	term2.ID = deriveTermID(cohort.ID, domain.Term2)
	term2.Term = domain.Term2

	// 1. assign explicit preferences; collect "either" courses and paired
	// groups for later resolution.
	var either []domain.CourseCode
	groupTerm := map[string]domain.Term{}
	groupMembers := map[string][]domain.CourseCode{}

	hours1, hours2 := 0, 0

	for _, code := range cohort.Courses {
		course, ok := courses[code]
		if !ok {
			continue // already validated by domain.Load; defensive only
		}
		if course.CourseGroup != nil {
			groupMembers[*course.CourseGroup] = append(groupMembers[*course.CourseGroup], code)
		}
		if term, explicit := course.PreferredTermOrEither(); explicit {
			if course.CourseGroup != nil {
				if prior, seen := groupTerm[*course.CourseGroup]; seen && prior != term {
					other := otherGroupCode(groupMembers[*course.CourseGroup], code)
					return nil, newSplitConflict(code, other)
				}
				groupTerm[*course.CourseGroup] = term
			}
			switch term {
			case domain.Term1:
				term1.Courses = append(term1.Courses, code)
				hours1 += course.WeeklyHours
			default:
				term2.Courses = append(term2.Courses, code)
				hours2 += course.WeeklyHours
			}
			continue
		}
		either = append(either, code)
	}

	// 2. course_group pairs among the "either" set must land together;
	// resolve them before the general balancing pass so a pair is never
	// split by the greedy balance loop below.
	sort.Slice(either, func(i, j int) bool { return either[i] < either[j] })

	placed := map[domain.CourseCode]bool{}
	var warnings []Warning

	for _, code := range either {
		if placed[code] {
			continue
		}
		course := courses[code]
		group := course.CourseGroup
		members := []domain.CourseCode{code}
		if group != nil {
			if forced, ok := groupTerm[*group]; ok {
				// the other half of this pair already has an explicit term
				assignGroup(&term1, &term2, &hours1, &hours2, members, courses, forced)
				placed[code] = true
				continue
			}
			for _, m := range groupMembers[*group] {
				if m != code && !placed[m] {
					members = append(members, m)
				}
			}
		}

		totalHours := 0
		for _, m := range members {
			totalHours += courses[m].WeeklyHours
		}
		target := domain.Term1
		if hours1 > hours2 {
			target = domain.Term2
		}
		assignGroup(&term1, &term2, &hours1, &hours2, members, courses, target)
		for _, m := range members {
			placed[m] = true
		}
	}

	if w := checkSoftCap(term1.ID, domain.Term1, len(term1.Courses)); w != nil {
		warnings = append(warnings, *w)
	}
	if w := checkSoftCap(term2.ID, domain.Term2, len(term2.Courses)); w != nil {
		warnings = append(warnings, *w)
	}

	sort.Slice(term1.Courses, func(i, j int) bool { return term1.Courses[i] < term1.Courses[j] })
	sort.Slice(term2.Courses, func(i, j int) bool { return term2.Courses[i] < term2.Courses[j] })

	return &Result{Term1: term1, Term2: term2, Warnings: warnings}, nil
}

func assignGroup(term1, term2 *domain.Cohort, hours1, hours2 *int, members []domain.CourseCode, courses map[domain.CourseCode]domain.Course, target domain.Term) {
	for _, m := range members {
		h := courses[m].WeeklyHours
		if target == domain.Term1 {
			term1.Courses = append(term1.Courses, m)
			*hours1 += h
		} else {
			term2.Courses = append(term2.Courses, m)
			*hours2 += h
		}
	}
}

func checkSoftCap(id domain.CohortID, term domain.Term, count int) *Warning {
	if count > MaxCoursesPerTermHard {
		return &Warning{CohortID: id, Term: term, Message: "course count exceeds hard cap"}
	}
	if count > SoftTargetCoursesPerTerm {
		return &Warning{CohortID: id, Term: term, Message: "course count exceeds soft target"}
	}
	return nil
}

func otherGroupCode(members []domain.CourseCode, exclude domain.CourseCode) domain.CourseCode {
	for _, m := range members {
		if m != exclude {
			return m
		}
	}
	return exclude
}

func deriveTermID(base domain.CohortID, term domain.Term) domain.CohortID {
	suffix := "T1"
	if term == domain.Term2 {
		suffix = "T2"
	}
	return domain.CohortID(string(base) + "_" + suffix)
}
