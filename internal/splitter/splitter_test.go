package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustt/timetable-core/internal/domain"
)

func term(t domain.Term) *domain.Term { return &t }

func TestSplitHonoursExplicitPreferences(t *testing.T) {
	courses := map[domain.CourseCode]domain.Course{
		"A": {Code: "A", WeeklyHours: 4, PreferredTerm: term(domain.Term1)},
		"B": {Code: "B", WeeklyHours: 4, PreferredTerm: term(domain.Term2)},
	}
	cohort := domain.Cohort{ID: "SG_CS_A_S1", Size: 30, Courses: []domain.CourseCode{"A", "B"}}

	res, err := Split(cohort, courses)
	require.NoError(t, err)
	assert.Equal(t, []domain.CourseCode{"A"}, res.Term1.Courses)
	assert.Equal(t, []domain.CourseCode{"B"}, res.Term2.Courses)
}

func TestSplitBalancesEitherCourses(t *testing.T) {
	courses := map[domain.CourseCode]domain.Course{
		"A": {Code: "A", WeeklyHours: 4},
		"B": {Code: "B", WeeklyHours: 4},
	}
	cohort := domain.Cohort{ID: "SG_X", Size: 20, Courses: []domain.CourseCode{"A", "B"}}

	res, err := Split(cohort, courses)
	require.NoError(t, err)
	assert.Len(t, res.Term1.Courses, 1)
	assert.Len(t, res.Term2.Courses, 1)
}

func TestSplitKeepsCourseGroupPairTogether(t *testing.T) {
	group := "THEORY_LAB"
	courses := map[domain.CourseCode]domain.Course{
		"THEORY": {Code: "THEORY", WeeklyHours: 4, CourseGroup: &group},
		"LAB":    {Code: "LAB", WeeklyHours: 2, CourseGroup: &group},
		"OTHER":  {Code: "OTHER", WeeklyHours: 6},
	}
	cohort := domain.Cohort{ID: "SG_Y", Size: 20, Courses: []domain.CourseCode{"THEORY", "LAB", "OTHER"}}

	res, err := Split(cohort, courses)
	require.NoError(t, err)
	sameTerm := (contains(res.Term1.Courses, "THEORY") && contains(res.Term1.Courses, "LAB")) ||
		(contains(res.Term2.Courses, "THEORY") && contains(res.Term2.Courses, "LAB"))
	assert.True(t, sameTerm)
}

func TestSplitConflictOnIncompatiblePairedPreferences(t *testing.T) {
	group := "THEORY_LAB"
	courses := map[domain.CourseCode]domain.Course{
		"THEORY": {Code: "THEORY", WeeklyHours: 4, CourseGroup: &group, PreferredTerm: term(domain.Term1)},
		"LAB":    {Code: "LAB", WeeklyHours: 2, CourseGroup: &group, PreferredTerm: term(domain.Term2)},
	}
	cohort := domain.Cohort{ID: "SG_Z", Size: 20, Courses: []domain.CourseCode{"THEORY", "LAB"}}

	_, err := Split(cohort, courses)
	require.Error(t, err)
	var conflict *SplitConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestSplitWarnsOnExcessiveCourseLoad(t *testing.T) {
	courses := map[domain.CourseCode]domain.Course{
		"A": {Code: "A", WeeklyHours: 2, PreferredTerm: term(domain.Term1)},
		"B": {Code: "B", WeeklyHours: 2, PreferredTerm: term(domain.Term1)},
		"C": {Code: "C", WeeklyHours: 2, PreferredTerm: term(domain.Term1)},
		"D": {Code: "D", WeeklyHours: 2, PreferredTerm: term(domain.Term1)},
		"E": {Code: "E", WeeklyHours: 2, PreferredTerm: term(domain.Term1)},
	}
	cohort := domain.Cohort{ID: "SG_W", Size: 20, Courses: []domain.CourseCode{"A", "B", "C", "D", "E"}}

	res, err := Split(cohort, courses)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warnings)
}

func contains(list []domain.CourseCode, target domain.CourseCode) bool {
	for _, c := range list {
		if c == target {
			return true
		}
	}
	return false
}
