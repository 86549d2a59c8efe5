package domain

// CanonicalCourseGroup is an equivalence class over course codes. Two
// cohorts taking codes mapped to the same canonical group may be co-taught
// in one merged session if capacity permits (spec §3, Canonical Course
// Group).
type CanonicalCourseGroup struct {
	ID            CanonicalGroupID
	Name          string
	EquivalentCodes map[CourseCode]struct{}
}
