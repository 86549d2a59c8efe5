package domain

import "fmt"

// SessionID identifies one synthesized teaching session: a triple of
// (cohort, canonical course of the cohort, session ordinal). It is the
// scheduling variable's identity (spec §3, Session (Variable)); the mutable
// candidate sets live on internal/variable.Variable, keyed by this id.
type SessionID string

// NewSessionID builds the canonical id for session `ordinal` (1-based) of
// `course` taken by `cohort`.
func NewSessionID(cohort CohortID, course CourseCode, ordinal int) SessionID {
	return SessionID(fmt.Sprintf("%s/%s#%d", cohort, course, ordinal))
}
