// Package chromosome implements C8: the GGA's gene/chromosome encoding and
// four-component weighted fitness function (spec §4.6).
package chromosome

import (
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/variable"
)

// Gene is one variable's current (lecturer, room, day, slot) assignment,
// plus the bookkeeping the GGA needs for targeted mutation: flexibility
// (how many alternatives the variable's domain still offers) and
// conflict_score (how many near-miss constraint rejections this gene
// currently racks up against its neighbors).
type Gene struct {
	VariableID domain.SessionID
	CohortID   domain.CohortID
	CourseCode domain.CourseCode
	Canonical  domain.CanonicalGroupID
	Term       domain.Term
	Ordinal    int

	Lecturer domain.LecturerID
	Room     domain.RoomID
	Day      domain.Day
	Period   domain.Period

	Flexibility   int
	ConflictScore int
}

// Chromosome is an ordered list of genes, one per scheduling variable.
type Chromosome struct {
	Genes []Gene
}

// FromAssignments builds a Chromosome from a complete CSP solution. `vars`
// supplies each gene's flexibility (its variable's domain size at build
// time); conflict_score starts at zero and is filled in by
// RecomputeConflictScores once a constraint context is available.
func FromAssignments(assignments []domain.Assignment, vars map[domain.SessionID]*variable.Variable) *Chromosome {
	genes := make([]Gene, 0, len(assignments))
	for _, a := range assignments {
		flex := 0
		if v, ok := vars[a.SessionID]; ok {
			flex = v.DomainSize()
		}
		genes = append(genes, Gene{
			VariableID:  a.SessionID,
			CohortID:    a.CohortID,
			CourseCode:  a.CourseCode,
			Canonical:   a.CanonicalGroup,
			Term:        a.Term,
			Ordinal:     a.Ordinal,
			Lecturer:    a.LecturerID,
			Room:        a.RoomID,
			Day:         a.Day,
			Period:      a.Period,
			Flexibility: flex,
		})
	}
	return &Chromosome{Genes: genes}
}

// ToAssignments materializes the chromosome back into an Assignment list
// (spec §4.7 Output).
func (c *Chromosome) ToAssignments() []domain.Assignment {
	out := make([]domain.Assignment, 0, len(c.Genes))
	for _, g := range c.Genes {
		out = append(out, domain.Assignment{
			SessionID:      g.VariableID,
			CohortID:       g.CohortID,
			CourseCode:     g.CourseCode,
			CanonicalGroup: g.Canonical,
			LecturerID:     g.Lecturer,
			RoomID:         g.Room,
			Day:            g.Day,
			Period:         g.Period,
			Term:           g.Term,
			Ordinal:        g.Ordinal,
		})
	}
	return out
}

// Clone deep-copies the chromosome's gene slice for mutation/crossover
// without aliasing the parent.
func (c *Chromosome) Clone() *Chromosome {
	genes := append([]Gene(nil), c.Genes...)
	return &Chromosome{Genes: genes}
}

// IndexByVariable returns a lookup from variable ID to gene slice index.
func (c *Chromosome) IndexByVariable() map[domain.SessionID]int {
	idx := make(map[domain.SessionID]int, len(c.Genes))
	for i, g := range c.Genes {
		idx[g.VariableID] = i
	}
	return idx
}
