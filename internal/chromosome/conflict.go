package chromosome

import (
	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
)

// RecomputeConflictScores fills in each gene's ConflictScore: the number of
// alternative lecturers (keeping the gene's room) plus alternative rooms
// (keeping the gene's lecturer) at the gene's own slot that the constraint
// suite would reject against the rest of the chromosome. A gene
// pinned into a tight corner of its domain racks up a high score and
// becomes a priority target for mutation (spec §4.7 Mutation).
func RecomputeConflictScores(c *Chromosome, res *domain.Resources, reg *timeslot.Registry, suite []constraint.Predicate) {
	ctx := constraint.NewContext(res, reg)
	for _, g := range c.Genes {
		ctx.Place(toCandidate(g, cohortSizeOf(res, g.CohortID)))
	}

	for i, g := range c.Genes {
		size := cohortSizeOf(res, g.CohortID)
		cand := toCandidate(g, size)
		ctx.Unplace(cand)

		score := 0
		for _, lect := range neighborLecturers(c.Genes, g) {
			probe := cand
			probe.LecturerID = lect
			if ok, _ := constraint.Allow(ctx, probe, suite); !ok {
				score++
			}
		}
		for _, room := range neighborRooms(c.Genes, g) {
			probe := cand
			probe.RoomID = room
			if ok, _ := constraint.Allow(ctx, probe, suite); !ok {
				score++
			}
		}
		c.Genes[i].ConflictScore = score
		ctx.Place(cand)
	}
}

func toCandidate(g Gene, cohortSize int) constraint.Candidate {
	return constraint.Candidate{
		SessionID:  g.VariableID,
		CohortID:   g.CohortID,
		CourseCode: g.CourseCode,
		Canonical:  g.Canonical,
		LecturerID: g.Lecturer,
		RoomID:     g.Room,
		Day:        g.Day,
		Period:     g.Period,
		Term:       g.Term,
		CohortSize: cohortSize,
	}
}

// neighborLecturers/neighborRooms sample the other lecturers/rooms already
// in play for this course, rather than the full resource pool, keeping the
// probe cheap for large timetables.
func neighborLecturers(genes []Gene, self Gene) []domain.LecturerID {
	seen := map[domain.LecturerID]struct{}{}
	var out []domain.LecturerID
	for _, g := range genes {
		if g.CourseCode != self.CourseCode || g.Lecturer == self.Lecturer {
			continue
		}
		if _, ok := seen[g.Lecturer]; ok {
			continue
		}
		seen[g.Lecturer] = struct{}{}
		out = append(out, g.Lecturer)
	}
	return out
}

func neighborRooms(genes []Gene, self Gene) []domain.RoomID {
	seen := map[domain.RoomID]struct{}{}
	var out []domain.RoomID
	for _, g := range genes {
		if g.CourseCode != self.CourseCode || g.Room == self.Room {
			continue
		}
		if _, ok := seen[g.Room]; ok {
			continue
		}
		seen[g.Room] = struct{}{}
		out = append(out, g.Room)
	}
	return out
}
