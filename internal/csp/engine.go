// Package csp implements C7: backtracking search with MRV/LCV ordering,
// forward-checking-style dead-end detection, and conflict-directed
// backjumping over the C4 variable domains and the C5/C6 constraint
// context (spec §4.5).
package csp

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// Options tunes the search. Zero-value Options is invalid; use
// DefaultOptions and override selectively.
type Options struct {
	MaxNodes          int
	MaxDuration       time.Duration
	BackjumpThreshold int
	Seed              int64
}

// DefaultOptions matches spec §4.5's stated defaults.
func DefaultOptions() Options {
	return Options{
		MaxNodes:          10000,
		MaxDuration:       300 * time.Second,
		BackjumpThreshold: 50,
		Seed:              1,
	}
}

var errBudgetExceeded = errors.New("csp: node or time budget exceeded")

// Engine runs one backtracking search over a fixed set of variables against
// a shared constraint context. Not safe for concurrent use.
type Engine struct {
	res       *domain.Resources
	ctx       *constraint.Context
	suite     []constraint.Predicate
	forbidden *variable.Forbidden
	rng       *rand.Rand
	opts      Options

	vars        map[domain.SessionID]*variable.Variable
	slotLoad    map[timeslot.DayPeriod]int
	failCount   map[domain.SessionID]int
	conflictSet map[domain.SessionID]map[domain.SessionID]struct{}
	placedStack []constraint.Candidate

	nodes     int
	deadline  time.Time
	startedAt time.Time
}

// NewEngine constructs an Engine. `cctx` should be empty (no placements) on
// entry; the engine owns all mutation of it for the duration of Solve.
func NewEngine(res *domain.Resources, cctx *constraint.Context, suite []constraint.Predicate, forbidden *variable.Forbidden, opts Options) *Engine {
	return &Engine{
		res:         res,
		ctx:         cctx,
		suite:       suite,
		forbidden:   forbidden,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		opts:        opts,
		vars:        map[domain.SessionID]*variable.Variable{},
		slotLoad:    map[timeslot.DayPeriod]int{},
		failCount:   map[domain.SessionID]int{},
		conflictSet: map[domain.SessionID]map[domain.SessionID]struct{}{},
	}
}

// Solve runs the search to completion, exhaustion, or cancellation.
func (e *Engine) Solve(ctx context.Context, vars []*variable.Variable) (*Result, error) {
	unassigned := make([]domain.SessionID, 0, len(vars))
	for _, v := range vars {
		e.vars[v.ID] = v
		unassigned = append(unassigned, v.ID)
	}
	sort.Slice(unassigned, func(i, j int) bool { return unassigned[i] < unassigned[j] })

	e.startedAt = time.Now()
	e.deadline = e.startedAt.Add(e.opts.MaxDuration)

	ok, _, err := e.search(ctx, unassigned)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, appErrors.Wrap(err, appErrors.ErrCancelled.Code, appErrors.ErrCancelled.Status, "generation cancelled mid-search")
		}
		return nil, e.noSolution(vars)
	}
	if !ok {
		return nil, e.noSolution(vars)
	}

	assignments := make([]domain.Assignment, 0, len(e.placedStack))
	for _, c := range e.placedStack {
		assignments = append(assignments, toAssignment(c, e.vars[c.SessionID]))
	}
	return &Result{Assignments: assignments, Nodes: e.nodes}, nil
}

func (e *Engine) noSolution(vars []*variable.Variable) *NoSolutionError {
	placed := make([]domain.Assignment, 0, len(e.placedStack))
	placedIDs := map[domain.SessionID]struct{}{}
	for _, c := range e.placedStack {
		placed = append(placed, toAssignment(c, e.vars[c.SessionID]))
		placedIDs[c.SessionID] = struct{}{}
	}
	var unplaced []domain.SessionID
	for _, v := range vars {
		if _, ok := placedIDs[v.ID]; !ok {
			unplaced = append(unplaced, v.ID)
		}
	}
	return newNoSolution(placed, unplaced, e.nodes)
}

func toAssignment(c constraint.Candidate, v *variable.Variable) domain.Assignment {
	return domain.Assignment{
		SessionID:      c.SessionID,
		CohortID:       c.CohortID,
		CourseCode:     c.CourseCode,
		CanonicalGroup: c.Canonical,
		LecturerID:     c.LecturerID,
		RoomID:         c.RoomID,
		Day:            c.Day,
		Period:         c.Period,
		Term:           c.Term,
		Ordinal:        v.Ordinal,
	}
}

// search recursively assigns `unassigned`. It returns (success, jumpTarget,
// err). jumpTarget is non-empty only when conflict-directed backjumping is
// unwinding multiple frames: every frame whose variable isn't jumpTarget
// must stop trying candidates and keep propagating; the frame matching
// jumpTarget resumes normal candidate trial.
func (e *Engine) search(ctx context.Context, unassigned []domain.SessionID) (bool, domain.SessionID, error) {
	if len(unassigned) == 0 {
		return true, "", nil
	}
	if err := e.checkBudget(ctx); err != nil {
		return false, "", err
	}

	varID := e.selectVariable(unassigned)
	v := e.vars[varID]
	cohort := e.res.Cohorts[v.CohortID]
	rest := without(unassigned, varID)

	for _, t := range e.orderedCandidates(v, cohort.Size) {
		e.nodes++
		cand := constraint.Candidate{
			SessionID:  varID,
			CohortID:   v.CohortID,
			CourseCode: v.CourseCode,
			Canonical:  v.Canonical,
			LecturerID: t.Lecturer,
			RoomID:     t.Room,
			Day:        t.Slot.Day,
			Period:     t.Slot.Period,
			Term:       v.Term,
			CohortSize: cohort.Size,
		}

		ok, rej := constraint.Allow(e.ctx, cand, e.suite)
		if !ok {
			e.recordConflict(varID, rej)
			continue
		}

		e.ctx.Place(cand)
		e.slotLoad[t.Slot]++
		e.placedStack = append(e.placedStack, cand)

		success, jump, err := e.search(ctx, rest)
		if success {
			// Our own placement and every nested one below it are already
			// correctly recorded; nothing to unwind on the winning branch.
			return true, "", nil
		}
		if err != nil {
			// Budget/cancellation: preserve the partial assignment exactly
			// as it stood when the budget fired, all the way up to Solve.
			return false, "", err
		}

		e.placedStack = e.placedStack[:len(e.placedStack)-1]
		e.slotLoad[t.Slot]--
		e.ctx.Unplace(cand)

		if jump != "" && jump != varID {
			return false, jump, nil
		}
		// jump == "" or jump == varID: keep trying the next candidate here.
	}

	e.failCount[varID]++
	if e.failCount[varID] >= e.opts.BackjumpThreshold {
		if target := e.mostImplicated(varID); target != "" {
			return false, target, nil
		}
	}
	return false, "", nil
}

func (e *Engine) checkBudget(ctx context.Context) error {
	if e.nodes%64 == 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	if e.nodes >= e.opts.MaxNodes {
		return errBudgetExceeded
	}
	if time.Now().After(e.deadline) {
		return errBudgetExceeded
	}
	return nil
}

func (e *Engine) recordConflict(varID domain.SessionID, rej *constraint.Reject) {
	if rej == nil {
		return
	}
	owner := e.ownerOfEntity(rej.Entity)
	if owner == "" {
		return
	}
	if e.conflictSet[varID] == nil {
		e.conflictSet[varID] = map[domain.SessionID]struct{}{}
	}
	e.conflictSet[varID][owner] = struct{}{}
}

func (e *Engine) ownerOfEntity(entity string) domain.SessionID {
	for i := len(e.placedStack) - 1; i >= 0; i-- {
		c := e.placedStack[i]
		if string(c.LecturerID) == entity || string(c.RoomID) == entity || string(c.CohortID) == entity {
			return c.SessionID
		}
	}
	return ""
}

func (e *Engine) mostImplicated(varID domain.SessionID) domain.SessionID {
	conflicts := e.conflictSet[varID]
	if conflicts == nil {
		return ""
	}
	for i := len(e.placedStack) - 1; i >= 0; i-- {
		if _, ok := conflicts[e.placedStack[i].SessionID]; ok {
			return e.placedStack[i].SessionID
		}
	}
	return ""
}

func without(ids []domain.SessionID, target domain.SessionID) []domain.SessionID {
	out := make([]domain.SessionID, 0, len(ids)-1)
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
