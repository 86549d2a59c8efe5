// Package generator implements C12: the orchestrator that wires C1–C11
// into one Generate call per spec §6's GenerationRequest/GenerationResult
// contract. It owns no scheduling algorithm of its own — pure composition,
// matching the teacher's ScheduleGeneratorService role of validating,
// delegating to the scheduling state machine, and shaping the response.
package generator

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campustt/timetable-core/internal/chromosome"
	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/csp"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/dto"
	"github.com/campustt/timetable-core/internal/gga"
	"github.com/campustt/timetable-core/internal/ledger"
	"github.com/campustt/timetable-core/internal/runid"
	"github.com/campustt/timetable-core/internal/splitter"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/variable"
	"github.com/campustt/timetable-core/internal/verifier"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// Service wires the scheduling core's phases (C3–C11) behind one Generate
// call. It holds no resource repositories of its own — every
// GenerationRequest is fully self-contained, matching spec §5's "pure
// compute over in-memory data".
type Service struct {
	ledger    *ledger.Ledger
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewService wires a Service against a shared, term-scoped ledger. Pass a
// fresh ledger.New() at the start of each term's batch; a nil logger
// defaults to a no-op logger, matching the teacher's service constructors.
func NewService(l *ledger.Ledger, logger *zap.Logger) *Service {
	if l == nil {
		l = ledger.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: l, validate: validator.New(), logger: logger}
}

// Generate runs one faculty/term generation end to end (spec §4.10).
func (s *Service) Generate(ctx context.Context, req dto.GenerationRequest) (*dto.GenerationResult, error) {
	id := runid.New()
	ctx = runid.WithValue(ctx, id)
	log := s.logger.With(zap.String("run_id", id), zap.String("faculty", req.Faculty), zap.String("term", string(req.Term)))

	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	opts := fillDefaults(req.Options)

	cohorts, warnings, err := s.resolveCohorts(req)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn("split warning", zap.String("cohort", string(w.CohortID)), zap.String("term", string(w.Term)), zap.String("message", w.Message))
	}

	res, err := domain.Load(
		req.Resources.Lecturers,
		req.Resources.Rooms,
		req.Resources.Courses,
		req.Resources.CanonicalGroups,
		cohorts,
		req.Resources.TimeSlots,
	)
	if err != nil {
		return nil, err
	}

	reg := timeslot.NewRegistry(req.Resources.TimeSlots)
	suite := constraint.DefaultSuite(true)

	cctx := constraint.NewContext(res, reg)
	s.ledger.SeedContext(cctx)
	forbidden := s.ledger.Project(req.Faculty, res)

	vars, varMap, err := buildVariables(res, reg, req.Faculty, forbidden)
	if err != nil {
		return nil, err
	}

	cspStart := time.Now()
	cspOpts := csp.Options{
		MaxNodes:          int(opts.CSPNodeBudget),
		MaxDuration:       time.Duration(opts.CSPTimeBudgetS) * time.Second,
		BackjumpThreshold: 50,
		Seed:              int64(opts.Seed),
	}
	engine := csp.NewEngine(res, cctx, suite, forbidden, cspOpts)
	cspResult, err := engine.Solve(ctx, vars)
	cspElapsed := time.Since(cspStart)

	if err != nil {
		var noSolution *csp.NoSolutionError
		if errors.As(err, &noSolution) {
			log.Warn("csp: no solution", zap.Int("placed", len(noSolution.Placed)), zap.Int("unplaced", len(noSolution.Unplaced)))
			return &dto.GenerationResult{
				Status:      dto.StatusNoSolution,
				RunID:       id,
				Assignments: enrichAssignments(noSolution.Placed, req.Faculty, reg),
				Stats:       dto.Stats{CSPMillis: cspElapsed.Milliseconds(), CSPNodes: noSolution.Nodes},
			}, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &dto.GenerationResult{Status: dto.StatusCancelled, RunID: id}, nil
		}
		return nil, err
	}
	log.Info("csp complete", zap.Int("nodes", cspResult.Nodes), zap.Duration("elapsed", cspElapsed))

	assignments := cspResult.Assignments
	stats := dto.Stats{CSPMillis: cspElapsed.Milliseconds(), CSPNodes: cspResult.Nodes}
	var fitness *chromosome.Score

	if opts.Optimize {
		ggaStart := time.Now()
		solution := chromosome.FromAssignments(assignments, varMap)
		ggaOpts := gga.DefaultOptions()
		ggaOpts.PopulationSize = int(opts.GGAPopulation)
		ggaOpts.MaxGenerations = int(opts.GGAMaxGenerations)
		ggaOpts.TargetFitness = opts.GGATargetFitness
		ggaOpts.Seed = int64(opts.Seed)

		result, err := gga.Run(ctx, solution, varMap, res, reg, suite, opts.FitnessWeights, ggaOpts)
		ggaElapsed := time.Since(ggaStart)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return &dto.GenerationResult{Status: dto.StatusCancelled, RunID: id, Assignments: assignments, Stats: stats}, nil
			}
			return nil, err
		}
		assignments = result.Assignments
		score := result.Score
		fitness = &score
		stats.GGAMillis = ggaElapsed.Milliseconds()
		stats.GGAGenerations = result.Generations
		stats.FinalFitness = result.Score.Overall
		log.Info("gga complete", zap.Int("generations", result.Generations), zap.Float64("fitness", result.Score.Overall))
	}

	assignments = enrichAssignments(assignments, req.Faculty, reg)

	tt := domain.NewTimetable(req.Faculty, req.Term)
	for _, a := range assignments {
		tt.Put(a)
	}
	violations := verifier.Verify(res, reg, tt, suite)

	s.ledger.Commit(req.Faculty, res, assignments)

	return &dto.GenerationResult{
		Status:       dto.StatusSuccess,
		RunID:        id,
		Assignments:  assignments,
		Fitness:      fitness,
		Verification: violations,
		Stats:        stats,
	}, nil
}

func fillDefaults(o dto.Options) dto.Options {
	d := dto.DefaultOptions()
	if o.CSPNodeBudget == 0 {
		o.CSPNodeBudget = d.CSPNodeBudget
	}
	if o.CSPTimeBudgetS == 0 {
		o.CSPTimeBudgetS = d.CSPTimeBudgetS
	}
	if o.GGAPopulation == 0 {
		o.GGAPopulation = d.GGAPopulation
	}
	if o.GGAMaxGenerations == 0 {
		o.GGAMaxGenerations = d.GGAMaxGenerations
	}
	if o.GGATargetFitness == 0 {
		o.GGATargetFitness = d.GGATargetFitness
	}
	if (o.FitnessWeights == chromosome.Weights{}) {
		o.FitnessWeights = d.FitnessWeights
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	return o
}

// resolveCohorts term-splits any cohort that doesn't already carry an
// explicit term (spec §4.10 step 2: idempotent — a pre-split cohort is
// passed through), filtered to this request's faculty and term.
func (s *Service) resolveCohorts(req dto.GenerationRequest) ([]domain.Cohort, []splitter.Warning, error) {
	courseMap := make(map[domain.CourseCode]domain.Course, len(req.Resources.Courses))
	for _, c := range req.Resources.Courses {
		courseMap[c.Code] = c
	}

	var out []domain.Cohort
	var warnings []splitter.Warning
	for _, cohort := range req.Resources.Cohorts {
		if cohort.Faculty != "" && cohort.Faculty != req.Faculty {
			continue
		}
		if cohort.Term != "" {
			if cohort.Term == req.Term {
				out = append(out, cohort)
			}
			continue
		}
		result, err := splitter.Split(cohort, courseMap)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, result.Warnings...)
		if req.Term == domain.Term1 {
			out = append(out, result.Term1)
		} else {
			out = append(out, result.Term2)
		}
	}
	return out, warnings, nil
}

// enrichAssignments fills in the faculty and start/end-of-day fields that
// neither a CSP Candidate nor a GGA Gene carries (spec.md:237's persisted
// record needs faculty/start/end for cross-language parity, but those are
// request- and registry-level facts, not per-variable ones), and detects
// merged sessions: two or more cohorts sharing one (room, day, period)
// under the same lecturer (spec §4.4 merge rule, §8 scenario 2). This is
// the one pass over the whole final assignment set instead of one
// candidate/gene at a time, so it runs once — after GGA optimization, if
// any — right before the result is shaped and returned.
func enrichAssignments(assignments []domain.Assignment, faculty string, reg *timeslot.Registry) []domain.Assignment {
	type slotKey struct {
		Room   domain.RoomID
		Day    domain.Day
		Period domain.Period
	}

	out := make([]domain.Assignment, len(assignments))
	groups := make(map[slotKey][]int, len(assignments))
	for i, a := range assignments {
		a.Faculty = faculty
		if slot, ok := reg.Lookup(a.Period); ok {
			a.Start = slot.Start
			a.End = slot.End
		}
		out[i] = a
		key := slotKey{Room: a.RoomID, Day: a.Day, Period: a.Period}
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs {
			var merged []domain.CohortID
			for _, j := range idxs {
				if j == i || out[j].CohortID == out[i].CohortID {
					continue
				}
				if out[j].LecturerID == out[i].LecturerID {
					merged = append(merged, out[j].CohortID)
				}
			}
			sort.Slice(merged, func(a, b int) bool { return merged[a] < merged[b] })
			out[i].MergedWith = merged
		}
	}
	return out
}

func buildVariables(res *domain.Resources, reg *timeslot.Registry, faculty string, forbidden *variable.Forbidden) ([]*variable.Variable, map[domain.SessionID]*variable.Variable, error) {
	var vars []*variable.Variable
	for _, cohort := range res.CohortsForFaculty(faculty) {
		built, err := variable.Build(cohort, res, reg, forbidden)
		if err != nil {
			return nil, nil, err
		}
		vars = append(vars, built...)
	}
	varMap := make(map[domain.SessionID]*variable.Variable, len(vars))
	for _, v := range vars {
		varMap[v.ID] = v
	}
	return vars, varMap, nil
}
