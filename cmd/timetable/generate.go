package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/dto"
	"github.com/campustt/timetable-core/internal/export"
	"github.com/campustt/timetable-core/internal/generator"
	"github.com/campustt/timetable-core/internal/ledger"
	"github.com/campustt/timetable-core/internal/storage"
	"github.com/campustt/timetable-core/pkg/config"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

func parseTerm(raw string) (domain.Term, error) {
	switch raw {
	case "1":
		return domain.Term1, nil
	case "2":
		return domain.Term2, nil
	default:
		return "", appErrors.New(appErrors.ErrBadInput.Code, appErrors.ErrBadInput.Status, fmt.Sprintf("invalid --term %q, want 1 or 2", raw))
	}
}

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	termFlag := fs.String("term", "", "term to generate, 1 or 2")
	faculty := fs.String("faculty", "", "faculty name")
	input := fs.String("input", "", "directory containing resources.json")
	output := fs.String("output", "", "directory to write exports to")
	if err := fs.Parse(args); err != nil {
		return appErrors.ExitBadInput
	}

	log, cfg := bootstrapLogger()
	defer log.Sync() //nolint:errcheck

	term, err := parseTerm(*termFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return appErrors.ExitBadInput
	}
	if *faculty == "" || *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "generate requires --faculty, --input, and --output")
		return appErrors.ExitBadInput
	}

	bundle, err := loadResourceBundle(filepath.Join(*input, "resources.json"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return appErrors.FromError(err).Status
	}

	l := ledger.New()
	svc := generator.NewService(l, log)

	result, status := generateOne(context.Background(), svc, term, *faculty, bundle, optionsFromConfig(cfg))
	if status != appErrors.ExitOK {
		return status
	}

	if err := writeGenerationArtifacts(*output, *faculty, string(term), result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return appErrors.ExitBadInput
	}

	fmt.Printf("generated %d assignments for %s/%s (status=%s, run_id=%s)\n",
		len(result.Assignments), *faculty, term, result.Status, result.RunID)
	return appErrors.ExitOK
}

// optionsFromConfig carries the TT_SEED/TT_CSP_TIMEOUT_S/TT_GGA_GENERATIONS
// tuning knobs from config.Load (env/--env-file) into a GenerationRequest.
// Optimize is copied from dto.DefaultOptions(), since fillDefaults cannot
// tell an unset bool from false; every other Options field is left zero so
// generator.Service.fillDefaults backfills it from dto.DefaultOptions().
func optionsFromConfig(cfg *config.Config) dto.Options {
	return dto.Options{
		Optimize:          dto.DefaultOptions().Optimize,
		Seed:              cfg.Generate.Seed,
		CSPTimeBudgetS:    cfg.Generate.CSPTimeBudgetS,
		GGAMaxGenerations: cfg.Generate.GGAMaxGenerations,
	}
}

// generateOne runs one faculty/term generation and maps its outcome onto
// a CLI exit code per spec §6/§7.
func generateOne(ctx context.Context, svc *generator.Service, term domain.Term, faculty string, bundle dto.ResourceBundle, opts dto.Options) (*dto.GenerationResult, int) {
	req := dto.GenerationRequest{Term: term, Faculty: faculty, Resources: bundle, Options: opts}
	result, err := svc.Generate(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, appErrors.FromError(err).Status
	}

	switch result.Status {
	case dto.StatusNoSolution:
		fmt.Fprintf(os.Stderr, "%s/%s: no solution found within the search budget\n", faculty, term)
		return result, appErrors.ExitInfeasible
	case dto.StatusCancelled:
		fmt.Fprintf(os.Stderr, "%s/%s: generation cancelled\n", faculty, term)
		return result, appErrors.ExitCancelled
	default:
		return result, appErrors.ExitOK
	}
}

// writeGenerationArtifacts renders the assignment list and violation
// report as CSV (spec §4.12) into outputDir.
func writeGenerationArtifacts(outputDir, faculty, term string, result *dto.GenerationResult) error {
	store, err := storage.NewLocalStorage(outputDir)
	if err != nil {
		return err
	}

	tt := domain.NewTimetable(faculty, domain.Term(term))
	for _, a := range result.Assignments {
		tt.Put(a)
	}

	csvExporter := export.NewCSVExporter()

	assignmentsCSV, err := csvExporter.Render(export.AssignmentDataset(tt))
	if err != nil {
		return err
	}
	if _, err := store.Save(storage.ArtifactName(faculty, term, "assignments", "csv"), assignmentsCSV); err != nil {
		return err
	}

	violationsCSV, err := csvExporter.Render(export.ViolationDataset(result.Verification))
	if err != nil {
		return err
	}
	if _, err := store.Save(storage.ArtifactName(faculty, term, "violations", "csv"), violationsCSV); err != nil {
		return err
	}

	return writeJSON(store.Path(storage.ArtifactName(faculty, term, "result", "json")), result)
}
