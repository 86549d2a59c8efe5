package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/campustt/timetable-core/internal/generator"
	"github.com/campustt/timetable-core/internal/ledger"
	"github.com/campustt/timetable-core/internal/metrics"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// runGenerateAll drives every faculty subdirectory under --input through
// one shared ledger.Ledger, sequentially (spec §4.8/§5: cross-faculty
// resource conflicts are resolved by running each faculty in turn against
// the growing ledger, never by a single monolithic global CSP).
func runGenerateAll(args []string) int {
	fs := flag.NewFlagSet("generate-all", flag.ContinueOnError)
	termFlag := fs.String("term", "", "term to generate, 1 or 2")
	input := fs.String("input", "", "directory containing one subdirectory per faculty")
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
	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "generate-all requires --input and --output")
		return appErrors.ExitBadInput
	}

	faculties, err := discoverFaculties(*input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return appErrors.ExitBadInput
	}
	if len(faculties) == 0 {
		fmt.Fprintln(os.Stderr, "no faculty subdirectories found under", *input)
		return appErrors.ExitBadInput
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.New()
		srv := metrics.Serve(cfg.Metrics.Addr, recorder)
		defer srv.Close()
	}

	l := ledger.New()
	svc := generator.NewService(l, log)

	worst := appErrors.ExitOK
	for _, faculty := range faculties {
		bundle, err := loadResourceBundle(filepath.Join(*input, faculty, "resources.json"))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			worst = worstExit(worst, appErrors.FromError(err).Status)
			continue
		}

		start := time.Now()
		result, status := generateOne(context.Background(), svc, term, faculty, bundle, optionsFromConfig(cfg))
		if recorder != nil {
			recorder.ObservePhase(faculty, string(term), "generate", time.Since(start))
			if result != nil {
				recorder.ObserveCSP(faculty, string(term), result.Stats.CSPNodes)
				if result.Fitness != nil {
					recorder.ObserveGGA(faculty, string(term), result.Stats.GGAGenerations, result.Fitness.Overall)
				}
				recorder.ObserveOutcome(faculty, string(term), string(result.Status))
			}
		}
		worst = worstExit(worst, status)
		if result == nil {
			continue
		}
		if err := writeGenerationArtifacts(*output, faculty, string(term), result); err != nil {
			fmt.Fprintln(os.Stderr, err)
			worst = worstExit(worst, appErrors.ExitBadInput)
		}
	}

	return worst
}

func discoverFaculties(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBadInput.Code, appErrors.ErrBadInput.Status, "read input directory")
	}
	var faculties []string
	for _, e := range entries {
		if e.IsDir() {
			faculties = append(faculties, e.Name())
		}
	}
	sort.Strings(faculties)
	return faculties, nil
}

// worstExit keeps the most severe exit code seen so far, treating OK as
// the best outcome and everything else as progressively worse in the
// order the taxonomy defines them.
func worstExit(current, next int) int {
	if next == appErrors.ExitOK {
		return current
	}
	if current == appErrors.ExitOK {
		return next
	}
	if next > current {
		return next
	}
	return current
}
