package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/campustt/timetable-core/internal/constraint"
	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/timeslot"
	"github.com/campustt/timetable-core/internal/verifier"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// timetableFile is the on-disk shape of a previously generated result,
// matching what writeGenerationArtifacts writes as <faculty>_<term>_result.json.
type timetableFile struct {
	Assignments []domain.Assignment `json:"Assignments"`
}

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	timetablePath := fs.String("timetable", "", "path to a generation result json file")
	resourcesPath := fs.String("resources", "", "path to the resources.json used to produce it")
	if err := fs.Parse(args); err != nil {
		return appErrors.ExitBadInput
	}
	if *timetablePath == "" || *resourcesPath == "" {
		fmt.Fprintln(os.Stderr, "verify requires --timetable and --resources")
		return appErrors.ExitBadInput
	}

	raw, err := os.ReadFile(*timetablePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return appErrors.ExitBadInput
	}
	var tf timetableFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return appErrors.ExitBadInput
	}

	bundle, err := loadResourceBundle(*resourcesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return appErrors.ExitBadInput
	}

	res, err := domain.Load(bundle.Lecturers, bundle.Rooms, bundle.Courses, bundle.CanonicalGroups, bundle.Cohorts, bundle.TimeSlots)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return appErrors.FromError(err).Status
	}
	reg := timeslot.NewRegistry(bundle.TimeSlots)
	suite := constraint.DefaultSuite(true)

	var faculty string
	var term domain.Term
	if len(tf.Assignments) > 0 {
		term = tf.Assignments[0].Term
	}
	if len(bundle.Cohorts) > 0 {
		faculty = bundle.Cohorts[0].Faculty
	}
	tt := domain.NewTimetable(faculty, term)
	for _, a := range tf.Assignments {
		tt.Put(a)
	}

	violations := verifier.Verify(res, reg, tt, suite)
	printViolations(violations)

	for _, v := range violations {
		if v.Severity == verifier.SeverityError {
			return appErrors.ExitInfeasible
		}
	}
	return appErrors.ExitOK
}

func printViolations(violations []verifier.ViolationRecord) {
	if len(violations) == 0 {
		fmt.Println("no violations found")
		return
	}
	for _, v := range violations {
		fmt.Printf("[%s] %s: %s (%s)\n", v.Severity, v.ConstraintTag, v.Message, v.AffectedEntity)
	}
}
