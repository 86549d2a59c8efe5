package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

func writeFixtureResources(t *testing.T, dir string) {
	t.Helper()
	resources := map[string]any{
		"Lecturers": []map[string]any{
			{"ID": "L1", "Role": "FULL_TIME", "Specializations": map[string]any{"CSFUND": map[string]any{}}},
			{"ID": "L2", "Role": "FULL_TIME", "Specializations": map[string]any{"CSFUND": map[string]any{}}},
		},
		"Rooms": []map[string]any{
			{"ID": "R1", "Type": "THEORY", "Capacity": 40, "Available": true},
			{"ID": "R2", "Type": "THEORY", "Capacity": 40, "Available": true},
		},
		"Courses": []map[string]any{
			{"Code": "CS101", "WeeklyHours": 2, "PreferredRoomType": "THEORY", "CanonicalGroup": "CSFUND"},
		},
		"CanonicalGroups": []map[string]any{
			{"ID": "CSFUND", "Name": "CS Fundamentals"},
		},
		"Cohorts": []map[string]any{
			{"ID": "SG_A", "Size": 20, "Term": "TERM_1", "Courses": []string{"CS101"}, "Faculty": "Engineering", "Active": true},
		},
		"TimeSlots": []map[string]any{
			{"Period": "SLOT_1", "Start": "08:00", "SortOrder": 1},
			{"Period": "SLOT_2", "Start": "10:00", "SortOrder": 2},
		},
	}
	raw, err := json.Marshal(resources)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resources.json"), raw, 0o644))
}

func TestRunGenerateProducesArtifacts(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFixtureResources(t, input)

	code := run([]string{"generate", "--term", "1", "--faculty", "Engineering", "--input", input, "--output", output})
	assert.Equal(t, appErrors.ExitOK, code)

	_, err := os.Stat(filepath.Join(output, "Engineering_TERM_1_assignments.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(output, "Engineering_TERM_1_result.json"))
	assert.NoError(t, err)
}

func TestRunGenerateRejectsBadTerm(t *testing.T) {
	code := run([]string{"generate", "--term", "3", "--faculty", "X", "--input", ".", "--output", "."})
	assert.Equal(t, appErrors.ExitBadInput, code)
}

func TestRunGenerateAllDiscoversFacultySubdirectories(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	facultyDir := filepath.Join(input, "Engineering")
	require.NoError(t, os.MkdirAll(facultyDir, 0o755))
	writeFixtureResources(t, facultyDir)

	code := run([]string{"generate-all", "--term", "1", "--input", input, "--output", output})
	assert.Equal(t, appErrors.ExitOK, code)
	_, err := os.Stat(filepath.Join(output, "Engineering_TERM_1_assignments.csv"))
	assert.NoError(t, err)
}

func TestRunVerifyReportsNoViolationsForCleanResult(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFixtureResources(t, input)

	code := run([]string{"generate", "--term", "1", "--faculty", "Engineering", "--input", input, "--output", output})
	require.Equal(t, appErrors.ExitOK, code)

	code = run([]string{
		"verify",
		"--timetable", filepath.Join(output, "Engineering_TERM_1_result.json"),
		"--resources", filepath.Join(input, "resources.json"),
	})
	assert.Equal(t, appErrors.ExitOK, code)
}

func TestRunWithNoArgsPrintsUsage(t *testing.T) {
	assert.Equal(t, appErrors.ExitBadInput, run(nil))
}
