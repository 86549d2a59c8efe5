package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/verifier"
)

func fixtureTimetable() *domain.Timetable {
	tt := domain.NewTimetable("Engineering", domain.Term1)
	tt.Put(domain.Assignment{
		SessionID:      "CS101-SG_A-1",
		Faculty:        "Engineering",
		CohortID:       "SG_A",
		CourseCode:     "CS101",
		CanonicalGroup: "CSFUND",
		LecturerID:     "L1",
		RoomID:         "R1",
		Day:            domain.Monday,
		Period:         "SLOT_1",
		Start:          "08:00",
		End:            "10:00",
		Term:           domain.Term1,
		Ordinal:        1,
		MergedWith:     []domain.CohortID{"SG_B"},
	})
	return tt
}

func TestAssignmentDatasetFlattensMergedWith(t *testing.T) {
	data := AssignmentDataset(fixtureTimetable())
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "SG_B", data.Rows[0]["merged_with"])
	assert.Equal(t, "CS101", data.Rows[0]["course_code"])
	assert.Equal(t, "CSFUND", data.Rows[0]["canonical_group"])
	assert.Equal(t, "Engineering", data.Rows[0]["faculty"])
	assert.Equal(t, "08:00", data.Rows[0]["start"])
	assert.Equal(t, "10:00", data.Rows[0]["end"])
}

func TestCSVExporterRendersHeaderAndRows(t *testing.T) {
	data := AssignmentDataset(fixtureTimetable())
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Contains(t, string(out), "session_id")
	assert.Contains(t, string(out), "CS101-SG_A-1")
}

func TestCSVExporterRejectsEmptyHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterProducesNonEmptyDocument(t *testing.T) {
	data := ViolationDataset([]verifier.ViolationRecord{
		{ConstraintTag: "lecturer_clash", Severity: verifier.SeverityError, AffectedEntity: "L1", Message: "double booked"},
	})
	out, err := NewPDFExporter().Render(data, "Engineering Term 1 Violations")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
