// Package export renders a completed generation result to the
// human-facing formats spec §1 carries in scope: CSV and PDF, adapted
// from the teacher's pkg/export.CSVExporter/PDFExporter Dataset/Render
// shape (C14).
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/verifier"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// Dataset is tabular export content: an ordered header row plus string
// rows keyed by header, identical in shape to the teacher's export
// package so CSV/PDF rendering can be shared unchanged.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// assignmentHeaders follows spec.md:237's persisted-record layout
// verbatim (session_id through end), with ordinal/merged_with appended as
// this core's own additions.
var assignmentHeaders = []string{
	"session_id", "term", "faculty", "cohort_id", "course_code",
	"canonical_group", "lecturer_id", "room_id", "day", "period",
	"start", "end", "ordinal", "merged_with",
}

// AssignmentDataset flattens a timetable's assignments into export rows,
// in the timetable's own deterministic List() order.
func AssignmentDataset(tt *domain.Timetable) Dataset {
	rows := make([]map[string]string, 0, len(tt.Assignments))
	for _, a := range tt.List() {
		rows = append(rows, map[string]string{
			"session_id":      string(a.SessionID),
			"term":            string(a.Term),
			"faculty":         a.Faculty,
			"cohort_id":       string(a.CohortID),
			"course_code":     string(a.CourseCode),
			"canonical_group": string(a.CanonicalGroup),
			"lecturer_id":     string(a.LecturerID),
			"room_id":         string(a.RoomID),
			"day":             string(a.Day),
			"period":          string(a.Period),
			"start":           a.Start,
			"end":             a.End,
			"ordinal":         fmt.Sprintf("%d", a.Ordinal),
			"merged_with":     joinCohortIDs(a.MergedWith),
		})
	}
	return Dataset{Headers: assignmentHeaders, Rows: rows}
}

var violationHeaders = []string{"constraint_tag", "severity", "affected_entity", "message"}

// ViolationDataset flattens a verifier report into export rows.
func ViolationDataset(records []verifier.ViolationRecord) Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"constraint_tag":  r.ConstraintTag,
			"severity":        string(r.Severity),
			"affected_entity": r.AffectedEntity,
			"message":         r.Message,
		})
	}
	return Dataset{Headers: violationHeaders, Rows: rows}
}

func joinCohortIDs(ids []domain.CohortID) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, "|")
}

// CSVExporter renders a Dataset into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

// Render produces CSV-encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, appErrors.New(appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv export requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write csv headers")
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "flush csv")
	}
	return buf.Bytes(), nil
}

// PDFExporter renders a Dataset into a basic tabular PDF grid — used for
// the human-readable per-faculty/term timetable handout.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter { return &PDFExporter{} }

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, appErrors.New(appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf export requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 9)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf")
	}
	return buf.Bytes(), nil
}
