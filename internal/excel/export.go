package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/report"
)

const (
	sheetCourses      = "Courses"
	sheetStatistics   = "Statistics"
	sheetAvailability = "Availability"
)

// WriteReport writes the report as a workbook with one sheet per section.
func WriteReport(w io.Writer, m *report.Model) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "2874A6"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F8F9FA"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", sheetCourses); err != nil {
		return err
	}
	rows := [][]any{{"Batch", "Topic", "Start", "End", "Days", "Lecturer"}}
	for _, b := range m.Batches {
		for _, c := range b.Courses {
			rows = append(rows, []any{
				b.Label, c.Topic,
				c.StartDate.Format(dates.German), c.EndDate.Format(dates.German),
				dates.InclusiveDays(c.StartDate, c.EndDate), c.LecturerName(),
			})
		}
	}
	if err := writeSheet(f, sheetCourses, rows, header, []float64{42, 36, 12, 12, 8, 24}); err != nil {
		return err
	}

	if s := m.Statistics; s != nil {
		rows := [][]any{
			{"Metric", "Value"},
			{"Courses", s.CourseCount},
			{"Total days", s.TotalDays},
			{"Average duration", s.AvgDuration},
			{},
			{"Lecturer", "Courses", "Total days"},
		}
		for _, l := range s.TopLecturers {
			rows = append(rows, []any{l.Name, l.CourseCount, l.TotalDays})
		}
		rows = append(rows, []any{}, []any{"Topic", "Count"})
		for _, t := range s.TopTopics {
			rows = append(rows, []any{t.Topic, t.Count})
		}
		if _, err := f.NewSheet(sheetStatistics); err != nil {
			return err
		}
		if err := writeSheet(f, sheetStatistics, rows, header, []float64{36, 12, 12}); err != nil {
			return err
		}
	}

	if len(m.Availabilities) > 0 {
		rows := [][]any{{"Lecturer", "Type", "Start", "End", "Days", "Note"}}
		for _, a := range m.Availabilities {
			rows = append(rows, []any{
				a.LecturerName(), a.Type.Label(),
				a.StartDate.Format(dates.German), a.EndDate.Format(dates.German),
				dates.InclusiveDays(a.StartDate, a.EndDate), a.Note,
			})
		}
		if _, err := f.NewSheet(sheetAvailability); err != nil {
			return err
		}
		if err := writeSheet(f, sheetAvailability, rows, header, []float64{24, 14, 12, 12, 8, 40}); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int, widths []float64) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}
