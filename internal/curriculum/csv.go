package curriculum

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/excel"
	"github.com/in-nis/planner/internal/models"
)

// Template is the downloadable CSV skeleton for a curriculum upload.
const Template = excel.ColumnTopic + "," + excel.ColumnStart + "," + excel.ColumnEnd + "\n" +
	"Introduction to Programming,01.01.2024,05.01.2024\n" +
	"Data Structures,08.01.2024,12.01.2024\n" +
	"Algorithms,15.01.2024,19.01.2024\n"

// TemplateFilename is the download name of Template.
const TemplateFilename = "curriculum_template.csv"

const bom = "\ufeff"

// ParseCSV reads a curriculum CSV with the columns Thema, Startdatum and
// Enddatum. Column order is free; extra columns are ignored.
func ParseCSV(r io.Reader) ([]models.CourseDraft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	iTopic, okTopic := col[excel.ColumnTopic]
	iStart, okStart := col[excel.ColumnStart]
	iEnd, okEnd := col[excel.ColumnEnd]
	if !okTopic || !okStart || !okEnd {
		return nil, fmt.Errorf("%w: CSV must contain the columns %s, %s, %s",
			ErrInvalidInput, excel.ColumnTopic, excel.ColumnStart, excel.ColumnEnd)
	}

	var drafts []models.CourseDraft
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, line, err)
		}
		topic := field(rec, iTopic)
		startRaw, endRaw := field(rec, iStart), field(rec, iEnd)
		if topic == "" && startRaw == "" && endRaw == "" {
			continue
		}
		if topic == "" {
			return nil, fmt.Errorf("%w: line %d: empty topic", ErrInvalidInput, line)
		}
		start, err := dates.Parse(startRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, line, err)
		}
		end, err := dates.Parse(endRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, line, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: line %d: end date before start date", ErrInvalidInput, line)
		}
		drafts = append(drafts, models.CourseDraft{Topic: topic, StartDate: start, EndDate: end, Line: line})
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no courses found", ErrInvalidInput)
	}
	return drafts, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
