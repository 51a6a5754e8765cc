package excel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/logger"
	"github.com/in-nis/planner/internal/models"
)

// Column headers of a curriculum sheet.
const (
	ColumnTopic = "Thema"
	ColumnStart = "Startdatum"
	ColumnEnd   = "Enddatum"
)

// ErrMissingColumns is returned when no sheet carries the required headers.
var ErrMissingColumns = fmt.Errorf("sheet must contain the columns %s, %s, %s", ColumnStart, ColumnEnd, ColumnTopic)

// ErrNoCourses is returned when a workbook has headers but no usable rows.
var ErrNoCourses = errors.New("no courses found in workbook")

// Parser reads curriculum workbooks.
type Parser struct {
	log    logger.Logger
	client *http.Client
}

func NewParser(log logger.Logger) *Parser {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Parser{log: log, client: &http.Client{Timeout: 30 * time.Second}}
}

// -------------------- DOWNLOAD --------------------

// Fetch downloads a workbook, for example a spreadsheet export URL.
func (p *Parser) Fetch(ctx context.Context, url string) ([]byte, error) {
	p.log.Infof("downloading workbook from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return body, nil
}

// -------------------- PARSING --------------------

// Parse reads the first sheet that has the Thema, Startdatum and Enddatum
// headers. Rows without a topic or with unreadable dates are skipped and
// logged; a row whose end precedes its start is an error.
func (p *Parser) Parse(r io.Reader) ([]models.CourseDraft, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheetName := range f.GetSheetList() {
		drafts, err := p.parseSheet(f, sheetName)
		if errors.Is(err, ErrMissingColumns) {
			p.log.Debugf("sheet %s has no curriculum header, skipping", sheetName)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing sheet %s: %w", sheetName, err)
		}
		if len(drafts) == 0 {
			return nil, ErrNoCourses
		}
		p.log.Infof("parsed %d courses from sheet %s", len(drafts), sheetName)
		return drafts, nil
	}
	return nil, ErrMissingColumns
}

func (p *Parser) parseSheet(f *excelize.File, sheetName string) ([]models.CourseDraft, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrMissingColumns
	}

	cols := map[string]int{}
	for i, cell := range rows[0] {
		cols[strings.TrimSpace(cell)] = i
	}
	topicCol, okT := cols[ColumnTopic]
	startCol, okS := cols[ColumnStart]
	endCol, okE := cols[ColumnEnd]
	if !okT || !okS || !okE {
		return nil, ErrMissingColumns
	}

	merged, err := mergedValues(f, sheetName)
	if err != nil {
		return nil, err
	}

	var drafts []models.CourseDraft
	for rowIndex, row := range rows[1:] {
		line := rowIndex + 2
		topic := strings.TrimSpace(cell(row, topicCol))
		if topic == "" {
			name, _ := excelize.CoordinatesToCellName(topicCol+1, line)
			topic = merged[name]
		}
		rawStart, rawEnd := cell(row, startCol), cell(row, endCol)
		if topic == "" && strings.TrimSpace(rawStart) == "" && strings.TrimSpace(rawEnd) == "" {
			continue
		}
		if topic == "" {
			p.log.Warnf("skipped row %d in %s: no topic", line, sheetName)
			continue
		}
		start, err := cellDate(rawStart)
		if err != nil {
			p.log.Warnf("skipped row %d in %s: start %v", line, sheetName, err)
			continue
		}
		end, err := cellDate(rawEnd)
		if err != nil {
			p.log.Warnf("skipped row %d in %s: end %v", line, sheetName, err)
			continue
		}
		if end.Before(start) {
			return nil, fmt.Errorf("row %d: end date %s before start date %s", line, end.Format(dates.German), start.Format(dates.German))
		}
		drafts = append(drafts, models.CourseDraft{Topic: topic, StartDate: start, EndDate: end, Line: line})
		p.log.Debugw("parsed course", map[string]any{"sheet": sheetName, "row": line, "topic": topic})
	}
	return drafts, nil
}

// mergedValues maps every cell covered by a merged range to the range's value.
// Only the top-left cell of a merge carries a value in the sheet itself.
func mergedValues(f *excelize.File, sheetName string) (map[string]string, error) {
	mergedCells, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, mc := range mergedCells {
		val := strings.TrimSpace(mc.GetCellValue())
		if val == "" {
			continue
		}
		c1, r1, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, err
		}
		c2, r2, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		for c := c1; c <= c2; c++ {
			for r := r1; r <= r2; r++ {
				name, _ := excelize.CoordinatesToCellName(c, r)
				out[name] = val
			}
		}
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// cellDate accepts the text formats of dates.Parse and Excel date serials.
func cellDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := dates.Parse(raw); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date serial %q: %w", raw, err)
	}
	return dates.Truncate(t), nil
}
