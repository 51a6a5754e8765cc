package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/in-nis/planner/internal/batch"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/models"
	"github.com/in-nis/planner/internal/report"
)

const (
	pageWidth   = 277.0 // A4 landscape minus 10mm margins
	pdfGutter   = 70.0
	pdfRow      = 9.0
	headerColor = "#2874A6"
)

// PDFRenderer renders reports with fpdf. A disabled renderer reports
// ErrRendererUnavailable so callers can fall back to HTML.
type PDFRenderer struct {
	Enabled bool
}

func NewPDFRenderer(enabled bool) *PDFRenderer {
	return &PDFRenderer{Enabled: enabled}
}

func (r *PDFRenderer) Format() Format { return PDF }

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	if !r.Enabled {
		return nil, fmt.Errorf("%w: pdf export disabled", ErrRendererUnavailable)
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Curriculum planner | page %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	setText(pdf, headerColor)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	setText(pdf, "#777777")
	if doc.Report != nil {
		pdf.CellFormat(0, 5, "Created "+doc.Report.GeneratedAt.Format(dates.German), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	drawChart(pdf, tr, Project(doc.Timeline, pageWidth, pdfGutter, pdfRow))

	if m := doc.Report; m != nil {
		if m.Statistics != nil {
			writeStatistics(pdf, tr, m.Statistics)
		}
		pdf.AddPage()
		if m.Type == report.ByLecturer {
			writeLecturers(pdf, tr, m.Lecturers)
		} else {
			writeBatches(pdf, tr, m.Batches)
		}
		if len(m.Availabilities) > 0 {
			writeAvailabilities(pdf, tr, m.Availabilities)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return render(func(buf *bytes.Buffer) error { return pdf.Output(buf) })
}

func drawChart(pdf *fpdf.Fpdf, tr func(string) string, c Chart) {
	if len(c.Bars) == 0 {
		return
	}
	if c.Height > 170 {
		c = scaleChart(c, 170/c.Height)
	}
	x0, y0 := pdf.GetX(), pdf.GetY()
	for _, r := range c.Background {
		if r.Stroke == "" {
			fillRect(pdf, x0+r.X, y0+r.Y, r.W, r.H, r.Fill, "F")
			continue
		}
		setDraw(pdf, r.Stroke)
		fillRect(pdf, x0+r.X, y0+r.Y, r.W, r.H, r.Fill, "FD")
	}
	pdf.SetFont("Helvetica", "", 7)
	setText(pdf, "#333333")
	for _, r := range c.RowLabels {
		pdf.SetXY(x0+r.X, y0+r.Y)
		pdf.CellFormat(r.W, r.H, tr(truncate(r.Label, 48)), "", 0, "L", false, 0, "")
	}
	setDraw(pdf, "#CCCCCC")
	for _, r := range c.Bars {
		fillRect(pdf, x0+r.X, y0+r.Y, r.W, r.H, r.Fill, "FD")
	}
	setText(pdf, "#666666")
	for _, a := range c.Annotations {
		pdf.SetXY(x0+a.X-15, y0+a.Y)
		pdf.CellFormat(30, a.H, tr(a.Label), "", 0, "C", false, 0, "")
	}
	if t := c.Today; t != nil {
		setDraw(pdf, "#DC3545")
		pdf.SetLineWidth(0.5)
		pdf.Line(x0+t.X, y0+t.Y, x0+t.X, y0+t.Y+t.H)
		pdf.SetLineWidth(0.2)
	}
	pdf.SetXY(x0, y0+c.Height+4)
}

func scaleChart(c Chart, f float64) Chart {
	scale := func(rs []Rect) []Rect {
		out := make([]Rect, len(rs))
		for i, r := range rs {
			r.Y, r.H = r.Y*f, r.H*f
			out[i] = r
		}
		return out
	}
	c.Background, c.Bars, c.RowLabels, c.Annotations = scale(c.Background), scale(c.Bars), scale(c.RowLabels), scale(c.Annotations)
	if c.Today != nil {
		t := *c.Today
		t.Y, t.H = t.Y*f, t.H*f
		c.Today = &t
	}
	c.Height *= f
	return c
}

func writeStatistics(pdf *fpdf.Fpdf, tr func(string) string, s *report.Statistics) {
	heading(pdf, tr, "Statistics")
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, "#333333")
	pdf.CellFormat(0, 6, fmt.Sprintf("Courses: %d    Average duration: %.1f days    Total course days: %d", s.CourseCount, s.AvgDuration, s.TotalDays), "", 1, "L", false, 0, "")
	if len(s.TopLecturers) > 0 {
		rows := make([][]string, len(s.TopLecturers))
		for i, l := range s.TopLecturers {
			rows[i] = []string{l.Name, strconv.Itoa(l.CourseCount), strconv.Itoa(l.TotalDays)}
		}
		table(pdf, tr, []string{"Lecturer", "Courses", "Total days"}, []float64{120, 40, 40}, rows)
	}
	if len(s.TopTopics) > 0 {
		rows := make([][]string, len(s.TopTopics))
		for i, t := range s.TopTopics {
			rows[i] = []string{t.Topic, strconv.Itoa(t.Count)}
		}
		table(pdf, tr, []string{"Topic", "Count"}, []float64{160, 40}, rows)
	}
}

func writeBatches(pdf *fpdf.Fpdf, tr func(string) string, batches []batch.Batch) {
	heading(pdf, tr, "Curriculum details")
	for _, b := range batches {
		subheading(pdf, tr, b.Label)
		rows := make([][]string, len(b.Courses))
		for i, c := range b.Courses {
			rows[i] = courseRow(c, true)
		}
		table(pdf, tr, []string{"Topic", "Period", "Duration", "Lecturer"}, []float64{100, 60, 30, 70}, rows)
	}
}

func writeLecturers(pdf *fpdf.Fpdf, tr func(string) string, sections []report.LecturerSection) {
	heading(pdf, tr, "Courses by lecturer")
	for _, s := range sections {
		subheading(pdf, tr, s.Name)
		rows := make([][]string, len(s.Courses))
		for i, c := range s.Courses {
			rows[i] = courseRow(c, false)
		}
		table(pdf, tr, []string{"Topic", "Period", "Duration"}, []float64{130, 60, 30}, rows)
	}
}

func writeAvailabilities(pdf *fpdf.Fpdf, tr func(string) string, windows []models.Availability) {
	heading(pdf, tr, "Lecturer availability")
	rows := make([][]string, len(windows))
	for i, a := range windows {
		rows[i] = []string{
			a.LecturerName(),
			a.Type.Label(),
			a.StartDate.Format(dates.German) + " - " + a.EndDate.Format(dates.German),
			fmt.Sprintf("%d days", dates.InclusiveDays(a.StartDate, a.EndDate)),
			a.Note,
		}
	}
	table(pdf, tr, []string{"Lecturer", "Type", "Period", "Duration", "Note"}, []float64{60, 35, 60, 30, 90}, rows)
}

func courseRow(c models.Course, withLecturer bool) []string {
	row := []string{
		c.Topic,
		c.StartDate.Format(dates.German) + " - " + c.EndDate.Format(dates.German),
		fmt.Sprintf("%d days", dates.InclusiveDays(c.StartDate, c.EndDate)),
	}
	if withLecturer {
		row = append(row, c.LecturerName())
	}
	return row
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, s string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	setText(pdf, headerColor)
	pdf.CellFormat(0, 8, tr(s), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func subheading(pdf *fpdf.Fpdf, tr func(string) string, s string) {
	pdf.SetFont("Helvetica", "B", 10)
	setText(pdf, headerColor)
	setFill(pdf, "#F8F9FA")
	pdf.CellFormat(0, 7, tr(s), "", 1, "L", true, 0, "")
}

func table(pdf *fpdf.Fpdf, tr func(string) string, header []string, widths []float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	setText(pdf, headerColor)
	setFill(pdf, "#F8F9FA")
	setDraw(pdf, "#DDDDDD")
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	setText(pdf, "#333333")
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, tr(truncate(cell, int(widths[i]/1.8))), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func fillRect(pdf *fpdf.Fpdf, x, y, w, h float64, color, style string) {
	setFill(pdf, color)
	pdf.Rect(x, y, w, h, style)
}

func setFill(pdf *fpdf.Fpdf, color string) {
	r, g, b := rgb(color)
	pdf.SetFillColor(r, g, b)
}

func setDraw(pdf *fpdf.Fpdf, color string) {
	r, g, b := rgb(color)
	pdf.SetDrawColor(r, g, b)
}

func setText(pdf *fpdf.Fpdf, color string) {
	r, g, b := rgb(color)
	pdf.SetTextColor(r, g, b)
}

// rgb parses #RRGGBB and rgba(r,g,b,a). Alpha is blended onto white since
// core PDF fills are opaque. Anything else is the neutral grey.
func rgb(color string) (int, int, int) {
	color = strings.TrimSpace(color)
	if strings.HasPrefix(color, "#") && len(color) == 7 {
		v, err := strconv.ParseUint(color[1:], 16, 32)
		if err == nil {
			return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
		}
	}
	if strings.HasPrefix(color, "rgba(") && strings.HasSuffix(color, ")") {
		parts := strings.Split(color[5:len(color)-1], ",")
		if len(parts) == 4 {
			var c [3]float64
			alpha, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			for i := 0; i < 3 && err == nil; i++ {
				c[i], err = strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			}
			if err == nil {
				blend := func(v float64) int { return int(v*alpha + 255*(1-alpha) + 0.5) }
				return blend(c[0]), blend(c[1]), blend(c[2])
			}
		}
	}
	return rgb(models.NeutralColor)
}
