package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/models"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const (
	chartWidth  = 1100
	chartGutter = 260
	chartRow    = 48
)

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format(dates.German) },
	"days": dates.InclusiveDays,
	"perCourse": func(days, count int) string {
		if count == 0 {
			return "0"
		}
		return fmt.Sprintf("%.1f", float64(days)/float64(count))
	},
	"lecturerColor": func(l *models.Lecturer) string { return l.DisplayColor() },
	"css":           func(s string) template.CSS { return template.CSS(s) },
	"add":           func(a, b float64) float64 { return a + b },
}

// HTMLRenderer renders the print-ready HTML report.
type HTMLRenderer struct {
	tmpl  *template.Template
	clock dates.Clock
}

func NewHTMLRenderer(clock dates.Clock) (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	if clock == nil {
		clock = dates.SystemClock
	}
	return &HTMLRenderer{tmpl: tmpl, clock: clock}, nil
}

func (r *HTMLRenderer) Format() Format { return HTML }

type htmlView struct {
	Document
	Created string
	Chart   Chart
}

func (r *HTMLRenderer) Render(doc Document) ([]byte, error) {
	view := htmlView{
		Document: doc,
		Created:  r.clock().Format(dates.German),
		Chart:    Project(doc.Timeline, chartWidth, chartGutter, chartRow),
	}
	return render(func(buf *bytes.Buffer) error {
		return r.tmpl.ExecuteTemplate(buf, "report.html.tmpl", view)
	})
}
