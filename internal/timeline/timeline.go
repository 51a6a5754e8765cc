// Package timeline lays out curriculum batches on a shared time axis.
//
// The Model is plain data: rows of bars plus decorative bands and
// annotations. Renderers draw it; nothing here touches the store.
package timeline

import (
	"fmt"
	"time"

	"github.com/in-nis/planner/internal/batch"
	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/models"
)

const (
	Title        = "Curriculum timeline"
	EmptyMessage = "No courses match the current filter settings"

	monthFillEven   = "rgba(240,240,250,0.5)"
	monthFillOdd    = "rgba(255,255,255,0.8)"
	weekendFill     = "rgba(255,235,235,0.5)"
	todayColor      = "rgba(220,53,69,0.8)"
	vacationFill    = "rgba(255,165,0,0.15)"
	vacationBorder  = "rgba(255,165,0,0.6)"
	unavailableFill = "rgba(255,0,0,0.15)"
	unavailableLine = "rgba(255,0,0,0.6)"
)

// BandKind tells renderers which layer a band belongs to.
type BandKind string

const (
	MonthBand        BandKind = "month"
	WeekendBand      BandKind = "weekend"
	AvailabilityBand BandKind = "availability"
)

// Axis is the visible range, Monday through Sunday. End is inclusive.
type Axis struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Bar is one course. End is exclusive.
type Bar struct {
	CourseID     uint      `json:"course_id"`
	Topic        string    `json:"topic"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationDays int       `json:"duration_days"`
	Duration     string    `json:"duration"`
	Lecturer     string    `json:"lecturer"`
	Color        string    `json:"color"`
}

// Row is one batch.
type Row struct {
	Number       int    `json:"number"`
	CurriculumID string `json:"curriculum_id"`
	Label        string `json:"label"`
	Bars         []Bar  `json:"bars"`
}

// Band is a background rectangle spanning every row. End is exclusive.
type Band struct {
	Kind   BandKind  `json:"kind"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Fill   string    `json:"fill"`
	Border string    `json:"border,omitempty"`
	Name   string    `json:"name,omitempty"`
}

// Annotation is a text label placed at X.
type Annotation struct {
	X    time.Time `json:"x"`
	Text string    `json:"text"`
	Kind BandKind  `json:"kind"`
}

// Marker is the today line.
type Marker struct {
	At    time.Time `json:"at"`
	Color string    `json:"color"`
	Label string    `json:"label"`
}

// LegendEntry maps a lecturer name to its bar colour.
type LegendEntry struct {
	Lecturer string `json:"lecturer"`
	Color    string `json:"color"`
}

// Model is everything a renderer needs to draw the timeline.
type Model struct {
	Title       string        `json:"title"`
	Message     string        `json:"message,omitempty"`
	Height      int           `json:"height"`
	Axis        *Axis         `json:"axis,omitempty"`
	Rows        []Row         `json:"rows"`
	Legend      []LegendEntry `json:"legend"`
	Bands       []Band        `json:"bands"`
	Annotations []Annotation  `json:"annotations"`
	Today       *Marker       `json:"today,omitempty"`
	// Conflicts maps a course id to the ids of overlapping courses of the
	// same lecturer, for highlighting.
	Conflicts map[uint][]uint `json:"conflicts,omitempty"`
}

// Empty reports a placeholder model.
func (m Model) Empty() bool { return len(m.Rows) == 0 }

// Engine builds timeline models.
type Engine struct {
	Clock dates.Clock
}

func NewEngine(clock dates.Clock) *Engine {
	if clock == nil {
		clock = dates.SystemClock
	}
	return &Engine{Clock: clock}
}

// Height is the chart height for n batches.
func Height(n int) int {
	if n <= 2 {
		return 400
	}
	return max(600, n*120)
}

// Build lays out the courses matching f. The axis runs from the Monday before
// the first shown course to the Sunday after the last; availability windows of
// all lecturers overlapping it are drawn clipped to it. An empty selection
// yields a placeholder.
func (e *Engine) Build(courses []models.Course, availabilities []models.Availability, f Filter) Model {
	shown := f.Apply(courses)
	if len(shown) == 0 {
		return Model{
			Title:       Title,
			Message:     EmptyMessage,
			Height:      Height(0),
			Rows:        []Row{},
			Legend:      []LegendEntry{},
			Bands:       []Band{},
			Annotations: []Annotation{},
		}
	}

	batches := batch.Group(shown, batch.Timeline)
	m := Model{
		Title:       Title,
		Height:      Height(len(batches)),
		Rows:        make([]Row, 0, len(batches)),
		Legend:      []LegendEntry{},
		Annotations: []Annotation{},
	}

	seen := map[string]bool{}
	for _, b := range batches {
		row := Row{Number: b.Number, CurriculumID: b.CurriculumID, Label: b.Label}
		for _, c := range b.Courses {
			bar := newBar(c)
			row.Bars = append(row.Bars, bar)
			if !seen[bar.Lecturer] {
				seen[bar.Lecturer] = true
				m.Legend = append(m.Legend, LegendEntry{Lecturer: bar.Lecturer, Color: bar.Color})
			}
		}
		m.Rows = append(m.Rows, row)
	}

	lo, hi := span(shown)
	axis := Axis{Start: dates.WeekStart(lo), End: dates.WeekEnd(hi)}
	m.Axis = &axis
	windows := visibleAvailabilities(availabilities, axis)

	m.Bands = append(m.Bands, monthBands(axis, &m.Annotations)...)
	m.Bands = append(m.Bands, weekendBands(axis)...)
	m.Bands = append(m.Bands, availabilityBands(axis, windows, &m.Annotations)...)

	m.Today = &Marker{At: e.Clock(), Color: todayColor, Label: "Today"}

	if cm := conflict.Map(shown); len(cm) > 0 {
		m.Conflicts = make(map[uint][]uint, len(cm))
		for id, others := range cm {
			for _, o := range others {
				m.Conflicts[id] = append(m.Conflicts[id], o.ID)
			}
		}
	}
	return m
}

func newBar(c models.Course) Bar {
	name, color := models.Unassigned, models.NeutralColor
	if c.Lecturer != nil {
		name, color = c.Lecturer.Name, c.Lecturer.DisplayColor()
	}
	days := dates.InclusiveDays(c.StartDate, c.EndDate)
	return Bar{
		CourseID:     c.ID,
		Topic:        c.Topic,
		Start:        dates.Truncate(c.StartDate),
		End:          dates.ExclusiveEnd(c.EndDate),
		DurationDays: days,
		Duration:     fmt.Sprintf("%d days", days),
		Lecturer:     name,
		Color:        color,
	}
}

func span(courses []models.Course) (lo, hi time.Time) {
	lo, hi = courses[0].StartDate, courses[0].EndDate
	for _, c := range courses[1:] {
		if c.StartDate.Before(lo) {
			lo = c.StartDate
		}
		if c.EndDate.After(hi) {
			hi = c.EndDate
		}
	}
	return lo, hi
}

// visibleAvailabilities keeps the windows of every lecturer that overlap the
// week-rounded axis.
func visibleAvailabilities(all []models.Availability, axis Axis) []models.Availability {
	var out []models.Availability
	for _, a := range all {
		if !conflict.OverlapsInclusive(a.StartDate, a.EndDate, axis.Start, axis.End) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func monthBands(axis Axis, notes *[]Annotation) []Band {
	end := axis.End.AddDate(0, 0, 1)
	var out []Band
	for i, m := 0, dates.MonthStart(axis.Start); m.Before(end); i, m = i+1, m.AddDate(0, 1, 0) {
		b := Band{Kind: MonthBand, Start: m, End: m.AddDate(0, 1, 0), Fill: monthFillEven, Name: m.Format("Jan 2006")}
		if i%2 == 1 {
			b.Fill = monthFillOdd
		}
		b = clip(b, axis.Start, end)
		out = append(out, b)
		*notes = append(*notes, Annotation{X: midpoint(b.Start, b.End), Text: b.Name, Kind: MonthBand})
	}
	return out
}

func weekendBands(axis Axis) []Band {
	var out []Band
	for d := axis.Start; !d.After(axis.End); d = d.AddDate(0, 0, 1) {
		if dates.IsWeekend(d) {
			out = append(out, Band{Kind: WeekendBand, Start: d, End: d.AddDate(0, 0, 1), Fill: weekendFill})
		}
	}
	return out
}

func availabilityBands(axis Axis, windows []models.Availability, notes *[]Annotation) []Band {
	end := axis.End.AddDate(0, 0, 1)
	var out []Band
	for _, a := range windows {
		b := Band{
			Kind:   AvailabilityBand,
			Start:  dates.Truncate(a.StartDate),
			End:    dates.ExclusiveEnd(a.EndDate),
			Fill:   unavailableFill,
			Border: unavailableLine,
			Name:   a.LecturerName() + ": " + a.Type.Label(),
		}
		if a.Type == models.Vacation {
			b.Fill, b.Border = vacationFill, vacationBorder
		}
		b = clip(b, axis.Start, end)
		if !b.Start.Before(b.End) {
			continue
		}
		out = append(out, b)
		if dates.DaysBetween(a.StartDate, a.EndDate) >= 3 {
			*notes = append(*notes, Annotation{X: midpoint(b.Start, b.End), Text: b.Name, Kind: AvailabilityBand})
		}
	}
	return out
}

func clip(b Band, lo, hi time.Time) Band {
	if b.Start.Before(lo) {
		b.Start = lo
	}
	if b.End.After(hi) {
		b.End = hi
	}
	return b
}

func midpoint(a, b time.Time) time.Time {
	return a.Add(b.Sub(a) / 2)
}
