package render

import (
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/timeline"
)

// Rect is a positioned rectangle in abstract chart units.
type Rect struct {
	X, Y, W, H float64
	Fill       string
	Stroke     string
	Label      string
	Title      string
}

// Chart is a timeline model projected onto a width × height canvas. The
// left gutter holds the row labels.
type Chart struct {
	Width, Height float64
	Gutter        float64
	RowHeight     float64
	Background    []Rect
	Bars          []Rect
	RowLabels     []Rect
	Annotations   []Rect
	Today         *Rect
}

// Project lays out m on a canvas of the given width. The height follows
// from the number of rows.
func Project(m timeline.Model, width, gutter, rowHeight float64) Chart {
	c := Chart{Width: width, Gutter: gutter, RowHeight: rowHeight}
	if m.Empty() || m.Axis == nil {
		c.Height = rowHeight
		return c
	}
	header := rowHeight / 2
	c.Height = header + float64(len(m.Rows))*rowHeight

	days := float64(dates.DaysBetween(m.Axis.Start, m.Axis.End) + 1)
	scale := (width - gutter) / days
	x := func(t timeline.Band) (float64, float64) {
		x0 := gutter + float64(dates.DaysBetween(m.Axis.Start, t.Start))*scale
		return x0, float64(dates.DaysBetween(t.Start, t.End)) * scale
	}

	for _, b := range m.Bands {
		x0, w := x(b)
		c.Background = append(c.Background, Rect{X: x0, Y: header, W: w, H: c.Height - header, Fill: b.Fill, Stroke: b.Border, Title: b.Name})
	}
	for _, a := range m.Annotations {
		ax := gutter + float64(dates.DaysBetween(m.Axis.Start, a.X))*scale
		y := 0.0
		if a.Kind == timeline.AvailabilityBand {
			y = c.Height - rowHeight/4
		}
		c.Annotations = append(c.Annotations, Rect{X: ax, Y: y, H: header, Label: a.Text})
	}
	for i, row := range m.Rows {
		y := header + float64(i)*rowHeight
		c.RowLabels = append(c.RowLabels, Rect{X: 0, Y: y, W: gutter, H: rowHeight, Label: row.Label})
		for _, bar := range row.Bars {
			x0, w := x(timeline.Band{Start: bar.Start, End: bar.End})
			c.Bars = append(c.Bars, Rect{
				X: x0, Y: y + rowHeight*0.2, W: w, H: rowHeight * 0.6,
				Fill:  bar.Color,
				Label: bar.Topic,
				Title: bar.Topic + " | " + bar.Start.Format(dates.German) + " - " + bar.End.AddDate(0, 0, -1).Format(dates.German) + " | " + bar.Duration + " | " + bar.Lecturer,
			})
		}
	}
	if m.Today != nil {
		today := dates.Truncate(m.Today.At)
		if !today.Before(m.Axis.Start) && !today.After(m.Axis.End) {
			tx := gutter + float64(dates.DaysBetween(m.Axis.Start, today))*scale
			c.Today = &Rect{X: tx, Y: header, H: c.Height - header, Stroke: m.Today.Color, Label: m.Today.Label}
		}
	}
	return c
}
