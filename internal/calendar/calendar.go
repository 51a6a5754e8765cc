// Package calendar turns courses and availability windows into calendar
// events, serialised as iCalendar or as a FullCalendar JSON feed.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/in-nis/planner/internal/config"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/models"
)

// Kind separates course events from availability events.
type Kind string

const (
	KindCourse       Kind = "course"
	KindAvailability Kind = "availability"
)

// ErrUnknownKind is returned for event types other than course and availability.
var ErrUnknownKind = errors.New("unknown event type")

// ParseKind accepts course and availability.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindCourse, KindAvailability:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

const (
	TransparencyOpaque      = "OPAQUE"
	TransparencyTransparent = "TRANSPARENT"

	vacationColor    = "rgba(255,165,0,0.5)"
	unavailableColor = "rgba(255,0,0,0.5)"
)

// Event is one calendar entry. End is exclusive.
type Event struct {
	UID          string
	Kind         Kind
	RecordID     uint
	Title        string
	Description  string
	Start        time.Time
	End          time.Time
	Category     string
	Transparency string
	Color        string
	LecturerID   *uint
	LecturerName string
	Note         string
	Topic        string
}

// Exporter builds events and writes iCalendar documents.
type Exporter struct {
	Domain   string
	Name     string
	Timezone string
	Clock    dates.Clock
}

func NewExporter(cfg config.CalendarConfig) *Exporter {
	return &Exporter{Domain: cfg.UIDDomain, Name: cfg.Name, Timezone: cfg.Timezone, Clock: dates.SystemClock}
}

// CourseEvent converts a course. The stored inclusive end becomes an
// exclusive end here.
func (x *Exporter) CourseEvent(c models.Course) Event {
	name := c.LecturerName()
	days := dates.InclusiveDays(c.StartDate, c.EndDate)
	var desc strings.Builder
	fmt.Fprintf(&desc, "Course: %s\n", c.Topic)
	fmt.Fprintf(&desc, "Lecturer: %s\n", name)
	fmt.Fprintf(&desc, "Period: %s to %s\n", c.StartDate.Format(dates.German), c.EndDate.Format(dates.German))
	fmt.Fprintf(&desc, "Duration: %d days\n", days)

	return Event{
		UID:          fmt.Sprintf("course-%d@%s", c.ID, x.Domain),
		Kind:         KindCourse,
		RecordID:     c.ID,
		Title:        fmt.Sprintf("%s (%s)", c.Topic, name),
		Description:  desc.String(),
		Start:        dates.Truncate(c.StartDate),
		End:          dates.ExclusiveEnd(c.EndDate),
		Category:     "Course",
		Transparency: TransparencyOpaque,
		Color:        c.Lecturer.DisplayColor(),
		LecturerID:   c.LecturerID,
		LecturerName: name,
		Topic:        c.Topic,
	}
}

// AvailabilityEvent converts an availability window. Vacation shows as free
// time, other unavailability as busy.
func (x *Exporter) AvailabilityEvent(a models.Availability) Event {
	var desc strings.Builder
	fmt.Fprintf(&desc, "Type: %s\n", a.Type.Label())
	fmt.Fprintf(&desc, "Lecturer: %s\n", a.LecturerName())
	if a.Note != "" {
		fmt.Fprintf(&desc, "Note: %s\n", a.Note)
	}
	e := Event{
		UID:          fmt.Sprintf("availability-%d@%s", a.ID, x.Domain),
		Kind:         KindAvailability,
		RecordID:     a.ID,
		Title:        a.Title(),
		Description:  desc.String(),
		Start:        dates.Truncate(a.StartDate),
		End:          dates.ExclusiveEnd(a.EndDate),
		Category:     a.Type.Label(),
		Transparency: TransparencyOpaque,
		Color:        unavailableColor,
		LecturerName: a.LecturerName(),
		Note:         a.Note,
	}
	id := a.LecturerID
	e.LecturerID = &id
	if a.Type == models.Vacation {
		e.Transparency = TransparencyTransparent
		e.Color = vacationColor
	}
	return e
}

// Events converts courses then availabilities, keeping their order.
func (x *Exporter) Events(courses []models.Course, availabilities []models.Availability) []Event {
	out := make([]Event, 0, len(courses)+len(availabilities))
	for _, c := range courses {
		out = append(out, x.CourseEvent(c))
	}
	for _, a := range availabilities {
		out = append(out, x.AvailabilityEvent(a))
	}
	return out
}

// Calendar builds the iCalendar document for events.
func (x *Exporter) Calendar(events []Event) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId("-//Curriculum Planner//EN")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	if x.Name != "" {
		cal.SetXWRCalName(x.Name)
	}
	if x.Timezone != "" {
		cal.SetXWRTimezone(x.Timezone)
	}
	stamp := x.Clock().UTC()
	for _, e := range events {
		ev := cal.AddEvent(e.UID)
		ev.SetDtStampTime(stamp)
		ev.SetSummary(e.Title)
		ev.SetDescription(e.Description)
		ev.SetAllDayStartAt(e.Start)
		ev.SetAllDayEndAt(e.End)
		ev.AddProperty(ics.ComponentPropertyCategories, e.Category)
		ev.AddProperty(ics.ComponentPropertyTransp, e.Transparency)
		if e.Kind == KindAvailability {
			continue
		}
		if strings.HasPrefix(e.Color, "#") && e.Color != models.NeutralColor {
			ev.AddProperty(ics.ComponentProperty("X-APPLE-CALENDAR-COLOR"), e.Color)
			ev.AddProperty(ics.ComponentProperty("X-MICROSOFT-CDO-BUSYSTATUS"), "BUSY")
		}
	}
	return cal
}

// Encode writes events as an iCalendar document.
func (x *Exporter) Encode(w io.Writer, events []Event) error {
	_, err := io.WriteString(w, x.Calendar(events).Serialize())
	return err
}
