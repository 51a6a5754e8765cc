package calendar

import (
	"fmt"
	"strings"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/timeline"
)

// FeedItem is one event in the shape FullCalendar expects.
type FeedItem struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Start         string         `json:"start"`
	End           string         `json:"end"`
	Color         string         `json:"color"`
	TextColor     string         `json:"textColor"`
	Type          Kind           `json:"type"`
	URL           string         `json:"url,omitempty"`
	ClassNames    []string       `json:"classNames,omitempty"`
	ExtendedProps map[string]any `json:"extendedProps"`
}

// Feed converts events for FullCalendar. Ends stay exclusive.
func Feed(events []Event) []FeedItem {
	out := make([]FeedItem, 0, len(events))
	for _, e := range events {
		item := FeedItem{
			ID:    fmt.Sprintf("%s_%d", e.Kind, e.RecordID),
			Title: e.Title,
			Start: e.Start.Format(dates.Day),
			End:   e.End.Format(dates.Day),
			Color: e.Color,
			Type:  e.Kind,
		}
		if e.Kind == KindCourse {
			item.TextColor = "#fff"
			item.URL = fmt.Sprintf("/manage#course-%d", e.RecordID)
			item.ExtendedProps = map[string]any{
				"course_id":     e.RecordID,
				"lecturer_id":   e.LecturerID,
				"lecturer_name": e.LecturerName,
				"topic":         e.Topic,
			}
		} else {
			item.TextColor = "#000"
			item.ClassNames = []string{"availability-event"}
			item.ExtendedProps = map[string]any{
				"availability_id": e.RecordID,
				"lecturer_id":     e.LecturerID,
				"lecturer_name":   e.LecturerName,
				"note":            e.Note,
			}
		}
		out = append(out, item)
	}
	return out
}

// Query selects the events of an export. Kind nil means both kinds.
type Query struct {
	timeline.Filter
	Kind *Kind
}

// Includes reports whether events of kind k are exported.
func (q Query) Includes(k Kind) bool {
	return q.Kind == nil || *q.Kind == k
}

// Filename names an export after its filters, for example
// planner_calendar_lecturer_Ada_Lovelace_course.ics.
func Filename(q Query, lecturerName string) string {
	parts := []string{"planner_calendar"}
	if lecturerName != "" {
		parts = append(parts, "lecturer_"+underscore(lecturerName))
	}
	if q.Kind != nil {
		parts = append(parts, string(*q.Kind))
	}
	if q.CurriculumID != nil {
		id := *q.CurriculumID
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, "curriculum_"+id)
	}
	if r := q.DateRange; r != nil {
		parts = append(parts, r.Start.Format("20060102")+"-"+r.End.Format("20060102"))
	}
	return strings.Join(parts, "_") + ".ics"
}

// EventFilename names a single-event export.
func EventFilename(e Event) string {
	if e.Kind == KindCourse {
		return "course_" + underscore(e.Topic) + ".ics"
	}
	return fmt.Sprintf("availability_%s_%s.ics", underscore(e.LecturerName), e.Start.Format("20060102"))
}

func underscore(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}
