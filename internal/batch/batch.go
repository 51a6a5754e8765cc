// Package batch partitions courses into curriculum batches and labels them.
package batch

import (
	"fmt"
	"sort"
	"time"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/models"
)

// Convention names a batch by the semester its first course starts in.
type Convention func(start time.Time) string

// Timeline is the convention of the timeline view: WS from July on, SS before.
func Timeline(start time.Time) string {
	if start.Month() > time.June {
		return "WS"
	}
	return "SS"
}

// Report is the convention of printed reports: SoSe from March to August,
// WiSe otherwise.
func Report(start time.Time) string {
	if m := start.Month(); m >= time.March && m <= time.August {
		return "SoSe"
	}
	return "WiSe"
}

// Batch is one curriculum with its courses sorted by start date.
type Batch struct {
	Number       int             `json:"number"`
	CurriculumID string          `json:"curriculum_id"`
	Label        string          `json:"label"`
	Semester     string          `json:"semester"`
	StartDate    time.Time       `json:"start_date"`
	Courses      []models.Course `json:"courses"`
}

// Label renders "Batch {n} ({semester} {year}, Start: dd.mm.yyyy)".
func Label(n int, semester string, start time.Time) string {
	return fmt.Sprintf("Batch %d (%s %d, Start: %s)", n, semester, start.Year(), start.Format(dates.German))
}

// Group partitions courses by curriculum id and orders the batches by their
// earliest start. Batches starting on the same day keep the order in which
// their curriculum first appeared in courses. The input is not modified.
func Group(courses []models.Course, semester Convention) []Batch {
	index := map[string]int{}
	var out []Batch
	for _, c := range courses {
		i, ok := index[c.CurriculumID]
		if !ok {
			i = len(out)
			index[c.CurriculumID] = i
			out = append(out, Batch{CurriculumID: c.CurriculumID, StartDate: c.StartDate})
		}
		b := &out[i]
		b.Courses = append(b.Courses, c)
		if c.StartDate.Before(b.StartDate) {
			b.StartDate = c.StartDate
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	for i := range out {
		b := &out[i]
		sort.SliceStable(b.Courses, func(x, y int) bool { return b.Courses[x].StartDate.Before(b.Courses[y].StartDate) })
		b.Number = i + 1
		b.Semester = semester(b.StartDate)
		b.Label = Label(b.Number, b.Semester, b.StartDate)
	}
	return out
}
