// Package report aggregates filtered courses into printable reports and the
// statistics dashboard.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/in-nis/planner/internal/batch"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/models"
)

// ErrNothingToReport is returned when the filter leaves no course.
var ErrNothingToReport = errors.New("no courses match the report filter")

// ErrUnknownType is returned for report types other than the known three.
var ErrUnknownType = errors.New("unknown report type")

const topN = 5

// Type selects the report layout.
type Type string

const (
	Standard     Type = "standard"
	ByLecturer   Type = "lecturer"
	ByCurriculum Type = "curriculum"
)

// ParseType maps an empty value to Standard.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case "":
		return Standard, nil
	case Standard, ByLecturer, ByCurriculum:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Options toggles the optional report sections.
type Options struct {
	Type                  Type
	IncludeStatistics     bool
	IncludeAvailabilities bool
}

// AvailabilitySource loads availability windows.
type AvailabilitySource interface {
	ListAvailabilities(ctx context.Context, f db.AvailabilityFilter) ([]models.Availability, error)
}

// LecturerStat is a lecturer's share of the reported courses.
type LecturerStat struct {
	LecturerID  uint   `json:"lecturer_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	CourseCount int    `json:"course_count"`
	TotalDays   int    `json:"total_days"`
}

// TopicStat counts courses with an identical topic.
type TopicStat struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Statistics summarises the reported courses.
type Statistics struct {
	CourseCount  int            `json:"course_count"`
	TotalDays    int            `json:"total_days"`
	AvgDuration  float64        `json:"avg_duration"`
	TopLecturers []LecturerStat `json:"top_lecturers"`
	TopTopics    []TopicStat    `json:"top_topics"`
}

// LecturerSection lists one lecturer's courses in a lecturer report.
type LecturerSection struct {
	Name    string          `json:"name"`
	Color   string          `json:"color"`
	Courses []models.Course `json:"courses"`
}

// Model is the input of every report renderer.
type Model struct {
	Type           Type                  `json:"type"`
	GeneratedAt    time.Time             `json:"generated_at"`
	Batches        []batch.Batch         `json:"batches"`
	Lecturers      []LecturerSection     `json:"lecturers,omitempty"`
	Statistics     *Statistics           `json:"statistics,omitempty"`
	Availabilities []models.Availability `json:"availabilities,omitempty"`
}

// Aggregate builds the report model for courses, which are expected to be
// filtered already. src is only read when availabilities are requested.
func Aggregate(ctx context.Context, courses []models.Course, opts Options, src AvailabilitySource, now time.Time) (*Model, error) {
	if len(courses) == 0 {
		return nil, ErrNothingToReport
	}
	if opts.Type == "" {
		opts.Type = Standard
	}
	m := &Model{
		Type:        opts.Type,
		GeneratedAt: now,
		Batches:     batch.Group(courses, batch.Report),
	}
	if opts.Type == ByLecturer {
		m.Lecturers = lecturerSections(courses)
	}
	if opts.IncludeStatistics {
		m.Statistics = Summarize(courses)
	}
	if opts.IncludeAvailabilities {
		windows, err := availabilities(ctx, courses, src)
		if err != nil {
			return nil, err
		}
		m.Availabilities = windows
	}
	return m, nil
}

// Summarize computes the report statistics. Rankings are stable: equal
// values keep the order in which they were first seen.
func Summarize(courses []models.Course) *Statistics {
	s := &Statistics{CourseCount: len(courses), TopLecturers: []LecturerStat{}, TopTopics: []TopicStat{}}
	if len(courses) == 0 {
		return s
	}
	durations := make([]float64, len(courses))
	for i, c := range courses {
		d := dates.InclusiveDays(c.StartDate, c.EndDate)
		durations[i] = float64(d)
		s.TotalDays += d
	}
	s.AvgDuration = round1(stat.Mean(durations, nil))
	s.TopLecturers = top(workload(courses), func(l LecturerStat) int { return l.TotalDays }, topN)
	s.TopTopics = top(topics(courses), func(t TopicStat) int { return t.Count }, topN)
	return s
}

func workload(courses []models.Course) []LecturerStat {
	index := map[uint]int{}
	var out []LecturerStat
	for _, c := range courses {
		if c.Lecturer == nil {
			continue
		}
		i, ok := index[c.Lecturer.ID]
		if !ok {
			i = len(out)
			index[c.Lecturer.ID] = i
			out = append(out, LecturerStat{LecturerID: c.Lecturer.ID, Name: c.Lecturer.Name, Color: c.Lecturer.DisplayColor()})
		}
		out[i].CourseCount++
		out[i].TotalDays += dates.InclusiveDays(c.StartDate, c.EndDate)
	}
	return out
}

func topics(courses []models.Course) []TopicStat {
	index := map[string]int{}
	var out []TopicStat
	for _, c := range courses {
		i, ok := index[c.Topic]
		if !ok {
			i = len(out)
			index[c.Topic] = i
			out = append(out, TopicStat{Topic: c.Topic})
		}
		out[i].Count++
	}
	return out
}

func lecturerSections(courses []models.Course) []LecturerSection {
	index := map[string]int{}
	var out []LecturerSection
	for _, c := range courses {
		name := c.LecturerName()
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, LecturerSection{Name: name, Color: c.Lecturer.DisplayColor()})
		}
		out[i].Courses = append(out[i].Courses, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	for i := range out {
		cs := out[i].Courses
		sort.SliceStable(cs, func(x, y int) bool { return cs[x].StartDate.Before(cs[y].StartDate) })
	}
	return out
}

func availabilities(ctx context.Context, courses []models.Course, src AvailabilitySource) ([]models.Availability, error) {
	seen := map[uint]bool{}
	var ids []uint
	lo, hi := courses[0].StartDate, courses[0].EndDate
	for _, c := range courses {
		if c.StartDate.Before(lo) {
			lo = c.StartDate
		}
		if c.EndDate.After(hi) {
			hi = c.EndDate
		}
		if c.LecturerID != nil && !seen[*c.LecturerID] {
			seen[*c.LecturerID] = true
			ids = append(ids, *c.LecturerID)
		}
	}
	if len(ids) == 0 {
		return []models.Availability{}, nil
	}
	windows, err := src.ListAvailabilities(ctx, db.AvailabilityFilter{LecturerIDs: ids, From: &lo, To: &hi})
	if err != nil {
		return nil, fmt.Errorf("load availabilities: %w", err)
	}
	return windows, nil
}

// top sorts items by key descending, keeping the input order for ties, and
// returns at most n of them.
func top[T any](items []T, key func(T) int, n int) []T {
	sort.SliceStable(items, func(i, j int) bool { return key(items[i]) > key(items[j]) })
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []T{}
	}
	return items
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
