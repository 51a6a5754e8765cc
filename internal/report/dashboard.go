package report

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/models"
)

const (
	dashboardTopN = 10
	monthWindow   = 180 * 24 * time.Hour
)

// DurationDividers are the lower bounds of the duration histogram buckets.
var DurationDividers = []float64{1, 3, 5, 7, 14, 30, 60, 90, math.Inf(1)}

// DurationLabels names the buckets delimited by DurationDividers.
var DurationLabels = []string{"1-2", "3-4", "5-6", "7-13", "14-29", "30-59", "60-89", "90+"}

// Count is a labelled counter.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AvailabilityLeader is a lecturer ranked by number of availability entries.
type AvailabilityLeader struct {
	LecturerID uint   `json:"lecturer_id"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

// Dashboard is the statistics overview across all active courses.
type Dashboard struct {
	CourseCount         int                  `json:"course_count"`
	LecturerCount       int                  `json:"lecturer_count"`
	CurriculumCount     int64                `json:"curriculum_count"`
	AvgDuration         float64              `json:"avg_duration"`
	Workload            []LecturerStat       `json:"workload"`
	Topics              []TopicStat          `json:"topics"`
	Monthly             []Count              `json:"monthly"`
	Weekdays            []Count              `json:"weekdays"`
	Durations           []Count              `json:"durations"`
	AvailabilityLeaders []AvailabilityLeader `json:"availability_leaders"`
}

// DashboardInput is what the dashboard is computed from. Lecturers must have
// their availabilities loaded.
type DashboardInput struct {
	Courses         []models.Course
	Lecturers       []models.Lecturer
	CurriculumCount int64
}

// BuildDashboard computes the dashboard. Monthly counts cover course starts
// within 180 days of now.
func BuildDashboard(in DashboardInput, now time.Time) Dashboard {
	d := Dashboard{
		CourseCount:     len(in.Courses),
		LecturerCount:   len(in.Lecturers),
		CurriculumCount: in.CurriculumCount,
	}

	durations := make([]float64, len(in.Courses))
	for i, c := range in.Courses {
		durations[i] = float64(dates.InclusiveDays(c.StartDate, c.EndDate))
	}
	if len(durations) > 0 {
		d.AvgDuration = round1(floats.Sum(durations) / float64(len(durations)))
	}

	d.Workload = top(workload(in.Courses), func(l LecturerStat) int { return l.TotalDays }, dashboardTopN)
	d.Topics = top(topics(in.Courses), func(t TopicStat) int { return t.Count }, dashboardTopN)
	d.Monthly = monthly(in.Courses, now)
	d.Weekdays = weekdays(in.Courses)
	d.Durations = histogram(durations)
	d.AvailabilityLeaders = availabilityLeaders(in.Lecturers)
	return d
}

func monthly(courses []models.Course, now time.Time) []Count {
	lo, hi := now.Add(-monthWindow), now.Add(monthWindow)
	counts := map[time.Time]int{}
	for _, c := range courses {
		if c.StartDate.Before(lo) || c.StartDate.After(hi) {
			continue
		}
		counts[dates.MonthStart(c.StartDate)]++
	}
	keys := make([]time.Time, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	out := make([]Count, len(keys))
	for i, k := range keys {
		out[i] = Count{Label: k.Format("Jan 2006"), Count: counts[k]}
	}
	return out
}

// weekdays counts course starts per weekday, Sunday first.
func weekdays(courses []models.Course) []Count {
	out := make([]Count, 7)
	for i := range out {
		out[i].Label = time.Weekday(i).String()
	}
	for _, c := range courses {
		out[c.StartDate.Weekday()].Count++
	}
	return out
}

func histogram(durations []float64) []Count {
	out := make([]Count, len(DurationLabels))
	for i, l := range DurationLabels {
		out[i].Label = l
	}
	if len(durations) == 0 {
		return out
	}
	x := append([]float64(nil), durations...)
	sort.Float64s(x)
	counts := stat.Histogram(nil, DurationDividers, x, nil)
	for i, n := range counts {
		out[i].Count = int(n)
	}
	return out
}

func availabilityLeaders(lecturers []models.Lecturer) []AvailabilityLeader {
	var out []AvailabilityLeader
	for _, l := range lecturers {
		if n := len(l.Availabilities); n > 0 {
			out = append(out, AvailabilityLeader{LecturerID: l.ID, Name: l.Name, Count: n})
		}
	}
	return top(out, func(a AvailabilityLeader) int { return a.Count }, topN)
}
