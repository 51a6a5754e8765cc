package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/models"
)

func TestBuildDashboard(t *testing.T) {
	ada, bob := lecturer(1, "Ada"), lecturer(2, "Bob")
	courses := []models.Course{
		course(1, "Go", "a", dates.Date(2024, 5, 6), 1, ada),   // Monday
		course(2, "Go", "a", dates.Date(2024, 5, 13), 4, bob),  // Monday
		course(3, "SQL", "b", dates.Date(2024, 6, 2), 14, ada), // Sunday
		course(4, "Ops", "b", dates.Date(2023, 1, 3), 100, nil),
	}
	in := DashboardInput{
		Courses: courses,
		Lecturers: []models.Lecturer{
			{ID: 1, Name: "Ada", Availabilities: []models.Availability{{ID: 1}}},
			{ID: 2, Name: "Bob", Availabilities: []models.Availability{{ID: 2}, {ID: 3}}},
			{ID: 3, Name: "Cy"},
		},
		CurriculumCount: 2,
	}
	d := BuildDashboard(in, now)

	assert.Equal(t, 4, d.CourseCount)
	assert.Equal(t, 3, d.LecturerCount)
	assert.Equal(t, int64(2), d.CurriculumCount)
	assert.Equal(t, 29.8, d.AvgDuration)

	require.Len(t, d.Workload, 2)
	assert.Equal(t, "Ada", d.Workload[0].Name)
	assert.Equal(t, 15, d.Workload[0].TotalDays)

	assert.Equal(t, []TopicStat{{"Go", 2}, {"SQL", 1}, {"Ops", 1}}, d.Topics)

	assert.Equal(t, []Count{{"May 2024", 2}, {"Jun 2024", 1}}, d.Monthly)

	require.Len(t, d.Weekdays, 7)
	assert.Equal(t, Count{"Sunday", 1}, d.Weekdays[0])
	assert.Equal(t, Count{"Monday", 2}, d.Weekdays[1])
	assert.Equal(t, Count{"Tuesday", 1}, d.Weekdays[2])

	want := []int{1, 1, 0, 0, 1, 0, 0, 1}
	require.Len(t, d.Durations, len(want))
	for i, n := range want {
		assert.Equal(t, DurationLabels[i], d.Durations[i].Label)
		assert.Equal(t, n, d.Durations[i].Count, d.Durations[i].Label)
	}

	assert.Equal(t, []AvailabilityLeader{{2, "Bob", 2}, {1, "Ada", 1}}, d.AvailabilityLeaders)
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(DashboardInput{}, time.Now())
	assert.Zero(t, d.AvgDuration)
	assert.Empty(t, d.Workload)
	assert.Empty(t, d.Monthly)
	assert.Len(t, d.Weekdays, 7)
	assert.Len(t, d.Durations, len(DurationLabels))
	assert.Empty(t, d.AvailabilityLeaders)
}
