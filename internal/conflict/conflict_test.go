package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/logger"
	"github.com/in-nis/planner/internal/models"
)

type fakeSource struct {
	lecturers map[uint]bool
	courses   []models.Course
	err       error
}

func (f *fakeSource) GetLecturer(_ context.Context, id uint) (*models.Lecturer, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.lecturers[id] {
		return nil, db.ErrNotFound
	}
	return &models.Lecturer{ID: id}, nil
}

func (f *fakeSource) CoursesByLecturer(_ context.Context, lecturerID, exclude uint) ([]models.Course, error) {
	var out []models.Course
	for _, c := range f.courses {
		if c.LecturerID != nil && *c.LecturerID == lecturerID && c.ID != exclude {
			out = append(out, c)
		}
	}
	return out, nil
}

type recordingLogger struct {
	logger.NopLogger
	warnings int
}

func (r *recordingLogger) Warnf(string, ...any) { r.warnings++ }

func assigned(id, lecturer uint, start, end time.Time) models.Course {
	return models.Course{ID: id, LecturerID: &lecturer, StartDate: start, EndDate: end}
}

func TestOverlaps(t *testing.T) {
	jan := func(d int) time.Time { return dates.Date(2024, 1, d) }
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		strict, closed bool
	}{
		{"touching endpoints", jan(1), jan(5), jan(5), jan(10), false, true},
		{"overlap", jan(1), jan(5), jan(4), jan(10), true, true},
		{"disjoint", jan(1), jan(3), jan(5), jan(10), false, false},
		{"contained", jan(1), jan(10), jan(4), jan(5), true, true},
		{"same single day", jan(3), jan(3), jan(3), jan(3), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.strict, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			assert.Equal(t, tt.strict, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1), "symmetric")
			assert.Equal(t, tt.closed, OverlapsInclusive(tt.s1, tt.e1, tt.s2, tt.e2))
		})
	}
}

func TestHasConflict(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{
		lecturers: map[uint]bool{1: true},
		courses:   []models.Course{assigned(10, 1, dates.Date(2024, 1, 1), dates.Date(2024, 1, 5))},
	}
	d := NewDetector(src, nil)

	hit, err := d.HasConflict(ctx, 1, dates.Date(2024, 1, 5), dates.Date(2024, 1, 10), 0)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = d.HasConflict(ctx, 1, dates.Date(2024, 1, 4), dates.Date(2024, 1, 10), 0)
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = d.HasConflict(ctx, 1, dates.Date(2024, 1, 4), dates.Date(2024, 1, 10), 10)
	require.NoError(t, err)
	assert.False(t, hit, "the course being edited is excluded")
}

func TestConflictsListsAll(t *testing.T) {
	src := &fakeSource{
		lecturers: map[uint]bool{1: true},
		courses: []models.Course{
			assigned(1, 1, dates.Date(2024, 1, 1), dates.Date(2024, 1, 5)),
			assigned(2, 1, dates.Date(2024, 1, 8), dates.Date(2024, 1, 12)),
			assigned(3, 1, dates.Date(2024, 2, 1), dates.Date(2024, 2, 2)),
		},
	}
	got, err := NewDetector(src, nil).Conflicts(context.Background(), 1, dates.Date(2024, 1, 3), dates.Date(2024, 1, 9), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)
}

func TestUnknownLecturerIsFree(t *testing.T) {
	log := &recordingLogger{}
	d := NewDetector(&fakeSource{}, log)
	hit, err := d.HasConflict(context.Background(), 99, dates.Date(2024, 1, 1), dates.Date(2024, 1, 5), 0)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, log.warnings)
}

func TestStoreErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	d := NewDetector(&fakeSource{err: boom}, nil)
	_, err := d.HasConflict(context.Background(), 1, dates.Date(2024, 1, 1), dates.Date(2024, 1, 5), 0)
	assert.ErrorIs(t, err, boom)
}

func TestAvailabilityConflictsUseClosedBounds(t *testing.T) {
	src := &fakeSource{
		lecturers: map[uint]bool{1: true},
		courses:   []models.Course{assigned(7, 1, dates.Date(2024, 1, 1), dates.Date(2024, 1, 5))},
	}
	got, err := NewDetector(src, nil).AvailabilityConflicts(context.Background(), 1, dates.Date(2024, 1, 5), dates.Date(2024, 1, 6))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(7), got[0].ID)
}

func TestMap(t *testing.T) {
	courses := []models.Course{
		assigned(1, 1, dates.Date(2024, 1, 1), dates.Date(2024, 1, 5)),
		assigned(2, 1, dates.Date(2024, 1, 4), dates.Date(2024, 1, 10)),
		assigned(3, 1, dates.Date(2024, 1, 10), dates.Date(2024, 1, 12)),
		assigned(4, 2, dates.Date(2024, 1, 1), dates.Date(2024, 1, 5)),
		{ID: 5, StartDate: dates.Date(2024, 1, 1), EndDate: dates.Date(2024, 1, 5)},
	}
	m := Map(courses)
	require.Len(t, m, 2)
	assert.Equal(t, uint(2), m[1][0].ID)
	assert.Equal(t, uint(1), m[2][0].ID)
	assert.NotContains(t, m, uint(3))
	assert.NotContains(t, m, uint(4))
}
