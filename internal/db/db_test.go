package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/db/dbtest"
	"github.com/in-nis/planner/internal/models"
)

func ptr[T any](v T) *T { return &v }

func seedLecturer(t *testing.T, s *db.Store, name, color string) *models.Lecturer {
	t.Helper()
	l := &models.Lecturer{Name: name, Color: ptr(color)}
	require.NoError(t, s.CreateLecturer(context.Background(), l))
	return l
}

func course(topic, curriculum string, start, end time.Time, lecturerID *uint) models.Course {
	return models.Course{Topic: topic, CurriculumID: curriculum, StartDate: start, EndDate: end, LecturerID: lecturerID, Active: true}
}

func TestDeleteLecturerCascades(t *testing.T) {
	ctx := context.Background()
	s := dbtest.New(t)
	ada := seedLecturer(t, s, "Ada", "#FF0000")
	bob := seedLecturer(t, s, "Bob", "#00FF00")

	require.NoError(t, s.CreateCourses(ctx, []models.Course{
		course("Go", "c1", dates.Date(2024, 1, 1), dates.Date(2024, 1, 5), &ada.ID),
		course("SQL", "c1", dates.Date(2024, 1, 8), dates.Date(2024, 1, 12), &ada.ID),
		course("Git", "c2", dates.Date(2024, 2, 1), dates.Date(2024, 2, 2), &bob.ID),
	}))
	for _, a := range []models.Availability{
		{LecturerID: ada.ID, StartDate: dates.Date(2024, 3, 1), EndDate: dates.Date(2024, 3, 5), Type: models.Vacation},
		{LecturerID: ada.ID, StartDate: dates.Date(2024, 4, 1), EndDate: dates.Date(2024, 4, 2), Type: models.Unavailable},
		{LecturerID: bob.ID, StartDate: dates.Date(2024, 4, 1), EndDate: dates.Date(2024, 4, 2), Type: models.Unavailable},
	} {
		a := a
		require.NoError(t, s.CreateAvailability(ctx, &a))
	}

	// Warm the cache so the cascade has something to invalidate.
	cached, err := s.CurriculumCourses(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, cached, 2)

	deleted, err := s.DeleteLecturer(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", deleted.Name)

	courses, err := s.ListCourses(ctx, db.CourseFilter{CurriculumID: ptr("c1")})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	for _, c := range courses {
		assert.Nil(t, c.LecturerID)
		assert.Nil(t, c.Lecturer)
	}
	left, err := s.AvailabilitiesByLecturer(ctx, ada.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	kept, err := s.AvailabilitiesByLecturer(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	_, err = s.GetLecturer(ctx, ada.ID)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	fresh, err := s.CurriculumCourses(ctx, "c1")
	require.NoError(t, err)
	for _, c := range fresh {
		assert.Nil(t, c.LecturerID, "cache must not serve the stale assignment")
	}
}

func TestDeleteUnknownLecturer(t *testing.T) {
	s := dbtest.New(t)
	_, err := s.DeleteLecturer(context.Background(), 42)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestListCoursesFilters(t *testing.T) {
	ctx := context.Background()
	s := dbtest.New(t)
	ada := seedLecturer(t, s, "Ada", "#FF0000")
	inactive := course("Old", "c0", dates.Date(2023, 1, 1), dates.Date(2023, 1, 2), nil)
	inactive.Active = false
	require.NoError(t, s.CreateCourses(ctx, []models.Course{
		course("B", "c1", dates.Date(2024, 1, 8), dates.Date(2024, 1, 12), &ada.ID),
		course("A", "c1", dates.Date(2024, 1, 1), dates.Date(2024, 1, 5), nil),
		course("C", "c2", dates.Date(2024, 3, 1), dates.Date(2024, 3, 2), &ada.ID),
		inactive,
	}))

	all, err := s.ListCourses(ctx, db.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Old", all[0].Topic)
	assert.Equal(t, "A", all[1].Topic)

	active, err := s.ListCourses(ctx, db.CourseFilter{Active: ptr(true)})
	require.NoError(t, err)
	assert.Len(t, active, 3)

	byLecturer, err := s.ListCourses(ctx, db.CourseFilter{LecturerID: &ada.ID})
	require.NoError(t, err)
	require.Len(t, byLecturer, 2)
	require.NotNil(t, byLecturer[0].Lecturer)
	assert.Equal(t, "Ada", byLecturer[0].Lecturer.Name)

	window, err := s.ListCourses(ctx, db.CourseFilter{From: ptr(dates.Date(2024, 1, 5)), To: ptr(dates.Date(2024, 1, 8))})
	require.NoError(t, err)
	assert.Len(t, window, 2)

	others, err := s.CoursesByLecturer(ctx, ada.ID, byLecturer[0].ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "C", others[0].Topic)
}

func TestCurriculumSummariesAndToggle(t *testing.T) {
	ctx := context.Background()
	s := dbtest.New(t)
	require.NoError(t, s.CreateCourses(ctx, []models.Course{
		course("A", "c1", dates.Date(2024, 1, 1), dates.Date(2024, 1, 5), nil),
		course("B", "c1", dates.Date(2024, 1, 8), dates.Date(2024, 1, 20), nil),
		course("C", "c2", dates.Date(2023, 12, 1), dates.Date(2023, 12, 2), nil),
	}))
	require.NoError(t, s.SetSetting(ctx, models.CurriculumNameKey("c1"), "Evening class"))

	sums, err := s.CurriculumSummaries(ctx, false)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "c2", sums[0].CurriculumID)
	assert.Equal(t, "c1", sums[1].CurriculumID)
	assert.Equal(t, int64(2), sums[1].CourseCount)
	assert.True(t, dates.Date(2024, 1, 20).Equal(sums[1].EndDate))
	assert.Equal(t, "Evening class", sums[1].Name)

	n, err := s.SetCurriculumActive(ctx, "c1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	activeSums, err := s.CurriculumSummaries(ctx, true)
	require.NoError(t, err)
	require.Len(t, activeSums, 1)
	assert.Equal(t, "c2", activeSums[0].CurriculumID)

	count, err := s.CountCurricula(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCurriculumCacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	s := dbtest.New(t)
	require.NoError(t, s.CreateCourses(ctx, []models.Course{
		course("A", "c1", dates.Date(2024, 1, 1), dates.Date(2024, 1, 5), nil),
	}))
	first, err := s.CurriculumCourses(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, s.Cache().Len())

	require.NoError(t, s.CreateCourses(ctx, []models.Course{
		course("B", "c1", dates.Date(2024, 1, 8), dates.Date(2024, 1, 9), nil),
	}))
	assert.Equal(t, 0, s.Cache().Len())

	second, err := s.CurriculumCourses(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestCurriculumCacheEvictsLeastRecent(t *testing.T) {
	c, err := db.NewCurriculumCache(2)
	require.NoError(t, err)
	one := []models.Course{{Topic: "A", CurriculumID: "c1"}}
	c.Put("c1", one)
	c.Put("c2", one)
	c.Put("c3", one)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("c1")
	assert.False(t, ok)
	_, ok = c.Get("c2")
	assert.True(t, ok)
	_, ok = c.Get("c3")
	assert.True(t, ok)

	// c2 was read after c3, so c3 goes next.
	_, ok = c.Get("c2")
	require.True(t, ok)
	c.Put("c4", one)
	_, ok = c.Get("c3")
	assert.False(t, ok)
	_, ok = c.Get("c2")
	assert.True(t, ok)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := dbtest.New(t)
	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *db.Store) error {
		if err := tx.CreateCourses(ctx, []models.Course{
			course("A", "c1", dates.Date(2024, 1, 1), dates.Date(2024, 1, 5), nil),
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	all, err := s.ListCourses(ctx, db.CourseFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	s := dbtest.New(t)

	v, err := s.GetSetting(ctx, "color_scheme", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", v)

	require.NoError(t, s.SetSetting(ctx, "color_scheme", "dark"))
	require.NoError(t, s.SetSetting(ctx, "color_scheme", "light"))
	v, err = s.GetSetting(ctx, "color_scheme", "default")
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	all, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", all[models.SettingColorScheme])
	assert.Equal(t, "09:00", all[models.SettingWorkingHoursStart])

	require.NoError(t, s.SetSetting(ctx, "curriculumXname", "no match"))
	names, err := s.SettingsWithPrefix(ctx, "curriculum_name_")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestUsedColors(t *testing.T) {
	ctx := context.Background()
	s := dbtest.New(t)
	seedLecturer(t, s, "Ada", "#FF0000")
	require.NoError(t, s.CreateLecturer(ctx, &models.Lecturer{Name: "NoColor"}))
	used, err := s.UsedColors(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"#FF0000": true}, used)
}

func TestDeleteAvailability(t *testing.T) {
	ctx := context.Background()
	s := dbtest.New(t)
	ada := seedLecturer(t, s, "Ada", "#FF0000")
	a := &models.Availability{LecturerID: ada.ID, StartDate: dates.Date(2024, 3, 1), EndDate: dates.Date(2024, 3, 5), Type: models.Vacation}
	require.NoError(t, s.CreateAvailability(ctx, a))
	got, err := s.GetAvailability(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.LecturerName())
	require.NoError(t, s.DeleteAvailability(ctx, a.ID))
	assert.ErrorIs(t, s.DeleteAvailability(ctx, a.ID), db.ErrNotFound)
}
