package curriculum

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/db/dbtest"
	"github.com/in-nis/planner/internal/models"
)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (*Service, *db.Store) {
	t.Helper()
	store := dbtest.New(t)
	svc := NewService(store, nil)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("cur-%d", n)
	}
	return svc, store
}

func drafts(t *testing.T) []models.CourseDraft {
	t.Helper()
	d, err := ParseCSV(strings.NewReader(Template))
	require.NoError(t, err)
	return d
}

func TestParseCSVTemplate(t *testing.T) {
	d := drafts(t)
	require.Len(t, d, 3)
	assert.Equal(t, "Introduction to Programming", d[0].Topic)
	assert.Equal(t, dates.Date(2024, 1, 1), d[0].StartDate)
	assert.Equal(t, dates.Date(2024, 1, 19), d[2].EndDate)
	assert.Equal(t, 2, d[0].Line)
}

func TestParseCSV(t *testing.T) {
	t.Run("bom and reordered columns", func(t *testing.T) {
		d, err := ParseCSV(strings.NewReader("\ufeffEnddatum,Thema,Startdatum,Note\n05.01.2024,Go,2024-01-01,x\n,,\n"))
		require.NoError(t, err)
		require.Len(t, d, 1)
		assert.Equal(t, "Go", d[0].Topic)
		assert.Equal(t, dates.Date(2024, 1, 5), d[0].EndDate)
	})

	for name, csv := range map[string]string{
		"empty":          "",
		"missing column": "Thema,Startdatum\nGo,01.01.2024\n",
		"bad date":       "Thema,Startdatum,Enddatum\nGo,2024/13/01,05.01.2024\n",
		"reversed":       "Thema,Startdatum,Enddatum\nGo,05.01.2024,01.01.2024\n",
		"no rows":        "Thema,Startdatum,Enddatum\n",
		"empty topic":    "Thema,Startdatum,Enddatum\n,01.01.2024,05.01.2024\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(csv))
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestPlaceKeepsGaps(t *testing.T) {
	placed := Place(drafts(t), dates.Date(2024, 3, 4), "c1", true)
	require.Len(t, placed, 3)
	assert.Equal(t, dates.Date(2024, 3, 4), placed[0].StartDate)
	assert.Equal(t, dates.Date(2024, 3, 8), placed[0].EndDate)
	assert.Equal(t, dates.Date(2024, 3, 11), placed[1].StartDate)
	assert.Equal(t, dates.Date(2024, 3, 22), placed[2].EndDate)
	for _, c := range placed {
		assert.Equal(t, "c1", c.CurriculumID)
		assert.True(t, c.Active)
		assert.Nil(t, c.LecturerID)
	}
}

func TestImportWithDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	res, err := svc.Import(ctx, ImportRequest{
		Drafts:     drafts(t),
		Start:      dates.Date(2024, 3, 4),
		Duplicates: 2,
		Active:     true,
		Name:       "Evening class",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cur-1", "cur-2", "cur-3"}, res.CurriculumIDs)
	assert.Equal(t, 9, res.Courses)

	// The template spans 19 days, so each copy starts 19 days after the previous.
	for i, want := range []string{"2024-03-04", "2024-03-23", "2024-04-11"} {
		courses, err := store.ListCourses(ctx, db.CourseFilter{CurriculumID: &res.CurriculumIDs[i]})
		require.NoError(t, err)
		require.Len(t, courses, 3)
		assert.Equal(t, want, courses[0].StartDate.Format(dates.Day))
	}

	name, err := store.GetSetting(ctx, models.CurriculumNameKey("cur-2"), "")
	require.NoError(t, err)
	assert.Equal(t, "Evening class (2)", name)
}

func TestImportRejectsInput(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	for _, req := range []ImportRequest{
		{Start: dates.Date(2024, 1, 1)},
		{Drafts: drafts(t)},
		{Drafts: drafts(t), Start: dates.Date(2024, 1, 1), Duplicates: -1},
		{Drafts: drafts(t), Start: dates.Date(2024, 1, 1), Duplicates: MaxDuplicates + 1},
	} {
		_, err := svc.Import(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	n, err := store.CountCurricula(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	ada := &models.Lecturer{Name: "Ada"}
	bob := &models.Lecturer{Name: "Bob"}
	require.NoError(t, store.CreateLecturer(ctx, ada))
	require.NoError(t, store.CreateLecturer(ctx, bob))
	require.NoError(t, store.CreateCourses(ctx, []models.Course{
		{Topic: "Go", CurriculumID: "src", StartDate: dates.Date(2024, 1, 1), EndDate: dates.Date(2024, 1, 5), LecturerID: &ada.ID, Active: true},
		{Topic: "SQL", CurriculumID: "src", StartDate: dates.Date(2024, 1, 8), EndDate: dates.Date(2024, 1, 12), LecturerID: &bob.ID, Active: true},
		// Bob is already busy when the copy of SQL would run.
		{Topic: "Busy", CurriculumID: "other", StartDate: dates.Date(2024, 2, 6), EndDate: dates.Date(2024, 2, 7), LecturerID: &bob.ID},
	}))

	res, err := svc.Duplicate(ctx, "src", dates.Date(2024, 1, 29))
	require.NoError(t, err)
	assert.Equal(t, "cur-1", res.CurriculumID)
	assert.Equal(t, 2, res.Courses)
	assert.Equal(t, []string{"SQL"}, res.Cleared)

	copies, err := store.ListCourses(ctx, db.CourseFilter{CurriculumID: ptr("cur-1")})
	require.NoError(t, err)
	require.Len(t, copies, 2)
	assert.Equal(t, dates.Date(2024, 1, 29), copies[0].StartDate)
	assert.Equal(t, dates.Date(2024, 2, 2), copies[0].EndDate)
	assert.Equal(t, ada.ID, *copies[0].LecturerID)
	assert.True(t, copies[0].Active)
	assert.Nil(t, copies[1].LecturerID)

	_, err = svc.Duplicate(ctx, "missing", dates.Date(2024, 1, 1))
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	id, err := svc.Create(ctx, CreateRequest{
		Name:   " Bootcamp ",
		Active: true,
		Courses: []CourseInput{
			{Topic: "Go", StartDate: dates.Date(2024, 5, 6), EndDate: dates.Date(2024, 5, 10)},
			{Topic: "SQL", StartDate: dates.Date(2024, 5, 13), EndDate: dates.Date(2024, 5, 13)},
		},
	})
	require.NoError(t, err)

	sums, err := store.CurriculumSummaries(ctx, false)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, id, sums[0].CurriculumID)
	assert.Equal(t, "Bootcamp", sums[0].Name)
	assert.EqualValues(t, 2, sums[0].CourseCount)

	_, err = svc.Create(ctx, CreateRequest{Name: "Empty"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, CreateRequest{Name: "Reversed", Courses: []CourseInput{
		{Topic: "Go", StartDate: dates.Date(2024, 5, 10), EndDate: dates.Date(2024, 5, 6)},
	}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddCourse(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	ada := &models.Lecturer{Name: "Ada"}
	require.NoError(t, store.CreateLecturer(ctx, ada))
	require.NoError(t, store.CreateCourses(ctx, []models.Course{
		{Topic: "Go", CurriculumID: "c1", StartDate: dates.Date(2024, 1, 1), EndDate: dates.Date(2024, 1, 5), LecturerID: &ada.ID},
	}))

	c, err := svc.AddCourse(ctx, AddCourseRequest{
		CurriculumID: "c1", Topic: "SQL",
		StartDate: dates.Date(2024, 1, 5), EndDate: dates.Date(2024, 1, 9),
		LecturerID: &ada.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, ada.ID, *c.LecturerID)

	_, err = svc.AddCourse(ctx, AddCourseRequest{
		CurriculumID: "c1", Topic: "Git",
		StartDate: dates.Date(2024, 1, 3), EndDate: dates.Date(2024, 1, 4),
		LecturerID: &ada.ID,
	})
	assert.ErrorIs(t, err, conflict.ErrConflict)

	_, err = svc.AddCourse(ctx, AddCourseRequest{
		CurriculumID: "nope", Topic: "Git",
		StartDate: dates.Date(2024, 1, 3), EndDate: dates.Date(2024, 1, 4),
	})
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = svc.AddCourse(ctx, AddCourseRequest{
		CurriculumID: "c1", Topic: "Git",
		StartDate: dates.Date(2024, 1, 3), EndDate: dates.Date(2024, 1, 4),
		LecturerID: ptr(uint(99)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	courses, err := store.ListCourses(ctx, db.CourseFilter{CurriculumID: ptr("c1")})
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestSetActiveAndRename(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	require.NoError(t, store.CreateCourses(ctx, []models.Course{
		{Topic: "Go", CurriculumID: "c1", StartDate: dates.Date(2024, 1, 1), EndDate: dates.Date(2024, 1, 5)},
	}))

	n, err := svc.SetActive(ctx, "c1", true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.SetActive(ctx, "missing", true)
	assert.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, svc.Rename(ctx, "c1", "Spring"))
	name, err := store.GetSetting(ctx, models.CurriculumNameKey("c1"), "")
	require.NoError(t, err)
	assert.Equal(t, "Spring", name)
	assert.ErrorIs(t, svc.Rename(ctx, "c1", "  "), ErrInvalidInput)
}
