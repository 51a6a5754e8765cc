package db

import (
	"context"
	"time"

	"github.com/in-nis/planner/internal/models"
)

// CourseFilter restricts course queries. Nil fields do not restrict.
type CourseFilter struct {
	Active       *bool
	LecturerID   *uint
	CurriculumID *string
	// From and To select courses overlapping [From, To].
	From *time.Time
	To   *time.Time
}

// ListCourses returns the matching courses ordered by start date, with their
// lecturer loaded.
func (s *Store) ListCourses(ctx context.Context, f CourseFilter) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Preload("Lecturer")
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.LecturerID != nil {
		q = q.Where("lecturer_id = ?", *f.LecturerID)
	}
	if f.CurriculumID != nil {
		q = q.Where("curriculum_id = ?", *f.CurriculumID)
	}
	if f.From != nil {
		q = q.Where("end_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_date <= ?", *f.To)
	}
	var courses []models.Course
	if err := q.Order("start_date").Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *Store) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var c models.Course
	if err := s.db.WithContext(ctx).Preload("Lecturer").First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CreateCourses inserts courses in one statement.
func (s *Store) CreateCourses(ctx context.Context, courses []models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Omit("Lecturer").Create(&courses).Error; err != nil {
		return err
	}
	for _, c := range courses {
		s.touch(c.CurriculumID)
	}
	return nil
}

// UpdateCourse writes topic, dates, lecturer and active flag of c.
func (s *Store) UpdateCourse(ctx context.Context, c *models.Course) error {
	err := s.db.WithContext(ctx).Model(&models.Course{ID: c.ID}).
		Select("topic", "start_date", "end_date", "lecturer_id", "active").
		Updates(map[string]any{
			"topic":       c.Topic,
			"start_date":  c.StartDate,
			"end_date":    c.EndDate,
			"lecturer_id": c.LecturerID,
			"active":      c.Active,
		}).Error
	if err != nil {
		return err
	}
	s.touch(c.CurriculumID)
	return nil
}

// SetCourseLecturer assigns or, with a nil lecturerID, clears the lecturer.
func (s *Store) SetCourseLecturer(ctx context.Context, c *models.Course, lecturerID *uint) error {
	if err := s.db.WithContext(ctx).Model(&models.Course{ID: c.ID}).Update("lecturer_id", lecturerID).Error; err != nil {
		return err
	}
	c.LecturerID = lecturerID
	s.touch(c.CurriculumID)
	return nil
}

func (s *Store) DeleteCourse(ctx context.Context, id uint) error {
	c, err := s.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return err
	}
	s.touch(c.CurriculumID)
	return nil
}

// SetCurriculumActive toggles timeline visibility for every course of a
// curriculum and returns the number of courses updated.
func (s *Store) SetCurriculumActive(ctx context.Context, curriculumID string, active bool) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("curriculum_id = ?", curriculumID).
		Update("active", active)
	if res.Error != nil {
		return 0, res.Error
	}
	s.touch(curriculumID)
	return res.RowsAffected, nil
}

// CoursesByLecturer returns the courses assigned to a lecturer, skipping
// excludeCourseID when it is non-zero.
func (s *Store) CoursesByLecturer(ctx context.Context, lecturerID, excludeCourseID uint) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Where("lecturer_id = ?", lecturerID)
	if excludeCourseID != 0 {
		q = q.Where("id <> ?", excludeCourseID)
	}
	var courses []models.Course
	if err := q.Order("start_date").Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// CurriculumCourses returns the active courses of a curriculum ordered by
// start date. Results are served from the curriculum cache when possible.
func (s *Store) CurriculumCourses(ctx context.Context, curriculumID string) ([]models.Course, error) {
	if courses, ok := s.cache.Get(curriculumID); ok {
		return courses, nil
	}
	active := true
	courses, err := s.ListCourses(ctx, CourseFilter{Active: &active, CurriculumID: &curriculumID})
	if err != nil {
		return nil, err
	}
	s.cache.Put(curriculumID, courses)
	return courses, nil
}

// CurriculumSummaries lists every curriculum with its date span and course
// count, ordered by start date. Names come from the curriculum_name_ settings.
func (s *Store) CurriculumSummaries(ctx context.Context, activeOnly bool) ([]models.CurriculumSummary, error) {
	f := CourseFilter{}
	if activeOnly {
		active := true
		f.Active = &active
	}
	courses, err := s.ListCourses(ctx, f)
	if err != nil {
		return nil, err
	}
	index := map[string]int{}
	var out []models.CurriculumSummary
	for _, c := range courses {
		i, ok := index[c.CurriculumID]
		if !ok {
			index[c.CurriculumID] = len(out)
			out = append(out, models.CurriculumSummary{
				CurriculumID: c.CurriculumID,
				StartDate:    c.StartDate,
				EndDate:      c.EndDate,
			})
			i = len(out) - 1
		}
		sum := &out[i]
		sum.CourseCount++
		if c.EndDate.After(sum.EndDate) {
			sum.EndDate = c.EndDate
		}
	}
	if len(out) == 0 {
		return out, nil
	}
	names, err := s.SettingsWithPrefix(ctx, "curriculum_name_")
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Name = names[models.CurriculumNameKey(out[i].CurriculumID)]
	}
	return out, nil
}

// CountCurricula returns the number of distinct curriculum ids.
func (s *Store) CountCurricula(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Course{}).Distinct("curriculum_id").Count(&n).Error
	return n, err
}
