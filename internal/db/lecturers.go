package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/in-nis/planner/internal/models"
)

// ListLecturers returns all lecturers by name with their availabilities.
func (s *Store) ListLecturers(ctx context.Context) ([]models.Lecturer, error) {
	var lecturers []models.Lecturer
	err := s.db.WithContext(ctx).
		Preload("Availabilities", func(q *gorm.DB) *gorm.DB { return q.Order("start_date DESC") }).
		Order("name").Order("id").
		Find(&lecturers).Error
	if err != nil {
		return nil, err
	}
	return lecturers, nil
}

func (s *Store) GetLecturer(ctx context.Context, id uint) (*models.Lecturer, error) {
	var l models.Lecturer
	if err := s.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (s *Store) CountLecturers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Lecturer{}).Count(&n).Error
	return n, err
}

// UsedColors returns the set of colors held by existing lecturers.
func (s *Store) UsedColors(ctx context.Context) (map[string]bool, error) {
	var colors []string
	if err := s.db.WithContext(ctx).Model(&models.Lecturer{}).
		Where("color IS NOT NULL").Pluck("color", &colors).Error; err != nil {
		return nil, err
	}
	used := make(map[string]bool, len(colors))
	for _, c := range colors {
		used[c] = true
	}
	return used, nil
}

func (s *Store) CreateLecturer(ctx context.Context, l *models.Lecturer) error {
	return s.db.WithContext(ctx).Omit("Courses", "Availabilities").Create(l).Error
}

// DeleteLecturer removes a lecturer, clears the lecturer of every course it
// taught and deletes its availabilities, atomically.
func (s *Store) DeleteLecturer(ctx context.Context, id uint) (*models.Lecturer, error) {
	var deleted *models.Lecturer
	err := s.Transaction(ctx, func(tx *Store) error {
		l, err := tx.GetLecturer(ctx, id)
		if err != nil {
			return err
		}
		var curricula []string
		if err := tx.db.WithContext(ctx).Model(&models.Course{}).
			Where("lecturer_id = ?", id).Distinct().Pluck("curriculum_id", &curricula).Error; err != nil {
			return err
		}
		if err := tx.db.WithContext(ctx).Model(&models.Course{}).
			Where("lecturer_id = ?", id).Update("lecturer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.db.WithContext(ctx).Where("lecturer_id = ?", id).Delete(&models.Availability{}).Error; err != nil {
			return err
		}
		if err := tx.db.WithContext(ctx).Delete(&models.Lecturer{}, id).Error; err != nil {
			return err
		}
		tx.touch(curricula...)
		deleted = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
