package db

import (
	"context"
	"time"

	"github.com/in-nis/planner/internal/models"
)

// AvailabilityFilter restricts availability queries. Nil or empty fields do
// not restrict.
type AvailabilityFilter struct {
	LecturerIDs []uint
	// From and To select windows overlapping [From, To].
	From *time.Time
	To   *time.Time
}

// ListAvailabilities returns the matching windows ordered by start date, with
// their lecturer loaded.
func (s *Store) ListAvailabilities(ctx context.Context, f AvailabilityFilter) ([]models.Availability, error) {
	q := s.db.WithContext(ctx).Preload("Lecturer")
	if len(f.LecturerIDs) > 0 {
		q = q.Where("lecturer_id IN ?", f.LecturerIDs)
	}
	if f.From != nil {
		q = q.Where("end_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_date <= ?", *f.To)
	}
	var out []models.Availability
	if err := q.Order("start_date").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AvailabilitiesByLecturer returns one lecturer's windows ordered by start.
func (s *Store) AvailabilitiesByLecturer(ctx context.Context, lecturerID uint) ([]models.Availability, error) {
	return s.ListAvailabilities(ctx, AvailabilityFilter{LecturerIDs: []uint{lecturerID}})
}

func (s *Store) GetAvailability(ctx context.Context, id uint) (*models.Availability, error) {
	var a models.Availability
	if err := s.db.WithContext(ctx).Preload("Lecturer").First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *Store) CreateAvailability(ctx context.Context, a *models.Availability) error {
	return s.db.WithContext(ctx).Omit("Lecturer").Create(a).Error
}

func (s *Store) DeleteAvailability(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Availability{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
