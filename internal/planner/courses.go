package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/models"
)

type CourseUpdate struct {
	Topic     string    `json:"topic" validate:"required,max=200"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// UpdateCourse changes topic and dates of a course. If the course has a
// lecturer, the new dates must not overlap another course of that lecturer.
func (s *Service) UpdateCourse(ctx context.Context, id uint, upd CourseUpdate) (*models.Course, error) {
	upd.Topic = strings.TrimSpace(upd.Topic)
	if err := validate(upd); err != nil {
		return nil, err
	}
	start, end := dates.Truncate(upd.StartDate), dates.Truncate(upd.EndDate)
	if start.After(end) {
		return nil, invalidf("end date must not be before the start date")
	}

	var out *models.Course
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		c, err := tx.GetCourse(ctx, id)
		if err != nil {
			return err
		}
		if c.LecturerID != nil {
			clashes, err := conflict.NewDetector(tx, s.log).Conflicts(ctx, *c.LecturerID, start, end, c.ID)
			if err != nil {
				return err
			}
			if len(clashes) > 0 {
				return fmt.Errorf("%w: %s overlaps with %s", conflict.ErrConflict, upd.Topic, clashes[0].Topic)
			}
		}
		c.Topic, c.StartDate, c.EndDate = upd.Topic, start, end
		if err := tx.UpdateCourse(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) DeleteCourse(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *db.Store) error {
		return tx.DeleteCourse(ctx, id)
	})
}
