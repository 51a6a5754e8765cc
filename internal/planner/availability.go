package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/models"
)

type AvailabilityRequest struct {
	LecturerID     uint                    `json:"lecturer_id" validate:"required"`
	Type           models.AvailabilityType `json:"type" validate:"required,oneof=vacation unavailable"`
	StartDate      time.Time               `json:"start_date" validate:"required"`
	EndDate        time.Time               `json:"end_date" validate:"required"`
	Note           string                  `json:"note" validate:"max=200"`
	CheckConflicts bool                    `json:"check_conflicts"`
}

// AvailabilityResult carries the stored window and, when conflicts were
// checked, the assigned courses it collides with.
type AvailabilityResult struct {
	Availability *models.Availability `json:"availability"`
	Conflicts    []models.Course      `json:"conflicts,omitempty"`
	Warning      string               `json:"warning,omitempty"`
}

// AddAvailability stores an availability window. Collisions with assigned
// courses never block the write; they are returned as a warning.
func (s *Service) AddAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	start, end := dates.Truncate(req.StartDate), dates.Truncate(req.EndDate)
	if start.After(end) {
		return nil, invalidf("end date must not be before the start date")
	}

	res := &AvailabilityResult{}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		l, err := tx.GetLecturer(ctx, req.LecturerID)
		if errors.Is(err, db.ErrNotFound) {
			return invalidf("lecturer %d does not exist", req.LecturerID)
		}
		if err != nil {
			return err
		}
		if req.CheckConflicts {
			res.Conflicts, err = conflict.NewDetector(tx, s.log).AvailabilityConflicts(ctx, l.ID, start, end)
			if err != nil {
				return err
			}
			res.Warning = ConflictWarning(res.Conflicts)
		}
		a := &models.Availability{
			LecturerID: l.ID,
			StartDate:  start,
			EndDate:    end,
			Type:       req.Type,
			Note:       strings.TrimSpace(req.Note),
		}
		if err := tx.CreateAvailability(ctx, a); err != nil {
			return err
		}
		a.Lecturer = l
		res.Availability = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Warning != "" {
		s.log.Warnf("availability %d for lecturer %d: %s", res.Availability.ID, req.LecturerID, res.Warning)
	}
	return res, nil
}

// ConflictWarning lists up to three courses as "topic" (dd.mm.yyyy) and
// counts the rest. It returns "" for no courses.
func ConflictWarning(courses []models.Course) string {
	if len(courses) == 0 {
		return ""
	}
	parts := make([]string, 0, 3)
	for i, c := range courses {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%q (%s)", c.Topic, c.StartDate.Format(dates.German)))
	}
	msg := "Conflicts with assigned courses: " + strings.Join(parts, ", ")
	if n := len(courses) - 3; n > 0 {
		msg += fmt.Sprintf(" and %d more", n)
	}
	return msg
}

func (s *Service) DeleteAvailability(ctx context.Context, id uint) error {
	return s.store.DeleteAvailability(ctx, id)
}
