package planner

import (
	"context"
	"strings"

	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/models"
)

type LecturerRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"required,hexcolor,len=7"`
}

// CreateLecturer adds a lecturer. The color must not be held by another
// lecturer.
func (s *Service) CreateLecturer(ctx context.Context, req LecturerRequest) (*models.Lecturer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Color = strings.ToUpper(strings.TrimSpace(req.Color))
	if err := validate(req); err != nil {
		return nil, err
	}
	l := &models.Lecturer{Name: req.Name, Color: &req.Color}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		used, err := tx.UsedColors(ctx)
		if err != nil {
			return err
		}
		for c := range used {
			if strings.EqualFold(c, req.Color) {
				return invalidf("color %s is already used by another lecturer", req.Color)
			}
		}
		return tx.CreateLecturer(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("lecturer %d %q created", l.ID, l.Name)
	return l, nil
}

// DeleteLecturer removes a lecturer, unassigns its courses and deletes its
// availabilities.
func (s *Service) DeleteLecturer(ctx context.Context, id uint) (*models.Lecturer, error) {
	l, err := s.store.DeleteLecturer(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Infof("lecturer %d %q deleted", l.ID, l.Name)
	return l, nil
}

// AvailableColors returns the palette colors no lecturer holds yet.
func (s *Service) AvailableColors(ctx context.Context) ([]models.PaletteColor, error) {
	used, err := s.store.UsedColors(ctx)
	if err != nil {
		return nil, err
	}
	upper := make(map[string]bool, len(used))
	for c := range used {
		upper[strings.ToUpper(c)] = true
	}
	return models.AvailableColors(upper), nil
}
