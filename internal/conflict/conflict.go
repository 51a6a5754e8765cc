// Package conflict decides whether a lecturer commitment collides with
// another one.
package conflict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/logger"
	"github.com/in-nis/planner/internal/models"
)

// ErrConflict is returned when a lecturer would be booked for two overlapping
// courses.
var ErrConflict = errors.New("lecturer already has a course in this period")

// Overlaps reports a strict overlap of [s1,e1] and [s2,e2]. Intervals that
// only touch on the same day do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// OverlapsInclusive treats both intervals as closed, so a shared boundary day
// counts as an overlap.
func OverlapsInclusive(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

// Source is the part of the store the detector reads.
type Source interface {
	GetLecturer(ctx context.Context, id uint) (*models.Lecturer, error)
	CoursesByLecturer(ctx context.Context, lecturerID, excludeCourseID uint) ([]models.Course, error)
}

// Detector checks candidate windows against a lecturer's assigned courses.
type Detector struct {
	src Source
	log logger.Logger
}

func NewDetector(src Source, log logger.Logger) *Detector {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Detector{src: src, log: log}
}

// HasConflict reports whether [start,end] overlaps any course assigned to
// lecturerID other than excludeCourseID. It stops at the first hit.
func (d *Detector) HasConflict(ctx context.Context, lecturerID uint, start, end time.Time, excludeCourseID uint) (bool, error) {
	courses, err := d.assigned(ctx, lecturerID, excludeCourseID)
	if err != nil {
		return false, err
	}
	for _, c := range courses {
		if Overlaps(start, end, c.StartDate, c.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

// Conflicts lists every course of lecturerID overlapping [start,end].
func (d *Detector) Conflicts(ctx context.Context, lecturerID uint, start, end time.Time, excludeCourseID uint) ([]models.Course, error) {
	courses, err := d.assigned(ctx, lecturerID, excludeCourseID)
	if err != nil {
		return nil, err
	}
	var out []models.Course
	for _, c := range courses {
		if Overlaps(start, end, c.StartDate, c.EndDate) {
			out = append(out, c)
		}
	}
	return out, nil
}

// AvailabilityConflicts lists the assigned courses that fall into a proposed
// availability window. The result is advisory.
func (d *Detector) AvailabilityConflicts(ctx context.Context, lecturerID uint, start, end time.Time) ([]models.Course, error) {
	courses, err := d.assigned(ctx, lecturerID, 0)
	if err != nil {
		return nil, err
	}
	var out []models.Course
	for _, c := range courses {
		if OverlapsInclusive(start, end, c.StartDate, c.EndDate) {
			out = append(out, c)
		}
	}
	return out, nil
}

// assigned returns nil for an unknown lecturer so the caller sees no conflict.
func (d *Detector) assigned(ctx context.Context, lecturerID, excludeCourseID uint) ([]models.Course, error) {
	if _, err := d.src.GetLecturer(ctx, lecturerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			d.log.Warnf("conflict check for unknown lecturer %d, treating as free", lecturerID)
			return nil, nil
		}
		return nil, fmt.Errorf("load lecturer %d: %w", lecturerID, err)
	}
	courses, err := d.src.CoursesByLecturer(ctx, lecturerID, excludeCourseID)
	if err != nil {
		return nil, fmt.Errorf("load courses of lecturer %d: %w", lecturerID, err)
	}
	return courses, nil
}

// Map returns, for every assigned course, the other courses of the same
// lecturer that overlap it. Courses without conflicts are absent.
func Map(courses []models.Course) map[uint][]models.Course {
	byLecturer := map[uint][]models.Course{}
	var order []uint
	for _, c := range courses {
		if c.LecturerID == nil {
			continue
		}
		id := *c.LecturerID
		if _, ok := byLecturer[id]; !ok {
			order = append(order, id)
		}
		byLecturer[id] = append(byLecturer[id], c)
	}
	out := map[uint][]models.Course{}
	for _, id := range order {
		group := byLecturer[id]
		for i, a := range group {
			for j, b := range group {
				if i != j && Overlaps(a.StartDate, a.EndDate, b.StartDate, b.EndDate) {
					out[a.ID] = append(out[a.ID], b)
				}
			}
		}
	}
	return out
}
