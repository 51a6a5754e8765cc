package planner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/metrics"
)

// Assignment sets the lecturer of a course. LecturerID 0 clears it.
type Assignment struct {
	CourseID   uint `json:"course_id"`
	LecturerID uint `json:"lecturer_id"`
}

// ParseAssignments reads "course_id:lecturer_id" pairs. Empty entries are
// skipped.
func ParseAssignments(pairs []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(pairs))
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		courseRaw, lecturerRaw, ok := strings.Cut(p, ":")
		if !ok {
			return nil, invalidf("invalid assignment %q: expected course_id:lecturer_id", p)
		}
		courseID, err := strconv.ParseUint(strings.TrimSpace(courseRaw), 10, 0)
		if err != nil || courseID == 0 {
			return nil, invalidf("invalid course id in assignment %q", p)
		}
		lecturerID, err := strconv.ParseUint(strings.TrimSpace(lecturerRaw), 10, 0)
		if err != nil {
			return nil, invalidf("invalid lecturer id in assignment %q", p)
		}
		out = append(out, Assignment{CourseID: uint(courseID), LecturerID: uint(lecturerID)})
	}
	return out, nil
}

// AssignmentItem is the outcome of one Assignment.
type AssignmentItem struct {
	Assignment
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
	// ConflictsWith holds the ids of overlapping courses of the lecturer.
	ConflictsWith []uint `json:"conflicts_with,omitempty"`
}

type AssignResult struct {
	Items    []AssignmentItem `json:"items"`
	Assigned int              `json:"assigned"`
	Cleared  int              `json:"cleared"`
	Skipped  int              `json:"skipped"`
}

// Warnings returns the messages of skipped and forced items.
func (r *AssignResult) Warnings() []string {
	var out []string
	for _, it := range r.Items {
		if it.Message != "" {
			out = append(out, it.Message)
		}
	}
	return out
}

// Assign applies the assignments in order within one transaction. With
// checkConflicts an assignment that overlaps another course of the lecturer
// is skipped; without it the assignment is made and reported as forced.
// Unknown courses or lecturers skip the item.
func (s *Service) Assign(ctx context.Context, items []Assignment, checkConflicts bool) (*AssignResult, error) {
	res := &AssignResult{}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		detector := conflict.NewDetector(tx, s.log)
		for _, a := range items {
			item, err := s.assignOne(ctx, tx, detector, a, checkConflicts)
			if err != nil {
				return err
			}
			switch item.Outcome {
			case metrics.OutcomeAssigned, metrics.OutcomeForced:
				res.Assigned++
			case metrics.OutcomeCleared:
				res.Cleared++
			case metrics.OutcomeSkipped:
				res.Skipped++
			}
			res.Items = append(res.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, it := range res.Items {
		s.rec.RecordAssignment(it.Outcome)
	}
	s.log.Infof("assignments applied: %d assigned, %d cleared, %d skipped", res.Assigned, res.Cleared, res.Skipped)
	return res, nil
}

func (s *Service) assignOne(ctx context.Context, tx *db.Store, detector *conflict.Detector, a Assignment, checkConflicts bool) (AssignmentItem, error) {
	item := AssignmentItem{Assignment: a}
	course, err := tx.GetCourse(ctx, a.CourseID)
	if errors.Is(err, db.ErrNotFound) {
		item.Outcome = metrics.OutcomeSkipped
		item.Message = fmt.Sprintf("Course %d not found", a.CourseID)
		return item, nil
	}
	if err != nil {
		return item, err
	}

	if a.LecturerID == 0 {
		if err := tx.SetCourseLecturer(ctx, course, nil); err != nil {
			return item, err
		}
		item.Outcome = metrics.OutcomeCleared
		return item, nil
	}

	if _, err := tx.GetLecturer(ctx, a.LecturerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			item.Outcome = metrics.OutcomeSkipped
			item.Message = fmt.Sprintf("Lecturer %d not found", a.LecturerID)
			return item, nil
		}
		return item, err
	}

	clashes, err := detector.Conflicts(ctx, a.LecturerID, course.StartDate, course.EndDate, course.ID)
	if err != nil {
		return item, err
	}
	for _, c := range clashes {
		item.ConflictsWith = append(item.ConflictsWith, c.ID)
	}
	if len(clashes) > 0 {
		item.Message = fmt.Sprintf("Conflict: %s overlaps with %s", course.Topic, clashes[0].Topic)
		if checkConflicts {
			item.Outcome = metrics.OutcomeSkipped
			return item, nil
		}
	}

	lecturerID := a.LecturerID
	if err := tx.SetCourseLecturer(ctx, course, &lecturerID); err != nil {
		return item, err
	}
	item.Outcome = metrics.OutcomeAssigned
	if len(clashes) > 0 {
		item.Outcome = metrics.OutcomeForced
	}
	return item, nil
}
