// Package curriculum creates and copies curricula: uploads shifted to a start
// date, duplicates, manual creation and single course additions.
package curriculum

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/logger"
	"github.com/in-nis/planner/internal/models"
	"github.com/in-nis/planner/internal/validation"
)

// ErrInvalidInput marks rejected user input. Nothing is written.
var ErrInvalidInput = errors.New("invalid curriculum input")

// MaxDuplicates bounds the copies created by one import.
const MaxDuplicates = 20

type Service struct {
	store *db.Store
	log   logger.Logger
	newID func() string
}

func NewService(store *db.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{store: store, log: log, newID: uuid.NewString}
}

// Span returns the first start and last end of the drafts.
func Span(drafts []models.CourseDraft) (first, last time.Time) {
	for i, d := range drafts {
		if i == 0 || d.StartDate.Before(first) {
			first = d.StartDate
		}
		if i == 0 || d.EndDate.After(last) {
			last = d.EndDate
		}
	}
	return first, last
}

// Place shifts the drafts so the earliest one starts on start, keeping every
// gap and duration, and stamps them with curriculumID.
func Place(drafts []models.CourseDraft, start time.Time, curriculumID string, active bool) []models.Course {
	first, _ := Span(drafts)
	offset := dates.DaysBetween(first, start)
	out := make([]models.Course, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, models.Course{
			Topic:        d.Topic,
			StartDate:    dates.Truncate(d.StartDate).AddDate(0, 0, offset),
			EndDate:      dates.Truncate(d.EndDate).AddDate(0, 0, offset),
			CurriculumID: curriculumID,
			Active:       active,
		})
	}
	return out
}

// ImportRequest describes an uploaded curriculum.
type ImportRequest struct {
	Drafts []models.CourseDraft
	Start  time.Time
	// Duplicates is the number of extra copies, each following the previous
	// one the day after it ends.
	Duplicates int
	Active     bool
	Name       string
}

type ImportResult struct {
	CurriculumIDs []string `json:"curriculum_ids"`
	Courses       int      `json:"courses"`
}

// Import stores the drafts as one curriculum starting on req.Start plus
// req.Duplicates back-to-back copies, in a single transaction.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if len(req.Drafts) == 0 {
		return nil, fmt.Errorf("%w: no courses to import", ErrInvalidInput)
	}
	if req.Start.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if req.Duplicates < 0 || req.Duplicates > MaxDuplicates {
		return nil, fmt.Errorf("%w: duplicates must be between 0 and %d", ErrInvalidInput, MaxDuplicates)
	}

	first, last := Span(req.Drafts)
	step := dates.DaysBetween(first, last) + 1
	start := dates.Truncate(req.Start)

	res := &ImportResult{}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		for i := 0; i <= req.Duplicates; i++ {
			id := s.newID()
			courses := Place(req.Drafts, start.AddDate(0, 0, step*i), id, req.Active)
			if err := tx.CreateCourses(ctx, courses); err != nil {
				return err
			}
			if name := strings.TrimSpace(req.Name); name != "" {
				if i > 0 {
					name = fmt.Sprintf("%s (%d)", name, i+1)
				}
				if err := tx.SetSetting(ctx, models.CurriculumNameKey(id), name); err != nil {
					return err
				}
			}
			res.CurriculumIDs = append(res.CurriculumIDs, id)
			res.Courses += len(courses)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("imported %d courses into %d curricula starting %s", res.Courses, len(res.CurriculumIDs), start.Format(dates.Day))
	return res, nil
}

// DuplicateResult reports a copied curriculum. Cleared lists the topics whose
// lecturer was dropped because the lecturer is busy on the new dates.
type DuplicateResult struct {
	CurriculumID string   `json:"curriculum_id"`
	Courses      int      `json:"courses"`
	Cleared      []string `json:"cleared,omitempty"`
}

// Duplicate copies every course of sourceID into a new curriculum whose
// earliest course starts on start. Lecturers and the active flag are copied
// unless the lecturer has a conflicting course on the new dates.
func (s *Service) Duplicate(ctx context.Context, sourceID string, start time.Time) (*DuplicateResult, error) {
	if start.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	res := &DuplicateResult{CurriculumID: s.newID()}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		src, err := tx.ListCourses(ctx, db.CourseFilter{CurriculumID: &sourceID})
		if err != nil {
			return err
		}
		if len(src) == 0 {
			return db.ErrNotFound
		}
		detector := conflict.NewDetector(tx, s.log)
		offset := dates.DaysBetween(src[0].StartDate, start)
		copies := make([]models.Course, 0, len(src))
		for _, c := range src {
			cp := models.Course{
				Topic:        c.Topic,
				StartDate:    c.StartDate.AddDate(0, 0, offset),
				EndDate:      c.EndDate.AddDate(0, 0, offset),
				CurriculumID: res.CurriculumID,
				Active:       c.Active,
			}
			if c.LecturerID != nil {
				busy, err := detector.HasConflict(ctx, *c.LecturerID, cp.StartDate, cp.EndDate, 0)
				if err != nil {
					return err
				}
				if busy {
					res.Cleared = append(res.Cleared, c.Topic)
				} else {
					cp.LecturerID = c.LecturerID
				}
			}
			copies = append(copies, cp)
		}
		res.Courses = len(copies)
		return tx.CreateCourses(ctx, copies)
	})
	if err != nil {
		return nil, err
	}
	if len(res.Cleared) > 0 {
		s.log.Warnf("duplicate of %s left %d courses unassigned because of conflicts", sourceID, len(res.Cleared))
	}
	s.log.Infof("duplicated curriculum %s into %s (%d courses)", sourceID, res.CurriculumID, res.Courses)
	return res, nil
}

// CourseInput is one course of a manually created curriculum.
type CourseInput struct {
	Topic     string    `json:"topic" validate:"required,max=200"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

type CreateRequest struct {
	Name    string        `json:"name" validate:"required,max=200"`
	Active  bool          `json:"active"`
	Courses []CourseInput `json:"courses" validate:"min=1,dive"`
}

// Create stores a manually assembled curriculum and its display name.
func (s *Service) Create(ctx context.Context, req CreateRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	id := s.newID()
	courses := make([]models.Course, 0, len(req.Courses))
	for _, in := range req.Courses {
		courses = append(courses, models.Course{
			Topic:        strings.TrimSpace(in.Topic),
			StartDate:    dates.Truncate(in.StartDate),
			EndDate:      dates.Truncate(in.EndDate),
			CurriculumID: id,
			Active:       req.Active,
		})
	}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if err := tx.CreateCourses(ctx, courses); err != nil {
			return err
		}
		return tx.SetSetting(ctx, models.CurriculumNameKey(id), strings.TrimSpace(req.Name))
	})
	if err != nil {
		return "", err
	}
	s.log.Infof("created curriculum %s %q with %d courses", id, req.Name, len(courses))
	return id, nil
}

// AddCourseRequest adds one course to an existing curriculum.
type AddCourseRequest struct {
	CurriculumID string    `json:"curriculum_id" validate:"required,max=36"`
	Topic        string    `json:"topic" validate:"required,max=200"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	LecturerID   *uint     `json:"lecturer_id"`
	Active       bool      `json:"active"`
}

// AddCourse appends a course to a curriculum. When a lecturer is given it
// must exist and be free for the whole course.
func (s *Service) AddCourse(ctx context.Context, req AddCourseRequest) (*models.Course, error) {
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	c := &models.Course{
		Topic:        strings.TrimSpace(req.Topic),
		StartDate:    dates.Truncate(req.StartDate),
		EndDate:      dates.Truncate(req.EndDate),
		CurriculumID: req.CurriculumID,
		Active:       req.Active,
	}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		existing, err := tx.ListCourses(ctx, db.CourseFilter{CurriculumID: &req.CurriculumID})
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return db.ErrNotFound
		}
		if req.LecturerID != nil {
			if _, err := tx.GetLecturer(ctx, *req.LecturerID); err != nil {
				if errors.Is(err, db.ErrNotFound) {
					return fmt.Errorf("%w: lecturer %d does not exist", ErrInvalidInput, *req.LecturerID)
				}
				return err
			}
			busy, err := conflict.NewDetector(tx, s.log).HasConflict(ctx, *req.LecturerID, c.StartDate, c.EndDate, 0)
			if err != nil {
				return err
			}
			if busy {
				return conflict.ErrConflict
			}
			c.LecturerID = req.LecturerID
		}
		courses := []models.Course{*c}
		if err := tx.CreateCourses(ctx, courses); err != nil {
			return err
		}
		c.ID = courses[0].ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SetActive shows or hides every course of a curriculum on the timeline.
func (s *Service) SetActive(ctx context.Context, curriculumID string, active bool) (int64, error) {
	n, err := s.store.SetCurriculumActive(ctx, curriculumID, active)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, db.ErrNotFound
	}
	return n, nil
}

// Rename stores the display name of a curriculum.
func (s *Service) Rename(ctx context.Context, curriculumID, name string) error {
	name = strings.TrimSpace(name)
	if curriculumID == "" || name == "" {
		return fmt.Errorf("%w: curriculum id and name are required", ErrInvalidInput)
	}
	if len(name) > 200 {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	return s.store.SetSetting(ctx, models.CurriculumNameKey(curriculumID), name)
}
