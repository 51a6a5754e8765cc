package timeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/models"
)

// ErrInvalidFilter wraps every malformed filter value.
var ErrInvalidFilter = errors.New("invalid timeline filter")

// DateRange is a closed range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Filter restricts the courses shown on the timeline. A nil field does not
// restrict; the set fields are combined with AND.
type Filter struct {
	LecturerID   *uint      `json:"lecturer_id,omitempty"`
	CurriculumID *string    `json:"curriculum_id,omitempty"`
	DateRange    *DateRange `json:"date_range,omitempty"`
}

// ParseFilter builds a Filter from raw query values. Empty strings leave the
// dimension unrestricted.
func ParseFilter(lecturerID, curriculumID, start, end string) (Filter, error) {
	var f Filter
	if s := strings.TrimSpace(lecturerID); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return Filter{}, fmt.Errorf("%w: lecturer id %q", ErrInvalidFilter, lecturerID)
		}
		v := uint(id)
		f.LecturerID = &v
	}
	if s := strings.TrimSpace(curriculumID); s != "" {
		f.CurriculumID = &s
	}

	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
	case start == "" || end == "":
		return Filter{}, fmt.Errorf("%w: date range needs both start and end", ErrInvalidFilter)
	default:
		from, err := dates.ParseDay(start)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		to, err := dates.ParseDay(end)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		if to.Before(from) {
			return Filter{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidFilter, end, start)
		}
		f.DateRange = &DateRange{Start: from, End: to}
	}
	return f, nil
}

// Match reports whether c passes every set restriction.
func (f Filter) Match(c models.Course) bool {
	if f.LecturerID != nil && (c.LecturerID == nil || *c.LecturerID != *f.LecturerID) {
		return false
	}
	if f.CurriculumID != nil && c.CurriculumID != *f.CurriculumID {
		return false
	}
	if f.DateRange != nil && (c.EndDate.Before(f.DateRange.Start) || c.StartDate.After(f.DateRange.End)) {
		return false
	}
	return true
}

// Apply returns the courses matching f, keeping their order.
func (f Filter) Apply(courses []models.Course) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
