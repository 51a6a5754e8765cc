package models

import "time"

// Course is one dated block of a curriculum. StartDate and EndDate are
// calendar days at midnight UTC; EndDate is inclusive.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Topic        string    `gorm:"size:200;not null" json:"topic" validate:"required,max=200"`
	StartDate    time.Time `gorm:"not null;index" json:"start_date"`
	EndDate      time.Time `gorm:"not null" json:"end_date" validate:"gtefield=StartDate"`
	LecturerID   *uint     `gorm:"index" json:"lecturer_id,omitempty"`
	Lecturer     *Lecturer `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
	CurriculumID string    `gorm:"size:36;not null;index" json:"curriculum_id" validate:"required,max=36"`
	Active       bool      `gorm:"not null;default:false" json:"active"`
}

// LecturerName returns the assigned lecturer's name or Unassigned.
func (c Course) LecturerName() string {
	if c.Lecturer == nil {
		return Unassigned
	}
	return c.Lecturer.Name
}

// Unassigned labels courses without a lecturer.
const Unassigned = "Unassigned"

// CurriculumSummary is the aggregate view of one curriculum.
type CurriculumSummary struct {
	CurriculumID string    `json:"curriculum_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	CourseCount  int64     `json:"course_count"`
	Name         string    `json:"name,omitempty"`
}

// CourseDraft is a course read from an uploaded curriculum file, before it is
// placed on the calendar. Line is the 1-based source row.
type CourseDraft struct {
	Topic     string
	StartDate time.Time
	EndDate   time.Time
	Line      int
}
