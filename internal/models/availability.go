package models

import "time"

// AvailabilityType distinguishes vacation from other unavailability.
type AvailabilityType string

const (
	Vacation    AvailabilityType = "vacation"
	Unavailable AvailabilityType = "unavailable"
)

// Valid reports whether t is a known availability type.
func (t AvailabilityType) Valid() bool {
	return t == Vacation || t == Unavailable
}

// Label is the human readable name of the type.
func (t AvailabilityType) Label() string {
	if t == Vacation {
		return "Vacation"
	}
	return "Unavailable"
}

// Availability is a window in which a lecturer cannot teach. Dates are
// inclusive calendar days.
type Availability struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	LecturerID uint             `gorm:"not null;index" json:"lecturer_id" validate:"required"`
	Lecturer   *Lecturer        `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
	StartDate  time.Time        `gorm:"not null" json:"start_date"`
	EndDate    time.Time        `gorm:"not null" json:"end_date" validate:"gtefield=StartDate"`
	Type       AvailabilityType `gorm:"size:20;not null" json:"type" validate:"required,oneof=vacation unavailable"`
	Note       string           `gorm:"size:200" json:"note,omitempty" validate:"max=200"`
}

// LecturerName returns the owning lecturer's name when it was loaded.
func (a Availability) LecturerName() string {
	if a.Lecturer == nil {
		return "Unknown"
	}
	return a.Lecturer.Name
}

// Title is "<lecturer>: <type>[ - <note>]".
func (a Availability) Title() string {
	t := a.LecturerName() + ": " + a.Type.Label()
	if a.Note != "" {
		t += " - " + a.Note
	}
	return t
}
