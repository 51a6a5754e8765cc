package models

import "time"

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Key       string    `gorm:"size:50;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting keys with their defaults.
const (
	SettingWorkingHoursStart = "working_hours_start"
	SettingWorkingHoursEnd   = "working_hours_end"
	SettingWorkingDays       = "working_days"
	SettingColorScheme       = "color_scheme"
	SettingNotifyConflicts   = "notify_conflicts"
	SettingNotifyAssignments = "notify_assignments"
)

// SettingDefaults lists the known settings and their fallback values.
var SettingDefaults = map[string]string{
	SettingWorkingHoursStart: "09:00",
	SettingWorkingHoursEnd:   "17:00",
	SettingWorkingDays:       "1,2,3,4,5",
	SettingColorScheme:       "default",
	SettingNotifyConflicts:   "true",
	SettingNotifyAssignments: "true",
}

// CurriculumNameKey is the settings key holding a curriculum's display name.
func CurriculumNameKey(curriculumID string) string {
	return "curriculum_name_" + curriculumID
}
