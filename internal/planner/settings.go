package planner

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/models"
)

func (s *Service) Settings(ctx context.Context) (map[string]string, error) {
	return s.store.Settings(ctx)
}

// SaveSettings validates and stores the given known settings. Keys that are
// not sent keep their value.
func (s *Service) SaveSettings(ctx context.Context, values map[string]string) (map[string]string, error) {
	clean := make(map[string]string, len(values))
	for key, v := range values {
		v = strings.TrimSpace(v)
		if _, ok := models.SettingDefaults[key]; !ok {
			return nil, invalidf("unknown setting %q", key)
		}
		normalized, err := checkSetting(key, v)
		if err != nil {
			return nil, err
		}
		clean[key] = normalized
	}
	if start, end := clean[models.SettingWorkingHoursStart], clean[models.SettingWorkingHoursEnd]; start != "" && end != "" && start >= end {
		return nil, invalidf("working hours must end after they start")
	}

	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		for key, v := range clean {
			if err := tx.SetSetting(ctx, key, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Settings(ctx)
}

func checkSetting(key, v string) (string, error) {
	switch key {
	case models.SettingWorkingHoursStart, models.SettingWorkingHoursEnd:
		if _, err := time.Parse("15:04", v); err != nil {
			return "", invalidf("%s must be HH:MM", key)
		}
	case models.SettingWorkingDays:
		return workingDays(v)
	case models.SettingNotifyConflicts, models.SettingNotifyAssignments:
		if v != "true" && v != "false" {
			return "", invalidf("%s must be true or false", key)
		}
	case models.SettingColorScheme:
		if v == "" || len(v) > 50 {
			return "", invalidf("%s must be 1 to 50 characters", key)
		}
	}
	return v, nil
}

// workingDays normalizes a comma separated list of ISO weekdays (1 = Monday).
func workingDays(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	seen := map[string]bool{}
	var days []string
	for _, d := range strings.Split(v, ",") {
		d = strings.TrimSpace(d)
		if len(d) != 1 || d[0] < '1' || d[0] > '7' {
			return "", invalidf("working_days must list weekdays 1-7")
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Strings(days)
	return strings.Join(days, ","), nil
}
