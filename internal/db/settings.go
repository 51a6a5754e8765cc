package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/in-nis/planner/internal/models"
)

// GetSetting returns the stored value for key, or fallback when unset.
func (s *Store) GetSetting(ctx context.Context, key, fallback string) (string, error) {
	var st models.Setting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return st.Value, nil
}

// SetSetting creates or overwrites the value stored under key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	st := models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&st).Error
}

// SettingsWithPrefix returns every setting whose key starts with prefix.
func (s *Store) SettingsWithPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	var rows []models.Setting
	pattern := strings.NewReplacer("%", `\%`, "_", `\_`).Replace(prefix) + "%"
	if err := s.db.WithContext(ctx).Where(`key LIKE ? ESCAPE '\'`, pattern).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// Settings returns the known settings, filling in defaults for missing keys.
func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(models.SettingDefaults))
	for key, def := range models.SettingDefaults {
		v, err := s.GetSetting(ctx, key, def)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}
