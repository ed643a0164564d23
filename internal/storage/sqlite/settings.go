package sqlite

import (
	"github.com/hsnsag/pillbox/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.DefaultSettings()
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case "tick_seconds":
			settings.TickSeconds = value
		case "due_window_seconds":
			settings.DueWindowSeconds = value
		case "due_soon_minutes":
			settings.DueSoonMinutes = value
		case "default_snooze_minutes":
			settings.DefaultSnoozeMinutes = value
		case "snooze_keep_days":
			settings.SnoozeKeepDays = value
		}
	}
	return settings, rows.Err()
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	save := func(key string, value int) error {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
		return err
	}

	for key, value := range map[string]int{
		"tick_seconds":           settings.TickSeconds,
		"due_window_seconds":     settings.DueWindowSeconds,
		"due_soon_minutes":       settings.DueSoonMinutes,
		"default_snooze_minutes": settings.DefaultSnoozeMinutes,
		"snooze_keep_days":       settings.SnoozeKeepDays,
	} {
		if err := save(key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
