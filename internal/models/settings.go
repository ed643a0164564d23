package models

import (
	"fmt"

	"github.com/hsnsag/pillbox/internal/constants"
)

// Settings holds the tunable scheduler knobs persisted alongside the data.
type Settings struct {
	TickSeconds          int `json:"tick_seconds"`
	DueWindowSeconds     int `json:"due_window_seconds"`
	DueSoonMinutes       int `json:"due_soon_minutes"`
	DefaultSnoozeMinutes int `json:"default_snooze_minutes"`
	SnoozeKeepDays       int `json:"snooze_keep_days"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		TickSeconds:          constants.DefaultTickSeconds,
		DueWindowSeconds:     constants.DefaultDueWindowSeconds,
		DueSoonMinutes:       constants.DefaultDueSoonMinutes,
		DefaultSnoozeMinutes: constants.DefaultSnoozeMinutes,
		SnoozeKeepDays:       constants.DefaultSnoozeKeepDays,
	}
}

// Validate rejects non-positive knob values.
func (s *Settings) Validate() error {
	if s.TickSeconds < 1 {
		return fmt.Errorf("tick_seconds must be at least 1, got %d", s.TickSeconds)
	}
	if s.DueWindowSeconds < 1 {
		return fmt.Errorf("due_window_seconds must be at least 1, got %d", s.DueWindowSeconds)
	}
	if s.DueSoonMinutes < 1 {
		return fmt.Errorf("due_soon_minutes must be at least 1, got %d", s.DueSoonMinutes)
	}
	if s.DefaultSnoozeMinutes < 1 {
		return fmt.Errorf("default_snooze_minutes must be at least 1, got %d", s.DefaultSnoozeMinutes)
	}
	if s.SnoozeKeepDays < 1 {
		return fmt.Errorf("snooze_keep_days must be at least 1, got %d", s.SnoozeKeepDays)
	}
	return nil
}
