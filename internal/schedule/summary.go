package schedule

import (
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/models"
)

// Summary tallies the actions recorded over a trailing window.
type Summary struct {
	Taken   int
	Skipped int
	Snoozed int
}

// Total returns the number of entries counted.
func (s Summary) Total() int {
	return s.Taken + s.Skipped + s.Snoozed
}

// AdherencePercent returns taken doses as a percentage of taken plus skipped.
// Snoozes are deferrals, not outcomes, so they are excluded from the base.
func (s Summary) AdherencePercent() float64 {
	base := s.Taken + s.Skipped
	if base == 0 {
		return 0
	}
	return float64(s.Taken) / float64(base) * 100
}

// Summarize counts log entries whose action timestamp falls within the last
// windowDays days before now.
func Summarize(entries []models.LogEntry, now time.Time, windowDays int) Summary {
	cutoff := now.AddDate(0, 0, -windowDays)
	var s Summary
	for _, e := range entries {
		if e.ActualAt.Before(cutoff) {
			continue
		}
		switch e.Action {
		case constants.ActionTaken:
			s.Taken++
		case constants.ActionSkipped:
			s.Skipped++
		case constants.ActionSnoozed:
			s.Snoozed++
		}
	}
	return s
}
