package schedule

import (
	"testing"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/models"
)

func TestSummarizeCountsWindowOnly(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	entries := []models.LogEntry{
		{ID: 1, MedicationID: 1, Action: constants.ActionTaken, ActualAt: now.AddDate(0, 0, -1)},
		{ID: 2, MedicationID: 1, Action: constants.ActionTaken, ActualAt: now.AddDate(0, 0, -6)},
		{ID: 3, MedicationID: 2, Action: constants.ActionSkipped, ActualAt: now.AddDate(0, 0, -3)},
		{ID: 4, MedicationID: 2, Action: constants.ActionSnoozed, ActualAt: now.Add(-time.Hour)},
		// Outside the 7-day window.
		{ID: 5, MedicationID: 1, Action: constants.ActionTaken, ActualAt: now.AddDate(0, 0, -8)},
	}

	s := Summarize(entries, now, 7)
	if s.Taken != 2 {
		t.Errorf("Taken = %d, want 2", s.Taken)
	}
	if s.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", s.Skipped)
	}
	if s.Snoozed != 1 {
		t.Errorf("Snoozed = %d, want 1", s.Snoozed)
	}
	if s.Total() != 4 {
		t.Errorf("Total = %d, want 4", s.Total())
	}
}

func TestAdherencePercent(t *testing.T) {
	tests := []struct {
		name string
		s    Summary
		want float64
	}{
		{"no outcomes", Summary{Snoozed: 3}, 0},
		{"all taken", Summary{Taken: 4}, 100},
		{"half taken", Summary{Taken: 2, Skipped: 2, Snoozed: 5}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.AdherencePercent(); got != tt.want {
				t.Errorf("AdherencePercent = %v, want %v", got, tt.want)
			}
		})
	}
}
