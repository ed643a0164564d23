package models

import (
	"fmt"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

// LogEntry records one user decision against a dose occurrence. Entries are
// append-only: once any entry exists for (MedicationID, ScheduledAt), that
// occurrence is handled and must never be presented again, regardless of
// which action was taken.
type LogEntry struct {
	ID           int
	MedicationID int
	ScheduledAt  time.Time // original occurrence time, minute precision
	Action       constants.Action
	ActualAt     time.Time
}

// Validate checks the entry before it is appended.
func (e *LogEntry) Validate() error {
	if e.MedicationID <= 0 {
		return fmt.Errorf("log entry medication id must be positive, got %d", e.MedicationID)
	}
	for _, a := range constants.Actions {
		if e.Action == a {
			return nil
		}
	}
	return fmt.Errorf("invalid log action: %q", e.Action)
}

// Key returns the occurrence identity this entry handles.
func (e *LogEntry) Key() OccurrenceKey {
	return OccurrenceKey{
		MedicationID: e.MedicationID,
		ScheduledAt:  e.ScheduledAt.Format(constants.DateTimeFormat),
	}
}
