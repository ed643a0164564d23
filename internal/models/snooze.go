package models

import (
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

// SnoozeRecord maps an occurrence's original scheduled time to a replacement
// presentation time. At most one record exists per key: adding again for the
// same (MedicationID, ScheduledAt) supersedes the previous record.
//
// A record only influences expansion while NewAt falls on the current
// calendar day; a dose snoozed across midnight drops out of the override view
// on the new day.
type SnoozeRecord struct {
	MedicationID int
	ScheduledAt  time.Time // original occurrence time
	NewAt        time.Time
}

// Key returns the occurrence identity the record overrides.
func (r SnoozeRecord) Key() OccurrenceKey {
	return OccurrenceKey{
		MedicationID: r.MedicationID,
		ScheduledAt:  r.ScheduledAt.Format(constants.DateTimeFormat),
	}
}
