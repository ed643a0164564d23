package models

import (
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

// OccurrenceKey identifies one logical dose occurrence: the medication plus
// the originally scheduled minute. Snoozing moves the effective time but
// never the key, so the dose log and the snooze store always agree on
// identity.
type OccurrenceKey struct {
	MedicationID int
	ScheduledAt  string // DateTimeFormat of the original scheduled time
}

// Occurrence is one concrete instance of a scheduled dose within a week. It
// is derived, never stored: re-expanding the same inputs yields the same
// occurrences.
type Occurrence struct {
	MedicationID int
	Name         string
	Dose         string
	ScheduledAt  time.Time // original, identity-bearing
	EffectiveAt  time.Time // post-snooze presentation time
	Snoozed      bool
}

// Key returns the logging identity of the occurrence.
func (o Occurrence) Key() OccurrenceKey {
	return OccurrenceKey{
		MedicationID: o.MedicationID,
		ScheduledAt:  o.ScheduledAt.Format(constants.DateTimeFormat),
	}
}
