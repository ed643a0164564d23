package schedule

import (
	"sort"
	"time"

	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/utils"
)

// Expand materializes the concrete dose occurrences for the Monday-anchored
// week containing ref. Inactive medications and inactive weekdays contribute
// nothing, and malformed time entries are skipped without failing the rest of
// the medication.
//
// Overrides map an occurrence's original identity to its replacement
// presentation time. They are consulted only for occurrences falling on ref's
// calendar day; the overridden occurrence keeps its original key so the dose
// log still records it under the time it was scheduled for.
func Expand(meds []models.Medication, overrides map[models.OccurrenceKey]time.Time, ref time.Time) []models.Occurrence {
	monday := utils.WeekStart(ref)

	var out []models.Occurrence
	for _, med := range meds {
		if !med.Active {
			continue
		}
		for dayIdx := 0; dayIdx < 7; dayIdx++ {
			day := monday.AddDate(0, 0, dayIdx)
			if !med.Days.IsActiveOn(day) {
				continue
			}
			for _, tod := range med.ParsedTimes() {
				sched := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, day.Location())
				occ := models.Occurrence{
					MedicationID: med.ID,
					Name:         med.Name,
					Dose:         med.Dose,
					ScheduledAt:  sched,
					EffectiveAt:  sched,
				}
				if utils.SameDay(day, ref) {
					if newAt, ok := overrides[occ.Key()]; ok {
						occ.EffectiveAt = newAt
						occ.Snoozed = true
					}
				}
				out = append(out, occ)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EffectiveAt.Equal(out[j].EffectiveAt) {
			return out[i].EffectiveAt.Before(out[j].EffectiveAt)
		}
		return out[i].MedicationID < out[j].MedicationID
	})
	return out
}

// ExpandToday is Expand restricted to occurrences scheduled on ref's calendar
// day. This is the view the due detector scans.
func ExpandToday(meds []models.Medication, overrides map[models.OccurrenceKey]time.Time, ref time.Time) []models.Occurrence {
	week := Expand(meds, overrides, ref)
	out := week[:0:0]
	for _, occ := range week {
		if utils.SameDay(occ.ScheduledAt, ref) {
			out = append(out, occ)
		}
	}
	return out
}
