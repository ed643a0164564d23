package schedule

import (
	"testing"
	"time"

	"github.com/hsnsag/pillbox/internal/models"
)

func mondayWeek() time.Time {
	// Monday 2024-01-01
	return time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
}

func TestExpandDailyMedication(t *testing.T) {
	meds := []models.Medication{
		{ID: 1, Name: "Aspirin", Dose: "100 mg", Times: []string{"08:00"}, Days: models.AllDays, Active: true},
	}

	occs := Expand(meds, nil, mondayWeek())
	if len(occs) != 7 {
		t.Fatalf("expected 7 occurrences for a daily medication, got %d", len(occs))
	}
	for i, occ := range occs {
		want := time.Date(2024, 1, 1+i, 8, 0, 0, 0, time.Local)
		if !occ.ScheduledAt.Equal(want) {
			t.Errorf("occurrence %d scheduled at %v, want %v", i, occ.ScheduledAt, want)
		}
		if !occ.EffectiveAt.Equal(occ.ScheduledAt) {
			t.Errorf("occurrence %d effective time drifted without an override", i)
		}
	}
}

func TestExpandRespectsDaysMask(t *testing.T) {
	meds := []models.Medication{
		{ID: 1, Name: "Metformin", Dose: "500 mg", Times: []string{"08:00", "20:00"}, Days: "1010100", Active: true},
	}

	occs := Expand(meds, nil, mondayWeek())
	if len(occs) != 6 {
		t.Fatalf("expected 6 occurrences (Mon/Wed/Fri x 2 times), got %d", len(occs))
	}
	for _, occ := range occs {
		wd := occ.ScheduledAt.Weekday()
		if wd != time.Monday && wd != time.Wednesday && wd != time.Friday {
			t.Errorf("occurrence on unexpected weekday %v", wd)
		}
	}
}

func TestExpandSkipsInactiveMedications(t *testing.T) {
	meds := []models.Medication{
		{ID: 1, Name: "Old", Dose: "1 tab", Times: []string{"08:00"}, Days: models.AllDays, Active: false},
		{ID: 2, Name: "Current", Dose: "1 tab", Times: []string{"09:00"}, Days: models.AllDays, Active: true},
	}

	occs := Expand(meds, nil, mondayWeek())
	for _, occ := range occs {
		if occ.MedicationID == 1 {
			t.Fatal("inactive medication produced occurrences")
		}
	}
	if len(occs) != 7 {
		t.Errorf("expected 7 occurrences from the active medication, got %d", len(occs))
	}
}

func TestExpandSkipsMalformedTimeEntries(t *testing.T) {
	meds := []models.Medication{
		{ID: 1, Name: "Aspirin", Dose: "100 mg", Times: []string{"08:00", "25:99", "20:00"}, Days: "1000000", Active: true},
	}

	occs := Expand(meds, nil, mondayWeek())
	if len(occs) != 2 {
		t.Fatalf("expected malformed entry to be skipped, got %d occurrences", len(occs))
	}
}

func TestExpandAppliesOverrideOnlyToday(t *testing.T) {
	meds := []models.Medication{
		{ID: 1, Name: "Aspirin", Dose: "100 mg", Times: []string{"08:00"}, Days: models.AllDays, Active: true},
	}
	// Wednesday is "today"; override Wednesday's 08:00 dose to 08:10.
	ref := time.Date(2024, 1, 3, 8, 5, 0, 0, time.Local)
	overrides := map[models.OccurrenceKey]time.Time{
		{MedicationID: 1, ScheduledAt: "2024-01-03 08:00"}: time.Date(2024, 1, 3, 8, 10, 0, 0, time.Local),
	}

	occs := Expand(meds, overrides, ref)
	var snoozed, untouched int
	for _, occ := range occs {
		if occ.ScheduledAt.Day() == 3 {
			if !occ.Snoozed {
				t.Error("today's occurrence did not pick up the override")
			}
			if got := occ.EffectiveAt.Minute(); got != 10 {
				t.Errorf("effective minute = %d, want 10", got)
			}
			if occ.Key().ScheduledAt != "2024-01-03 08:00" {
				t.Errorf("override must not change the occurrence key, got %q", occ.Key().ScheduledAt)
			}
			snoozed++
		} else {
			if occ.Snoozed || !occ.EffectiveAt.Equal(occ.ScheduledAt) {
				t.Errorf("occurrence on day %d affected by today's override", occ.ScheduledAt.Day())
			}
			untouched++
		}
	}
	if snoozed != 1 || untouched != 6 {
		t.Errorf("expected 1 snoozed + 6 untouched, got %d + %d", snoozed, untouched)
	}
}

func TestExpandSortedByEffectiveTime(t *testing.T) {
	meds := []models.Medication{
		{ID: 1, Name: "Evening", Dose: "1 tab", Times: []string{"20:00"}, Days: models.AllDays, Active: true},
		{ID: 2, Name: "Morning", Dose: "1 tab", Times: []string{"08:00"}, Days: models.AllDays, Active: true},
	}

	occs := Expand(meds, nil, mondayWeek())
	for i := 1; i < len(occs); i++ {
		if occs[i].EffectiveAt.Before(occs[i-1].EffectiveAt) {
			t.Fatalf("occurrences out of order at index %d: %v after %v", i, occs[i-1].EffectiveAt, occs[i].EffectiveAt)
		}
	}
}

func TestExpandDeterministic(t *testing.T) {
	meds := []models.Medication{
		{ID: 1, Name: "A", Dose: "1", Times: []string{"08:00", "12:00"}, Days: "1111100", Active: true},
		{ID: 2, Name: "B", Dose: "2", Times: []string{"08:00"}, Days: models.AllDays, Active: true},
	}
	ref := mondayWeek()

	first := Expand(meds, nil, ref)
	second := Expand(meds, nil, ref)
	if len(first) != len(second) {
		t.Fatalf("expansion not deterministic: %d vs %d occurrences", len(first), len(second))
	}
	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Errorf("occurrence %d differs between runs: %v vs %v", i, first[i].Key(), second[i].Key())
		}
	}
}

func TestExpandTodayFiltersToRefDay(t *testing.T) {
	meds := []models.Medication{
		{ID: 1, Name: "Aspirin", Dose: "100 mg", Times: []string{"08:00"}, Days: models.AllDays, Active: true},
	}
	ref := time.Date(2024, 1, 4, 7, 0, 0, 0, time.Local) // Thursday

	occs := ExpandToday(meds, nil, ref)
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence for today, got %d", len(occs))
	}
	if occs[0].ScheduledAt.Day() != 4 {
		t.Errorf("occurrence on day %d, want 4", occs[0].ScheduledAt.Day())
	}
}
