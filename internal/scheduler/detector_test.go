package scheduler

import (
	"testing"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/storage"
)

type fixture struct {
	detector *Detector
	store    *storage.CSVStore
	now      time.Time
}

func newFixture(t *testing.T, meds ...models.Medication) *fixture {
	t.Helper()
	store := storage.NewCSVStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	for _, med := range meds {
		if err := store.AddMedication(med); err != nil {
			t.Fatalf("failed to add medication: %v", err)
		}
	}

	f := &fixture{
		store: store,
		// Wednesday 2024-01-03 08:00:30, 30s past a scheduled dose.
		now: time.Date(2024, 1, 3, 8, 0, 30, 0, time.Local),
	}
	f.detector = New(store, models.DefaultSettings(), WithClock(func() time.Time { return f.now }))
	return f
}

func dailyMed(id int, name string, times ...string) models.Medication {
	return models.Medication{
		ID:     id,
		Name:   name,
		Dose:   "1 tab",
		Times:  times,
		Days:   models.AllDays,
		Active: true,
	}
}

func TestTickSurfacesDueOccurrence(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))

	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ == nil {
		t.Fatal("expected a due occurrence")
	}
	if occ.MedicationID != 1 || occ.Key().ScheduledAt != "2024-01-03 08:00" {
		t.Errorf("surfaced wrong occurrence: %+v", occ.Key())
	}
	if f.detector.State() != StateAwaitingDecision {
		t.Error("detector must await a decision after surfacing")
	}
}

func TestTickNothingDue(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))
	f.now = time.Date(2024, 1, 3, 9, 30, 0, 0, time.Local)

	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ != nil {
		t.Errorf("nothing should be due at 09:30, got %+v", occ.Key())
	}
	if f.detector.State() != StateIdle {
		t.Error("detector must stay idle")
	}
}

func TestTickOutsideWindow(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))
	f.now = time.Date(2024, 1, 3, 8, 1, 1, 0, time.Local) // 61s late

	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ != nil {
		t.Errorf("61s past the dose is outside the window, got %+v", occ.Key())
	}
}

func TestAtMostOnePerTick(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"), dailyMed(2, "Metformin", "08:00"))

	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ == nil {
		t.Fatal("expected a due occurrence")
	}
	if occ.MedicationID != 1 {
		t.Errorf("expected lowest med id first, got %d", occ.MedicationID)
	}

	// A second tick while awaiting a decision surfaces nothing.
	second, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("second Tick failed: %v", err)
	}
	if second != nil {
		t.Errorf("tick while awaiting decision surfaced %+v", second.Key())
	}
}

func TestResolveTakenIsIdempotent(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))

	if _, err := f.detector.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if err := f.detector.Resolve(Decision{Action: constants.ActionTaken}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if f.detector.State() != StateIdle {
		t.Error("detector must return to idle after resolve")
	}

	entries, err := f.store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("log read failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 log entry, got %d", len(entries))
	}
	if entries[0].Key().ScheduledAt != "2024-01-03 08:00" {
		t.Errorf("log keyed by %q, want original scheduled time", entries[0].Key().ScheduledAt)
	}

	// The handled occurrence never surfaces again.
	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ != nil {
		t.Errorf("handled occurrence surfaced again: %+v", occ.Key())
	}
}

func TestResolveSnoozeWritesBothRecords(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))

	if _, err := f.detector.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if err := f.detector.Resolve(Decision{Action: constants.ActionSnoozed, SnoozeMinutes: 15}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	entries, err := f.store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("log read failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != constants.ActionSnoozed {
		t.Fatalf("expected one snoozed log entry, got %+v", entries)
	}

	recs, err := f.store.GetAllSnoozes()
	if err != nil {
		t.Fatalf("snooze read failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one snooze record, got %d", len(recs))
	}
	wantNewAt := f.now.Add(15 * time.Minute).Truncate(time.Minute)
	if !recs[0].NewAt.Equal(wantNewAt) {
		t.Errorf("NewAt = %v, want %v", recs[0].NewAt, wantNewAt)
	}
	if recs[0].Key().ScheduledAt != "2024-01-03 08:00" {
		t.Errorf("snooze keyed by %q, want original scheduled time", recs[0].Key().ScheduledAt)
	}

	// The snooze moved the effective time, so nothing is due at the
	// original time anymore.
	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ != nil {
		t.Errorf("snoozed occurrence surfaced again at its original time: %+v", occ.Key())
	}
}

func TestSnoozedDoseResurfacesAtNewTime(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))

	if _, err := f.detector.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if err := f.detector.Resolve(Decision{Action: constants.ActionSnoozed, SnoozeMinutes: 10}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Well before the snoozed-to time, nothing is due.
	f.now = time.Date(2024, 1, 3, 8, 5, 0, 0, time.Local)
	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ != nil {
		t.Errorf("nothing should be due at 08:05, got %+v", occ.Key())
	}

	// At the snoozed-to time (08:00:30 + 10m, minute precision), the dose
	// comes back, still keyed by its original scheduled time.
	f.now = time.Date(2024, 1, 3, 8, 10, 10, 0, time.Local)
	occ, err = f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ == nil {
		t.Fatal("snoozed dose must surface again at its new time")
	}
	if occ.Key().ScheduledAt != "2024-01-03 08:00" {
		t.Errorf("resurfaced dose keyed by %q, want original scheduled time", occ.Key().ScheduledAt)
	}
	if !occ.Snoozed {
		t.Error("resurfaced dose must carry its override")
	}
	want := time.Date(2024, 1, 3, 8, 10, 0, 0, time.Local)
	if !occ.EffectiveAt.Equal(want) {
		t.Errorf("EffectiveAt = %v, want %v", occ.EffectiveAt, want)
	}

	// Taking the resurfaced dose ends it for good.
	if err := f.detector.Resolve(Decision{Action: constants.ActionTaken}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	entries, err := f.store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("log read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected snoozed+taken entries, got %d", len(entries))
	}

	f.now = time.Date(2024, 1, 3, 8, 10, 20, 0, time.Local)
	occ, err = f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ != nil {
		t.Errorf("taken dose surfaced again: %+v", occ.Key())
	}
}

func TestSnoozedDoseCanBeSnoozedAgain(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))

	if _, err := f.detector.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if err := f.detector.Resolve(Decision{Action: constants.ActionSnoozed, SnoozeMinutes: 10}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	f.now = time.Date(2024, 1, 3, 8, 10, 10, 0, time.Local)
	if occ, err := f.detector.Tick(); err != nil || occ == nil {
		t.Fatalf("snoozed dose did not resurface: occ=%v err=%v", occ, err)
	}
	if err := f.detector.Resolve(Decision{Action: constants.ActionSnoozed, SnoozeMinutes: 5}); err != nil {
		t.Fatalf("second snooze failed: %v", err)
	}

	// The override was superseded, so nothing is due at the first
	// snoozed-to time anymore.
	f.now = time.Date(2024, 1, 3, 8, 12, 0, 0, time.Local)
	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ != nil {
		t.Errorf("superseded snooze time still surfaces: %+v", occ.Key())
	}

	// It comes back at the second snoozed-to time (08:10:10 + 5m).
	f.now = time.Date(2024, 1, 3, 8, 15, 20, 0, time.Local)
	occ, err = f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ == nil {
		t.Fatal("re-snoozed dose must surface at its latest new time")
	}
	if occ.Key().ScheduledAt != "2024-01-03 08:00" {
		t.Errorf("re-snoozed dose keyed by %q, want original scheduled time", occ.Key().ScheduledAt)
	}
}

func TestResolveSnoozeDefaultMinutes(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))

	if _, err := f.detector.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if err := f.detector.Resolve(Decision{Action: constants.ActionSnoozed}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	recs, err := f.store.GetAllSnoozes()
	if err != nil {
		t.Fatalf("snooze read failed: %v", err)
	}
	want := f.now.Add(time.Duration(constants.DefaultSnoozeMinutes) * time.Minute).Truncate(time.Minute)
	if len(recs) != 1 || !recs[0].NewAt.Equal(want) {
		t.Errorf("expected default snooze of %d minutes, got %+v", constants.DefaultSnoozeMinutes, recs)
	}
}

func TestDismissLeavesUnhandled(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))

	if _, err := f.detector.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	f.detector.Dismiss()
	if f.detector.State() != StateIdle {
		t.Error("dismiss must return detector to idle")
	}

	entries, err := f.store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("log read failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dismiss must not log, got %d entries", len(entries))
	}

	// Still inside the window, the occurrence surfaces again.
	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ == nil {
		t.Fatal("dismissed occurrence must surface again inside the window")
	}
}

func TestResolveWithoutPending(t *testing.T) {
	f := newFixture(t, dailyMed(1, "Aspirin", "08:00"))
	if err := f.detector.Resolve(Decision{Action: constants.ActionTaken}); err == nil {
		t.Fatal("expected error resolving with nothing pending")
	}
}

func TestInactiveDayProducesNothing(t *testing.T) {
	med := dailyMed(1, "Aspirin", "08:00")
	med.Days = "1100000" // Mon, Tue only; fixture clock is Wednesday
	f := newFixture(t, med)

	occ, err := f.detector.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if occ != nil {
		t.Errorf("dose on inactive day surfaced: %+v", occ.Key())
	}
}
