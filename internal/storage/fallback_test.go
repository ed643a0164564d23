package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/models"
)

// flakyStore wraps a CSVStore and rejects snooze and log writes on demand.
type flakyStore struct {
	*CSVStore
	failWrites bool
}

var errWriteRefused = errors.New("write refused")

func (f *flakyStore) AddSnooze(rec models.SnoozeRecord) error {
	if f.failWrites {
		return errWriteRefused
	}
	return f.CSVStore.AddSnooze(rec)
}

func (f *flakyStore) AppendLogEntry(e models.LogEntry) error {
	if f.failWrites {
		return errWriteRefused
	}
	return f.CSVStore.AppendLogEntry(e)
}

func newFallbackFixture(t *testing.T) (*FallbackStore, *flakyStore) {
	t.Helper()
	primary := &flakyStore{CSVStore: NewCSVStore(t.TempDir())}
	fb := NewFallbackStore(primary, t.TempDir())
	if err := fb.Init(); err != nil {
		t.Fatalf("failed to init fallback store: %v", err)
	}
	return fb, primary
}

func TestFallbackPassesThroughWhenPrimaryHealthy(t *testing.T) {
	fb, primary := newFallbackFixture(t)
	sched := time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local)

	entry := models.LogEntry{
		MedicationID: 1,
		ScheduledAt:  sched,
		Action:       constants.ActionTaken,
		ActualAt:     sched,
	}
	if err := fb.AppendLogEntry(entry); err != nil {
		t.Fatalf("AppendLogEntry failed: %v", err)
	}

	entries, err := primary.GetAllLogEntries()
	if err != nil {
		t.Fatalf("primary read failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected entry in primary, got %d", len(entries))
	}

	backupEntries, err := fb.Backup().GetAllLogEntries()
	if err != nil {
		t.Fatalf("backup read failed: %v", err)
	}
	if len(backupEntries) != 0 {
		t.Errorf("healthy primary must not spill to baseline, got %d entries", len(backupEntries))
	}
}

func TestFallbackCatchesRejectedLogWrite(t *testing.T) {
	fb, primary := newFallbackFixture(t)
	primary.failWrites = true
	sched := time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local)

	entry := models.LogEntry{
		MedicationID: 1,
		ScheduledAt:  sched,
		Action:       constants.ActionSkipped,
		ActualAt:     sched,
	}
	if err := fb.AppendLogEntry(entry); err != nil {
		t.Fatalf("fallback must absorb the rejected write, got %v", err)
	}

	backupEntries, err := fb.Backup().GetAllLogEntries()
	if err != nil {
		t.Fatalf("backup read failed: %v", err)
	}
	if len(backupEntries) != 1 {
		t.Fatalf("expected entry in baseline, got %d", len(backupEntries))
	}

	// The occurrence counts as handled even though the primary never saw it.
	handled, err := fb.IsHandled(entry.Key())
	if err != nil {
		t.Fatalf("IsHandled failed: %v", err)
	}
	if !handled {
		t.Error("fallback-logged occurrence must be handled")
	}
}

func TestFallbackCatchesRejectedSnooze(t *testing.T) {
	fb, primary := newFallbackFixture(t)
	primary.failWrites = true
	sched := time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local)

	rec := models.SnoozeRecord{MedicationID: 1, ScheduledAt: sched, NewAt: sched.Add(10 * time.Minute)}
	if err := fb.AddSnooze(rec); err != nil {
		t.Fatalf("fallback must absorb the rejected snooze, got %v", err)
	}

	recs, err := fb.Backup().GetAllSnoozes()
	if err != nil {
		t.Fatalf("backup read failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected snooze in baseline, got %d", len(recs))
	}
}
