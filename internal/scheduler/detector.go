package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/logger"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/schedule"
	"github.com/hsnsag/pillbox/internal/storage"
)

// State is the detector's presentation state.
type State int

const (
	// StateIdle means no occurrence is awaiting a decision.
	StateIdle State = iota
	// StateAwaitingDecision means a due occurrence has been surfaced and the
	// detector will not surface another until it is resolved or dismissed.
	StateAwaitingDecision
)

// Decision is the user's answer to a surfaced occurrence.
type Decision struct {
	Action        constants.Action
	SnoozeMinutes int
	// Dismissed means the prompt was closed without choosing. The
	// occurrence stays unhandled and may be surfaced again while it is
	// still inside the due window.
	Dismissed bool
}

// Presenter surfaces a due occurrence to the user and blocks until they
// answer or dismiss.
type Presenter interface {
	Present(models.Occurrence) (Decision, error)
}

// Detector drives the due-dose loop: every tick it expands today's
// occurrences and surfaces the earliest one that is inside the due window
// and not yet handled. At most one occurrence is surfaced per tick, and none
// while a previous one awaits a decision.
type Detector struct {
	store    storage.Provider
	settings models.Settings
	now      func() time.Time

	state   State
	pending *models.Occurrence
}

// Option configures a Detector.
type Option func(*Detector)

// WithClock replaces the detector's time source. The grid's simulated-clock
// mode and tests use this.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

func New(store storage.Provider, settings models.Settings, opts ...Option) *Detector {
	d := &Detector{
		store:    store,
		settings: settings,
		now:      time.Now,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current presentation state.
func (d *Detector) State() State {
	return d.state
}

// Pending returns the occurrence awaiting a decision, or nil.
func (d *Detector) Pending() *models.Occurrence {
	return d.pending
}

// Tick runs one detection pass. It returns the occurrence to surface, or nil
// when nothing is due or a decision is already pending.
func (d *Detector) Tick() (*models.Occurrence, error) {
	if d.state == StateAwaitingDecision {
		return nil, nil
	}

	now := d.now()

	meds, err := d.store.GetAllMedications()
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}
	overrides, err := d.store.TodaySnoozes(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load snooze overrides: %w", err)
	}

	window := time.Duration(d.settings.DueWindowSeconds) * time.Second
	for _, occ := range schedule.ExpandToday(meds, overrides, now) {
		if !schedule.DueWithinWindow(now, occ.EffectiveAt, window) {
			continue
		}
		handled, err := d.isHandled(occ)
		if err != nil {
			return nil, fmt.Errorf("failed to check dose log: %w", err)
		}
		if handled {
			continue
		}

		pending := occ
		d.pending = &pending
		d.state = StateAwaitingDecision
		return d.pending, nil
	}

	return nil, nil
}

// isHandled decides whether an occurrence still needs a decision. A plain
// occurrence is handled once any log entry exists for its key. An occurrence
// carrying a live snooze override is the dose the user asked to be re-asked
// about, so the trailing "snoozed" entry does not end it: it stays open until
// a later entry records a real outcome. Once the override drops out of the
// today view (snoozed across midnight, or purged), the snoozed entry is
// terminal again.
func (d *Detector) isHandled(occ models.Occurrence) (bool, error) {
	if !occ.Snoozed {
		return d.store.IsHandled(occ.Key())
	}

	entries, err := d.store.GetAllLogEntries()
	if err != nil {
		return false, err
	}
	key := occ.Key()
	var last *models.LogEntry
	for i := range entries {
		if entries[i].Key() != key {
			continue
		}
		if last == nil || entries[i].ID > last.ID {
			last = &entries[i]
		}
	}
	if last == nil {
		return false, nil
	}
	return last.Action != constants.ActionSnoozed, nil
}

// Resolve records the decision for the pending occurrence. Exactly one log
// entry is appended, keyed by the occurrence's original scheduled time. A
// snooze additionally upserts the override record at now+minutes.
func (d *Detector) Resolve(decision Decision) error {
	if d.state != StateAwaitingDecision || d.pending == nil {
		return fmt.Errorf("no occurrence awaiting a decision")
	}
	if decision.Dismissed {
		d.Dismiss()
		return nil
	}

	occ := *d.pending
	now := d.now()

	if decision.Action == constants.ActionSnoozed {
		minutes := decision.SnoozeMinutes
		if minutes <= 0 {
			minutes = d.settings.DefaultSnoozeMinutes
		}
		rec := models.SnoozeRecord{
			MedicationID: occ.MedicationID,
			ScheduledAt:  occ.ScheduledAt,
			NewAt:        now.Add(time.Duration(minutes) * time.Minute),
		}
		if err := d.store.AddSnooze(rec); err != nil {
			return fmt.Errorf("failed to record snooze: %w", err)
		}
	}

	entry := models.LogEntry{
		MedicationID: occ.MedicationID,
		ScheduledAt:  occ.ScheduledAt,
		Action:       decision.Action,
		ActualAt:     now,
	}
	if err := d.store.AppendLogEntry(entry); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	logger.Info("dose resolved",
		"med_id", occ.MedicationID,
		"scheduled", occ.Key().ScheduledAt,
		"action", decision.Action)

	d.pending = nil
	d.state = StateIdle
	return nil
}

// Dismiss drops the pending occurrence without logging anything. It remains
// unhandled; a later tick inside the due window will surface it again.
func (d *Detector) Dismiss() {
	d.pending = nil
	d.state = StateIdle
}

// Run drives the detector on a ticker until ctx is cancelled. Detection
// errors are logged and swallowed so a transient storage failure never kills
// the loop.
func (d *Detector) Run(ctx context.Context, presenter Presenter) error {
	interval := time.Duration(d.settings.TickSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.runOnce(presenter)
		}
	}
}

func (d *Detector) runOnce(presenter Presenter) {
	occ, err := d.Tick()
	if err != nil {
		logger.Warn("detection pass failed", "error", err)
		return
	}
	if occ == nil {
		return
	}

	decision, err := presenter.Present(*occ)
	if err != nil {
		logger.Warn("presentation failed, leaving dose unhandled", "error", err)
		d.Dismiss()
		return
	}
	if err := d.Resolve(decision); err != nil {
		logger.Error("failed to resolve dose", "error", err)
		d.Dismiss()
	}
}
