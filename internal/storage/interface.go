package storage

import (
	"time"

	"github.com/hsnsag/pillbox/internal/models"
)

// Provider is the storage strategy contract. A provider is selected once at
// startup from the configured path and used for the whole process lifetime.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Medications
	AddMedication(models.Medication) error
	GetMedication(id int) (models.Medication, error)
	GetAllMedications() ([]models.Medication, error)
	GetAllMedicationsIncludingInactive() ([]models.Medication, error)
	UpdateMedication(models.Medication) error
	// NextMedicationID returns max(existing ids)+1. IDs are never reused,
	// even after deactivation.
	NextMedicationID() (int, error)
	// DeactivateMedication soft-deletes: history remains, expansion stops.
	DeactivateMedication(id int) error
	RestoreMedication(id int) error

	// Snoozes
	// AddSnooze upserts the override for the record's occurrence key; a
	// second snooze of the same occurrence supersedes the first.
	AddSnooze(models.SnoozeRecord) error
	// TodaySnoozes returns the overrides whose replacement time falls on
	// now's calendar day, keyed by the original occurrence identity.
	TodaySnoozes(now time.Time) (map[models.OccurrenceKey]time.Time, error)
	GetAllSnoozes() ([]models.SnoozeRecord, error)
	// CleanupSnoozes drops records whose replacement time is older than
	// keepDays and returns how many were removed.
	CleanupSnoozes(now time.Time, keepDays int) (int, error)

	// Dose log
	// AppendLogEntry assigns the next log id (max+1) and appends. Entries
	// are never updated or deleted.
	AppendLogEntry(models.LogEntry) error
	// IsHandled reports whether any entry exists for the occurrence key,
	// regardless of action.
	IsHandled(key models.OccurrenceKey) (bool, error)
	GetAllLogEntries() ([]models.LogEntry, error)
	// LogEntriesSince returns entries whose action timestamp is at or after
	// the cutoff.
	LogEntriesSince(cutoff time.Time) ([]models.LogEntry, error)

	// Utils
	GetConfigPath() string
}
