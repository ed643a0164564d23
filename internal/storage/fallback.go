package storage

import (
	"time"

	"github.com/hsnsag/pillbox/internal/logger"
	"github.com/hsnsag/pillbox/internal/models"
)

// FallbackStore wraps a primary provider with a CSV baseline so that the two
// write paths a user cannot afford to lose, snooze overrides and dose log
// appends, still land somewhere when the primary store rejects them. Reads
// and everything else go straight to the primary.
//
// Fallback writes are recorded in the CSV directory next to the primary's
// config path; `pillbox doctor` reports any stranded records.
type FallbackStore struct {
	primary Provider
	backup  *CSVStore
}

// NewFallbackStore wraps primary with a CSV baseline rooted at backupDir.
func NewFallbackStore(primary Provider, backupDir string) *FallbackStore {
	return &FallbackStore{
		primary: primary,
		backup:  NewCSVStore(backupDir),
	}
}

// Backup exposes the baseline store so diagnostics can inspect stranded
// records.
func (s *FallbackStore) Backup() *CSVStore {
	return s.backup
}

// Primary exposes the wrapped provider for store-specific diagnostics.
func (s *FallbackStore) Primary() Provider {
	return s.primary
}

func (s *FallbackStore) Init() error {
	if err := s.primary.Init(); err != nil {
		return err
	}
	return s.backup.Init()
}

func (s *FallbackStore) Load() error {
	return s.primary.Load()
}

func (s *FallbackStore) Close() error {
	return s.primary.Close()
}

func (s *FallbackStore) GetSettings() (models.Settings, error) {
	return s.primary.GetSettings()
}

func (s *FallbackStore) SaveSettings(settings models.Settings) error {
	return s.primary.SaveSettings(settings)
}

func (s *FallbackStore) AddMedication(m models.Medication) error {
	return s.primary.AddMedication(m)
}

func (s *FallbackStore) GetMedication(id int) (models.Medication, error) {
	return s.primary.GetMedication(id)
}

func (s *FallbackStore) GetAllMedications() ([]models.Medication, error) {
	return s.primary.GetAllMedications()
}

func (s *FallbackStore) GetAllMedicationsIncludingInactive() ([]models.Medication, error) {
	return s.primary.GetAllMedicationsIncludingInactive()
}

func (s *FallbackStore) UpdateMedication(m models.Medication) error {
	return s.primary.UpdateMedication(m)
}

func (s *FallbackStore) NextMedicationID() (int, error) {
	return s.primary.NextMedicationID()
}

func (s *FallbackStore) DeactivateMedication(id int) error {
	return s.primary.DeactivateMedication(id)
}

func (s *FallbackStore) RestoreMedication(id int) error {
	return s.primary.RestoreMedication(id)
}

func (s *FallbackStore) AddSnooze(rec models.SnoozeRecord) error {
	if err := s.primary.AddSnooze(rec); err != nil {
		logger.Warn("primary store rejected snooze, writing to baseline", "error", err)
		if berr := s.ensureBackup(); berr != nil {
			return err
		}
		if berr := s.backup.AddSnooze(rec); berr != nil {
			logger.Error("baseline snooze write failed", "error", berr)
			return err
		}
		return nil
	}
	return nil
}

func (s *FallbackStore) TodaySnoozes(now time.Time) (map[models.OccurrenceKey]time.Time, error) {
	return s.primary.TodaySnoozes(now)
}

func (s *FallbackStore) GetAllSnoozes() ([]models.SnoozeRecord, error) {
	return s.primary.GetAllSnoozes()
}

func (s *FallbackStore) CleanupSnoozes(now time.Time, keepDays int) (int, error) {
	return s.primary.CleanupSnoozes(now, keepDays)
}

func (s *FallbackStore) AppendLogEntry(e models.LogEntry) error {
	if err := s.primary.AppendLogEntry(e); err != nil {
		logger.Warn("primary store rejected log entry, writing to baseline", "error", err)
		if berr := s.ensureBackup(); berr != nil {
			return err
		}
		if berr := s.backup.AppendLogEntry(e); berr != nil {
			logger.Error("baseline log write failed", "error", berr)
			return err
		}
		return nil
	}
	return nil
}

func (s *FallbackStore) IsHandled(key models.OccurrenceKey) (bool, error) {
	handled, err := s.primary.IsHandled(key)
	if err != nil {
		return false, err
	}
	if handled {
		return true, nil
	}
	// A fallback write may have handled the occurrence even though the
	// primary never saw it.
	return s.backup.IsHandled(key)
}

func (s *FallbackStore) GetAllLogEntries() ([]models.LogEntry, error) {
	return s.primary.GetAllLogEntries()
}

func (s *FallbackStore) LogEntriesSince(cutoff time.Time) ([]models.LogEntry, error) {
	return s.primary.LogEntriesSince(cutoff)
}

func (s *FallbackStore) GetConfigPath() string {
	return s.primary.GetConfigPath()
}

func (s *FallbackStore) ensureBackup() error {
	return s.backup.Init()
}
