package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/logger"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/utils"
)

const (
	scheduleFile = "med_schedule.csv"
	logFile      = "dose_log.csv"
	snoozeFile   = "snoozes.csv"
	settingsFile = "settings.json"
)

var (
	scheduleHeaders = []string{"med_id", "med_name", "dose", "times_csv", "days_mask", "active"}
	logHeaders      = []string{"log_id", "med_id", "scheduled_dt", "action", "actual_dt"}
	snoozeHeaders   = []string{"med_id", "scheduled_dt", "new_dt"}
)

// CSVStore keeps every record in plain CSV files under a single directory.
// It is the baseline strategy: no daemon, no driver, trivially inspectable,
// and the fallback target when a richer store cannot accept a write.
//
// Reads go back to disk on every call so that concurrent invocations of the
// CLI observe each other's appends.
type CSVStore struct {
	dir string
}

// NewCSVStore returns a store rooted at dir. Nothing touches disk until
// Init or Load.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

func (s *CSVStore) Init() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	for _, f := range []struct {
		name    string
		headers []string
	}{
		{scheduleFile, scheduleHeaders},
		{logFile, logHeaders},
		{snoozeFile, snoozeHeaders},
	} {
		if err := s.ensureCSV(f.name, f.headers); err != nil {
			return err
		}
	}

	if _, err := os.Stat(filepath.Join(s.dir, settingsFile)); os.IsNotExist(err) {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *CSVStore) Load() error {
	if _, err := os.Stat(filepath.Join(s.dir, scheduleFile)); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'pillbox init' first")
	}
	return nil
}

func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) GetConfigPath() string {
	return s.dir
}

func (s *CSVStore) ensureCSV(name string, headers []string) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

// readRows returns the data rows of a CSV file, skipping the header. A
// missing file reads as empty. Rows with the wrong field count are dropped
// individually rather than failing the read.
func (s *CSVStore) readRows(name string, fields int) ([][]string, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	var rows [][]string
	for _, row := range all[1:] {
		if len(row) != fields {
			logger.Warn("skipping malformed row", "file", name, "fields", len(row))
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *CSVStore) appendRow(name string, headers, row []string) error {
	if err := s.ensureCSV(name, headers); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to append to %s: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

// writeAll rewrites a CSV file atomically: write to a temp file in the same
// directory, then rename over the original.
func (s *CSVStore) writeAll(name string, headers []string, rows [][]string) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(headers); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Settings

func (s *CSVStore) GetSettings() (models.Settings, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, settingsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func (s *CSVStore) SaveSettings(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, settingsFile), data, 0600)
}

// Medications

func parseMedicationRow(row []string) (models.Medication, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil || id <= 0 {
		return models.Medication{}, fmt.Errorf("bad med_id %q", row[0])
	}
	return models.Medication{
		ID:     id,
		Name:   row[1],
		Dose:   row[2],
		Times:  models.SplitTimesCSV(row[3]),
		Days:   models.DaysMask(row[4]),
		Active: row[5] == "1",
	}, nil
}

func medicationRow(m models.Medication) []string {
	active := "0"
	if m.Active {
		active = "1"
	}
	return []string{
		strconv.Itoa(m.ID), m.Name, m.Dose, m.TimesCSV(), string(m.Days), active,
	}
}

func (s *CSVStore) medications(includeInactive bool) ([]models.Medication, error) {
	rows, err := s.readRows(scheduleFile, len(scheduleHeaders))
	if err != nil {
		return nil, err
	}
	var meds []models.Medication
	for _, row := range rows {
		m, err := parseMedicationRow(row)
		if err != nil {
			logger.Warn("skipping malformed medication row", "error", err)
			continue
		}
		if !includeInactive && !m.Active {
			continue
		}
		meds = append(meds, m)
	}
	return meds, nil
}

func (s *CSVStore) AddMedication(m models.Medication) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return s.appendRow(scheduleFile, scheduleHeaders, medicationRow(m))
}

func (s *CSVStore) GetMedication(id int) (models.Medication, error) {
	meds, err := s.medications(true)
	if err != nil {
		return models.Medication{}, err
	}
	for _, m := range meds {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Medication{}, fmt.Errorf("medication with id %d not found", id)
}

func (s *CSVStore) GetAllMedications() ([]models.Medication, error) {
	return s.medications(false)
}

func (s *CSVStore) GetAllMedicationsIncludingInactive() ([]models.Medication, error) {
	return s.medications(true)
}

func (s *CSVStore) UpdateMedication(m models.Medication) error {
	if err := m.Validate(); err != nil {
		return err
	}
	meds, err := s.medications(true)
	if err != nil {
		return err
	}
	found := false
	rows := make([][]string, 0, len(meds))
	for _, existing := range meds {
		if existing.ID == m.ID {
			existing = m
			found = true
		}
		rows = append(rows, medicationRow(existing))
	}
	if !found {
		return fmt.Errorf("medication with id %d not found", m.ID)
	}
	return s.writeAll(scheduleFile, scheduleHeaders, rows)
}

func (s *CSVStore) NextMedicationID() (int, error) {
	meds, err := s.medications(true)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, m := range meds {
		if m.ID > max {
			max = m.ID
		}
	}
	return max + 1, nil
}

func (s *CSVStore) setMedicationActive(id int, active bool) error {
	m, err := s.GetMedication(id)
	if err != nil {
		return err
	}
	if m.Active == active {
		if active {
			return fmt.Errorf("medication with id %d is not deactivated", id)
		}
		return fmt.Errorf("medication with id %d is already deactivated", id)
	}
	m.Active = active
	return s.UpdateMedication(m)
}

func (s *CSVStore) DeactivateMedication(id int) error {
	return s.setMedicationActive(id, false)
}

func (s *CSVStore) RestoreMedication(id int) error {
	return s.setMedicationActive(id, true)
}

// Snoozes

func (s *CSVStore) snoozes() ([]models.SnoozeRecord, error) {
	rows, err := s.readRows(snoozeFile, len(snoozeHeaders))
	if err != nil {
		return nil, err
	}
	var recs []models.SnoozeRecord
	for _, row := range rows {
		medID, err := strconv.Atoi(row[0])
		if err != nil {
			logger.Warn("skipping malformed snooze row", "med_id", row[0])
			continue
		}
		sched, err := utils.ParseDateTime(row[1])
		if err != nil {
			logger.Warn("skipping malformed snooze row", "scheduled_dt", row[1])
			continue
		}
		newAt, err := utils.ParseDateTime(row[2])
		if err != nil {
			logger.Warn("skipping malformed snooze row", "new_dt", row[2])
			continue
		}
		recs = append(recs, models.SnoozeRecord{MedicationID: medID, ScheduledAt: sched, NewAt: newAt})
	}
	return recs, nil
}

func snoozeRow(r models.SnoozeRecord) []string {
	return []string{
		strconv.Itoa(r.MedicationID),
		utils.FormatDateTime(r.ScheduledAt),
		utils.FormatDateTime(r.NewAt),
	}
}

func (s *CSVStore) AddSnooze(rec models.SnoozeRecord) error {
	recs, err := s.snoozes()
	if err != nil {
		return err
	}
	key := rec.Key()
	rows := make([][]string, 0, len(recs)+1)
	replaced := false
	for _, existing := range recs {
		if existing.Key() == key {
			rows = append(rows, snoozeRow(rec))
			replaced = true
			continue
		}
		rows = append(rows, snoozeRow(existing))
	}
	if replaced {
		return s.writeAll(snoozeFile, snoozeHeaders, rows)
	}
	return s.appendRow(snoozeFile, snoozeHeaders, snoozeRow(rec))
}

func (s *CSVStore) TodaySnoozes(now time.Time) (map[models.OccurrenceKey]time.Time, error) {
	recs, err := s.snoozes()
	if err != nil {
		return nil, err
	}
	out := make(map[models.OccurrenceKey]time.Time)
	for _, r := range recs {
		if utils.SameDay(r.NewAt, now) {
			out[r.Key()] = r.NewAt
		}
	}
	return out, nil
}

func (s *CSVStore) GetAllSnoozes() ([]models.SnoozeRecord, error) {
	return s.snoozes()
}

func (s *CSVStore) CleanupSnoozes(now time.Time, keepDays int) (int, error) {
	recs, err := s.snoozes()
	if err != nil {
		return 0, err
	}
	cutoff := now.AddDate(0, 0, -keepDays)
	var kept [][]string
	removed := 0
	for _, r := range recs {
		if r.NewAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, snoozeRow(r))
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.writeAll(snoozeFile, snoozeHeaders, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Dose log

func (s *CSVStore) logEntries() ([]models.LogEntry, error) {
	rows, err := s.readRows(logFile, len(logHeaders))
	if err != nil {
		return nil, err
	}
	var entries []models.LogEntry
	for _, row := range rows {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			logger.Warn("skipping malformed log row", "log_id", row[0])
			continue
		}
		medID, err := strconv.Atoi(row[1])
		if err != nil {
			logger.Warn("skipping malformed log row", "med_id", row[1])
			continue
		}
		sched, err := utils.ParseDateTime(row[2])
		if err != nil {
			logger.Warn("skipping malformed log row", "scheduled_dt", row[2])
			continue
		}
		actual, err := utils.ParseDateTime(row[4])
		if err != nil {
			logger.Warn("skipping malformed log row", "actual_dt", row[4])
			continue
		}
		entries = append(entries, models.LogEntry{
			ID:           id,
			MedicationID: medID,
			ScheduledAt:  sched,
			Action:       constants.Action(row[3]),
			ActualAt:     actual,
		})
	}
	return entries, nil
}

func (s *CSVStore) AppendLogEntry(e models.LogEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	entries, err := s.logEntries()
	if err != nil {
		return err
	}
	nextID := 1
	for _, existing := range entries {
		if existing.ID >= nextID {
			nextID = existing.ID + 1
		}
	}
	e.ID = nextID
	return s.appendRow(logFile, logHeaders, []string{
		strconv.Itoa(e.ID),
		strconv.Itoa(e.MedicationID),
		utils.FormatDateTime(e.ScheduledAt),
		string(e.Action),
		utils.FormatDateTime(e.ActualAt),
	})
}

func (s *CSVStore) IsHandled(key models.OccurrenceKey) (bool, error) {
	entries, err := s.logEntries()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *CSVStore) GetAllLogEntries() ([]models.LogEntry, error) {
	return s.logEntries()
}

func (s *CSVStore) LogEntriesSince(cutoff time.Time) ([]models.LogEntry, error) {
	entries, err := s.logEntries()
	if err != nil {
		return nil, err
	}
	var out []models.LogEntry
	for _, e := range entries {
		if !e.ActualAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}
