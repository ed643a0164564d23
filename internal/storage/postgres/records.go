package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/logger"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/utils"
)

// Medications

const medicationColumns = "med_id, med_name, dose, times_csv, days_mask, active"

func scanMedication(row interface{ Scan(...any) error }) (models.Medication, error) {
	var m models.Medication
	var timesCSV, days string
	if err := row.Scan(&m.ID, &m.Name, &m.Dose, &timesCSV, &days, &m.Active); err != nil {
		return models.Medication{}, err
	}
	m.Times = models.SplitTimesCSV(timesCSV)
	m.Days = models.DaysMask(days)
	return m, nil
}

func (s *Store) AddMedication(m models.Medication) error {
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO medications (med_id, med_name, dose, times_csv, days_mask, active)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Dose, m.TimesCSV(), string(m.Days), m.Active,
	)
	return err
}

func (s *Store) GetMedication(id int) (models.Medication, error) {
	row := s.db.QueryRow(
		"SELECT "+medicationColumns+" FROM medications WHERE med_id = $1", id)

	m, err := scanMedication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Medication{}, fmt.Errorf("medication with id %d not found", id)
		}
		return models.Medication{}, err
	}
	return m, nil
}

func (s *Store) getMedications(query string, args ...any) ([]models.Medication, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meds []models.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			logger.Warn("skipping malformed medication row", "error", err)
			continue
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

func (s *Store) GetAllMedications() ([]models.Medication, error) {
	return s.getMedications(
		"SELECT " + medicationColumns + " FROM medications WHERE active ORDER BY med_id")
}

func (s *Store) GetAllMedicationsIncludingInactive() ([]models.Medication, error) {
	return s.getMedications(
		"SELECT " + medicationColumns + " FROM medications ORDER BY med_id")
}

func (s *Store) UpdateMedication(m models.Medication) error {
	if err := m.Validate(); err != nil {
		return err
	}
	res, err := s.db.Exec(`
		UPDATE medications SET med_name = $1, dose = $2, times_csv = $3, days_mask = $4, active = $5
		WHERE med_id = $6`,
		m.Name, m.Dose, m.TimesCSV(), string(m.Days), m.Active, m.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("medication with id %d not found", m.ID)
	}
	return nil
}

func (s *Store) NextMedicationID() (int, error) {
	var max sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(med_id) FROM medications").Scan(&max); err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}

func (s *Store) DeactivateMedication(id int) error {
	var active bool
	err := s.db.QueryRow("SELECT active FROM medications WHERE med_id = $1", id).Scan(&active)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("medication with id %d not found", id)
		}
		return fmt.Errorf("failed to check medication existence: %w", err)
	}
	if !active {
		return fmt.Errorf("medication with id %d is already deactivated", id)
	}

	_, err = s.db.Exec("UPDATE medications SET active = FALSE WHERE med_id = $1", id)
	return err
}

func (s *Store) RestoreMedication(id int) error {
	var active bool
	err := s.db.QueryRow("SELECT active FROM medications WHERE med_id = $1", id).Scan(&active)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("medication with id %d not found", id)
		}
		return fmt.Errorf("failed to check medication existence: %w", err)
	}
	if active {
		return fmt.Errorf("medication with id %d is not deactivated", id)
	}

	_, err = s.db.Exec("UPDATE medications SET active = TRUE WHERE med_id = $1", id)
	return err
}

// Snoozes

func (s *Store) AddSnooze(rec models.SnoozeRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO snoozes (med_id, scheduled_dt, new_dt)
		VALUES ($1, $2, $3)
		ON CONFLICT (med_id, scheduled_dt) DO UPDATE SET new_dt = EXCLUDED.new_dt`,
		rec.MedicationID,
		utils.FormatDateTime(rec.ScheduledAt),
		utils.FormatDateTime(rec.NewAt),
	)
	return err
}

func (s *Store) getSnoozes(query string, args ...any) ([]models.SnoozeRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.SnoozeRecord
	for rows.Next() {
		var r models.SnoozeRecord
		var sched, newAt string
		if err := rows.Scan(&r.MedicationID, &sched, &newAt); err != nil {
			logger.Warn("skipping malformed snooze row", "error", err)
			continue
		}
		r.ScheduledAt, err = utils.ParseDateTime(sched)
		if err != nil {
			logger.Warn("skipping malformed snooze row", "scheduled_dt", sched)
			continue
		}
		r.NewAt, err = utils.ParseDateTime(newAt)
		if err != nil {
			logger.Warn("skipping malformed snooze row", "new_dt", newAt)
			continue
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s *Store) TodaySnoozes(now time.Time) (map[models.OccurrenceKey]time.Time, error) {
	day := now.Format(constants.DateFormat)
	recs, err := s.getSnoozes(
		"SELECT med_id, scheduled_dt, new_dt FROM snoozes WHERE new_dt LIKE $1 || '%'", day)
	if err != nil {
		return nil, err
	}
	out := make(map[models.OccurrenceKey]time.Time)
	for _, r := range recs {
		out[r.Key()] = r.NewAt
	}
	return out, nil
}

func (s *Store) GetAllSnoozes() ([]models.SnoozeRecord, error) {
	return s.getSnoozes(
		"SELECT med_id, scheduled_dt, new_dt FROM snoozes ORDER BY new_dt")
}

func (s *Store) CleanupSnoozes(now time.Time, keepDays int) (int, error) {
	cutoff := now.AddDate(0, 0, -keepDays)
	res, err := s.db.Exec(
		"DELETE FROM snoozes WHERE new_dt < $1", utils.FormatDateTime(cutoff))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Dose log

func (s *Store) AppendLogEntry(e models.LogEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO dose_log (log_id, med_id, scheduled_dt, action, actual_dt)
		VALUES ((SELECT COALESCE(MAX(log_id), 0) + 1 FROM dose_log), $1, $2, $3, $4)`,
		e.MedicationID,
		utils.FormatDateTime(e.ScheduledAt),
		string(e.Action),
		utils.FormatDateTime(e.ActualAt),
	)
	return err
}

func (s *Store) IsHandled(key models.OccurrenceKey) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT count(*) FROM dose_log WHERE med_id = $1 AND scheduled_dt = $2",
		key.MedicationID, key.ScheduledAt,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) getLogEntries(query string, args ...any) ([]models.LogEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		var sched, action, actual string
		if err := rows.Scan(&e.ID, &e.MedicationID, &sched, &action, &actual); err != nil {
			logger.Warn("skipping malformed log row", "error", err)
			continue
		}
		e.ScheduledAt, err = utils.ParseDateTime(sched)
		if err != nil {
			logger.Warn("skipping malformed log row", "scheduled_dt", sched)
			continue
		}
		e.ActualAt, err = utils.ParseDateTime(actual)
		if err != nil {
			logger.Warn("skipping malformed log row", "actual_dt", actual)
			continue
		}
		e.Action = constants.Action(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetAllLogEntries() ([]models.LogEntry, error) {
	return s.getLogEntries(
		"SELECT log_id, med_id, scheduled_dt, action, actual_dt FROM dose_log ORDER BY log_id")
}

func (s *Store) LogEntriesSince(cutoff time.Time) ([]models.LogEntry, error) {
	return s.getLogEntries(
		"SELECT log_id, med_id, scheduled_dt, action, actual_dt FROM dose_log WHERE actual_dt >= $1 ORDER BY log_id",
		utils.FormatDateTime(cutoff))
}

// Settings

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.DefaultSettings()
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case "tick_seconds":
			settings.TickSeconds = value
		case "due_window_seconds":
			settings.DueWindowSeconds = value
		case "due_soon_minutes":
			settings.DueSoonMinutes = value
		case "default_snooze_minutes":
			settings.DefaultSnoozeMinutes = value
		case "snooze_keep_days":
			settings.SnoozeKeepDays = value
		}
	}
	return settings, rows.Err()
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range map[string]int{
		"tick_seconds":           settings.TickSeconds,
		"due_window_seconds":     settings.DueWindowSeconds,
		"due_soon_minutes":       settings.DueSoonMinutes,
		"default_snooze_minutes": settings.DefaultSnoozeMinutes,
		"snooze_keep_days":       settings.SnoozeKeepDays,
	} {
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
