package sqlite

import (
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/logger"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/utils"
)

func (s *Store) AppendLogEntry(e models.LogEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	// COALESCE(MAX(log_id),0)+1 keeps the max+1 id rule inside the insert,
	// so concurrent appenders cannot race on a pre-read id.
	_, err := s.db.Exec(`
		INSERT INTO dose_log (log_id, med_id, scheduled_dt, action, actual_dt)
		VALUES ((SELECT COALESCE(MAX(log_id), 0) + 1 FROM dose_log), ?, ?, ?, ?)`,
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
		"SELECT count(*) FROM dose_log WHERE med_id = ? AND scheduled_dt = ?",
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
	// The minute-precision format sorts lexicographically, so string
	// comparison in SQL matches time comparison.
	return s.getLogEntries(
		"SELECT log_id, med_id, scheduled_dt, action, actual_dt FROM dose_log WHERE actual_dt >= ? ORDER BY log_id",
		utils.FormatDateTime(cutoff))
}
