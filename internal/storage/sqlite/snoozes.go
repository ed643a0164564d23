package sqlite

import (
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/logger"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/utils"
)

func (s *Store) AddSnooze(rec models.SnoozeRecord) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO snoozes (med_id, scheduled_dt, new_dt)
		VALUES (?, ?, ?)`,
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
		"SELECT med_id, scheduled_dt, new_dt FROM snoozes WHERE new_dt LIKE ? || '%'", day)
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
		"DELETE FROM snoozes WHERE new_dt < ?", utils.FormatDateTime(cutoff))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
