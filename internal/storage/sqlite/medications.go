package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/hsnsag/pillbox/internal/logger"
	"github.com/hsnsag/pillbox/internal/models"
)

const medicationColumns = "med_id, med_name, dose, times_csv, days_mask, active"

func scanMedication(row interface{ Scan(...any) error }) (models.Medication, error) {
	var m models.Medication
	var timesCSV string
	var days string
	err := row.Scan(&m.ID, &m.Name, &m.Dose, &timesCSV, &days, &m.Active)
	if err != nil {
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
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Dose, m.TimesCSV(), string(m.Days), m.Active,
	)
	return err
}

func (s *Store) GetMedication(id int) (models.Medication, error) {
	row := s.db.QueryRow(
		"SELECT "+medicationColumns+" FROM medications WHERE med_id = ?", id)

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
		"SELECT " + medicationColumns + " FROM medications WHERE active = 1 ORDER BY med_id")
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
		UPDATE medications SET med_name = ?, dose = ?, times_csv = ?, days_mask = ?, active = ?
		WHERE med_id = ?`,
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
	err := s.db.QueryRow("SELECT active FROM medications WHERE med_id = ?", id).Scan(&active)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("medication with id %d not found", id)
		}
		return fmt.Errorf("failed to check medication existence: %w", err)
	}
	if !active {
		return fmt.Errorf("medication with id %d is already deactivated", id)
	}

	_, err = s.db.Exec("UPDATE medications SET active = 0 WHERE med_id = ?", id)
	return err
}

func (s *Store) RestoreMedication(id int) error {
	var active bool
	err := s.db.QueryRow("SELECT active FROM medications WHERE med_id = ?", id).Scan(&active)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("medication with id %d not found", id)
		}
		return fmt.Errorf("failed to check medication existence: %w", err)
	}
	if active {
		return fmt.Errorf("medication with id %d is not deactivated", id)
	}

	_, err = s.db.Exec("UPDATE medications SET active = 1 WHERE med_id = ?", id)
	return err
}
