package repository

import (
	"context"
	"database/sql"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	"github.com/andeanhealth/appointments/internal/database"

	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// MySQLCountryRepository persists per-country appointment records for MySQL
type MySQLCountryRepository struct {
	db *sql.DB
}

// NewMySQLCountryRepository creates a new MySQLCountryRepository
func NewMySQLCountryRepository(db *sql.DB) *MySQLCountryRepository {
	return &MySQLCountryRepository{
		db: db,
	}
}

// Save upserts a country record keyed by appointment_id
func (r *MySQLCountryRepository) Save(ctx context.Context, appointment *domain.Appointment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO country_appointments
			  (appointment_id, insured_id, schedule_id, country_iso, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  insured_id = VALUES(insured_id),
			  schedule_id = VALUES(schedule_id),
			  country_iso = VALUES(country_iso),
			  status = VALUES(status),
			  updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(ctx, query,
		appointment.AppointmentID.String(),
		appointment.InsuredID,
		appointment.ScheduleID,
		appointment.CountryISO,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save country appointment record")
	}
	return nil
}
