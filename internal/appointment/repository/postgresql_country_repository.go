package repository

import (
	"context"
	"database/sql"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	"github.com/andeanhealth/appointments/internal/database"

	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// PostgreSQLCountryRepository persists per-country appointment records for PostgreSQL
type PostgreSQLCountryRepository struct {
	db *sql.DB
}

// NewPostgreSQLCountryRepository creates a new PostgreSQLCountryRepository
func NewPostgreSQLCountryRepository(db *sql.DB) *PostgreSQLCountryRepository {
	return &PostgreSQLCountryRepository{
		db: db,
	}
}

// Save upserts a country record keyed by appointment_id so redelivered
// creation events overwrite instead of duplicating.
func (r *PostgreSQLCountryRepository) Save(ctx context.Context, appointment *domain.Appointment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO country_appointments
			  (appointment_id, insured_id, schedule_id, country_iso, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (appointment_id) DO UPDATE SET
			  insured_id = EXCLUDED.insured_id,
			  schedule_id = EXCLUDED.schedule_id,
			  country_iso = EXCLUDED.country_iso,
			  status = EXCLUDED.status,
			  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(ctx, query,
		appointment.AppointmentID,
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
