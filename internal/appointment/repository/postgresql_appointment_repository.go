// Package repository provides data persistence implementations for
// appointments, with PostgreSQL and MySQL variants of both the primary store
// and the per-country record store.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	"github.com/andeanhealth/appointments/internal/database"

	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// PostgreSQLAppointmentRepository handles appointment persistence for PostgreSQL
type PostgreSQLAppointmentRepository struct {
	db *sql.DB
}

// NewPostgreSQLAppointmentRepository creates a new PostgreSQLAppointmentRepository
func NewPostgreSQLAppointmentRepository(db *sql.DB) *PostgreSQLAppointmentRepository {
	return &PostgreSQLAppointmentRepository{
		db: db,
	}
}

// Save upserts an appointment keyed by (insured_id, appointment_id). Repeated
// saves of the same appointment overwrite the mutable columns, so redelivered
// writes converge instead of failing.
func (r *PostgreSQLAppointmentRepository) Save(ctx context.Context, appointment *domain.Appointment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO appointments
			  (insured_id, appointment_id, schedule_id, country_iso, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (insured_id, appointment_id) DO UPDATE SET
			  schedule_id = EXCLUDED.schedule_id,
			  country_iso = EXCLUDED.country_iso,
			  status = EXCLUDED.status,
			  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(ctx, query,
		appointment.InsuredID,
		appointment.AppointmentID,
		appointment.ScheduleID,
		appointment.CountryISO,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save appointment")
	}
	return nil
}

// FindByID retrieves an appointment by its composite key
func (r *PostgreSQLAppointmentRepository) FindByID(
	ctx context.Context,
	insuredID string,
	appointmentID uuid.UUID,
) (*domain.Appointment, error) {
	var appointment domain.Appointment
	querier := database.GetTx(ctx, r.db)

	query := `SELECT insured_id, appointment_id, schedule_id, country_iso, status, created_at, updated_at
			  FROM appointments WHERE insured_id = $1 AND appointment_id = $2`

	err := querier.QueryRowContext(ctx, query, insuredID, appointmentID).Scan(
		&appointment.InsuredID,
		&appointment.AppointmentID,
		&appointment.ScheduleID,
		&appointment.CountryISO,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to find appointment by id")
	}

	return &appointment, nil
}

// Update persists the status and updated_at of an existing appointment
func (r *PostgreSQLAppointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE appointments SET status = $1, updated_at = $2
			  WHERE insured_id = $3 AND appointment_id = $4`

	result, err := querier.ExecContext(ctx, query,
		appointment.Status,
		appointment.UpdatedAt,
		appointment.InsuredID,
		appointment.AppointmentID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update appointment")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// FindByInsuredID retrieves every appointment recorded for the insured party
func (r *PostgreSQLAppointmentRepository) FindByInsuredID(
	ctx context.Context,
	insuredID string,
) ([]*domain.Appointment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT insured_id, appointment_id, schedule_id, country_iso, status, created_at, updated_at
			  FROM appointments WHERE insured_id = $1`

	rows, err := querier.QueryContext(ctx, query, insuredID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list appointments")
	}
	defer func() { _ = rows.Close() }()

	appointments := []*domain.Appointment{}
	for rows.Next() {
		var appointment domain.Appointment
		if err := rows.Scan(
			&appointment.InsuredID,
			&appointment.AppointmentID,
			&appointment.ScheduleID,
			&appointment.CountryISO,
			&appointment.Status,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan appointment")
		}
		appointments = append(appointments, &appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate appointments")
	}

	return appointments, nil
}
