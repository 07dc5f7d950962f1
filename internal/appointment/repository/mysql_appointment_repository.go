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

// MySQLAppointmentRepository handles appointment persistence for MySQL
type MySQLAppointmentRepository struct {
	db *sql.DB
}

// NewMySQLAppointmentRepository creates a new MySQLAppointmentRepository
func NewMySQLAppointmentRepository(db *sql.DB) *MySQLAppointmentRepository {
	return &MySQLAppointmentRepository{
		db: db,
	}
}

// Save upserts an appointment keyed by (insured_id, appointment_id)
func (r *MySQLAppointmentRepository) Save(ctx context.Context, appointment *domain.Appointment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO appointments
			  (insured_id, appointment_id, schedule_id, country_iso, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  schedule_id = VALUES(schedule_id),
			  country_iso = VALUES(country_iso),
			  status = VALUES(status),
			  updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(ctx, query,
		appointment.InsuredID,
		appointment.AppointmentID.String(),
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
func (r *MySQLAppointmentRepository) FindByID(
	ctx context.Context,
	insuredID string,
	appointmentID uuid.UUID,
) (*domain.Appointment, error) {
	var appointment domain.Appointment
	querier := database.GetTx(ctx, r.db)

	query := `SELECT insured_id, appointment_id, schedule_id, country_iso, status, created_at, updated_at
			  FROM appointments WHERE insured_id = ? AND appointment_id = ?`

	err := querier.QueryRowContext(ctx, query, insuredID, appointmentID.String()).Scan(
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
func (r *MySQLAppointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE appointments SET status = ?, updated_at = ?
			  WHERE insured_id = ? AND appointment_id = ?`

	result, err := querier.ExecContext(ctx, query,
		appointment.Status,
		appointment.UpdatedAt,
		appointment.InsuredID,
		appointment.AppointmentID.String(),
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
func (r *MySQLAppointmentRepository) FindByInsuredID(
	ctx context.Context,
	insuredID string,
) ([]*domain.Appointment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT insured_id, appointment_id, schedule_id, country_iso, status, created_at, updated_at
			  FROM appointments WHERE insured_id = ?`

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
