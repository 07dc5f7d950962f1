package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostgreSQLCountryRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts the country record", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLCountryRepository(db)
		appointment := testAppointment(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO country_appointments")).
			WithArgs(
				appointment.AppointmentID,
				appointment.InsuredID,
				appointment.ScheduleID,
				appointment.CountryISO,
				appointment.Status,
				appointment.CreatedAt,
				appointment.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(ctx, appointment)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps the driver error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLCountryRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO country_appointments")).
			WillReturnError(errors.New("deadlock detected"))

		err := repo.Save(ctx, testAppointment(t))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save country appointment record")
	})
}

func TestMySQLCountryRepository_Save(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewMySQLCountryRepository(db)
	appointment := testAppointment(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO country_appointments")).
		WithArgs(
			appointment.AppointmentID.String(),
			appointment.InsuredID,
			appointment.ScheduleID,
			appointment.CountryISO,
			appointment.Status,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(ctx, appointment)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
