package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	// Execute the function to test the logic inside
	return fn(ctx)
}

func newTxManager() *MockTxManager {
	txManager := new(MockTxManager)
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	return txManager
}

func validConfirmationEvent(appointmentID uuid.UUID) ConfirmationEvent {
	return ConfirmationEvent{
		AppointmentID: appointmentID,
		InsuredID:     "01234",
		Status:        StatusProcessed,
	}
}

func TestStatusUpdateUseCase_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("completes a pending appointment", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewStatusUpdateUseCase(newTxManager(), repo, testLogger())

		appointment, err := domain.New("01234", 100, domain.CountryPE)
		require.NoError(t, err)
		createdAt := appointment.UpdatedAt

		repo.On("FindByID", ctx, "01234", appointment.AppointmentID).
			Return(appointment, nil)

		var updated *domain.Appointment
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Appointment")).
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*domain.Appointment)
			}).
			Return(nil)

		err = uc.UpdateStatus(ctx, validConfirmationEvent(appointment.AppointmentID))
		require.NoError(t, err)

		require.NotNil(t, updated)
		assert.Equal(t, domain.StatusCompleted, updated.Status)
		assert.True(t, updated.UpdatedAt.After(createdAt))

		repo.AssertExpectations(t)
	})

	t.Run("settles a redelivered confirmation without a write", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewStatusUpdateUseCase(newTxManager(), repo, testLogger())

		appointment, err := domain.New("01234", 100, domain.CountryCL)
		require.NoError(t, err)
		appointment.Complete()
		completedAt := appointment.UpdatedAt

		repo.On("FindByID", ctx, "01234", appointment.AppointmentID).
			Return(appointment, nil)

		// A values-identical update reports zero changed rows on MySQL, which
		// the repository maps to not-found. The already-completed appointment
		// must therefore settle without calling Update at all.
		err = uc.UpdateStatus(ctx, validConfirmationEvent(appointment.AppointmentID))
		require.NoError(t, err)

		assert.Equal(t, domain.StatusCompleted, appointment.Status)
		assert.Equal(t, completedAt, appointment.UpdatedAt)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("rejects a malformed confirmation", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewStatusUpdateUseCase(newTxManager(), repo, testLogger())

		event := validConfirmationEvent(uuid.Must(uuid.NewV7()))
		event.Status = "DONE"

		err := uc.UpdateStatus(ctx, event)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))

		repo.AssertNotCalled(t, "FindByID")
	})

	t.Run("returns not found with the appointment id and skips the update", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewStatusUpdateUseCase(newTxManager(), repo, testLogger())

		appointmentID := uuid.Must(uuid.NewV7())
		repo.On("FindByID", ctx, "01234", appointmentID).
			Return(nil, domain.ErrAppointmentNotFound)

		err := uc.UpdateStatus(ctx, validConfirmationEvent(appointmentID))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		assert.Contains(t, err.Error(), appointmentID.String())

		repo.AssertNotCalled(t, "Update")
	})

	t.Run("rejects corrupted stored state", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewStatusUpdateUseCase(newTxManager(), repo, testLogger())

		appointment, err := domain.New("01234", 100, domain.CountryPE)
		require.NoError(t, err)
		appointment.Status = domain.Status("UNKNOWN")

		repo.On("FindByID", ctx, "01234", appointment.AppointmentID).
			Return(appointment, nil)

		err = uc.UpdateStatus(ctx, validConfirmationEvent(appointment.AppointmentID))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stored appointment failed validation")

		repo.AssertNotCalled(t, "Update")
	})

	t.Run("propagates an update failure", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewStatusUpdateUseCase(newTxManager(), repo, testLogger())

		appointment, err := domain.New("01234", 100, domain.CountryCL)
		require.NoError(t, err)

		repo.On("FindByID", ctx, "01234", appointment.AppointmentID).
			Return(appointment, nil)
		repo.On("Update", ctx, appointment).
			Return(errors.New("connection reset"))

		err = uc.UpdateStatus(ctx, validConfirmationEvent(appointment.AppointmentID))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update appointment status")
	})
}
