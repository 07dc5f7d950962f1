package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appointment *domain.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByID(
	ctx context.Context,
	insuredID string,
	appointmentID uuid.UUID,
) (*domain.Appointment, error) {
	args := m.Called(ctx, insuredID, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByInsuredID(
	ctx context.Context,
	insuredID string,
) ([]*domain.Appointment, error) {
	args := m.Called(ctx, insuredID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

// MockCountryAppointmentRepository is a mock implementation of CountryAppointmentRepository
type MockCountryAppointmentRepository struct {
	mock.Mock
}

func (m *MockCountryAppointmentRepository) Save(ctx context.Context, appointment *domain.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(
	ctx context.Context,
	topic string,
	event CreationEvent,
	attributes map[string]string,
) error {
	args := m.Called(ctx, topic, event, attributes)
	return args.Error(0)
}

// MockConfirmationPublisher is a mock implementation of ConfirmationPublisher
type MockConfirmationPublisher struct {
	mock.Mock
}

func (m *MockConfirmationPublisher) Publish(ctx context.Context, event ConfirmationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAppointmentUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("saves a pending appointment and publishes the creation event", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		publisher := new(MockEventPublisher)
		uc := NewAppointmentUseCase(repo, publisher, testLogger())

		var saved *domain.Appointment
		repo.On("Save", ctx, mock.AnythingOfType("*domain.Appointment")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*domain.Appointment)
			}).
			Return(nil)
		publisher.On("Publish", ctx, TopicAppointmentRequested, mock.AnythingOfType("usecase.CreationEvent"), mock.Anything).
			Return(nil)

		appointment, err := uc.Create(ctx, CreateAppointmentInput{
			InsuredID:  "01234",
			ScheduleID: 100,
			CountryISO: "CL",
		})
		require.NoError(t, err)
		require.NotNil(t, appointment)

		assert.Equal(t, domain.StatusPending, appointment.Status)
		assert.Equal(t, "01234", appointment.InsuredID)
		assert.Equal(t, int64(100), appointment.ScheduleID)
		assert.Equal(t, domain.CountryCL, appointment.CountryISO)
		assert.NotEqual(t, uuid.Nil, appointment.AppointmentID)
		assert.Equal(t, appointment, saved)

		publishedEvent := publisher.Calls[0].Arguments.Get(2).(CreationEvent)
		assert.Equal(t, appointment.AppointmentID, publishedEvent.AppointmentID)
		assert.Equal(t, appointment.CreatedAt, publishedEvent.CreatedAt)

		attributes := publisher.Calls[0].Arguments.Get(3).(map[string]string)
		assert.Equal(t, "CL", attributes[AttributeCountryISO])

		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("rejects invalid input without touching the repository", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		publisher := new(MockEventPublisher)
		uc := NewAppointmentUseCase(repo, publisher, testLogger())

		_, err := uc.Create(ctx, CreateAppointmentInput{
			InsuredID:  "123",
			ScheduleID: 100,
			CountryISO: "CL",
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))

		repo.AssertNotCalled(t, "Save")
		publisher.AssertNotCalled(t, "Publish")
	})

	t.Run("returns the save error without publishing", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		publisher := new(MockEventPublisher)
		uc := NewAppointmentUseCase(repo, publisher, testLogger())

		repo.On("Save", ctx, mock.AnythingOfType("*domain.Appointment")).
			Return(errors.New("connection refused"))

		_, err := uc.Create(ctx, CreateAppointmentInput{
			InsuredID:  "01234",
			ScheduleID: 100,
			CountryISO: "PE",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save appointment")

		publisher.AssertNotCalled(t, "Publish")
	})

	t.Run("surfaces the publish error after the record is persisted", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		publisher := new(MockEventPublisher)
		uc := NewAppointmentUseCase(repo, publisher, testLogger())

		repo.On("Save", ctx, mock.AnythingOfType("*domain.Appointment")).
			Return(nil)
		publisher.On("Publish", ctx, TopicAppointmentRequested, mock.Anything, mock.Anything).
			Return(errors.New("broker unavailable"))

		_, err := uc.Create(ctx, CreateAppointmentInput{
			InsuredID:  "01234",
			ScheduleID: 100,
			CountryISO: "PE",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish appointment requested event")

		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})
}

func TestAppointmentUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the appointment", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewAppointmentUseCase(repo, new(MockEventPublisher), testLogger())

		appointment, err := domain.New("01234", 100, domain.CountryPE)
		require.NoError(t, err)

		repo.On("FindByID", ctx, "01234", appointment.AppointmentID).
			Return(appointment, nil)

		found, err := uc.Get(ctx, "01234", appointment.AppointmentID)
		require.NoError(t, err)
		assert.Equal(t, appointment, found)
	})

	t.Run("wraps not found with the appointment id", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewAppointmentUseCase(repo, new(MockEventPublisher), testLogger())

		appointmentID := uuid.Must(uuid.NewV7())
		repo.On("FindByID", ctx, "01234", appointmentID).
			Return(nil, domain.ErrAppointmentNotFound)

		_, err := uc.Get(ctx, "01234", appointmentID)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		assert.Contains(t, err.Error(), appointmentID.String())
	})
}

func TestAppointmentUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns all appointments for the insured party", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewAppointmentUseCase(repo, new(MockEventPublisher), testLogger())

		first, err := domain.New("01234", 100, domain.CountryPE)
		require.NoError(t, err)
		second, err := domain.New("01234", 200, domain.CountryCL)
		require.NoError(t, err)

		repo.On("FindByInsuredID", ctx, "01234").
			Return([]*domain.Appointment{first, second}, nil)

		appointments, err := uc.List(ctx, "01234")
		require.NoError(t, err)
		assert.Len(t, appointments, 2)
	})

	t.Run("returns an empty slice for an unknown insured party", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewAppointmentUseCase(repo, new(MockEventPublisher), testLogger())

		repo.On("FindByInsuredID", ctx, "99999").
			Return([]*domain.Appointment{}, nil)

		appointments, err := uc.List(ctx, "99999")
		require.NoError(t, err)
		assert.Empty(t, appointments)
	})
}
