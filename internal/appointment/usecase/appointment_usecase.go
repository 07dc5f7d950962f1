package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// AppointmentUseCase handles appointment creation and read queries.
type AppointmentUseCase struct {
	repo      AppointmentRepository
	publisher EventPublisher
	logger    *slog.Logger
}

// NewAppointmentUseCase creates a new AppointmentUseCase.
func NewAppointmentUseCase(
	repo AppointmentRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *AppointmentUseCase {
	return &AppointmentUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create validates the input, persists a PENDING appointment and publishes the
// creation event tagged with the country routing attribute. The event is
// published only after the save succeeds; a publish failure is surfaced to the
// caller while the record remains persisted, so re-reading (not re-submitting)
// is the safe recovery path.
func (uc *AppointmentUseCase) Create(
	ctx context.Context,
	input CreateAppointmentInput,
) (*domain.Appointment, error) {
	appointment, err := domain.New(input.InsuredID, input.ScheduleID, domain.CountryISO(input.CountryISO))
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Save(ctx, appointment); err != nil {
		return nil, apperrors.Wrap(err, "failed to save appointment")
	}

	event := CreationEvent{
		AppointmentID: appointment.AppointmentID,
		InsuredID:     appointment.InsuredID,
		ScheduleID:    appointment.ScheduleID,
		CountryISO:    appointment.CountryISO,
		CreatedAt:     appointment.CreatedAt,
	}
	attributes := map[string]string{
		AttributeCountryISO: string(appointment.CountryISO),
	}

	if err := uc.publisher.Publish(ctx, TopicAppointmentRequested, event, attributes); err != nil {
		// The appointment is already persisted. Surface the failure so the
		// caller knows the pipeline was not triggered.
		return nil, apperrors.Wrap(err, "failed to publish appointment requested event")
	}

	uc.logger.Info("appointment created",
		slog.String("appointment_id", appointment.AppointmentID.String()),
		slog.String("insured_id", appointment.InsuredID),
		slog.String("country_iso", string(appointment.CountryISO)),
	)

	return appointment, nil
}

// Get returns the appointment identified by (insuredID, appointmentID).
func (uc *AppointmentUseCase) Get(
	ctx context.Context,
	insuredID string,
	appointmentID uuid.UUID,
) (*domain.Appointment, error) {
	appointment, err := uc.repo.FindByID(ctx, insuredID, appointmentID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(err, fmt.Sprintf("appointment %s", appointmentID))
		}
		return nil, apperrors.Wrap(err, "failed to find appointment")
	}
	return appointment, nil
}

// List returns every appointment recorded for the insured party, in
// storage-native order. An insured party without records yields an empty slice.
func (uc *AppointmentUseCase) List(ctx context.Context, insuredID string) ([]*domain.Appointment, error) {
	appointments, err := uc.repo.FindByInsuredID(ctx, insuredID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list appointments")
	}
	return appointments, nil
}
