package usecase

import (
	"context"
	"log/slog"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// CountryBehavior is a hook for country-specific processing applied before the
// record is persisted. The PE and CL pipelines are structurally identical
// today, so the default behaviors only log; genuinely divergent logic gets a
// home here without duplicating the processor.
type CountryBehavior func(ctx context.Context, appointment *domain.Appointment) error

// NoopBehavior returns a behavior that records the processing step and applies
// no country-specific changes.
func NoopBehavior(logger *slog.Logger) CountryBehavior {
	return func(ctx context.Context, appointment *domain.Appointment) error {
		logger.Debug("applying country processing",
			slog.String("appointment_id", appointment.AppointmentID.String()),
			slog.String("country_iso", string(appointment.CountryISO)),
		)
		return nil
	}
}

// CountryProcessor consumes creation events for a single country, persists the
// country record and publishes a processing confirmation. One implementation
// serves both countries, parameterized by CountryISO.
type CountryProcessor struct {
	country     domain.CountryISO
	behavior    CountryBehavior
	countryRepo CountryAppointmentRepository
	confirmer   ConfirmationPublisher
	logger      *slog.Logger
}

// NewCountryProcessor creates a processor for the given country. A nil behavior
// defaults to NoopBehavior.
func NewCountryProcessor(
	country domain.CountryISO,
	behavior CountryBehavior,
	countryRepo CountryAppointmentRepository,
	confirmer ConfirmationPublisher,
	logger *slog.Logger,
) *CountryProcessor {
	if behavior == nil {
		behavior = NoopBehavior(logger)
	}
	return &CountryProcessor{
		country:     country,
		behavior:    behavior,
		countryRepo: countryRepo,
		confirmer:   confirmer,
		logger:      logger,
	}
}

// Country returns the country this processor serves.
func (p *CountryProcessor) Country() domain.CountryISO {
	return p.country
}

// Process validates the event, upserts the country record with status PENDING
// and UpdatedAt derived from the event's CreatedAt, then publishes the
// confirmation. Any failure propagates to the caller so the transport's
// retry and dead-letter policy governs recovery; there is no internal retry.
func (p *CountryProcessor) Process(ctx context.Context, event CreationEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	record := &domain.Appointment{
		AppointmentID: event.AppointmentID,
		InsuredID:     event.InsuredID,
		ScheduleID:    event.ScheduleID,
		CountryISO:    event.CountryISO,
		Status:        domain.StatusPending,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.CreatedAt,
	}

	if err := p.behavior(ctx, record); err != nil {
		return apperrors.Wrap(err, "country behavior failed")
	}

	if err := p.countryRepo.Save(ctx, record); err != nil {
		return apperrors.Wrap(err, "failed to save country appointment record")
	}

	confirmation := ConfirmationEvent{
		AppointmentID: event.AppointmentID,
		InsuredID:     event.InsuredID,
		Status:        StatusProcessed,
	}
	if err := p.confirmer.Publish(ctx, confirmation); err != nil {
		return apperrors.Wrap(err, "failed to publish processing confirmation")
	}

	p.logger.Info("appointment processed",
		slog.String("appointment_id", event.AppointmentID.String()),
		slog.String("country_iso", string(p.country)),
	)

	return nil
}
