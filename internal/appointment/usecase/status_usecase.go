package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	"github.com/andeanhealth/appointments/internal/database"
	apperrors "github.com/andeanhealth/appointments/internal/errors"
)

// StatusUpdateUseCase consumes processing confirmations and drives the
// appointment to its COMPLETED terminal state.
type StatusUpdateUseCase struct {
	txManager database.TxManager
	repo      AppointmentRepository
	logger    *slog.Logger
}

// NewStatusUpdateUseCase creates a new StatusUpdateUseCase.
func NewStatusUpdateUseCase(
	txManager database.TxManager,
	repo AppointmentRepository,
	logger *slog.Logger,
) *StatusUpdateUseCase {
	return &StatusUpdateUseCase{
		txManager: txManager,
		repo:      repo,
		logger:    logger,
	}
}

// UpdateStatus loads the appointment named by the confirmation and completes
// it, read and write in one transaction. A missing appointment is an error,
// propagated so the transport retries: the creation write may simply not be
// visible to this reader yet. Repeated delivery of the same confirmation is
// safe: an already-terminal appointment settles with no write at all.
func (uc *StatusUpdateUseCase) UpdateStatus(ctx context.Context, event ConfirmationEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		appointment, err := uc.repo.FindByID(ctx, event.InsuredID, event.AppointmentID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return apperrors.Wrap(err, fmt.Sprintf("appointment %s", event.AppointmentID))
			}
			return apperrors.Wrap(err, "failed to find appointment")
		}

		// Guard against corrupted persisted state before mutating it.
		if err := appointment.Validate(); err != nil {
			return apperrors.Wrap(err, "stored appointment failed validation")
		}

		// A redelivered confirmation finds the appointment already terminal.
		// Settle without a write: MySQL reports changed rows by default, so a
		// values-identical update would read as a missing row.
		if appointment.Status != domain.StatusPending {
			return nil
		}

		appointment.Complete()

		if err := uc.repo.Update(ctx, appointment); err != nil {
			return apperrors.Wrap(err, "failed to update appointment status")
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Info("appointment completed",
		slog.String("appointment_id", event.AppointmentID.String()),
		slog.String("insured_id", event.InsuredID),
	)

	return nil
}
