package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	"github.com/andeanhealth/appointments/internal/metrics"
)

// appointmentUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type appointmentUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &appointmentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for appointment creation.
func (u *appointmentUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateAppointmentInput,
) (*domain.Appointment, error) {
	start := time.Now()
	appointment, err := u.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "appointment", "create", status)
	u.metrics.RecordDuration(ctx, "appointment", "create", time.Since(start), status)

	return appointment, err
}

// Get records metrics for appointment point lookups.
func (u *appointmentUseCaseWithMetrics) Get(
	ctx context.Context,
	insuredID string,
	appointmentID uuid.UUID,
) (*domain.Appointment, error) {
	start := time.Now()
	appointment, err := u.next.Get(ctx, insuredID, appointmentID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "appointment", "get", status)
	u.metrics.RecordDuration(ctx, "appointment", "get", time.Since(start), status)

	return appointment, err
}

// List records metrics for appointment listings.
func (u *appointmentUseCaseWithMetrics) List(
	ctx context.Context,
	insuredID string,
) ([]*domain.Appointment, error) {
	start := time.Now()
	appointments, err := u.next.List(ctx, insuredID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "appointment", "list", status)
	u.metrics.RecordDuration(ctx, "appointment", "list", time.Since(start), status)

	return appointments, err
}

// processUseCaseWithMetrics decorates ProcessUseCase with metrics instrumentation.
type processUseCaseWithMetrics struct {
	next    ProcessUseCase
	country domain.CountryISO
	metrics metrics.BusinessMetrics
}

// NewProcessUseCaseWithMetrics wraps a ProcessUseCase with metrics recording.
func NewProcessUseCaseWithMetrics(
	useCase ProcessUseCase,
	country domain.CountryISO,
	m metrics.BusinessMetrics,
) ProcessUseCase {
	return &processUseCaseWithMetrics{
		next:    useCase,
		country: country,
		metrics: m,
	}
}

// Process records metrics for country processing.
func (u *processUseCaseWithMetrics) Process(ctx context.Context, event CreationEvent) error {
	start := time.Now()
	err := u.next.Process(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}

	operation := "process_" + string(u.country)
	u.metrics.RecordOperation(ctx, "appointment", operation, status)
	u.metrics.RecordDuration(ctx, "appointment", operation, time.Since(start), status)

	return err
}

// statusUseCaseWithMetrics decorates StatusUseCase with metrics instrumentation.
type statusUseCaseWithMetrics struct {
	next    StatusUseCase
	metrics metrics.BusinessMetrics
}

// NewStatusUseCaseWithMetrics wraps a StatusUseCase with metrics recording.
func NewStatusUseCaseWithMetrics(useCase StatusUseCase, m metrics.BusinessMetrics) StatusUseCase {
	return &statusUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// UpdateStatus records metrics for confirmation-driven status updates.
func (u *statusUseCaseWithMetrics) UpdateStatus(ctx context.Context, event ConfirmationEvent) error {
	start := time.Now()
	err := u.next.UpdateStatus(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "appointment", "update_status", status)
	u.metrics.RecordDuration(ctx, "appointment", "update_status", time.Since(start), status)

	return err
}
