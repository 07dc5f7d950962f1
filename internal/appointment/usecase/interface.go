// Package usecase implements the appointment business logic and orchestrates
// the asynchronous appointment lifecycle pipeline.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	appValidation "github.com/andeanhealth/appointments/internal/validation"
)

const (
	// TopicAppointmentRequested is the logical topic for appointment creation events.
	TopicAppointmentRequested = "AppointmentRequested"

	// AttributeCountryISO is the routing attribute the transport filters on.
	AttributeCountryISO = "countryISO"

	// StatusProcessed is the confirmation status emitted by country processors.
	StatusProcessed = "PROCESSED"
)

// CreationEvent is the payload published when an appointment is created and
// consumed by the country processors. Delivery is at least once.
type CreationEvent struct {
	AppointmentID uuid.UUID         `json:"appointmentId"`
	InsuredID     string            `json:"insuredId"`
	ScheduleID    int64             `json:"scheduleId"`
	CountryISO    domain.CountryISO `json:"countryISO"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// Validate checks the creation event payload before processing.
func (e CreationEvent) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.AppointmentID,
			validation.Required.Error("appointment id is required"),
		),
		validation.Field(&e.InsuredID,
			validation.Required.Error("insured id is required"),
			appValidation.InsuredID,
		),
		validation.Field(&e.ScheduleID,
			validation.Required.Error("schedule id is required"),
			validation.Min(1).Error("must be a positive integer"),
		),
		validation.Field(&e.CountryISO,
			validation.Required.Error("country is required"),
			validation.In(domain.CountryPE, domain.CountryCL).Error("must be PE or CL"),
		),
		validation.Field(&e.CreatedAt,
			validation.Required.Error("created at is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ConfirmationEvent is the payload published by a country processor once it has
// persisted an appointment, and consumed by the status updater.
type ConfirmationEvent struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	InsuredID     string    `json:"insuredId"`
	Status        string    `json:"status"`
}

// Validate checks the confirmation event payload before processing.
func (e ConfirmationEvent) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.AppointmentID,
			validation.Required.Error("appointment id is required"),
		),
		validation.Field(&e.InsuredID,
			validation.Required.Error("insured id is required"),
			appValidation.InsuredID,
		),
		validation.Field(&e.Status,
			validation.Required.Error("status is required"),
			validation.In(StatusProcessed).Error("must be PROCESSED"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateAppointmentInput contains the input data for appointment creation.
type CreateAppointmentInput struct {
	InsuredID  string `json:"insuredId"`
	ScheduleID int64  `json:"scheduleId"`
	CountryISO string `json:"countryISO"`
}

// UseCase defines the interface for appointment API operations.
type UseCase interface {
	Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error)
	Get(ctx context.Context, insuredID string, appointmentID uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, insuredID string) ([]*domain.Appointment, error)
}

// ProcessUseCase defines the interface for country-scoped event processing.
type ProcessUseCase interface {
	Process(ctx context.Context, event CreationEvent) error
}

// StatusUseCase defines the interface for the confirmation-driven status update.
type StatusUseCase interface {
	UpdateStatus(ctx context.Context, event ConfirmationEvent) error
}

// AppointmentRepository defines the primary appointment store operations.
// Save must be an idempotent upsert keyed by (insuredID, appointmentID):
// deliveries can repeat and two invocations may run concurrently.
type AppointmentRepository interface {
	Save(ctx context.Context, appointment *domain.Appointment) error
	FindByID(ctx context.Context, insuredID string, appointmentID uuid.UUID) (*domain.Appointment, error)
	Update(ctx context.Context, appointment *domain.Appointment) error
	FindByInsuredID(ctx context.Context, insuredID string) ([]*domain.Appointment, error)
}

// CountryAppointmentRepository defines the country record store operations.
// Save must upsert on appointment identity so redelivered creation events
// overwrite instead of duplicating.
type CountryAppointmentRepository interface {
	Save(ctx context.Context, appointment *domain.Appointment) error
}

// EventPublisher publishes creation events with routing attributes the
// transport uses for server-side filtering.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event CreationEvent, attributes map[string]string) error
}

// ConfirmationPublisher publishes processing confirmations.
type ConfirmationPublisher interface {
	Publish(ctx context.Context, event ConfirmationEvent) error
}
