// Package domain defines the core appointment entity and its state machine.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	appValidation "github.com/andeanhealth/appointments/internal/validation"
)

// Status represents the lifecycle state of an appointment.
type Status string

const (
	// StatusPending is the initial state of every appointment.
	StatusPending Status = "PENDING"
	// StatusCompleted is the terminal state reached after a processing confirmation.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed is a terminal state reserved for processing failures. No code
	// path drives this transition today; failed deliveries stay a broker
	// dead-letter concern.
	StatusFailed Status = "FAILED"
)

// CountryISO identifies the country whose processor handles an appointment.
// It is set at creation and never altered.
type CountryISO string

const (
	CountryPE CountryISO = "PE"
	CountryCL CountryISO = "CL"
)

// Countries lists every supported country.
func Countries() []CountryISO {
	return []CountryISO{CountryPE, CountryCL}
}

// Appointment represents a medical appointment request for an insured party.
// The pair (InsuredID, AppointmentID) uniquely identifies a record and is the
// storage key in every store.
type Appointment struct {
	AppointmentID uuid.UUID  `json:"appointmentId"`
	InsuredID     string     `json:"insuredId"`
	ScheduleID    int64      `json:"scheduleId"`
	CountryISO    CountryISO `json:"countryISO"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// New creates a PENDING appointment with a generated identifier. Every violated
// constraint is reported, not just the first one.
func New(insuredID string, scheduleID int64, countryISO CountryISO) (*Appointment, error) {
	now := time.Now().UTC()
	appointment := &Appointment{
		AppointmentID: uuid.Must(uuid.NewV7()),
		InsuredID:     insuredID,
		ScheduleID:    scheduleID,
		CountryISO:    countryISO,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := appointment.Validate(); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Validate checks the appointment against its construction constraints. It is
// also applied to entities rehydrated from storage, guarding against corrupted
// persisted state.
func (a *Appointment) Validate() error {
	err := validation.ValidateStruct(a,
		validation.Field(&a.AppointmentID,
			validation.Required.Error("appointment id is required"),
		),
		validation.Field(&a.InsuredID,
			validation.Required.Error("insured id is required"),
			appValidation.InsuredID,
		),
		validation.Field(&a.ScheduleID,
			validation.Required.Error("schedule id is required"),
			validation.Min(1).Error("must be a positive integer"),
		),
		validation.Field(&a.CountryISO,
			validation.Required.Error("country is required"),
			validation.In(CountryPE, CountryCL).Error("must be PE or CL"),
		),
		validation.Field(&a.Status,
			validation.Required.Error("status is required"),
			validation.In(StatusPending, StatusCompleted, StatusFailed).Error("must be PENDING, COMPLETED or FAILED"),
		),
		validation.Field(&a.CreatedAt,
			validation.Required.Error("created at is required"),
		),
		validation.Field(&a.UpdatedAt,
			validation.Required.Error("updated at is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Complete transitions a PENDING appointment to COMPLETED and refreshes
// UpdatedAt. Completing an appointment that already reached a terminal state is
// a silent no-op: confirmations are delivered at least once and repeated
// completion must be safe.
func (a *Appointment) Complete() {
	if a.Status != StatusPending {
		return
	}
	a.Status = StatusCompleted
	a.UpdatedAt = time.Now().UTC()
}
