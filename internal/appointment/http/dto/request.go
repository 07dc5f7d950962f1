// Package dto provides data transfer objects for the appointment HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/andeanhealth/appointments/internal/appointment/domain"
	appValidation "github.com/andeanhealth/appointments/internal/validation"
)

// CreateAppointmentRequest represents the API request for appointment creation
type CreateAppointmentRequest struct {
	InsuredID  string `json:"insuredId"`
	ScheduleID int64  `json:"scheduleId"`
	CountryISO string `json:"countryISO"`
}

// Validate reports every violated field so the client can fix the whole
// request in one round trip.
func (r *CreateAppointmentRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.InsuredID,
			validation.Required.Error("insured id is required"),
			appValidation.InsuredID,
		),
		validation.Field(&r.ScheduleID,
			validation.Required.Error("schedule id is required"),
			validation.Min(1).Error("must be a positive integer"),
		),
		validation.Field(&r.CountryISO,
			validation.Required.Error("country is required"),
			validation.In(string(domain.CountryPE), string(domain.CountryCL)).Error("must be PE or CL"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ListAppointmentsRequest represents the path parameters of the list endpoint
type ListAppointmentsRequest struct {
	InsuredID string `json:"insuredId"`
}

// Validate checks the insured id path parameter.
func (r *ListAppointmentsRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.InsuredID,
			validation.Required.Error("insured id is required"),
			appValidation.InsuredID,
		),
	)
	return appValidation.WrapValidationError(err)
}

// GetAppointmentRequest represents the path parameters of the point lookup endpoint
type GetAppointmentRequest struct {
	InsuredID     string `json:"insuredId"`
	AppointmentID string `json:"appointmentId"`
}

// Validate checks both path parameters.
func (r *GetAppointmentRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.InsuredID,
			validation.Required.Error("insured id is required"),
			appValidation.InsuredID,
		),
		validation.Field(&r.AppointmentID,
			validation.Required.Error("appointment id is required"),
			appValidation.UUID,
		),
	)
	return appValidation.WrapValidationError(err)
}
