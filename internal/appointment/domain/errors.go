package domain

import (
	"github.com/andeanhealth/appointments/internal/errors"
)

// Domain-specific errors for appointment operations.
var (
	// ErrAppointmentNotFound indicates the requested appointment does not exist.
	ErrAppointmentNotFound = errors.Wrap(errors.ErrNotFound, "appointment not found")
)
