package dto

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentResponse represents the API response for an appointment
type AppointmentResponse struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	InsuredID     string    `json:"insuredId"`
	ScheduleID    int64     `json:"scheduleId"`
	CountryISO    string    `json:"countryISO"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ListAppointmentsResponse wraps the list endpoint payload
type ListAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}
