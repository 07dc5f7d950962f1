package dto

import (
	"github.com/andeanhealth/appointments/internal/appointment/domain"
	"github.com/andeanhealth/appointments/internal/appointment/usecase"
)

// ToCreateAppointmentInput converts a CreateAppointmentRequest to a use case input
func ToCreateAppointmentInput(req CreateAppointmentRequest) usecase.CreateAppointmentInput {
	return usecase.CreateAppointmentInput{
		InsuredID:  req.InsuredID,
		ScheduleID: req.ScheduleID,
		CountryISO: req.CountryISO,
	}
}

// ToAppointmentResponse converts a domain Appointment to its API representation
func ToAppointmentResponse(appointment *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		AppointmentID: appointment.AppointmentID,
		InsuredID:     appointment.InsuredID,
		ScheduleID:    appointment.ScheduleID,
		CountryISO:    string(appointment.CountryISO),
		Status:        string(appointment.Status),
		CreatedAt:     appointment.CreatedAt,
		UpdatedAt:     appointment.UpdatedAt,
	}
}

// ToListAppointmentsResponse converts a slice of appointments to the list payload
func ToListAppointmentsResponse(appointments []*domain.Appointment) ListAppointmentsResponse {
	responses := make([]AppointmentResponse, 0, len(appointments))
	for _, appointment := range appointments {
		responses = append(responses, ToAppointmentResponse(appointment))
	}
	return ListAppointmentsResponse{Appointments: responses}
}
