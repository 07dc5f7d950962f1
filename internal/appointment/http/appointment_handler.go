// Package http provides HTTP handlers for appointment operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/andeanhealth/appointments/internal/appointment/http/dto"
	"github.com/andeanhealth/appointments/internal/appointment/usecase"
	"github.com/andeanhealth/appointments/internal/httputil"
)

// AppointmentHandler handles HTTP requests for appointment operations.
type AppointmentHandler struct {
	appointmentUseCase usecase.UseCase
	logger             *slog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointmentUseCase usecase.UseCase, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUseCase: appointmentUseCase,
		logger:             logger,
	}
}

// CreateHandler accepts an appointment request for asynchronous processing.
// POST /appointments - Returns 202 Accepted with the persisted entity: the
// appointment is saved and the pipeline triggered, but country processing
// completes later.
func (h *AppointmentHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateAppointmentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	appointment, err := h.appointmentUseCase.Create(c.Request.Context(), dto.ToCreateAppointmentInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.ToAppointmentResponse(appointment))
}

// ListHandler returns every appointment for an insured party.
// GET /appointments/:insuredId - Returns 200 OK with an empty list when the
// insured party has no records.
func (h *AppointmentHandler) ListHandler(c *gin.Context) {
	req := dto.ListAppointmentsRequest{InsuredID: c.Param("insuredId")}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	appointments, err := h.appointmentUseCase.List(c.Request.Context(), req.InsuredID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAppointmentsResponse(appointments))
}

// GetHandler returns a single appointment.
// GET /appointments/:insuredId/:appointmentId - Returns 200 OK or 404.
func (h *AppointmentHandler) GetHandler(c *gin.Context) {
	req := dto.GetAppointmentRequest{
		InsuredID:     c.Param("insuredId"),
		AppointmentID: c.Param("appointmentId"),
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Already validated as a UUID.
	appointmentID := uuid.MustParse(req.AppointmentID)

	appointment, err := h.appointmentUseCase.Get(c.Request.Context(), req.InsuredID, appointmentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToAppointmentResponse(appointment))
}
