package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/httpresp"
	"github.com/spa-sentirse-bien/spa-server/internal/identity"
	ucAppointment "github.com/spa-sentirse-bien/spa-server/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	bookedHours *ucAppointment.ListBookedHours
	create      *ucAppointment.CreateBooking
	cancel      *ucAppointment.CancelBooking
	modify      *ucAppointment.ModifyBooking
	history     *ucAppointment.GetHistory
}

func NewAppointmentHandler(
	bookedHours *ucAppointment.ListBookedHours,
	create *ucAppointment.CreateBooking,
	cancel *ucAppointment.CancelBooking,
	modify *ucAppointment.ModifyBooking,
	history *ucAppointment.GetHistory,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookedHours: bookedHours,
		create:      create,
		cancel:      cancel,
		modify:      modify,
		history:     history,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Date      string `json:"fecha" binding:"required,fecha"`
	Time      string `json:"hora" binding:"required,hora"`
	ServiceID uint   `json:"id_servicio" binding:"required"`
}

type ModifyAppointmentRequest struct {
	Date string `json:"fecha" binding:"omitempty,fecha"`
	Time string `json:"hora" binding:"omitempty,hora"`
}

// Every handler here runs behind RequireClient.
func clientOf(c *gin.Context) (identity.Identity, uint) {
	id, _ := identity.From(c)
	return id, *id.ClientID
}

func appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.NotFound(c, "appointment_not_found", "Turno no encontrado o no pertenece al usuario.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// BOOKED HOURS
// ======================================================

func (h *AppointmentHandler) BookedHours(c *gin.Context) {
	hours, err := h.bookedHours.Execute(c.Request.Context(), c.Param("fecha"))
	if err != nil {
		respondError(c, err, "Error al obtener las horas reservadas.")
		return
	}

	httpresp.OK(c, gin.H{"horas_reservadas": hours})
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	id, clientID := clientOf(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	_, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		UserID:    id.UserID,
		ClientID:  clientID,
		Date:      req.Date,
		Time:      req.Time,
		ServiceID: req.ServiceID,
	})
	if err != nil {
		respondError(c, err, "Error al crear la reserva.")
		return
	}

	httpresp.Created(c, gin.H{"mensaje": "Reserva creada exitosamente."})
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, clientID := clientOf(c)

	apID, ok := appointmentID(c)
	if !ok {
		return
	}

	if _, err := h.cancel.Execute(c.Request.Context(), id.UserID, clientID, apID); err != nil {
		respondError(c, err, "Error al cancelar la reserva.")
		return
	}

	httpresp.Message(c, http.StatusOK, "Reserva cancelada exitosamente.")
}

// ======================================================
// MODIFY
// ======================================================

func (h *AppointmentHandler) Modify(c *gin.Context) {
	id, clientID := clientOf(c)

	apID, ok := appointmentID(c)
	if !ok {
		return
	}

	// An empty body reaches the use case and fails as nothing_to_update.
	var req ModifyAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindFailed(c, err)
		return
	}

	_, err := h.modify.Execute(c.Request.Context(), ucAppointment.ModifyBookingInput{
		UserID:        id.UserID,
		ClientID:      clientID,
		AppointmentID: apID,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		respondError(c, err, "Error al modificar la reserva.")
		return
	}

	httpresp.Message(c, http.StatusOK, "Reserva modificada exitosamente.")
}

// ======================================================
// HISTORY
// ======================================================

func (h *AppointmentHandler) History(c *gin.Context) {
	_, clientID := clientOf(c)

	items, err := h.history.Execute(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "Error al obtener el historial.")
		return
	}

	httpresp.OK(c, gin.H{"historial": items})
}
