package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/httpresp"
	"github.com/spa-sentirse-bien/spa-server/internal/identity"
	ucAppointment "github.com/spa-sentirse-bien/spa-server/internal/usecase/appointment"
	ucPayment "github.com/spa-sentirse-bien/spa-server/internal/usecase/payment"
)

// EmployeePanelHandler serves the front desk view of the day's income.
type EmployeePanelHandler struct {
	paidToday *ucPayment.ListPaidToday
}

func NewEmployeePanelHandler(paidToday *ucPayment.ListPaidToday) *EmployeePanelHandler {
	return &EmployeePanelHandler{paidToday: paidToday}
}

func (h *EmployeePanelHandler) PaymentsOfDay(c *gin.Context) {
	out, err := h.paidToday.Execute(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al obtener los pagos del día.")
		return
	}

	httpresp.OK(c, out)
}

// ProfessionalPanelHandler lists the caller's own agenda.
type ProfessionalPanelHandler struct {
	agenda *ucAppointment.ListAgendaByDate
}

func NewProfessionalPanelHandler(agenda *ucAppointment.ListAgendaByDate) *ProfessionalPanelHandler {
	return &ProfessionalPanelHandler{agenda: agenda}
}

func (h *ProfessionalPanelHandler) Appointments(c *gin.Context) {
	id, _ := identity.From(c)

	items, err := h.agenda.Execute(c.Request.Context(), id.Email, c.Query("fecha"))
	if err != nil {
		respondError(c, err, "Error al obtener los turnos.")
		return
	}

	httpresp.OK(c, items)
}
