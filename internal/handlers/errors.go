package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
)

type businessMessage struct {
	status  int
	message string
}

var businessMessages = map[string]businessMessage{
	"missing_fields":         {http.StatusBadRequest, "Faltan campos requeridos."},
	"invalid_date":           {http.StatusBadRequest, "Formato de fecha inválido. Use YYYY-MM-DD."},
	"invalid_time":           {http.StatusBadRequest, "Formato de hora inválido. Use HH:MM."},
	"too_soon":               {http.StatusBadRequest, "Las reservas deben realizarse con al menos 72 horas de anticipación."},
	"slot_taken":             {http.StatusBadRequest, "La hora seleccionada ya está reservada."},
	"service_not_found":      {http.StatusBadRequest, "Servicio no encontrado."},
	"no_professionals":       {http.StatusBadRequest, "No hay profesionales disponibles."},
	"nothing_to_update":      {http.StatusBadRequest, "No se indicó fecha ni hora para modificar."},
	"already_paid":           {http.StatusBadRequest, "El turno ya fue pagado y no puede modificarse."},
	"invalid_card_type":      {http.StatusBadRequest, "Tipo de tarjeta inválido. Use credito o debito."},
	"charge_declined":        {http.StatusBadRequest, "El pago con tarjeta fue rechazado."},
	"no_pending_payments":    {http.StatusBadRequest, "No hay pagos pendientes."},
	"invalid_email_domain":   {http.StatusBadRequest, "El dominio del email no parece ser válido."},
	"account_exists":         {http.StatusBadRequest, "El email o nombre de usuario ya están en uso."},
	"invalid_date_range":     {http.StatusBadRequest, "Formato de fecha incorrecto. Debe ser DD/MM/AAAA."},
	"invalid_credentials":    {http.StatusUnauthorized, "Credenciales inválidas."},
	"no_client_profile":      {http.StatusForbidden, "Usuario no asociado a un cliente."},
	"appointment_not_found":  {http.StatusNotFound, "Turno no encontrado o no pertenece al usuario."},
	"payment_not_found":      {http.StatusNotFound, "Pago no encontrado."},
	"invoice_not_found":      {http.StatusNotFound, "Factura no encontrada."},
	"professional_not_found": {http.StatusNotFound, "Profesional no encontrado."},
	"employee_not_found":     {http.StatusNotFound, "Empleado no encontrado."},
	"profile_not_found":      {http.StatusNotFound, "Perfil no encontrado."},
}

// respondError writes business errors with their status and message.
// Anything else is attached to the context for logging and answered with
// a generic 500 carrying fallback.
func respondError(c *gin.Context, err error, fallback string) {
	if code, ok := httperr.AsBusiness(err); ok {
		if m, known := businessMessages[code]; known {
			httperr.Write(c, m.status, code, m.message)
			return
		}
		httperr.BadRequest(c, code, fallback)
		return
	}

	_ = c.Error(err)
	httperr.Internal(c, "internal_error", fallback)
}

// bindCode maps a binding failure to the business code of the first
// failing rule.
func bindCode(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid_request"
	}

	switch verrs[0].Tag() {
	case "required":
		return "missing_fields"
	case "fecha":
		return "invalid_date"
	case "hora":
		return "invalid_time"
	case "fecha_dmy":
		return "invalid_date_range"
	default:
		return "invalid_request"
	}
}

// bindFailed answers a request whose body did not bind.
func bindFailed(c *gin.Context, err error) {
	code := bindCode(err)
	if m, ok := businessMessages[code]; ok {
		httperr.Write(c, m.status, code, m.message)
		return
	}
	invalidRequest(c)
}

func invalidRequest(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
}
