package appointment

import "github.com/spa-sentirse-bien/spa-server/internal/httperr"

type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusCancelled Status = "Cancelado"
	StatusRealized  Status = "Realizado"
)

// PaymentPending is the payment method a turno carries until it is paid.
const PaymentPending = "Pendiente"

// CanCancel allows cancelling only a pending turno whose payment has not
// been finalized; cancelling a paid turno would orphan its invoice.
func CanCancel(current Status, paymentMethod string) error {
	if current != StatusPending {
		return httperr.ErrBusiness("appointment_not_found")
	}
	if paymentMethod != "" && paymentMethod != PaymentPending {
		return httperr.ErrBusiness("already_paid")
	}
	return nil
}

// CanModify allows rescheduling only while the payment is still pending.
func CanModify(current Status, paymentMethod string) error {
	if current != StatusPending {
		return httperr.ErrBusiness("appointment_not_found")
	}
	if paymentMethod != PaymentPending {
		return httperr.ErrBusiness("already_paid")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
