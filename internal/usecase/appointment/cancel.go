package appointment

import (
	"context"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/metrics"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

type CancelBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: audit,
	}
}

// Execute cancels a pending turno of the client. The service link and the
// payment row are removed; the turno itself stays as Cancelado.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	userID uint,
	clientID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	if clientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}

	var ap *models.Appointment

	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetOwnedAppointment(ctx, appointmentID, clientID)
		if err != nil {
			return err
		}

		pay, err := tx.GetPaymentByAppointment(ctx, ap.ID)
		if err != nil {
			return err
		}

		method := ""
		if pay != nil {
			method = pay.Method
		}

		if err := domain.Cancel(ap, method); err != nil {
			return err
		}

		if err := tx.DeleteServiceLinks(ctx, ap.ID); err != nil {
			return err
		}
		if err := tx.DeletePayments(ctx, ap.ID); err != nil {
			return err
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	metrics.CancellationsTotal.Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionBookingCancelled,
		Entity:   "turno",
		EntityID: &ap.ID,
	})

	return ap, nil
}
