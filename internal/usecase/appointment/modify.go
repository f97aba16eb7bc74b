package appointment

import (
	"context"
	"time"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

type ModifyBookingInput struct {
	UserID        uint
	ClientID      uint
	AppointmentID uint

	// Empty fields keep their current value.
	Date string
	Time string
}

type ModifyBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
	now   timezone.Clock
}

func NewModifyBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
	now timezone.Clock,
) *ModifyBooking {
	return &ModifyBooking{
		repo:  repo,
		audit: audit,
		loc:   loc,
		now:   now,
	}
}

func (uc *ModifyBooking) Execute(
	ctx context.Context,
	in ModifyBookingInput,
) (*models.Appointment, error) {

	if in.ClientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}
	if in.Date == "" && in.Time == "" {
		return nil, httperr.ErrBusiness("nothing_to_update")
	}

	var (
		ap   *models.Appointment
		from string
	)

	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetOwnedAppointment(ctx, in.AppointmentID, in.ClientID)
		if err != nil {
			return err
		}
		from = ap.Date + " " + ap.Time

		method := ""
		if pay, err := tx.GetPaymentByAppointment(ctx, ap.ID); err != nil {
			return err
		} else if pay != nil {
			method = pay.Method
		}

		if err := domain.CanModify(domain.Status(ap.Status), method); err != nil {
			return err
		}

		date, hour := ap.Date, ap.Time
		if in.Date != "" {
			date = in.Date
		}
		if in.Time != "" {
			hour = in.Time
		}

		slot, err := domain.ParseSlot(date, hour, uc.loc)
		if err != nil {
			return err
		}
		if err := domain.CheckLeadTime(slot.Starts, uc.now()); err != nil {
			return err
		}

		taken, err := tx.IsSlotTaken(ctx, slot.Date, slot.Hour, ap.ID)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("slot_taken")
		}

		if err := domain.Reschedule(ap, method, slot); err != nil {
			return err
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   audit.ActionBookingModified,
		Entity:   "turno",
		EntityID: &ap.ID,
		Metadata: map[string]string{
			"desde": from,
			"hasta": ap.Date + " " + ap.Time,
		},
	})

	return ap, nil
}
