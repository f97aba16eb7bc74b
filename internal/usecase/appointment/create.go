package appointment

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/metrics"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

type CreateBookingInput struct {
	UserID   uint
	ClientID uint

	Date      string
	Time      string
	ServiceID uint
}

type CreateBookingOutput struct {
	Appointment *models.Appointment
	Payment     *models.Payment
}

type CreateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
	now   timezone.Clock
	log   *zap.Logger

	// pick chooses an index in [0, n).
	pick func(n int) int
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
	now timezone.Clock,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
		loc:   loc,
		now:   now,
		log:   log,
		pick:  rand.IntN,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingOutput, error) {

	out, err := uc.execute(ctx, in)

	switch _, business := httperr.AsBusiness(err); {
	case err == nil:
		metrics.BookingsTotal.WithLabelValues("created").Inc()
	case business:
		metrics.BookingsTotal.WithLabelValues("rejected").Inc()
	default:
		metrics.BookingsTotal.WithLabelValues("error").Inc()
	}

	return out, err
}

func (uc *CreateBooking) execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingOutput, error) {

	if in.ClientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}
	if in.Date == "" || in.Time == "" || in.ServiceID == 0 {
		return nil, httperr.ErrBusiness("missing_fields")
	}

	slot, err := domain.ParseSlot(in.Date, in.Time, uc.loc)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckLeadTime(slot.Starts, uc.now()); err != nil {
		return nil, err
	}

	taken, err := uc.repo.IsSlotTaken(ctx, slot.Date, slot.Hour, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.ErrBusiness("slot_taken")
	}

	// Any professional may take any service; specialty is not matched.
	professionals, err := uc.repo.ListProfessionalIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(professionals) == 0 {
		return nil, httperr.ErrBusiness("no_professionals")
	}
	professionalID := professionals[uc.pick(len(professionals))]

	clientID := in.ClientID
	out := &CreateBookingOutput{}

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		svc, err := tx.GetService(ctx, in.ServiceID)
		if err != nil {
			return err
		}

		ap := &models.Appointment{
			Date:           slot.Date,
			Time:           slot.Hour,
			StartsAt:       slot.Starts.UTC(),
			ClientID:       &clientID,
			ProfessionalID: &professionalID,
			Status:         string(domain.InitialStatus()),
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := tx.CreateAppointmentService(ctx, &models.AppointmentService{
			AppointmentID: ap.ID,
			ServiceID:     svc.ID,
		}); err != nil {
			return err
		}

		pay := &models.Payment{
			AppointmentID: ap.ID,
			Amount:        svc.Price,
			Method:        domain.PaymentPending,
		}
		if err := tx.CreatePayment(ctx, pay); err != nil {
			return err
		}

		out.Appointment = ap
		out.Payment = pay
		return nil
	})
	if err != nil {
		if _, ok := httperr.AsBusiness(err); !ok {
			uc.log.Error("create booking failed", zap.Uint("id_cliente", in.ClientID), zap.Error(err))
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   audit.ActionBookingCreated,
		Entity:   "turno",
		EntityID: &out.Appointment.ID,
		Metadata: map[string]any{
			"fecha":          slot.Date,
			"hora":           slot.Hour,
			"id_servicio":    in.ServiceID,
			"id_profesional": professionalID,
		},
	})

	return out, nil
}
