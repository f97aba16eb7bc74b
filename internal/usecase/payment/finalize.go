package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/metrics"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

type FinalizeInput struct {
	UserID   uint
	ClientID uint
	// Staff callers may settle any client's payment.
	Staff bool

	PaymentID     uint
	CardType      string
	ApplyDiscount bool
	CardToken     string
	CardBrand     string
}

type FinalizeOutput struct {
	Invoice *models.Invoice
	Amount  decimal.Decimal
	Method  string
}

type FinalizePayment struct {
	repo    domain.Repository
	charger domain.Charger
	audit   *audit.Dispatcher
	now     timezone.Clock
	log     *zap.Logger
}

// NewFinalizePayment builds the use case; charger may be nil, in which case
// payments are recorded without contacting a card processor.
func NewFinalizePayment(
	repo domain.Repository,
	charger domain.Charger,
	audit *audit.Dispatcher,
	now timezone.Clock,
	log *zap.Logger,
) *FinalizePayment {
	return &FinalizePayment{
		repo:    repo,
		charger: charger,
		audit:   audit,
		now:     now,
		log:     log,
	}
}

func (uc *FinalizePayment) Execute(
	ctx context.Context,
	in FinalizeInput,
) (*FinalizeOutput, error) {

	method, err := domain.ParseCardType(in.CardType)
	if err != nil {
		return nil, err
	}
	if !in.Staff && in.ClientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}

	// The card is charged outside the transaction; a charge whose
	// settlement does not commit is refunded.
	var ref string
	if in.CardToken != "" && uc.charger != nil {
		ref, err = uc.charge(ctx, in, method)
		if err != nil {
			return nil, err
		}
	}

	var out *FinalizeOutput
	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		owned, err := uc.owned(ctx, tx, in)
		if err != nil {
			return err
		}

		out, err = uc.settle(ctx, tx, owned, method, in.ApplyDiscount, ref)
		return err
	})
	if err != nil {
		if ref != "" {
			uc.refund(ctx, ref, in.PaymentID)
		}
		return nil, err
	}

	uc.record(in.UserID, out)
	return out, nil
}

// owned loads the payment and checks that the caller may settle it.
func (uc *FinalizePayment) owned(
	ctx context.Context,
	repo domain.Repository,
	in FinalizeInput,
) (*domain.Owned, error) {

	owned, err := repo.GetOwned(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if !in.Staff && owned.ClientID != in.ClientID {
		return nil, httperr.ErrBusiness("payment_not_found")
	}
	return owned, nil
}

func (uc *FinalizePayment) charge(
	ctx context.Context,
	in FinalizeInput,
	method string,
) (string, error) {

	owned, err := uc.owned(ctx, uc.repo, in)
	if err != nil {
		return "", err
	}
	if domain.IsFinalized(owned.Payment.Method) {
		return "", httperr.ErrBusiness("already_paid")
	}

	ref, err := uc.charger.Charge(ctx, domain.ChargeRequest{
		Amount:          domain.ApplyDiscount(owned.Payment.Amount, in.ApplyDiscount),
		Method:          method,
		CardToken:       in.CardToken,
		PaymentMethodID: in.CardBrand,
		PayerEmail:      owned.Email,
		Description:     fmt.Sprintf("Turno %d", owned.Payment.AppointmentID),
	})
	if err != nil {
		uc.log.Warn("card charge failed",
			zap.Uint("id_pago", owned.Payment.ID),
			zap.Error(err),
		)
		return "", httperr.ErrBusiness("charge_declined")
	}
	return ref, nil
}

// refund returns a charge whose settlement was rolled back. It runs even
// when the request context is already cancelled.
func (uc *FinalizePayment) refund(ctx context.Context, ref string, paymentID uint) {
	if err := uc.charger.Refund(context.WithoutCancel(ctx), ref); err != nil {
		uc.log.Error("card refund failed, charge left standing",
			zap.Uint("id_pago", paymentID),
			zap.String("referencia_externa", ref),
			zap.Error(err),
		)
		metrics.RefundsFailed.Inc()
		return
	}
	uc.log.Warn("card charge refunded after failed settlement",
		zap.Uint("id_pago", paymentID),
		zap.String("referencia_externa", ref),
	)
}

// settle finalizes one locked payment and issues its invoice. ref is the
// processor reference of a charge already captured, if any.
func (uc *FinalizePayment) settle(
	ctx context.Context,
	tx domain.Repository,
	owned *domain.Owned,
	method string,
	discount bool,
	ref string,
) (*FinalizeOutput, error) {

	if domain.IsFinalized(owned.Payment.Method) {
		return nil, httperr.ErrBusiness("already_paid")
	}

	amount := domain.ApplyDiscount(owned.Payment.Amount, discount)
	now := uc.now()

	ok, err := tx.MarkPaid(ctx, owned.Payment.ID, domain.Settlement{
		Method:      method,
		Amount:      amount,
		PaidAt:      now,
		ExternalRef: ref,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("already_paid")
	}

	inv := &models.Invoice{
		Number:    uuid.NewString(),
		IssuedAt:  now.UTC(),
		ClientID:  owned.ClientID,
		PaymentID: owned.Payment.ID,
		Total:     amount,
	}
	if err := tx.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return &FinalizeOutput{
		Invoice: inv,
		Amount:  amount,
		Method:  method,
	}, nil
}

func (uc *FinalizePayment) record(userID uint, out *FinalizeOutput) {
	metrics.PaymentsFinalized.WithLabelValues(out.Method).Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionPaymentFinalized,
		Entity:   "pago",
		EntityID: &out.Invoice.PaymentID,
		Metadata: map[string]any{
			"id_factura":  out.Invoice.ID,
			"metodo_pago": out.Method,
			"monto":       out.Amount.StringFixed(2),
		},
	})
}
