package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

// Owned is a payment together with the client that owns its turno.
type Owned struct {
	Payment  models.Payment
	ClientID uint
	Email    string
}

// Settlement describes how a pending payment was paid.
type Settlement struct {
	Method      string
	Amount      decimal.Decimal
	PaidAt      time.Time
	ExternalRef string
}

type Repository interface {
	WithTx(ctx context.Context, fn func(Repository) error) error

	GetOwned(ctx context.Context, paymentID uint) (*Owned, error)
	ListPendingIDs(ctx context.Context, clientID uint) ([]uint, error)
	ListPending(ctx context.Context, clientID uint) ([]dto.PendingPayment, error)

	// MarkPaid settles a payment only while it is still pending and reports
	// whether it did.
	MarkPaid(ctx context.Context, paymentID uint, s Settlement) (bool, error)

	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	ListInvoices(ctx context.Context, clientID uint) ([]models.Invoice, error)
	GetInvoiceDetail(ctx context.Context, invoiceID uint) (*dto.InvoiceDetail, error)

	ListPaidBetween(ctx context.Context, from, to time.Time) ([]dto.DailyPayment, error)
}

// ChargeRequest is what the card gateway needs to capture an amount.
type ChargeRequest struct {
	Amount    decimal.Decimal
	Method    string
	CardToken string
	// PaymentMethodID is the processor's card brand id (visa, debvisa...).
	PaymentMethodID string
	PayerEmail      string
	Description     string
}

// Charger captures card payments with an external processor. Refund
// returns a captured amount in full, given the reference Charge returned.
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (string, error)
	Refund(ctx context.Context, ref string) error
}
