package payment

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

type ListPending struct {
	repo domain.Repository
}

func NewListPending(repo domain.Repository) *ListPending {
	return &ListPending{repo: repo}
}

func (uc *ListPending) Execute(ctx context.Context, clientID uint) ([]dto.PendingPayment, error) {
	if clientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}
	return uc.repo.ListPending(ctx, clientID)
}

type ListInvoices struct {
	repo domain.Repository
}

func NewListInvoices(repo domain.Repository) *ListInvoices {
	return &ListInvoices{repo: repo}
}

func (uc *ListInvoices) Execute(ctx context.Context, clientID uint) ([]models.Invoice, error) {
	if clientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}
	return uc.repo.ListInvoices(ctx, clientID)
}

type DailyPayments struct {
	Payments []dto.DailyPayment `json:"pagos"`
	Total    decimal.Decimal    `json:"total_ingresos"`
}

// ListPaidToday lists payments finalized during the current local day.
type ListPaidToday struct {
	repo domain.Repository
	now  timezone.Clock
}

func NewListPaidToday(repo domain.Repository, now timezone.Clock) *ListPaidToday {
	return &ListPaidToday{repo: repo, now: now}
}

func (uc *ListPaidToday) Execute(ctx context.Context) (*DailyPayments, error) {
	start := timezone.StartOfDay(uc.now())
	end := start.AddDate(0, 0, 1)

	rows, err := uc.repo.ListPaidBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}

	return &DailyPayments{Payments: rows, Total: total}, nil
}
