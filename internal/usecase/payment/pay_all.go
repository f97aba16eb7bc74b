package payment

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

type PayAllInput struct {
	UserID        uint
	ClientID      uint
	CardType      string
	ApplyDiscount bool
}

type PayAllOutput struct {
	Invoices []models.Invoice
	Total    decimal.Decimal
}

// PayAll settles every pending payment of a client in one transaction,
// one invoice per payment.
type PayAll struct {
	finalize *FinalizePayment
}

func NewPayAll(finalize *FinalizePayment) *PayAll {
	return &PayAll{finalize: finalize}
}

func (uc *PayAll) Execute(ctx context.Context, in PayAllInput) (*PayAllOutput, error) {
	method, err := domain.ParseCardType(in.CardType)
	if err != nil {
		return nil, err
	}
	if in.ClientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}

	var settled []*FinalizeOutput
	err = uc.finalize.repo.WithTx(ctx, func(tx domain.Repository) error {
		ids, err := tx.ListPendingIDs(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return httperr.ErrBusiness("no_pending_payments")
		}

		for _, id := range ids {
			owned, err := tx.GetOwned(ctx, id)
			if err != nil {
				return err
			}
			res, err := uc.finalize.settle(ctx, tx, owned, method, in.ApplyDiscount, "")
			if err != nil {
				return err
			}
			settled = append(settled, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &PayAllOutput{
		Invoices: make([]models.Invoice, 0, len(settled)),
		Total:    decimal.Zero,
	}
	for _, res := range settled {
		uc.finalize.record(in.UserID, res)
		out.Invoices = append(out.Invoices, *res.Invoice)
		out.Total = out.Total.Add(res.Amount)
	}

	return out, nil
}
