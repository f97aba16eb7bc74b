// Package gateway talks to the card processor.
package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
)

const statusApproved = "approved"

// paymentCreator is the slice of the Mercado Pago client the gateway uses.
type paymentCreator interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

type refundCreator interface {
	Create(ctx context.Context, paymentID int) (*refund.Response, error)
}

type MercadoPago struct {
	client  paymentCreator
	refunds refundCreator
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		client:  payment.NewClient(cfg),
		refunds: refund.NewClient(cfg),
	}, nil
}

// Charge captures req.Amount on the tokenized card and returns the
// processor's payment id.
func (g *MercadoPago) Charge(ctx context.Context, req domain.ChargeRequest) (string, error) {
	amount, _ := req.Amount.Round(2).Float64()

	resp, err := g.client.Create(ctx, payment.Request{
		TransactionAmount: amount,
		Token:             req.CardToken,
		PaymentMethodID:   req.PaymentMethodID,
		Installments:      1,
		Description:       req.Description,
		Payer: &payment.PayerRequest{
			Email: req.PayerEmail,
		},
	})
	if err != nil {
		return "", fmt.Errorf("mercadopago create payment: %w", err)
	}

	if !strings.EqualFold(resp.Status, statusApproved) {
		return "", fmt.Errorf("mercadopago payment %v not approved: %s (%s)", resp.ID, resp.Status, resp.StatusDetail)
	}

	return fmt.Sprint(resp.ID), nil
}

// Refund returns the whole amount of the processor payment ref.
func (g *MercadoPago) Refund(ctx context.Context, ref string) error {
	id, err := strconv.Atoi(ref)
	if err != nil {
		return fmt.Errorf("mercadopago refund: bad payment id %q", ref)
	}

	if _, err := g.refunds.Create(ctx, id); err != nil {
		return fmt.Errorf("mercadopago refund payment %d: %w", id, err)
	}
	return nil
}

var _ domain.Charger = (*MercadoPago)(nil)
