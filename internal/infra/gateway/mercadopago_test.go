package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
)

type fakeCreator struct {
	got  payment.Request
	resp *payment.Response
	err  error
}

func (f *fakeCreator) Create(_ context.Context, req payment.Request) (*payment.Response, error) {
	f.got = req
	return f.resp, f.err
}

func TestChargeApproved(t *testing.T) {
	fake := &fakeCreator{resp: &payment.Response{ID: 123, Status: "approved"}}
	g := &MercadoPago{client: fake}

	ref, err := g.Charge(context.Background(), domain.ChargeRequest{
		Amount:          decimal.RequireFromString("45.00"),
		CardToken:       "tok",
		PaymentMethodID: "visa",
		PayerEmail:      "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "123", ref)
	assert.Equal(t, 45.0, fake.got.TransactionAmount)
	assert.Equal(t, 1, fake.got.Installments)
	require.NotNil(t, fake.got.Payer)
	assert.Equal(t, "ana@example.com", fake.got.Payer.Email)
}

func TestChargeRejected(t *testing.T) {
	g := &MercadoPago{client: &fakeCreator{resp: &payment.Response{ID: 9, Status: "rejected", StatusDetail: "cc_rejected_insufficient_amount"}}}
	_, err := g.Charge(context.Background(), domain.ChargeRequest{Amount: decimal.NewFromInt(10)})
	assert.Error(t, err)

	g = &MercadoPago{client: &fakeCreator{err: errors.New("timeout")}}
	_, err = g.Charge(context.Background(), domain.ChargeRequest{Amount: decimal.NewFromInt(10)})
	assert.Error(t, err)
}

type fakeRefunds struct {
	ids []int
	err error
}

func (f *fakeRefunds) Create(_ context.Context, paymentID int) (*refund.Response, error) {
	f.ids = append(f.ids, paymentID)
	if f.err != nil {
		return nil, f.err
	}
	return &refund.Response{ID: 1, PaymentID: paymentID, Status: "approved"}, nil
}

func TestRefund(t *testing.T) {
	refunds := &fakeRefunds{}
	g := &MercadoPago{refunds: refunds}

	require.NoError(t, g.Refund(context.Background(), "123"))
	assert.Equal(t, []int{123}, refunds.ids)

	assert.Error(t, g.Refund(context.Background(), "not-a-number"))
	assert.Len(t, refunds.ids, 1)

	g = &MercadoPago{refunds: &fakeRefunds{err: errors.New("timeout")}}
	assert.Error(t, g.Refund(context.Background(), "123"))
}
