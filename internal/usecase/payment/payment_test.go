package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/infra/repository"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/testutil"
)

var testNow = time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	repo    *repository.PaymentGormRepository
	client  *models.Client
	service *models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:      db,
		repo:    repository.NewPaymentGormRepository(db),
		client:  testutil.CreateClient(t, db, "ana"),
		service: testutil.CreateService(t, db, "Piedras calientes", "50.00"),
	}
}

func (f *fixture) book(t *testing.T, clientID uint, at time.Time) models.Payment {
	t.Helper()
	ap := testutil.CreateBooking(t, f.db, clientID, f.service.ID, at, domain.MethodPending, "50.00")
	var p models.Payment
	require.NoError(t, f.db.Where("id_turno = ?", ap.ID).First(&p).Error)
	return p
}

func (f *fixture) finalizeUC(charger domain.Charger) *FinalizePayment {
	return NewFinalizePayment(f.repo, charger, nil, testutil.FixedClock(testNow), zap.NewNop())
}

func countInvoices(t *testing.T, db *gorm.DB, paymentID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Invoice{}).Where("id_pago = ?", paymentID).Count(&n).Error)
	return n
}

func TestFinalizeCreditWithDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))

	out, err := f.finalizeUC(nil).Execute(ctx, FinalizeInput{
		UserID:        1,
		ClientID:      f.client.ID,
		PaymentID:     p.ID,
		CardType:      "credito",
		ApplyDiscount: true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MethodCredit, out.Method)
	assert.True(t, out.Amount.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, out.Invoice.Total.Equal(decimal.RequireFromString("45.00")))
	assert.Equal(t, f.client.ID, out.Invoice.ClientID)
	assert.NotEmpty(t, out.Invoice.Number)

	var stored models.Payment
	require.NoError(t, f.db.First(&stored, p.ID).Error)
	assert.Equal(t, "Tarjeta de Crédito", stored.Method)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("45.00")))
	require.NotNil(t, stored.PaidAt)
	assert.True(t, stored.PaidAt.Equal(testNow))

	assert.Equal(t, int64(1), countInvoices(t, f.db, p.ID))
}

func TestFinalizeTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))
	uc := f.finalizeUC(nil)

	in := FinalizeInput{ClientID: f.client.ID, PaymentID: p.ID, CardType: "debito"}
	_, err := uc.Execute(ctx, in)
	require.NoError(t, err)

	_, err = uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "already_paid"))
	assert.Equal(t, int64(1), countInvoices(t, f.db, p.ID))

	var stored models.Payment
	require.NoError(t, f.db.First(&stored, p.ID).Error)
	assert.Equal(t, domain.MethodDebit, stored.Method)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("50.00")))
}

func TestFinalizeChecksOwnershipAndInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.CreateClient(t, f.db, "bea")
	p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))
	uc := f.finalizeUC(nil)

	_, err := uc.Execute(ctx, FinalizeInput{ClientID: f.client.ID, PaymentID: p.ID, CardType: "efectivo"})
	assert.True(t, httperr.IsBusiness(err, "invalid_card_type"))

	_, err = uc.Execute(ctx, FinalizeInput{ClientID: other.ID, PaymentID: p.ID, CardType: "credito"})
	assert.True(t, httperr.IsBusiness(err, "payment_not_found"))

	_, err = uc.Execute(ctx, FinalizeInput{ClientID: f.client.ID, PaymentID: 999, CardType: "credito"})
	assert.True(t, httperr.IsBusiness(err, "payment_not_found"))

	assert.Zero(t, countInvoices(t, f.db, p.ID))

	// Staff may settle on behalf of the client.
	out, err := uc.Execute(ctx, FinalizeInput{Staff: true, PaymentID: p.ID, CardType: "credito"})
	require.NoError(t, err)
	assert.Equal(t, f.client.ID, out.Invoice.ClientID)
}

type stubCharger struct {
	calls int
	req   domain.ChargeRequest
	err   error

	refunded  []string
	refundErr error
}

func (s *stubCharger) Charge(_ context.Context, req domain.ChargeRequest) (string, error) {
	s.calls++
	s.req = req
	if s.err != nil {
		return "", s.err
	}
	return "mp-77", nil
}

func (s *stubCharger) Refund(_ context.Context, ref string) error {
	s.refunded = append(s.refunded, ref)
	return s.refundErr
}

func TestFinalizeChargesCardWhenTokenSent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))

	charger := &stubCharger{}
	_, err := f.finalizeUC(charger).Execute(ctx, FinalizeInput{
		ClientID: f.client.ID, PaymentID: p.ID, CardType: "credito", ApplyDiscount: true,
		CardToken: "tok", CardBrand: "visa",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, charger.calls)
	assert.True(t, charger.req.Amount.Equal(decimal.RequireFromString("45")))
	assert.Equal(t, "visa", charger.req.PaymentMethodID)
	assert.Equal(t, "ana@example.com", charger.req.PayerEmail)

	var stored models.Payment
	require.NoError(t, f.db.First(&stored, p.ID).Error)
	assert.Equal(t, "mp-77", stored.ExternalRef)
}

func TestFinalizeDeclinedChargeLeavesPaymentPending(t *testing.T) {
	f := newFixture(t)
	p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))

	charger := &stubCharger{err: errors.New("rejected")}
	_, err := f.finalizeUC(charger).Execute(context.Background(), FinalizeInput{
		ClientID: f.client.ID, PaymentID: p.ID, CardType: "credito", CardToken: "tok",
	})
	assert.True(t, httperr.IsBusiness(err, "charge_declined"))

	var stored models.Payment
	require.NoError(t, f.db.First(&stored, p.ID).Error)
	assert.Equal(t, domain.MethodPending, stored.Method)
	assert.Zero(t, countInvoices(t, f.db, p.ID))
}

func TestFinalizeRefundsChargeWhenSettlementFails(t *testing.T) {
	for name, refundErr := range map[string]error{
		"refund ok":     nil,
		"refund failed": errors.New("gateway down"),
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))

			// Without the invoices table the settlement cannot commit.
			require.NoError(t, f.db.Migrator().DropTable(&models.Invoice{}))

			charger := &stubCharger{refundErr: refundErr}
			_, err := f.finalizeUC(charger).Execute(context.Background(), FinalizeInput{
				ClientID: f.client.ID, PaymentID: p.ID, CardType: "credito", CardToken: "tok",
			})
			require.Error(t, err)

			assert.Equal(t, 1, charger.calls)
			assert.Equal(t, []string{"mp-77"}, charger.refunded)

			var stored models.Payment
			require.NoError(t, f.db.First(&stored, p.ID).Error)
			assert.Equal(t, domain.MethodPending, stored.Method)
			assert.Empty(t, stored.ExternalRef)
		})
	}
}

func TestFinalizeDoesNotChargeSettledOrForeignPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))

	charger := &stubCharger{}
	uc := f.finalizeUC(charger)

	other := testutil.CreateClient(t, f.db, "beto")
	_, err := uc.Execute(ctx, FinalizeInput{
		ClientID: other.ID, PaymentID: p.ID, CardType: "credito", CardToken: "tok",
	})
	assert.True(t, httperr.IsBusiness(err, "payment_not_found"))
	assert.Zero(t, charger.calls)

	_, err = uc.Execute(ctx, FinalizeInput{
		ClientID: f.client.ID, PaymentID: p.ID, CardType: "credito", CardToken: "tok",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, charger.calls)

	_, err = uc.Execute(ctx, FinalizeInput{
		ClientID: f.client.ID, PaymentID: p.ID, CardType: "credito", CardToken: "tok",
	})
	assert.True(t, httperr.IsBusiness(err, "already_paid"))
	assert.Equal(t, 1, charger.calls)
	assert.Empty(t, charger.refunded)
}

func TestPayAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.CreateClient(t, f.db, "bea")

	p1 := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))
	p2 := f.book(t, f.client.ID, time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))
	foreign := f.book(t, other.ID, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))

	uc := NewPayAll(f.finalizeUC(nil))

	out, err := uc.Execute(ctx, PayAllInput{ClientID: f.client.ID, CardType: "debito", ApplyDiscount: true})
	require.NoError(t, err)
	require.Len(t, out.Invoices, 2)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("90")))

	assert.Equal(t, int64(1), countInvoices(t, f.db, p1.ID))
	assert.Equal(t, int64(1), countInvoices(t, f.db, p2.ID))
	assert.Zero(t, countInvoices(t, f.db, foreign.ID))

	_, err = uc.Execute(ctx, PayAllInput{ClientID: f.client.ID, CardType: "debito"})
	assert.True(t, httperr.IsBusiness(err, "no_pending_payments"))
}

func TestListPendingAndInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))
	f.book(t, f.client.ID, time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC))

	pending, err := NewListPending(f.repo).Execute(ctx, f.client.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "2025-03-10", pending[0].Date)
	assert.Equal(t, "Piedras calientes", pending[0].Service)
	assert.True(t, pending[0].Amount.Equal(decimal.RequireFromString("50")))

	_, err = f.finalizeUC(nil).Execute(ctx, FinalizeInput{ClientID: f.client.ID, PaymentID: p.ID, CardType: "credito"})
	require.NoError(t, err)

	pending, err = NewListPending(f.repo).Execute(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	invoices, err := NewListInvoices(f.repo).Execute(ctx, f.client.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, p.ID, invoices[0].PaymentID)

	_, err = NewListInvoices(f.repo).Execute(ctx, 0)
	assert.True(t, httperr.IsBusiness(err, "no_client_profile"))
}

func TestListPaidToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))
	p2 := f.book(t, f.client.ID, time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC))
	f.book(t, f.client.ID, time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC))

	_, err := f.finalizeUC(nil).Execute(ctx, FinalizeInput{ClientID: f.client.ID, PaymentID: p1.ID, CardType: "credito"})
	require.NoError(t, err)

	yesterday := NewFinalizePayment(f.repo, nil, nil, testutil.FixedClock(testNow.Add(-24*time.Hour)), zap.NewNop())
	_, err = yesterday.Execute(ctx, FinalizeInput{ClientID: f.client.ID, PaymentID: p2.ID, CardType: "debito"})
	require.NoError(t, err)

	day, err := NewListPaidToday(f.repo, testutil.FixedClock(testNow)).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, day.Payments, 1)
	assert.Equal(t, p1.ID, day.Payments[0].ID)
	assert.Equal(t, "ana Test", day.Payments[0].Client)
	assert.True(t, day.Total.Equal(decimal.RequireFromString("50")))
}

type stubRenderer struct{ detail *dto.InvoiceDetail }

func (s *stubRenderer) Invoice(d *dto.InvoiceDetail) ([]byte, error) {
	s.detail = d
	return []byte("%PDF-1.3"), nil
}

type memArchive struct{ keys []string }

func (m *memArchive) Put(_ context.Context, key string, _ []byte, _ string) error {
	m.keys = append(m.keys, key)
	return nil
}

func TestRenderInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.CreateClient(t, f.db, "bea")
	p := f.book(t, f.client.ID, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))

	out, err := f.finalizeUC(nil).Execute(ctx, FinalizeInput{ClientID: f.client.ID, PaymentID: p.ID, CardType: "credito", ApplyDiscount: true})
	require.NoError(t, err)

	renderer := &stubRenderer{}
	archive := &memArchive{}
	uc := NewRenderInvoice(f.repo, renderer, archive, zap.NewNop())

	pdf, err := uc.Execute(ctx, out.Invoice.ID, f.client.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "factura_"+out.Invoice.Number+".pdf", pdf.Name)
	assert.Equal(t, []string{"facturas/" + pdf.Name}, archive.keys)

	require.NotNil(t, renderer.detail)
	assert.Equal(t, "ana Test", renderer.detail.Client)
	assert.Equal(t, "Piedras calientes", renderer.detail.Service)
	assert.Equal(t, domain.MethodCredit, renderer.detail.Method)
	assert.True(t, renderer.detail.Total.Equal(decimal.RequireFromString("45")))

	_, err = uc.Execute(ctx, out.Invoice.ID, other.ID, false)
	assert.True(t, httperr.IsBusiness(err, "invoice_not_found"))

	_, err = uc.Execute(ctx, out.Invoice.ID, 0, true)
	assert.NoError(t, err)

	_, err = uc.Execute(ctx, 999, f.client.ID, false)
	assert.True(t, httperr.IsBusiness(err, "invoice_not_found"))
}
