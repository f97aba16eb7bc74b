package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) WithTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PaymentGormRepository{db: tx})
	})
}

func (r *PaymentGormRepository) GetOwned(
	ctx context.Context,
	paymentID uint,
) (*domain.Owned, error) {

	var p models.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id_pago = ?", paymentID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("payment_not_found")
	}
	if err != nil {
		return nil, err
	}

	var owner struct {
		ClientID *uint  `gorm:"column:id_cliente"`
		Email    string `gorm:"column:email"`
	}
	if err := r.db.WithContext(ctx).
		Table("turnos t").
		Select("t.id_cliente, COALESCE(c.email, '') AS email").
		Joins("LEFT JOIN clientes c ON c.id_cliente = t.id_cliente").
		Where("t.id_turno = ?", p.AppointmentID).
		Limit(1).
		Scan(&owner).Error; err != nil {
		return nil, err
	}
	if owner.ClientID == nil {
		return nil, httperr.ErrBusiness("payment_not_found")
	}

	return &domain.Owned{
		Payment:  p,
		ClientID: *owner.ClientID,
		Email:    owner.Email,
	}, nil
}

func (r *PaymentGormRepository) pendingForClient(ctx context.Context, clientID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("pagos p").
		Joins("JOIN turnos t ON t.id_turno = p.id_turno").
		Where("t.id_cliente = ? AND p.metodo_pago = ?", clientID, domain.MethodPending)
}

func (r *PaymentGormRepository) ListPendingIDs(
	ctx context.Context,
	clientID uint,
) ([]uint, error) {

	var ids []uint
	if err := r.pendingForClient(ctx, clientID).
		Order("p.id_pago ASC").
		Pluck("p.id_pago", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PaymentGormRepository) ListPending(
	ctx context.Context,
	clientID uint,
) ([]dto.PendingPayment, error) {

	out := []dto.PendingPayment{}
	if err := r.pendingForClient(ctx, clientID).
		Select("p.id_pago, p.id_turno, t.fecha, t.hora, COALESCE(s.nombre, '') AS servicio, p.monto").
		Joins("LEFT JOIN turno_servicio ts ON ts.id_turno = t.id_turno").
		Joins("LEFT JOIN servicios s ON s.id_servicio = ts.id_servicio").
		Order("t.fecha ASC, t.hora ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PaymentGormRepository) MarkPaid(
	ctx context.Context,
	paymentID uint,
	s domain.Settlement,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id_pago = ? AND metodo_pago = ?", paymentID, domain.MethodPending).
		Updates(map[string]any{
			"metodo_pago":        s.Method,
			"monto":              s.Amount,
			"fecha_pago":         s.PaidAt.UTC(),
			"referencia_externa": s.ExternalRef,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PaymentGormRepository) CreateInvoice(
	ctx context.Context,
	inv *models.Invoice,
) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrBusiness("already_paid")
		}
		return err
	}
	return nil
}

func (r *PaymentGormRepository) ListInvoices(
	ctx context.Context,
	clientID uint,
) ([]models.Invoice, error) {

	out := []models.Invoice{}
	if err := r.db.WithContext(ctx).
		Where("id_cliente = ?", clientID).
		Order("fecha_emision DESC, id_factura DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PaymentGormRepository) GetInvoiceDetail(
	ctx context.Context,
	invoiceID uint,
) (*dto.InvoiceDetail, error) {

	var rows []dto.InvoiceDetail
	if err := r.db.WithContext(ctx).
		Table("facturas f").
		Select(`f.id_factura, f.numero, f.fecha_emision, f.id_cliente, f.id_pago, f.total,
			COALESCE(c.nombre, '') || ' ' || COALESCE(c.apellido, '') AS cliente,
			COALESCE(c.email, '') AS email,
			p.metodo_pago,
			COALESCE(t.fecha, '') AS fecha,
			COALESCE(t.hora, '') AS hora,
			COALESCE(s.nombre, '') AS servicio`).
		Joins("JOIN pagos p ON p.id_pago = f.id_pago").
		Joins("LEFT JOIN clientes c ON c.id_cliente = f.id_cliente").
		Joins("LEFT JOIN turnos t ON t.id_turno = p.id_turno").
		Joins("LEFT JOIN turno_servicio ts ON ts.id_turno = t.id_turno").
		Joins("LEFT JOIN servicios s ON s.id_servicio = ts.id_servicio").
		Where("f.id_factura = ?", invoiceID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, httperr.ErrBusiness("invoice_not_found")
	}

	d := rows[0]
	d.Client = strings.TrimSpace(d.Client)
	return &d, nil
}

func (r *PaymentGormRepository) ListPaidBetween(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]dto.DailyPayment, error) {

	out := []dto.DailyPayment{}
	if err := r.db.WithContext(ctx).
		Table("pagos p").
		Select(`p.id_pago, p.monto, p.metodo_pago, p.fecha_pago,
			COALESCE(c.nombre, '') || ' ' || COALESCE(c.apellido, '') AS cliente`).
		Joins("JOIN turnos t ON t.id_turno = p.id_turno").
		Joins("LEFT JOIN clientes c ON c.id_cliente = t.id_cliente").
		Where("p.metodo_pago <> ?", domain.MethodPending).
		Where("p.fecha_pago >= ? AND p.fecha_pago < ?", from.UTC(), to.UTC()).
		Order("p.fecha_pago ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Client = strings.TrimSpace(out[i].Client)
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*PaymentGormRepository)(nil)
