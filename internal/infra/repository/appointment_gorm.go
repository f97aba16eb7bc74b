package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) WithTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBookedHours(
	ctx context.Context,
	date string,
) ([]string, error) {

	hours := []string{}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("fecha = ? AND estado = ?", date, string(domain.StatusPending)).
		Order("hora ASC").
		Pluck("hora", &hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *AppointmentGormRepository) IsSlotTaken(
	ctx context.Context,
	date string,
	hour string,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("fecha = ? AND hora = ? AND estado = ?", date, hour, string(domain.StatusPending))

	if excludeID != 0 {
		q = q.Where("id_turno <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	err := r.db.WithContext(ctx).
		Where("id_servicio = ?", id).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) ListProfessionalIDs(
	ctx context.Context,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Professional{}).
		Order("id_profesional ASC").
		Pluck("id_profesional", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *AppointmentGormRepository) FindProfessionalByEmail(
	ctx context.Context,
	email string,
) (*models.Professional, error) {

	var p models.Professional
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrBusiness("slot_taken")
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) CreateAppointmentService(
	ctx context.Context,
	link *models.AppointmentService,
) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *AppointmentGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *AppointmentGormRepository) GetOwnedAppointment(
	ctx context.Context,
	appointmentID uint,
	clientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"id_turno = ? AND id_cliente = ? AND estado = ?",
			appointmentID, clientID, string(domain.StatusPending),
		).
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetPaymentByAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Payment, error) {

	var p models.Payment
	err := r.db.WithContext(ctx).
		Where("id_turno = ?", appointmentID).
		Order("id_pago ASC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AppointmentGormRepository) DeleteServiceLinks(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("id_turno = ?", appointmentID).
		Delete(&models.AppointmentService{}).Error
}

func (r *AppointmentGormRepository) DeletePayments(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("id_turno = ?", appointmentID).
		Delete(&models.Payment{}).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id_turno = ?", ap.ID).
		Updates(map[string]any{
			"fecha":      ap.Date,
			"hora":       ap.Time,
			"inicio":     ap.StartsAt,
			"estado":     ap.Status,
			"updated_at": time.Now(),
		}).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness("slot_taken")
	}
	return err
}

// --------------------------------------------------
// Maintenance
// --------------------------------------------------

// ListStaleAppointmentIDs returns up to limit pending, unpaid turnos that
// started before cutoff, locked for the rest of the transaction. Rows
// another transaction holds are skipped.
func (r *AppointmentGormRepository) ListStaleAppointmentIDs(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]uint, error) {

	var ids []uint
	if err := r.stale(ctx, cutoff).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Order("id_turno ASC").
		Limit(limit).
		Pluck("id_turno", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// stale selects pending turnos older than cutoff whose payment is still
// pending.
func (r *AppointmentGormRepository) stale(ctx context.Context, cutoff time.Time) *gorm.DB {
	paid := r.db.
		Model(&models.Payment{}).
		Select("id_turno").
		Where("metodo_pago <> ?", domain.PaymentPending)

	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("inicio < ? AND estado = ?", cutoff.UTC(), string(domain.StatusPending)).
		Where("id_turno NOT IN (?)", paid)
}

// DeleteStaleAppointments removes, among ids, the turnos that are still
// stale, with their service links and payments. The stale conditions are
// evaluated again by every statement, so a turno paid or rescheduled
// after it was listed survives with its payment and invoice. Ids already
// gone are ignored.
func (r *AppointmentGormRepository) DeleteStaleAppointments(
	ctx context.Context,
	ids []uint,
	cutoff time.Time,
) (int64, error) {

	if len(ids) == 0 {
		return 0, nil
	}

	db := r.db.WithContext(ctx)
	pending := string(domain.StatusPending)

	stillStale := r.db.
		Model(&models.Appointment{}).
		Select("id_turno").
		Where("inicio < ? AND estado = ?", cutoff.UTC(), pending)

	// Payments go first: a turno whose payment survives keeps everything.
	if err := db.
		Where("id_turno IN ? AND metodo_pago = ?", ids, domain.PaymentPending).
		Where("id_turno IN (?)", stillStale).
		Delete(&models.Payment{}).Error; err != nil {
		return 0, err
	}

	if err := db.
		Where("id_turno IN ?", ids).
		Where("id_turno IN (?)", stillStale).
		Where("NOT EXISTS (SELECT 1 FROM pagos p WHERE p.id_turno = turno_servicio.id_turno)").
		Delete(&models.AppointmentService{}).Error; err != nil {
		return 0, err
	}

	res := db.
		Where("id_turno IN ? AND inicio < ? AND estado = ?", ids, cutoff.UTC(), pending).
		Where("NOT EXISTS (SELECT 1 FROM pagos p WHERE p.id_turno = turnos.id_turno)").
		Delete(&models.Appointment{})
	return res.RowsAffected, res.Error
}

func (r *AppointmentGormRepository) MarkRealized(
	ctx context.Context,
	clientID uint,
	now time.Time,
) (int64, error) {

	paid := r.db.
		Model(&models.Payment{}).
		Select("id_turno").
		Where("metodo_pago <> ?", domain.PaymentPending)

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id_cliente = ? AND estado = ? AND inicio < ?", clientID, string(domain.StatusPending), now.UTC()).
		Where("id_turno IN (?)", paid).
		Updates(map[string]any{
			"estado":     string(domain.StatusRealized),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

type historyRow struct {
	ID      uint    `gorm:"column:id_turno"`
	Date    string  `gorm:"column:fecha"`
	Time    string  `gorm:"column:hora"`
	Status  string  `gorm:"column:estado"`
	Method  *string `gorm:"column:metodo_pago"`
	Service *string `gorm:"column:servicio"`
}

// payState labels the payment of a history row. Cancelled turnos have no
// payment left and show "-".
func payState(status string, method *string) string {
	switch {
	case status == string(domain.StatusCancelled) || method == nil:
		return "-"
	case strings.EqualFold(*method, domain.PaymentPending):
		return "Pendiente"
	default:
		return "Pagado"
	}
}

func (r *AppointmentGormRepository) ListHistory(
	ctx context.Context,
	clientID uint,
) ([]dto.HistoryItem, error) {

	var rows []historyRow
	if err := r.db.WithContext(ctx).
		Table("turnos t").
		Select("t.id_turno, t.fecha, t.hora, t.estado, p.metodo_pago, s.nombre AS servicio").
		Joins("LEFT JOIN pagos p ON p.id_turno = t.id_turno").
		Joins("LEFT JOIN turno_servicio ts ON ts.id_turno = t.id_turno").
		Joins("LEFT JOIN servicios s ON s.id_servicio = ts.id_servicio").
		Where("t.id_cliente = ?", clientID).
		Order("t.fecha DESC, t.hora DESC, t.id_turno DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dto.HistoryItem, 0, len(rows))
	for _, row := range rows {
		pay := payState(row.Status, row.Method)
		out = append(out, dto.HistoryItem{
			ID:       row.ID,
			Date:     row.Date,
			Time:     row.Time,
			Status:   row.Status,
			PayState: pay,
			Service:  deref(row.Service),
		})
	}
	return out, nil
}

func (r *AppointmentGormRepository) ListReservations(
	ctx context.Context,
	clientID uint,
) ([]dto.ReservationItem, error) {

	out := []dto.ReservationItem{}
	if err := r.db.WithContext(ctx).
		Table("turnos t").
		Select("COALESCE(s.nombre, '') AS servicio, t.fecha, t.hora, t.estado").
		Joins("LEFT JOIN turno_servicio ts ON ts.id_turno = t.id_turno").
		Joins("LEFT JOIN servicios s ON s.id_servicio = ts.id_servicio").
		Where("t.id_cliente = ?", clientID).
		Order("t.fecha DESC, t.hora DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) ListAgenda(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]dto.AgendaItem, error) {

	out := []dto.AgendaItem{}
	if err := r.db.WithContext(ctx).
		Table("turnos t").
		Select(`t.id_turno, t.fecha, t.hora, t.estado,
			COALESCE(c.nombre, '') || ' ' || COALESCE(c.apellido, '') AS cliente,
			COALESCE(s.nombre, '') AS servicio`).
		Joins("LEFT JOIN clientes c ON c.id_cliente = t.id_cliente").
		Joins("LEFT JOIN turno_servicio ts ON ts.id_turno = t.id_turno").
		Joins("LEFT JOIN servicios s ON s.id_servicio = ts.id_servicio").
		Where("t.id_profesional = ? AND t.fecha = ?", professionalID, date).
		Order("t.hora ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}

	for i := range out {
		out[i].ClientName = strings.TrimSpace(out[i].ClientName)
	}
	return out, nil
}

func (r *AppointmentGormRepository) ListPaidClients(
	ctx context.Context,
	date string,
	professionalID uint,
) ([]dto.DailyClient, error) {

	q := r.db.WithContext(ctx).
		Table("turnos t").
		Select(`t.fecha, t.hora, s.nombre AS servicio, c.nombre, c.apellido,
			COALESCE(pr.nombre, '') AS profesional`).
		Joins("JOIN turno_servicio ts ON ts.id_turno = t.id_turno").
		Joins("JOIN servicios s ON s.id_servicio = ts.id_servicio").
		Joins("JOIN clientes c ON c.id_cliente = t.id_cliente").
		Joins("JOIN pagos p ON p.id_turno = t.id_turno").
		Joins("LEFT JOIN profesionales pr ON pr.id_profesional = t.id_profesional").
		Where("t.fecha = ? AND p.metodo_pago <> ?", date, domain.PaymentPending)

	if professionalID != 0 {
		q = q.Where("t.id_profesional = ?", professionalID)
	}

	out := []dto.DailyClient{}
	if err := q.Order("t.hora ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) ProfessionalExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Professional{}).
		Where("id_profesional = ?", id).
		Count(&count).Error
	return count > 0, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
