package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// IncomeBetween lists finalized payments with fecha_pago in [from, to).
func (r *ReportGormRepository) IncomeBetween(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]dto.IncomeRow, error) {

	out := []dto.IncomeRow{}
	if err := r.db.WithContext(ctx).
		Table("pagos p").
		Select(`COALESCE(c.nombre, '') || ' ' || COALESCE(c.apellido, '') AS cliente,
			s.nombre AS servicio, p.metodo_pago, p.monto, p.fecha_pago`).
		Joins("JOIN turnos t ON t.id_turno = p.id_turno").
		Joins("JOIN clientes c ON c.id_cliente = t.id_cliente").
		Joins("JOIN turno_servicio ts ON ts.id_turno = t.id_turno").
		Joins("JOIN servicios s ON s.id_servicio = ts.id_servicio").
		Where("p.metodo_pago <> ?", payment.MethodPending).
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

// ServicesByProfessional counts turnos per professional and service for
// fecha between fromDate and toDate, both inclusive (YYYY-MM-DD).
func (r *ReportGormRepository) ServicesByProfessional(
	ctx context.Context,
	fromDate string,
	toDate string,
) ([]dto.ServiceCountRow, error) {

	out := []dto.ServiceCountRow{}
	if err := r.db.WithContext(ctx).
		Table("turnos t").
		Select("p.nombre, p.apellido, s.nombre AS servicio, COUNT(t.id_turno) AS total_servicios").
		Joins("JOIN profesionales p ON p.id_profesional = t.id_profesional").
		Joins("JOIN turno_servicio ts ON ts.id_turno = t.id_turno").
		Joins("JOIN servicios s ON s.id_servicio = ts.id_servicio").
		Where("t.fecha >= ? AND t.fecha <= ?", fromDate, toDate).
		Group("p.nombre, p.apellido, s.nombre").
		Order("p.apellido ASC, p.nombre ASC, s.nombre ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
