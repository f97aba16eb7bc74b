package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type IncomeRow struct {
	Client  string          `gorm:"column:cliente" json:"cliente"`
	Service string          `gorm:"column:servicio" json:"servicio"`
	Method  string          `gorm:"column:metodo_pago" json:"metodo_pago"`
	Amount  decimal.Decimal `gorm:"column:monto" json:"monto"`
	PaidAt  time.Time       `gorm:"column:fecha_pago" json:"fecha_pago"`
}

type ServiceCountRow struct {
	FirstName string `gorm:"column:nombre" json:"nombre"`
	LastName  string `gorm:"column:apellido" json:"apellido"`
	Service   string `gorm:"column:servicio" json:"servicio"`
	Total     int64  `gorm:"column:total_servicios" json:"total_servicios"`
}

// IncomeTotals holds the per card type subtotals of an income report.
type IncomeTotals struct {
	Credit decimal.Decimal `json:"subtotal_credito"`
	Debit  decimal.Decimal `json:"subtotal_debito"`
	Total  decimal.Decimal `json:"total"`
}
