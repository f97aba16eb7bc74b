package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PendingPayment struct {
	ID            uint            `gorm:"column:id_pago" json:"id_pago"`
	AppointmentID uint            `gorm:"column:id_turno" json:"id_turno"`
	Date          string          `gorm:"column:fecha" json:"fecha"`
	Time          string          `gorm:"column:hora" json:"hora"`
	Service       string          `gorm:"column:servicio" json:"servicio"`
	Amount        decimal.Decimal `gorm:"column:monto" json:"monto"`
}

type DailyPayment struct {
	ID     uint            `gorm:"column:id_pago" json:"id_pago"`
	Amount decimal.Decimal `gorm:"column:monto" json:"monto"`
	Method string          `gorm:"column:metodo_pago" json:"metodo_pago"`
	PaidAt time.Time       `gorm:"column:fecha_pago" json:"fecha_pago"`
	Client string          `gorm:"column:cliente" json:"cliente"`
}

// InvoiceDetail is everything printed on an invoice PDF.
type InvoiceDetail struct {
	ID        uint            `gorm:"column:id_factura" json:"id_factura"`
	Number    string          `gorm:"column:numero" json:"numero"`
	IssuedAt  time.Time       `gorm:"column:fecha_emision" json:"fecha_emision"`
	ClientID  uint            `gorm:"column:id_cliente" json:"id_cliente"`
	Client    string          `gorm:"column:cliente" json:"cliente"`
	Email     string          `gorm:"column:email" json:"email"`
	PaymentID uint            `gorm:"column:id_pago" json:"id_pago"`
	Method    string          `gorm:"column:metodo_pago" json:"metodo_pago"`
	Service   string          `gorm:"column:servicio" json:"servicio"`
	Date      string          `gorm:"column:fecha" json:"fecha"`
	Time      string          `gorm:"column:hora" json:"hora"`
	Total     decimal.Decimal `gorm:"column:total" json:"total"`
}
