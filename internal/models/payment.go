package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID            uint            `gorm:"column:id_pago;primaryKey" json:"id_pago"`
	AppointmentID uint            `gorm:"column:id_turno;not null;index" json:"id_turno"`
	Amount        decimal.Decimal `gorm:"column:monto;type:numeric(10,2);not null" json:"monto"`
	Method        string          `gorm:"column:metodo_pago;size:50;not null;default:'Pendiente'" json:"metodo_pago"`
	PaidAt        *time.Time      `gorm:"column:fecha_pago;index" json:"fecha_pago"`
	ExternalRef   string          `gorm:"column:referencia_externa;size:100" json:"referencia_externa,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Payment) TableName() string { return "pagos" }

type Invoice struct {
	ID        uint            `gorm:"column:id_factura;primaryKey" json:"id_factura"`
	Number    string          `gorm:"column:numero;size:36;uniqueIndex;not null" json:"numero"`
	IssuedAt  time.Time       `gorm:"column:fecha_emision;not null" json:"fecha_emision"`
	ClientID  uint            `gorm:"column:id_cliente;not null;index" json:"id_cliente"`
	PaymentID uint            `gorm:"column:id_pago;not null" json:"id_pago"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null" json:"total"`
}

func (Invoice) TableName() string { return "facturas" }
