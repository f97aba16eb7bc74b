package models

import "github.com/shopspring/decimal"

type Service struct {
	ID          uint            `gorm:"column:id_servicio;primaryKey" json:"id_servicio"`
	Name        string          `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Description string          `gorm:"column:descripcion;size:255" json:"descripcion"`
	DurationMin int             `gorm:"column:duracion_min" json:"duracion_min"`
	Price       decimal.Decimal `gorm:"column:precio;type:numeric(10,2);not null" json:"precio"`
	Active      bool            `gorm:"column:activo;default:true" json:"activo"`
}

func (Service) TableName() string { return "servicios" }
