package models

import "time"

// Client is the personal profile behind a Cliente or Empleado login.
type Client struct {
	ID        uint   `gorm:"column:id_cliente;primaryKey" json:"id_cliente"`
	FirstName string `gorm:"column:nombre;size:100;not null" json:"nombre"`
	LastName  string `gorm:"column:apellido;size:100;not null" json:"apellido"`
	Email     string `gorm:"column:email;size:100" json:"email"`
	Phone     string `gorm:"column:telefono;size:30" json:"telefono"`
	Address   string `gorm:"column:direccion;size:255" json:"direccion"`

	RegisteredAt time.Time `gorm:"column:fecha_registro;autoCreateTime" json:"fecha_registro"`
}

func (Client) TableName() string { return "clientes" }
