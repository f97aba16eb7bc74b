package models

import "time"

type Appointment struct {
	ID uint `gorm:"column:id_turno;primaryKey" json:"id_turno"`

	// Fecha and Hora keep the slot as the client asked for it; StartsAt is
	// the same instant in UTC and drives every time comparison.
	Date     string    `gorm:"column:fecha;size:10;not null;index:idx_turnos_slot" json:"fecha"`
	Time     string    `gorm:"column:hora;size:5;not null;index:idx_turnos_slot" json:"hora"`
	StartsAt time.Time `gorm:"column:inicio;not null;index" json:"-"`

	ClientID *uint   `gorm:"column:id_cliente;index" json:"id_cliente"`
	Client   *Client `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ProfessionalID *uint         `gorm:"column:id_profesional;index" json:"id_profesional"`
	Professional   *Professional `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Status string `gorm:"column:estado;size:20;default:'Pendiente'" json:"estado"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "turnos" }

type AppointmentService struct {
	AppointmentID uint `gorm:"column:id_turno;primaryKey" json:"id_turno"`
	ServiceID     uint `gorm:"column:id_servicio;primaryKey" json:"id_servicio"`
}

func (AppointmentService) TableName() string { return "turno_servicio" }
