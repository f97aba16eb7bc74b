package models

import "time"

// Roles stored in usuarios.rol.
const (
	RoleClient       = "Cliente"
	RoleEmployee     = "Empleado"
	RoleProfessional = "Profesional"
	RoleAdmin        = "Admin"
)

type User struct {
	ID       uint    `gorm:"column:id_usuario;primaryKey" json:"id_usuario"`
	ClientID *uint   `gorm:"column:id_cliente;index" json:"id_cliente"`
	Client   *Client `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Username     string `gorm:"column:nombre_usuario;size:100;uniqueIndex;not null" json:"nombre_usuario"`
	Email        string `gorm:"column:email;size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password;size:255;not null" json:"-"`
	Role         string `gorm:"column:rol;size:20;default:'Cliente'" json:"rol"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "usuarios" }
