package models

type Professional struct {
	ID        uint   `gorm:"column:id_profesional;primaryKey" json:"id_profesional"`
	FirstName string `gorm:"column:nombre;size:100;not null" json:"nombre"`
	LastName  string `gorm:"column:apellido;size:100;not null" json:"apellido"`
	Specialty string `gorm:"column:especialidad;size:100" json:"especialidad"`
	Email     string `gorm:"column:email;size:100;index" json:"email"`
	Phone     string `gorm:"column:telefono;size:30" json:"telefono"`
}

func (Professional) TableName() string { return "profesionales" }
