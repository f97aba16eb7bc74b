package dto

// HistoryItem is one row of a client's turno history.
type HistoryItem struct {
	ID       uint   `json:"id_turno"`
	Date     string `json:"fecha"`
	Time     string `json:"hora"`
	Status   string `json:"estado"`
	PayState string `json:"pago"`
	Service  string `json:"servicio"`
}

type ReservationItem struct {
	Service string `gorm:"column:servicio" json:"servicio"`
	Date    string `gorm:"column:fecha" json:"fecha"`
	Time    string `gorm:"column:hora" json:"hora"`
	Status  string `gorm:"column:estado" json:"estado"`
}

// AgendaItem is a turno as seen from the professional panel.
type AgendaItem struct {
	ID         uint   `gorm:"column:id_turno" json:"id_turno"`
	Date       string `gorm:"column:fecha" json:"fecha"`
	Time       string `gorm:"column:hora" json:"hora"`
	Status     string `gorm:"column:estado" json:"estado"`
	ClientName string `gorm:"column:cliente" json:"cliente"`
	Service    string `gorm:"column:servicio" json:"servicio"`
}

// DailyClient is a paid turno listed in the admin day view.
type DailyClient struct {
	Date      string `gorm:"column:fecha" json:"fecha"`
	Time      string `gorm:"column:hora" json:"hora"`
	Service   string `gorm:"column:servicio" json:"servicio"`
	FirstName string `gorm:"column:nombre" json:"nombre"`
	LastName  string `gorm:"column:apellido" json:"apellido"`

	Professional string `gorm:"column:profesional" json:"profesional,omitempty"`
}
