package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/httpresp"
	"github.com/spa-sentirse-bien/spa-server/internal/identity"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/usecase/account"
	ucAppointment "github.com/spa-sentirse-bien/spa-server/internal/usecase/appointment"
)

type AdminHandler struct {
	db          *gorm.DB
	staff       *account.Staff
	paidClients *ucAppointment.ListPaidClients
	sweep       *ucAppointment.SweepStale
}

func NewAdminHandler(
	db *gorm.DB,
	staff *account.Staff,
	paidClients *ucAppointment.ListPaidClients,
	sweep *ucAppointment.SweepStale,
) *AdminHandler {
	return &AdminHandler{
		db:          db,
		staff:       staff,
		paidClients: paidClients,
		sweep:       sweep,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AddEmployeeRequest struct {
	FirstName string `json:"nombre" binding:"required"`
	LastName  string `json:"apellido" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"telefono" binding:"required"`
	Address   string `json:"direccion" binding:"required"`
	Username  string `json:"nombre_usuario" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type AddProfessionalRequest struct {
	FirstName string `json:"nombre" binding:"required"`
	LastName  string `json:"apellido" binding:"required"`
	Specialty string `json:"especialidad" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"telefono" binding:"required"`
	Username  string `json:"nombre_usuario" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type RemoveProfessionalRequest struct {
	ID uint `json:"id_profesional" binding:"required"`
}

type RemoveEmployeeRequest struct {
	ID uint `json:"id_empleado" binding:"required"`
}

type staffRow struct {
	ID        uint   `gorm:"column:id" json:"-"`
	FirstName string `gorm:"column:nombre" json:"nombre"`
	LastName  string `gorm:"column:apellido" json:"apellido"`
}

// ======================================================
// LISTINGS
// ======================================================

func (h *AdminHandler) Clients(c *gin.Context) {
	clients := []models.Client{}
	if err := h.db.WithContext(c.Request.Context()).
		Order("id_cliente ASC").
		Find(&clients).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "clients_list_failed", "Error al obtener los clientes.")
		return
	}

	httpresp.OK(c, clients)
}

func (h *AdminHandler) Professionals(c *gin.Context) {
	pros := []models.Professional{}
	if err := h.db.WithContext(c.Request.Context()).
		Order("nombre ASC").
		Find(&pros).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "professionals_list_failed", "Error al obtener los profesionales.")
		return
	}

	httpresp.OK(c, pros)
}

func (h *AdminHandler) Employees(c *gin.Context) {
	var rows []staffRow
	if err := h.db.WithContext(c.Request.Context()).
		Table("clientes c").
		Select("c.id_cliente AS id, c.nombre, c.apellido").
		Joins("JOIN usuarios u ON u.id_cliente = c.id_cliente").
		Where("u.rol = ?", models.RoleEmployee).
		Order("c.nombre ASC").
		Scan(&rows).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "employees_list_failed", "Error al obtener los empleados.")
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		out = append(out, gin.H{"id_cliente": r.ID, "nombre": r.FirstName, "apellido": r.LastName})
	}
	httpresp.OK(c, out)
}

// ======================================================
// DAY VIEWS
// ======================================================

func (h *AdminHandler) ClientsOfDay(c *gin.Context) {
	rows, err := h.paidClients.ByDate(c.Request.Context(), c.Query("fecha"))
	if err != nil {
		respondError(c, err, "Error al obtener los clientes del día.")
		return
	}

	httpresp.OK(c, rows)
}

func (h *AdminHandler) ClientsByProfessional(c *gin.Context) {
	proID, _ := strconv.ParseUint(c.Query("profesional_id"), 10, 64)

	rows, err := h.paidClients.ByProfessional(c.Request.Context(), uint(proID), c.Query("fecha"))
	if err != nil {
		if code, ok := httperr.AsBusiness(err); ok && code == "missing_fields" {
			httperr.BadRequest(c, code, "Parámetros profesional_id y fecha son requeridos.")
			return
		}
		respondError(c, err, "Error al obtener los clientes por profesional.")
		return
	}

	httpresp.OK(c, rows)
}

// ======================================================
// STAFF
// ======================================================

func (h *AdminHandler) AddProfessional(c *gin.Context) {
	id, _ := identity.From(c)

	var req AddProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	_, err := h.staff.AddProfessional(c.Request.Context(), id.UserID,
		account.ProfessionalInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Specialty: req.Specialty,
			Email:     req.Email,
			Phone:     req.Phone,
		},
		account.Credentials{Username: req.Username, Password: req.Password},
	)
	if err != nil {
		respondError(c, err, "Error al agregar el profesional.")
		return
	}

	httpresp.Message(c, http.StatusCreated, "Profesional y usuario creados exitosamente.")
}

func (h *AdminHandler) RemoveProfessional(c *gin.Context) {
	id, _ := identity.From(c)

	var req RemoveProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_fields", "id_profesional es requerido.")
		return
	}

	if err := h.staff.RemoveProfessional(c.Request.Context(), id.UserID, req.ID); err != nil {
		respondError(c, err, "Error al eliminar el profesional.")
		return
	}

	httpresp.Message(c, http.StatusOK, "Profesional y usuario eliminados exitosamente.")
}

func (h *AdminHandler) AddEmployee(c *gin.Context) {
	id, _ := identity.From(c)

	var req AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	_, err := h.staff.AddEmployee(c.Request.Context(), id.UserID,
		account.Profile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address:   req.Address,
		},
		account.Credentials{Username: req.Username, Password: req.Password},
	)
	if err != nil {
		respondError(c, err, "Error al agregar el empleado.")
		return
	}

	httpresp.Message(c, http.StatusCreated, "Empleado y usuario creados exitosamente.")
}

func (h *AdminHandler) RemoveEmployee(c *gin.Context) {
	id, _ := identity.From(c)

	var req RemoveEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_fields", "id_empleado es requerido.")
		return
	}

	if err := h.staff.RemoveEmployee(c.Request.Context(), id.UserID, req.ID); err != nil {
		respondError(c, err, "Error al eliminar el empleado.")
		return
	}

	httpresp.Message(c, http.StatusOK, "Empleado y usuario eliminados exitosamente.")
}

// ======================================================
// MAINTENANCE
// ======================================================

// Purge runs the stale-appointment sweep on demand.
func (h *AdminHandler) Purge(c *gin.Context) {
	purged, err := h.sweep.Execute(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al purgar los turnos vencidos.")
		return
	}

	httpresp.OK(c, gin.H{
		"message":  "Purga completada",
		"purgados": purged,
	})
}
