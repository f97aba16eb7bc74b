package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/httpresp"
	"github.com/spa-sentirse-bien/spa-server/internal/identity"
	"github.com/spa-sentirse-bien/spa-server/internal/usecase/account"
	ucAppointment "github.com/spa-sentirse-bien/spa-server/internal/usecase/appointment"
)

type ClientHandler struct {
	db           *gorm.DB
	update       *account.UpdateProfile
	reservations *ucAppointment.ListReservations
}

func NewClientHandler(
	db *gorm.DB,
	update *account.UpdateProfile,
	reservations *ucAppointment.ListReservations,
) *ClientHandler {
	return &ClientHandler{
		db:           db,
		update:       update,
		reservations: reservations,
	}
}

type UpdateProfileRequest struct {
	FirstName string `json:"nombre" binding:"required"`
	LastName  string `json:"apellido" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"telefono"`
	Address   string `json:"direccion"`
}

type profileRow struct {
	FirstName string `gorm:"column:nombre" json:"nombre"`
	LastName  string `gorm:"column:apellido" json:"apellido"`
	Email     string `gorm:"column:email" json:"email"`
	Phone     string `gorm:"column:telefono" json:"telefono"`
	Address   string `gorm:"column:direccion" json:"direccion"`
}

// ======================================================
// PROFILE
// ======================================================

func (h *ClientHandler) Profile(c *gin.Context) {
	id, _ := identity.From(c)

	var p profileRow
	err := h.db.WithContext(c.Request.Context()).
		Table("clientes c").
		Select("c.nombre, c.apellido, u.email, c.telefono, c.direccion").
		Joins("JOIN usuarios u ON u.id_cliente = c.id_cliente").
		Where("u.id_usuario = ?", id.UserID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "profile_not_found", "Perfil no encontrado.")
		return
	}
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "profile_failed", "Error al obtener el perfil.")
		return
	}

	httpresp.OK(c, p)
}

func (h *ClientHandler) UpdateProfile(c *gin.Context) {
	id, _ := identity.From(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	var clientID uint
	if id.HasClient() {
		clientID = *id.ClientID
	}

	err := h.update.Execute(c.Request.Context(), id.UserID, clientID, account.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		respondError(c, err, "Error al actualizar el perfil.")
		return
	}

	httpresp.Message(c, http.StatusOK, "Perfil actualizado exitosamente")
}

// ======================================================
// RESERVATIONS
// ======================================================

// Reservations runs behind RequireClient.
func (h *ClientHandler) Reservations(c *gin.Context) {
	id, _ := identity.From(c)

	items, err := h.reservations.Execute(c.Request.Context(), *id.ClientID)
	if err != nil {
		respondError(c, err, "Error al obtener las reservas.")
		return
	}

	httpresp.OK(c, gin.H{"reservas": items})
}
