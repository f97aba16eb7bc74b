package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

// ServiceHandler manages the catalog of bookable services.
type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string           `json:"nombre" binding:"required"`
	Description string           `json:"descripcion"`
	DurationMin int              `json:"duracion_min" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"precio" binding:"required"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"nombre,omitempty"`
	Description *string          `json:"descripcion,omitempty"`
	DurationMin *int             `json:"duracion_min,omitempty" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"precio,omitempty"`
	Active      *bool            `json:"activo,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("activo"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Model(&models.Service{})

	switch activeStr {
	case "true":
		q = q.Where("activo = ?", true)
	case "false":
		q = q.Where("activo = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(nombre) LIKE ? OR LOWER(descripcion) LIKE ?", like, like)
	}

	services := []models.Service{}
	if err := q.Order("id_servicio ASC").Find(&services).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "services_list_failed", "Error al obtener los servicios.")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if req.Price.IsNegative() {
		invalidRequest(c)
		return
	}

	duration := req.DurationMin
	if duration == 0 {
		duration = 60
	}

	svc := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: duration,
		Price:       req.Price.Round(2),
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "service_create_failed", "Error al crear el servicio.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("id_servicio = ?", c.Param("id")).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "service_not_found", "Servicio no encontrado.")
		return
	}
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "service_get_failed", "Error al obtener el servicio.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			invalidRequest(c)
			return
		}
		svc.Price = req.Price.Round(2)
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&svc).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "service_update_failed", "Error al actualizar el servicio.")
		return
	}

	c.JSON(http.StatusOK, svc)
}
