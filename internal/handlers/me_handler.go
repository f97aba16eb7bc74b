package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/httpresp"
	"github.com/spa-sentirse-bien/spa-server/internal/identity"
)

// MeHandler answers from the session claims alone.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	id, ok := identity.From(c)
	if !ok {
		httperr.Unauthorized(c, "unauthenticated", "No autenticado.")
		return
	}

	httpresp.OK(c, gin.H{
		"user": gin.H{
			"id_usuario": id.UserID,
			"email":      id.Email,
			"rol":        id.Role,
			"id_cliente": id.ClientID,
		},
	})
}

func (h *MeHandler) CurrentUser(c *gin.Context) {
	id, ok := identity.From(c)
	if !ok {
		httperr.Unauthorized(c, "unauthenticated", "No autenticado.")
		return
	}

	httpresp.OK(c, gin.H{
		"id":    id.UserID,
		"email": id.Email,
		"rol":   id.Role,
	})
}

func (h *MeHandler) Protected(c *gin.Context) {
	id, _ := identity.From(c)
	httpresp.OK(c, gin.H{
		"data": "Este es un dato protegido",
		"user": id.Email,
	})
}
