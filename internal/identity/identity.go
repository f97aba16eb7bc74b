// Package identity carries the authenticated caller through a request.
package identity

import (
	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

const contextKey = "identity"

type Identity struct {
	UserID   uint
	Email    string
	Role     string
	ClientID *uint

	// TokenID is the jti of the session token that authenticated the call.
	TokenID string
}

func (i Identity) HasClient() bool {
	return i.ClientID != nil && *i.ClientID != 0
}

func (i Identity) IsStaff() bool {
	return i.Role == models.RoleEmployee || i.Role == models.RoleAdmin
}

func Set(c *gin.Context, id Identity) {
	c.Set(contextKey, id)
}

func From(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
