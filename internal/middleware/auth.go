package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/identity"
	"github.com/spa-sentirse-bien/spa-server/internal/session"
)

const ContextClaims = "sessionClaims"

// Auth requires a valid session token, taken from the Authorization bearer
// header or else from the session cookie.
func Auth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, sessions); err != nil {
			if isAuthFailure(err) {
				httperr.Abort(c, http.StatusUnauthorized, "unauthenticated", "No autenticado.")
				return
			}
			_ = c.Error(err)
			httperr.Abort(c, http.StatusInternalServerError, "session_check_failed", "Error al verificar la sesión.")
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present and lets
// the request through either way.
func OptionalAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, sessions); err != nil && !isAuthFailure(err) {
			_ = c.Error(err)
		}
		c.Next()
	}
}

var errNoToken = errors.New("no session token")

// isAuthFailure tells caller mistakes apart from a broken revocation store.
func isAuthFailure(err error) bool {
	return errors.Is(err, errNoToken) ||
		errors.Is(err, session.ErrInvalidToken) ||
		errors.Is(err, session.ErrRevoked)
}

func authenticate(c *gin.Context, sessions *session.Manager) error {
	raw := bearerToken(c)
	if raw == "" {
		raw, _ = c.Cookie(session.CookieName)
	}
	if raw == "" {
		return errNoToken
	}

	claims, err := sessions.Parse(c.Request.Context(), raw)
	if err != nil {
		return err
	}

	userID, err := claims.UserID()
	if err != nil {
		return err
	}

	identity.Set(c, identity.Identity{
		UserID:   userID,
		Email:    claims.Email,
		Role:     claims.Role,
		ClientID: claims.ClientID,
		TokenID:  claims.ID,
	})
	c.Set(ContextClaims, claims)
	return nil
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireRole must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity.From(c)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "unauthenticated", "No autenticado.")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		httperr.Abort(c, http.StatusForbidden, "forbidden", "Acceso denegado.")
	}
}

// RequireClient rejects sessions that are not linked to a client profile.
func RequireClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity.From(c)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "unauthenticated", "No autenticado.")
			return
		}
		if !id.HasClient() {
			httperr.Abort(c, http.StatusForbidden, "no_client_profile", "Usuario no asociado a un cliente.")
			return
		}
		c.Next()
	}
}
