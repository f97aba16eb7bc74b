package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/httpresp"
	"github.com/spa-sentirse-bien/spa-server/internal/identity"
	"github.com/spa-sentirse-bien/spa-server/internal/middleware"
	"github.com/spa-sentirse-bien/spa-server/internal/session"
	"github.com/spa-sentirse-bien/spa-server/internal/usecase/account"
)

type AuthHandler struct {
	login    *account.Login
	register *account.Register
	sessions *session.Manager

	// secureCookie marks the session cookie Secure; off for plain-http
	// development.
	secureCookie bool
}

func NewAuthHandler(
	login *account.Login,
	register *account.Register,
	sessions *session.Manager,
	secureCookie bool,
) *AuthHandler {
	return &AuthHandler{
		login:        login,
		register:     register,
		sessions:     sessions,
		secureCookie: secureCookie,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	FirstName string `json:"nombre" binding:"required"`
	LastName  string `json:"apellido" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"telefono"`
	Address   string `json:"direccion"`
	Username  string `json:"nombre_usuario" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciales inválidas.")
		return
	}

	user, err := h.login.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Error al iniciar sesión.")
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "token_issue_failed", "Error al iniciar sesión.")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)

	httpresp.OK(c, gin.H{
		"message": "Inicio de sesión exitoso",
		"token":   token,
		"user": gin.H{
			"id_usuario": user.ID,
			"email":      user.Email,
			"rol":        user.Role,
			"id_cliente": user.ClientID,
		},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := c.Get(middleware.ContextClaims); ok {
		if err := h.sessions.Revoke(c.Request.Context(), claims.(*session.Claims)); err != nil {
			_ = c.Error(err)
			httperr.Internal(c, "logout_failed", "Error al cerrar la sesión.")
			return
		}
	}

	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureCookie, true)
	httpresp.Message(c, http.StatusOK, "Sesión cerrada exitosamente")
}

// Status runs behind OptionalAuth.
func (h *AuthHandler) Status(c *gin.Context) {
	if _, ok := identity.From(c); ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": true})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_fields", "Faltan campos requeridos.")
		return
	}

	_, err := h.register.Execute(c.Request.Context(),
		account.Profile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address:   req.Address,
		},
		account.Credentials{
			Username: req.Username,
			Password: req.Password,
		},
	)
	if err != nil {
		respondError(c, err, "Error en el registro.")
		return
	}

	httpresp.Message(c, http.StatusCreated, "Usuario registrado exitosamente")
}
