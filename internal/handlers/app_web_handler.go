package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
)

// AppWebHandler serves the prebuilt frontend bundle. Unknown paths get
// index.html so client-side routes survive a reload.
type AppWebHandler struct {
	staticDir string
}

func NewAppWebHandler(staticDir string) *AppWebHandler {
	return &AppWebHandler{staticDir: staticDir}
}

// Serve is registered as the engine's NoRoute handler.
func (h *AppWebHandler) Serve(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		httperr.NotFound(c, "route_not_found", "Ruta no encontrada.")
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	rel := path.Clean("/" + c.Request.URL.Path)
	file := filepath.Join(h.staticDir, filepath.FromSlash(rel))

	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		if strings.HasPrefix(rel, "/assets/") {
			c.Header("Cache-Control", "public, max-age=31536000, immutable")
		}
		c.File(file)
		return
	}

	index := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		httperr.NotFound(c, "route_not_found", "Ruta no encontrada.")
		return
	}
	c.File(index)
}
