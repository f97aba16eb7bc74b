package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
)

// ErrorReporter logs errors handlers attached with c.Error and forwards
// them to Sentry when a client is configured. Panics are reported and
// answered with a 500.
func ErrorReporter(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request)
		hub.Scope().SetTag("request_id", c.GetString(ContextRequestID))

		defer func() {
			if r := recover(); r != nil {
				hub.RecoverWithContext(c.Request.Context(), r)
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(ContextRequestID)),
				)
				if !c.Writer.Written() {
					httperr.Abort(c, http.StatusInternalServerError, "internal_error", "Error interno del servidor.")
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()

		for _, e := range c.Errors {
			log.Error("request failed",
				zap.Error(e.Err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(ContextRequestID)),
			)
			hub.CaptureException(fmt.Errorf("%s %s: %w", c.Request.Method, c.FullPath(), e.Err))
		}
	}
}
