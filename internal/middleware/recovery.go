package middleware

import (
	"fmt"
	"log/slog"

	"todo-app/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Recovery converts a panic into a generic internal-error response. The
// panic value stays in the server log, keyed by the opaque reference the
// caller receives.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				e := apperr.Wrap(fmt.Errorf("panic: %v", recovered), apperr.KindInternal,
					"INTERNAL_SERVER_ERROR", "an unexpected error occurred")
				slog.Error("panic recovered",
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"ref", e.Ref,
					"panic", fmt.Sprintf("%v", recovered),
				)
				c.AbortWithStatusJSON(e.Kind.Status(), e.Response(c.Request.URL.Path))
			}
		}()
		c.Next()
	}
}
