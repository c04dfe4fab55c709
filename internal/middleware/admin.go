package middleware

import (
	"strings"

	"todo-app/backend/internal/apperr"
	"todo-app/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates the system-wide task listing behind a separately
// issued bearer token. User sessions never satisfy it.
func RequireAdmin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			e := apperr.New(apperr.KindAuthentication, "ADMIN_TOKEN_REQUIRED", "admin authorization is required")
			c.AbortWithStatusJSON(e.Kind.Status(), e.Response(c.Request.URL.Path))
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			e := apperr.New(apperr.KindAuthentication, "INVALID_TOKEN_FORMAT", "authorization header must use a Bearer token")
			c.AbortWithStatusJSON(e.Kind.Status(), e.Response(c.Request.URL.Path))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if err := auth.VerifyAdminToken(secret, tokenStr); err != nil {
			e := apperr.New(apperr.KindAccessDenied, "ADMIN_ACCESS_DENIED", "admin access denied")
			c.AbortWithStatusJSON(e.Kind.Status(), e.Response(c.Request.URL.Path))
			return
		}
		c.Next()
	}
}
