package middleware

import (
	"log/slog"
	"net/http"

	"todo-app/backend/internal/apperr"
	"todo-app/backend/internal/session"

	"github.com/gin-gonic/gin"
)

const userContextKey = "current_user"

// SessionMiddleware resolves the session cookie into a session.User once
// per request. Handlers downstream read the resolved value; nothing below
// the middleware ever touches the cookie or the store.
type SessionMiddleware struct {
	store      *session.Store
	cookieName string
}

func NewSessionMiddleware(store *session.Store, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{store: store, cookieName: cookieName}
}

// RequireAPI guards JSON routes: an unauthenticated request gets a 401
// taxonomy response, a session-store failure gets the store's own status.
func (m *SessionMiddleware) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			e := apperr.Classify(err)
			slog.Error("session resolution failed", "path", c.Request.URL.Path, "ref", e.Ref, "cause", e.Error())
			c.AbortWithStatusJSON(e.Kind.Status(), e.Response(c.Request.URL.Path))
			return
		}
		if user == nil {
			e := apperr.LoginRequired()
			c.AbortWithStatusJSON(http.StatusUnauthorized, e.Response(c.Request.URL.Path))
			return
		}
		c.Set(userContextKey, *user)
		c.Next()
	}
}

// RequireWeb guards server-rendered routes: an unauthenticated request is
// redirected to the login page.
func (m *SessionMiddleware) RequireWeb() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			e := apperr.Classify(err)
			slog.Error("session resolution failed", "path", c.Request.URL.Path, "ref", e.Ref, "cause", e.Error())
			c.String(e.Kind.Status(), "service temporarily unavailable")
			c.Abort()
			return
		}
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(userContextKey, *user)
		c.Next()
	}
}

// resolve returns (nil, nil) when there is no usable session.
func (m *SessionMiddleware) resolve(c *gin.Context) (*session.User, error) {
	sessionID, err := c.Cookie(m.cookieName)
	if err != nil || sessionID == "" {
		return nil, nil
	}
	user, ok, err := m.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// CurrentUser reads the session user resolved by the middleware.
func CurrentUser(c *gin.Context) (session.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return session.User{}, false
	}
	user, ok := value.(session.User)
	return user, ok
}
