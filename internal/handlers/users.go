package handlers

import (
	"log/slog"
	"net/http"

	"todo-app/backend/internal/apperr"
	"todo-app/backend/internal/config"
	"todo-app/backend/internal/services"
	"todo-app/backend/internal/session"
	"todo-app/backend/internal/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db          *gorm.DB
	userService services.UserService
	sessions    *session.Store
	cookie      config.SessionConfig
}

func NewUserHandler(db *gorm.DB, userService services.UserService, sessions *session.Store, cookie config.SessionConfig) *UserHandler {
	return &UserHandler{db: db, userService: userService, sessions: sessions, cookie: cookie}
}

// Signup handles POST /api/users/signup.
func (h *UserHandler) Signup(c *gin.Context) {
	var req validation.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(err, apperr.KindInvalidRequest, "INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	profile, err := h.userService.Signup(c.Request.Context(), h.db, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// Login handles POST /api/users/login: verified credentials produce a new
// server-side session and the cookie carrying its opaque id.
func (h *UserHandler) Login(c *gin.Context) {
	var req validation.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(err, apperr.KindInvalidRequest, "INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	profile, err := h.userService.Login(c.Request.Context(), h.db, req)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionID, err := h.sessions.Create(c.Request.Context(), session.User{
		ID:       profile.ID,
		Email:    profile.Email,
		Nickname: profile.Nickname,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, sessionID)
	c.JSON(http.StatusOK, profile)
}

// Logout handles POST /api/users/logout. Logging out without a session is
// not an error.
func (h *UserHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.cookie.CookieName); err == nil && sessionID != "" {
		if err := h.sessions.Destroy(c.Request.Context(), sessionID); err != nil {
			// The cookie is cleared regardless; the stale entry expires
			// on its own.
			slog.Error("failed to destroy session", "cause", err.Error())
		}
	}
	h.clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, sessionID, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.CookieSecure, true)
}

func (h *UserHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.CookieSecure, true)
}
