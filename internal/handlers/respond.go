package handlers

import (
	"log/slog"
	"net/http"

	"todo-app/backend/internal/apperr"
	"todo-app/backend/internal/middleware"
	"todo-app/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// respondError maps any error onto the taxonomy and writes the standard
// error body. User errors log at info without cause chains; system errors
// log at error with the cause and the opaque reference handed to the
// caller. Credentials and cookies are never logged.
func respondError(c *gin.Context, err error) {
	e := apperr.Classify(err)
	logError(c, e)
	c.JSON(e.Kind.Status(), e.Response(c.Request.URL.Path))
}

func logError(c *gin.Context, e *apperr.Error) {
	if e.Kind.UserError() {
		slog.Info("request failed",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"code", e.Code,
			"message", e.Message,
		)
		return
	}
	slog.Error("request failed",
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"code", e.Code,
		"ref", e.Ref,
		"cause", e.Error(),
	)
}

// respondDegradedList keeps list views rendering when a read fails: the
// caller gets an empty array with a status reflecting the failure instead
// of an error body. Applied only to list/search reads, never to writes.
func respondDegradedList(c *gin.Context, err error) {
	e := apperr.Classify(err)
	logError(c, e)

	switch {
	case e.Kind == apperr.KindNotFound:
		c.JSON(http.StatusOK, []models.Task{})
	case e.Kind.UserError():
		c.JSON(http.StatusBadRequest, []models.Task{})
	default:
		c.JSON(http.StatusServiceUnavailable, []models.Task{})
	}
}

// currentOwner converts the session user resolved by the middleware into
// the owner value the services take. The session is resolved once per
// request; business logic never looks identity up on its own.
func currentOwner(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return models.User{}, false
	}
	return models.User{ID: user.ID, Email: user.Email, Nickname: user.Nickname}, true
}

// respondMissingSession is a fallback for a handler reached without the
// session middleware; it mirrors the middleware's own response.
func respondMissingSession(c *gin.Context) {
	e := apperr.LoginRequired()
	c.JSON(e.Kind.Status(), e.Response(c.Request.URL.Path))
}
