package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"todo-app/backend/internal/apperr"
	"todo-app/backend/internal/config"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/services"
	"todo-app/backend/internal/session"
	"todo-app/backend/internal/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WebHandler serves the server-rendered pages. It consumes the same
// services as the JSON API; only the response shape differs.
type WebHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	userService services.UserService
	sessions    *session.Store
	cookie      config.SessionConfig
}

func NewWebHandler(db *gorm.DB, taskService services.TaskService, userService services.UserService, sessions *session.Store, cookie config.SessionConfig) *WebHandler {
	return &WebHandler{
		db:          db,
		taskService: taskService,
		userService: userService,
		sessions:    sessions,
		cookie:      cookie,
	}
}

// ListPage handles GET /. On a read failure the page still renders, with
// an error banner and no tasks, instead of a server error page.
func (h *WebHandler) ListPage(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	data := gin.H{
		"title":    "My tasks",
		"nickname": owner.Nickname,
		"message":  c.Query("message"),
		"error":    c.Query("error"),
	}

	tasks, err := h.taskService.List(c.Request.Context(), h.db, owner)
	if err != nil {
		logError(c, apperr.Classify(err))
		data["error"] = "failed to load tasks, please try again later"
		tasks = []models.Task{}
	}
	data["tasks"] = tasks

	c.HTML(http.StatusOK, "list.html", data)
}

// CreateForm handles GET /create.
func (h *WebHandler) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "create.html", gin.H{"title": "New task"})
}

// CreateTask handles POST /create.
func (h *WebHandler) CreateTask(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var req validation.TaskCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "create.html", gin.H{
			"title": "New task",
			"error": "invalid form submission",
		})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), h.db, owner, req)
	if err != nil {
		e := apperr.Classify(err)
		logError(c, e)
		c.HTML(e.Kind.Status(), "create.html", gin.H{
			"title":       "New task",
			"error":       e.Message,
			"fieldErrors": e.FieldErrors,
			"form":        req,
		})
		return
	}

	redirectWithMessage(c, "/", fmt.Sprintf("task %q created", task.Title))
}

// ToggleTask handles POST /toggle/:id: flips completion through a partial
// update, leaving title and description untouched.
func (h *WebHandler) ToggleTask(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	id, err := parseTaskID(c)
	if err != nil {
		redirectWithError(c, "/", "invalid task id")
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), h.db, owner, id)
	if err != nil {
		h.redirectTaskError(c, err)
		return
	}

	toggled := !task.IsDone
	updated, err := h.taskService.Update(c.Request.Context(), h.db, owner, id, validation.TaskUpdateRequest{IsDone: &toggled})
	if err != nil {
		h.redirectTaskError(c, err)
		return
	}

	state := "pending"
	if updated.IsDone {
		state = "done"
	}
	redirectWithMessage(c, "/", fmt.Sprintf("task %q marked %s", updated.Title, state))
}

// DeleteTask handles POST /delete/:id.
func (h *WebHandler) DeleteTask(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	id, err := parseTaskID(c)
	if err != nil {
		redirectWithError(c, "/", "invalid task id")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), h.db, owner, id); err != nil {
		h.redirectTaskError(c, err)
		return
	}
	redirectWithMessage(c, "/", "task deleted")
}

// SignupForm handles GET /signup.
func (h *WebHandler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"title": "Sign up"})
}

// Signup handles POST /signup.
func (h *WebHandler) Signup(c *gin.Context) {
	var req validation.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"title": "Sign up",
			"error": "invalid form submission",
		})
		return
	}

	if _, err := h.userService.Signup(c.Request.Context(), h.db, req); err != nil {
		e := apperr.Classify(err)
		logError(c, e)
		c.HTML(e.Kind.Status(), "signup.html", gin.H{
			"title":       "Sign up",
			"error":       e.Message,
			"fieldErrors": e.FieldErrors,
			"form":        req,
		})
		return
	}

	redirectWithMessage(c, "/login", "account created, please log in")
}

// LoginForm handles GET /login.
func (h *WebHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title":   "Log in",
		"message": c.Query("message"),
		"error":   c.Query("error"),
	})
}

// Login handles POST /login.
func (h *WebHandler) Login(c *gin.Context) {
	var req validation.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"title": "Log in",
			"error": "invalid form submission",
		})
		return
	}

	profile, err := h.userService.Login(c.Request.Context(), h.db, req)
	if err != nil {
		e := apperr.Classify(err)
		logError(c, e)
		c.HTML(e.Kind.Status(), "login.html", gin.H{
			"title": "Log in",
			"error": e.Message,
			"email": req.Email,
		})
		return
	}

	sessionID, err := h.sessions.Create(c.Request.Context(), session.User{
		ID:       profile.ID,
		Email:    profile.Email,
		Nickname: profile.Nickname,
	})
	if err != nil {
		e := apperr.Classify(err)
		logError(c, e)
		c.HTML(e.Kind.Status(), "login.html", gin.H{
			"title": "Log in",
			"error": "login is temporarily unavailable",
			"email": req.Email,
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, sessionID, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.CookieSecure, true)
	c.Redirect(http.StatusFound, "/")
}

// Logout handles POST /logout.
func (h *WebHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.cookie.CookieName); err == nil && sessionID != "" {
		if err := h.sessions.Destroy(c.Request.Context(), sessionID); err != nil {
			slog.Error("failed to destroy session", "cause", err.Error())
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.CookieSecure, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *WebHandler) redirectTaskError(c *gin.Context, err error) {
	e := apperr.Classify(err)
	logError(c, e)
	if e.Kind.UserError() {
		redirectWithError(c, "/", e.Message)
		return
	}
	redirectWithError(c, "/", "something went wrong, please try again")
}

func redirectWithMessage(c *gin.Context, path, message string) {
	c.Redirect(http.StatusFound, path+"?message="+url.QueryEscape(message))
}

func redirectWithError(c *gin.Context, path, message string) {
	c.Redirect(http.StatusFound, path+"?error="+url.QueryEscape(message))
}
