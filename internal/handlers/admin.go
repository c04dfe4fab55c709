package handlers

import (
	"net/http"

	"todo-app/backend/internal/models"
	"todo-app/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler serves the system-wide task listing. The route is gated by
// the admin token middleware, never by a user session.
type AdminHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewAdminHandler(db *gorm.DB, taskService services.TaskService) *AdminHandler {
	return &AdminHandler{db: db, taskService: taskService}
}

// ListAllTasks handles GET /api/admin/tasks.
func (h *AdminHandler) ListAllTasks(c *gin.Context) {
	tasks, err := h.taskService.ListAll(c.Request.Context(), h.db)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}
