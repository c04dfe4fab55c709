package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"todo-app/backend/internal/apperr"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/services"
	"todo-app/backend/internal/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		respondMissingSession(c)
		return
	}

	var req validation.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(err, apperr.KindInvalidRequest, "INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), h.db, owner, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ListTasks handles GET /api/tasks. Failures degrade to an empty array so
// list views keep rendering.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		respondMissingSession(c)
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), h.db, owner)
	if err != nil {
		respondDegradedList(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// SearchTasks handles GET /api/tasks/search?page&size&isDone&titleKeyword.
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		respondMissingSession(c)
		return
	}

	query, err := parseSearchQuery(c)
	if err != nil {
		respondDegradedList(c, err)
		return
	}

	tasks, err := h.taskService.Search(c.Request.Context(), h.db, owner, query)
	if err != nil {
		respondDegradedList(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask handles GET /api/tasks/:id.
func (h *TaskHandler) GetTask(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		respondMissingSession(c)
		return
	}

	id, err := parseTaskID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), h.db, owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		respondMissingSession(c)
		return
	}

	id, err := parseTaskID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req validation.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(err, apperr.KindInvalidRequest, "INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), h.db, owner, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		respondMissingSession(c)
		return
	}

	id, err := parseTaskID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), h.db, owner, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkDeleteTasks handles DELETE /api/tasks/bulk?isDone=<bool>.
func (h *TaskHandler) BulkDeleteTasks(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		respondMissingSession(c)
		return
	}

	raw, exists := c.GetQuery("isDone")
	if !exists {
		respondError(c, apperr.Validation("required parameter is missing",
			map[string]string{"isDone": "this parameter is required"}))
		return
	}
	isDone, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, apperr.New(apperr.KindInvalidRequest, "INVALID_PARAMETER_TYPE",
			fmt.Sprintf("invalid value %q for parameter isDone", raw)))
		return
	}

	count, err := h.taskService.DeleteByStatus(c.Request.Context(), h.db, owner, isDone)
	if err != nil {
		respondError(c, err)
		return
	}

	status := "pending"
	if isDone {
		status = "completed"
	}
	c.JSON(http.StatusOK, gin.H{
		"deletedCount": count,
		"message":      fmt.Sprintf("deleted %d %s tasks", count, status),
	})
}

// parseTaskID rejects anything that is not a positive integer.
func parseTaskID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.KindInvalidRequest, "INVALID_TASK_ID",
			fmt.Sprintf("task id must be a positive integer, got %q", raw))
	}
	return uint(id), nil
}

func parseSearchQuery(c *gin.Context) (validation.SearchQuery, error) {
	query := validation.SearchQuery{}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		return query, apperr.New(apperr.KindInvalidRequest, "INVALID_PARAMETER_TYPE", "page must be an integer")
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		return query, apperr.New(apperr.KindInvalidRequest, "INVALID_PARAMETER_TYPE", "size must be an integer")
	}
	query.Page = page
	query.Size = size

	if raw, exists := c.GetQuery("isDone"); exists {
		isDone, err := strconv.ParseBool(raw)
		if err != nil {
			return query, apperr.New(apperr.KindInvalidRequest, "INVALID_PARAMETER_TYPE", "isDone must be a boolean")
		}
		query.IsDone = &isDone
	}
	if raw, exists := c.GetQuery("titleKeyword"); exists {
		query.TitleKeyword = &raw
	}
	return query, nil
}
