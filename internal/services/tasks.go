package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"todo-app/backend/internal/apperr"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/validation"

	"gorm.io/gorm"
)

// TaskService is the owner-scoped task business logic. Every operation
// takes the authenticated owner; none accepts a caller-supplied owner id.
// A task belonging to someone else is indistinguishable from a task that
// does not exist.
type TaskService interface {
	Create(ctx context.Context, db *gorm.DB, owner models.User, req validation.TaskCreateRequest) (models.Task, error)
	Get(ctx context.Context, db *gorm.DB, owner models.User, id uint) (models.Task, error)
	List(ctx context.Context, db *gorm.DB, owner models.User) ([]models.Task, error)
	Search(ctx context.Context, db *gorm.DB, owner models.User, query validation.SearchQuery) ([]models.Task, error)
	Update(ctx context.Context, db *gorm.DB, owner models.User, id uint, req validation.TaskUpdateRequest) (models.Task, error)
	Delete(ctx context.Context, db *gorm.DB, owner models.User, id uint) error
	DeleteByStatus(ctx context.Context, db *gorm.DB, owner models.User, isDone bool) (int, error)

	// ListAll ignores ownership. Only the admin boundary may call it.
	ListAll(ctx context.Context, db *gorm.DB) ([]models.Task, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) Create(ctx context.Context, db *gorm.DB, owner models.User, req validation.TaskCreateRequest) (models.Task, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		IsDone:      false,
		UserID:      owner.ID,
	}
	if err := db.WithContext(ctx).Create(&task).Error; err != nil {
		return models.Task{}, storeError(err, "TASK_CREATE_FAILED", "failed to create task")
	}

	slog.Info("task created", "id", task.ID, "user", owner.Email)
	return task, nil
}

func (s *TaskServiceImpl) Get(ctx context.Context, db *gorm.DB, owner models.User, id uint) (models.Task, error) {
	return s.getOwned(ctx, db, owner, id)
}

func (s *TaskServiceImpl) List(ctx context.Context, db *gorm.DB, owner models.User) ([]models.Task, error) {
	var tasks []models.Task
	err := db.WithContext(ctx).
		Where("user_id = ?", owner.ID).
		Order("id").
		Find(&tasks).Error
	if err != nil {
		return nil, storeError(err, "TASK_LIST_FAILED", "failed to list tasks")
	}
	return tasks, nil
}

func (s *TaskServiceImpl) Search(ctx context.Context, db *gorm.DB, owner models.User, query validation.SearchQuery) ([]models.Task, error) {
	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tasks, err := s.List(ctx, db, owner)
	if err != nil {
		return nil, err
	}

	filtered := tasks[:0:0]
	for _, task := range tasks {
		if query.IsDone != nil && task.IsDone != *query.IsDone {
			continue
		}
		if query.TitleKeyword != nil &&
			!strings.Contains(strings.ToLower(task.Title), strings.ToLower(*query.TitleKeyword)) {
			continue
		}
		filtered = append(filtered, task)
	}

	start := query.Page * query.Size
	if start >= len(filtered) {
		return []models.Task{}, nil
	}
	end := min(start+query.Size, len(filtered))
	return filtered[start:end], nil
}

func (s *TaskServiceImpl) Update(ctx context.Context, db *gorm.DB, owner models.User, id uint, req validation.TaskUpdateRequest) (models.Task, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return models.Task{}, err
	}

	task, err := s.getOwned(ctx, db, owner, id)
	if err != nil {
		return models.Task{}, err
	}

	// Effective values: a field absent from the request keeps its stored
	// value. The merged result is re-validated, so even a no-op update
	// fails if the stored values violate current constraints.
	title := task.Title
	if req.Title != nil {
		title = *req.Title
	}
	description := task.Description
	if req.Description != nil {
		description = req.Description
	}
	isDone := task.IsDone
	if req.IsDone != nil {
		isDone = *req.IsDone
	}

	if err := validation.ValidateTaskFields(title, description); err != nil {
		return models.Task{}, err
	}

	task.Title = title
	task.Description = description
	task.IsDone = isDone

	if err := db.WithContext(ctx).Save(&task).Error; err != nil {
		return models.Task{}, storeError(err, "TASK_UPDATE_FAILED", "failed to update task")
	}

	slog.Info("task updated", "id", task.ID, "user", owner.Email)
	return task, nil
}

func (s *TaskServiceImpl) Delete(ctx context.Context, db *gorm.DB, owner models.User, id uint) error {
	task, err := s.getOwned(ctx, db, owner, id)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(&models.Task{}, task.ID).Error; err != nil {
		return storeError(err, "TASK_DELETE_FAILED", "failed to delete task")
	}

	slog.Info("task deleted", "id", id, "user", owner.Email)
	return nil
}

func (s *TaskServiceImpl) DeleteByStatus(ctx context.Context, db *gorm.DB, owner models.User, isDone bool) (int, error) {
	var tasks []models.Task
	err := db.WithContext(ctx).
		Where("user_id = ? AND is_done = ?", owner.ID, isDone).
		Find(&tasks).Error
	if err != nil {
		return 0, storeError(err, "TASK_BULK_DELETE_FAILED", "failed to delete tasks by status")
	}

	// Per-item deletes; partial completion on failure is acceptable and
	// the count reflects rows actually removed.
	deleted := 0
	for _, task := range tasks {
		result := db.WithContext(ctx).Delete(&models.Task{}, task.ID)
		if result.Error != nil {
			return deleted, storeError(result.Error, "TASK_BULK_DELETE_FAILED", "failed to delete tasks by status")
		}
		deleted += int(result.RowsAffected)
	}

	slog.Info("tasks bulk deleted", "count", deleted, "isDone", isDone, "user", owner.Email)
	return deleted, nil
}

func (s *TaskServiceImpl) ListAll(ctx context.Context, db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, storeError(err, "TASK_LIST_FAILED", "failed to list tasks")
	}
	return tasks, nil
}

// getOwned looks a task up by (id, owner) jointly. A miss and a foreign
// task produce the same not-found error so existence never leaks.
func (s *TaskServiceImpl) getOwned(ctx context.Context, db *gorm.DB, owner models.User, id uint) (models.Task, error) {
	var task models.Task
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner.ID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, apperr.TaskNotFound(id)
		}
		return models.Task{}, storeError(err, "TASK_RETRIEVE_FAILED", "failed to retrieve task")
	}
	return task, nil
}

// storeError wraps an unexpected store failure so raw driver errors never
// propagate to the boundary.
func storeError(err error, code, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(err, apperr.KindTimeout, "TIMEOUT_ERROR", message)
	}
	return apperr.Wrap(err, apperr.KindDatabase, code, message)
}
