package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/schedule"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
)

type taskRepository interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	UpsertMany(ctx context.Context, tasks []models.Task) error
	UpdateStatus(ctx context.Context, id string, status models.TaskStatus) error
	Reassign(ctx context.Context, id, userID string, date models.Date) error
	Delete(ctx context.Context, id string) error
}

type taskUserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type taskCacheInvalidator interface {
	InvalidateAgenda(ctx context.Context)
}

// TaskRequest represents payload for creating or updating tasks. ID is
// honored only by bulk upserts; single creates always generate one.
type TaskRequest struct {
	ID          string              `json:"id"`
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description"`
	UserID      string              `json:"user_id" validate:"required"`
	Days        []string            `json:"days" validate:"dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartDate   models.Date         `json:"start_date"`
	EndDate     *models.Date        `json:"end_date"`
	StartTime   *models.ClockTime   `json:"start_time"`
	Duration    *int                `json:"duration" validate:"omitempty,min=1"`
	Priority    models.TaskPriority `json:"priority" validate:"required,oneof=high medium low"`
	Status      models.TaskStatus   `json:"status" validate:"omitempty,oneof=todo in-progress done archived"`
	Notes       string              `json:"notes"`
}

// ReassignTaskRequest moves a task to a different user on a given date.
type ReassignTaskRequest struct {
	UserID string      `json:"user_id" validate:"required"`
	Date   models.Date `json:"date"`
}

// TaskService handles task management workflows.
type TaskService struct {
	repo      taskRepository
	users     taskUserLookup
	cache     taskCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaskService creates an instance of TaskService.
func NewTaskService(repo taskRepository, users taskUserLookup, cache taskCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TaskService{repo: repo, users: users, cache: cache, validator: validate, logger: logger}
}

// List returns paginated tasks with metadata.
func (s *TaskService) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, *models.Pagination, error) {
	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return tasks, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	return task, nil
}

// Create adds a new task.
func (s *TaskService) Create(ctx context.Context, req TaskRequest) (*models.Task, error) {
	task, err := s.buildTask(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}

	s.invalidate(ctx)
	return task, nil
}

// Update modifies an existing task.
func (s *TaskService) Update(ctx context.Context, id string, req TaskRequest) (*models.Task, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	task, err := s.buildTask(ctx, req)
	if err != nil {
		return nil, err
	}
	task.ID = id

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}

	s.invalidate(ctx)
	return task, nil
}

// UpsertMany inserts or replaces a batch of tasks.
func (s *TaskService) UpsertMany(ctx context.Context, reqs []TaskRequest) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(reqs))
	for _, req := range reqs {
		task, err := s.buildTask(ctx, req)
		if err != nil {
			return nil, err
		}
		task.ID = req.ID
		tasks = append(tasks, *task)
	}

	if err := s.repo.UpsertMany(ctx, tasks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert tasks")
	}

	s.invalidate(ctx)
	return tasks, nil
}

// UpdateStatus transitions a task through its workflow. The caller may move
// a task forward or back between todo, in-progress and done; archiving is a
// one way move. Only managers and the task's assignee may change status.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status models.TaskStatus, actorID string, actorRole models.UserRole) (*models.Task, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown task status")
	}

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actorRole.CanManageTasks() && task.UserID != actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers or the assignee can change task status")
	}

	if task.Status == models.StatusArchived {
		return nil, appErrors.Clone(appErrors.ErrConflict, "archived tasks cannot change status")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task status")
	}

	task.Status = status
	s.invalidate(ctx)
	return task, nil
}

// Reassign moves a task to another user, anchoring it on the drop date.
func (s *TaskService) Reassign(ctx context.Context, id string, req ReassignTaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reassign payload")
	}

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target user")
	}

	date := req.Date
	if date.IsZero() {
		date = task.StartDate
	}

	moved := schedule.Reassign(*task, req.UserID, date)
	if err := s.repo.Reassign(ctx, id, moved.UserID, moved.StartDate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign task")
	}

	s.invalidate(ctx)
	return &moved, nil
}

// Delete removes a task permanently.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete task")
	}
	s.invalidate(ctx)
	return nil
}

func (s *TaskService) buildTask(ctx context.Context, req TaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}
	if req.StartDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date is required")
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date precedes start_date")
	}
	if req.StartTime != nil && req.Duration == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timed tasks require a duration")
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assigned user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assigned user")
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}

	return &models.Task{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		Days:        pq.StringArray(req.Days),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		Duration:    req.Duration,
		Priority:    req.Priority,
		Status:      status,
		Notes:       req.Notes,
	}, nil
}

func (s *TaskService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateAgenda(ctx)
	}
}
