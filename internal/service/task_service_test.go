package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/schedule"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
)

type mockTaskRepo struct {
	tasks        map[string]*models.Task
	upserted     []models.Task
	statusSet    models.TaskStatus
	reassignedTo string
	reassignDate models.Date
	deleted      []string
}

func (m *mockTaskRepo) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*models.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if m.tasks == nil {
		m.tasks = map[string]*models.Task{}
	}
	if task.ID == "" {
		task.ID = "generated"
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) UpsertMany(ctx context.Context, tasks []models.Task) error {
	m.upserted = tasks
	return nil
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) error {
	m.statusSet = status
	return nil
}

func (m *mockTaskRepo) Reassign(ctx context.Context, id, userID string, date models.Date) error {
	m.reassignedTo = userID
	m.reassignDate = date
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockUserLookup struct {
	users map[string]*models.User
}

func (m *mockUserLookup) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateAgenda(ctx context.Context) { m.calls++ }

func newTaskService(repo *mockTaskRepo, users *mockUserLookup, inv *mockInvalidator) *TaskService {
	return NewTaskService(repo, users, inv, validator.New(), zap.NewNop())
}

func validTaskRequest() TaskRequest {
	return TaskRequest{
		Title:     "Check deliveries",
		UserID:    "u1",
		Days:      []string{"Monday", "Wednesday"},
		StartDate: models.MustDate("2024-06-03"),
		Priority:  models.PriorityHigh,
	}
}

func TestTaskServiceCreate(t *testing.T) {
	repo := &mockTaskRepo{}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	inv := &mockInvalidator{}
	svc := newTaskService(repo, users, inv)

	task, err := svc.Create(context.Background(), validTaskRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, 1, inv.calls)
}

func TestTaskServiceCreateRecurrenceDaysSurvive(t *testing.T) {
	repo := &mockTaskRepo{}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	svc := newTaskService(repo, users, &mockInvalidator{})

	task, err := svc.Create(context.Background(), validTaskRequest())
	require.NoError(t, err)
	require.Equal(t, []models.Weekday{models.Monday, models.Wednesday}, task.RecurrenceDays())
	assert.True(t, schedule.IsDue(*task, models.MustDate("2024-06-10")))
	assert.False(t, schedule.IsDue(*task, models.MustDate("2024-06-11")))
}

func TestTaskServiceCreateUnknownUser(t *testing.T) {
	repo := &mockTaskRepo{}
	users := &mockUserLookup{users: map[string]*models.User{}}
	svc := newTaskService(repo, users, &mockInvalidator{})

	_, err := svc.Create(context.Background(), validTaskRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTaskServiceCreateTimedWithoutDuration(t *testing.T) {
	repo := &mockTaskRepo{}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	svc := newTaskService(repo, users, &mockInvalidator{})

	req := validTaskRequest()
	start := models.MustClock("09:00")
	req.StartTime = &start

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTaskServiceCreateEndBeforeStart(t *testing.T) {
	repo := &mockTaskRepo{}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	svc := newTaskService(repo, users, &mockInvalidator{})

	req := validTaskRequest()
	end := models.MustDate("2024-05-31")
	req.EndDate = &end

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTaskServiceUpsertMany(t *testing.T) {
	repo := &mockTaskRepo{}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	inv := &mockInvalidator{}
	svc := newTaskService(repo, users, inv)

	tasks, err := svc.UpsertMany(context.Background(), []TaskRequest{validTaskRequest(), validTaskRequest()})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Len(t, repo.upserted, 2)
	assert.Equal(t, 1, inv.calls)
}

func TestTaskServiceUpdateStatusArchivedRejected(t *testing.T) {
	repo := &mockTaskRepo{tasks: map[string]*models.Task{
		"t1": {ID: "t1", Status: models.StatusArchived},
	}}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	svc := newTaskService(repo, users, &mockInvalidator{})

	_, err := svc.UpdateStatus(context.Background(), "t1", models.StatusDone, "admin", models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTaskServiceUpdateStatus(t *testing.T) {
	repo := &mockTaskRepo{tasks: map[string]*models.Task{
		"t1": {ID: "t1", UserID: "u1", Status: models.StatusTodo},
	}}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	inv := &mockInvalidator{}
	svc := newTaskService(repo, users, inv)

	task, err := svc.UpdateStatus(context.Background(), "t1", models.StatusInProgress, "u1", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Equal(t, models.StatusInProgress, repo.statusSet)
	assert.Equal(t, 1, inv.calls)
}

func TestTaskServiceUpdateStatusForbiddenForOtherUser(t *testing.T) {
	repo := &mockTaskRepo{tasks: map[string]*models.Task{
		"t1": {ID: "t1", UserID: "u1", Status: models.StatusTodo},
	}}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	svc := newTaskService(repo, users, &mockInvalidator{})

	_, err := svc.UpdateStatus(context.Background(), "t1", models.StatusDone, "u2", models.RoleUser)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestTaskServiceReassign(t *testing.T) {
	repo := &mockTaskRepo{tasks: map[string]*models.Task{
		"t1": {ID: "t1", UserID: "u1", StartDate: models.MustDate("2024-06-03"), Status: models.StatusTodo},
	}}
	users := &mockUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}, "u2": {ID: "u2"}}}
	inv := &mockInvalidator{}
	svc := newTaskService(repo, users, inv)

	moved, err := svc.Reassign(context.Background(), "t1", ReassignTaskRequest{UserID: "u2", Date: models.MustDate("2024-06-05")})
	require.NoError(t, err)
	assert.Equal(t, "u2", moved.UserID)
	assert.Equal(t, models.MustDate("2024-06-05"), moved.StartDate)
	assert.Equal(t, "u2", repo.reassignedTo)
	assert.Equal(t, 1, inv.calls)
}

func TestTaskServiceReassignKeepsDateWhenUnset(t *testing.T) {
	repo := &mockTaskRepo{tasks: map[string]*models.Task{
		"t1": {ID: "t1", UserID: "u1", StartDate: models.MustDate("2024-06-03"), Status: models.StatusTodo},
	}}
	users := &mockUserLookup{users: map[string]*models.User{"u2": {ID: "u2"}}}
	svc := newTaskService(repo, users, &mockInvalidator{})

	moved, err := svc.Reassign(context.Background(), "t1", ReassignTaskRequest{UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, models.MustDate("2024-06-03"), moved.StartDate)
}
