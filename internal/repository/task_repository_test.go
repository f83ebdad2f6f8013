package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamagenda/agenda-api/internal/models"
)

func taskRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "user_id", "days", "start_date", "end_date", "start_time", "duration", "priority", "status", "notes", "created_at", "updated_at"}).
		AddRow("t1", "Review inventory", "", "u1", "{Monday,Wednesday}", "2024-06-03", nil, "09:00", 60, string(models.PriorityHigh), string(models.StatusTodo), "", now, now)
}

func TestFindTaskByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, user_id, days, start_date, end_date, start_time, duration, priority, status, notes, created_at, updated_at FROM tasks WHERE id = $1 LIMIT 1")).
		WithArgs("t1").
		WillReturnRows(taskRows(time.Now()))

	task, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Review inventory", task.Title)
	assert.Equal(t, pq.StringArray{"Monday", "Wednesday"}, task.Days)
	require.NotNil(t, task.StartTime)
	assert.Equal(t, "09:00", task.StartTime.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCandidateTasks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, user_id, days, start_date, end_date, start_time, duration, priority, status, notes, created_at, updated_at FROM tasks WHERE status <> $1 ORDER BY start_date ASC, created_at ASC")).
		WithArgs(models.StatusArchived).
		WillReturnRows(taskRows(time.Now()))

	tasks, err := repo.ListCandidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertManyTasks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tasks").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO tasks").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tasks := []models.Task{
		{Title: "One", UserID: "u1", StartDate: models.MustDate("2024-06-03"), Priority: models.PriorityMedium, Status: models.StatusTodo},
		{ID: "t2", Title: "Two", UserID: "u2", StartDate: models.MustDate("2024-06-04"), Priority: models.PriorityLow, Status: models.StatusTodo},
	}
	err := repo.UpsertMany(context.Background(), tasks)
	require.NoError(t, err)
	assert.NotEmpty(t, tasks[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertManyEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	err := repo.UpsertMany(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReassignTask(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("UPDATE tasks SET user_id").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Reassign(context.Background(), "t1", "u2", models.MustDate("2024-06-05"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("UPDATE tasks SET status").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "t1", models.StatusDone)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
