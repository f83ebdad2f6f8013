package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/schedule"
)

type mockAgendaUsers struct {
	users []models.User
	calls int
}

func (m *mockAgendaUsers) ListActive(ctx context.Context) ([]models.User, error) {
	m.calls++
	return m.users, nil
}

type mockAgendaTasks struct {
	tasks []models.Task
}

func (m *mockAgendaTasks) ListCandidates(ctx context.Context) ([]models.Task, error) {
	return m.tasks, nil
}

type mockAgendaEvents struct {
	events []models.CalendarEvent
}

func (m *mockAgendaEvents) ListOverlapping(ctx context.Context, from, to models.Date) ([]models.CalendarEvent, error) {
	return m.events, nil
}

func weekdayStaff(id string) models.User {
	return models.User{ID: id, Name: id, Active: true, WorkWeek: models.DefaultWorkWeek()}
}

func newAgendaService(users *mockAgendaUsers, tasks *mockAgendaTasks, events *mockAgendaEvents) *AgendaService {
	cache := NewCacheService(nil, nil, 0, zap.NewNop(), false)
	return NewAgendaService(users, tasks, events, cache, nil, schedule.DefaultGridConfig(), 0, zap.NewNop())
}

func TestAgendaDayLayout(t *testing.T) {
	users := &mockAgendaUsers{users: []models.User{weekdayStaff("u1")}}
	tasks := &mockAgendaTasks{tasks: []models.Task{
		{ID: "t1", Title: "Daily check", UserID: "u1", StartDate: models.MustDate("2024-06-03"), Days: []string{"Monday"}, Priority: models.PriorityHigh, Status: models.StatusTodo},
	}}
	svc := newAgendaService(users, tasks, &mockAgendaEvents{})

	layout, cached, err := svc.DayLayout(context.Background(), models.MustDate("2024-06-03"), nil)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, layout.Users, 1)
	require.Len(t, layout.Users[0].UntimedTasks, 1)
	assert.Equal(t, "t1", layout.Users[0].UntimedTasks[0].ID)
}

func TestAgendaWeekAgenda(t *testing.T) {
	users := &mockAgendaUsers{users: []models.User{weekdayStaff("u1")}}
	svc := newAgendaService(users, &mockAgendaTasks{}, &mockAgendaEvents{})

	week, cached, err := svc.WeekAgenda(context.Background(), models.MustDate("2024-06-05"))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, models.MustDate("2024-06-03"), week.WeekStart)
	assert.Len(t, week.Days, 5)
}

func TestAgendaNextDaySkipsWeekend(t *testing.T) {
	users := &mockAgendaUsers{users: []models.User{weekdayStaff("u1")}}
	svc := newAgendaService(users, &mockAgendaTasks{}, &mockAgendaEvents{})

	next, err := svc.NextDay(context.Background(), models.MustDate("2024-06-07"))
	require.NoError(t, err)
	assert.Equal(t, models.MustDate("2024-06-10"), next)
}

func TestAgendaInitialDayOnIdleWeekend(t *testing.T) {
	users := &mockAgendaUsers{users: []models.User{weekdayStaff("u1")}}
	svc := newAgendaService(users, &mockAgendaTasks{}, &mockAgendaEvents{})

	day, err := svc.InitialDay(context.Background(), models.MustDate("2024-06-08"))
	require.NoError(t, err)
	assert.Equal(t, models.MustDate("2024-06-10"), day)
}
