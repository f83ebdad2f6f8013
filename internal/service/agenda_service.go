package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/schedule"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
)

// snapshotWindow bounds how far around the requested date the snapshot
// loads events. Day navigation never strides more than a few days, so a
// month either side is plenty.
const snapshotWindow = 31

type agendaUserRepository interface {
	ListActive(ctx context.Context) ([]models.User, error)
}

type agendaTaskRepository interface {
	ListCandidates(ctx context.Context) ([]models.Task, error)
}

type agendaEventRepository interface {
	ListOverlapping(ctx context.Context, from, to models.Date) ([]models.CalendarEvent, error)
}

// AgendaService composes daily and weekly agenda layouts on top of the
// schedule package, with a Redis-backed cache in front.
type AgendaService struct {
	users   agendaUserRepository
	tasks   agendaTaskRepository
	events  agendaEventRepository
	cache   *CacheService
	metrics *MetricsService
	grid    schedule.GridConfig
	ttl     time.Duration
	logger  *zap.Logger
}

// NewAgendaService constructs an AgendaService instance.
func NewAgendaService(users agendaUserRepository, tasks agendaTaskRepository, events agendaEventRepository, cache *CacheService, metrics *MetricsService, grid schedule.GridConfig, ttl time.Duration, logger *zap.Logger) *AgendaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgendaService{
		users:   users,
		tasks:   tasks,
		events:  events,
		cache:   cache,
		metrics: metrics,
		grid:    grid,
		ttl:     ttl,
		logger:  logger,
	}
}

// Grid exposes the timeline configuration in use.
func (s *AgendaService) Grid() schedule.GridConfig {
	return s.grid
}

// DayLayout composes the positioned layout for a single day. The boolean
// reports whether the payload came from cache.
func (s *AgendaService) DayLayout(ctx context.Context, date models.Date, widths map[string]int) (*schedule.DayLayout, bool, error) {
	cacheKey := fmt.Sprintf("agenda:day:%s", date)
	if len(widths) == 0 && s.cache.Enabled() {
		var cached schedule.DayLayout
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	snap, err := s.loadSnapshot(ctx, date)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	layout := schedule.ComposeDay(s.grid, snap, date, widths)
	if s.metrics != nil {
		s.metrics.ObserveCompose("day", time.Since(start))
	}

	if len(widths) == 0 {
		if err := s.cache.Set(ctx, cacheKey, layout, s.ttl); err != nil {
			s.logger.Warn("failed to cache day layout", zap.Error(err))
		}
	}

	return &layout, false, nil
}

// WeekAgenda composes the Monday to Friday week view around the date.
func (s *AgendaService) WeekAgenda(ctx context.Context, date models.Date) (*schedule.WeekAgenda, bool, error) {
	anchor := schedule.WeekStartOf(date)
	cacheKey := fmt.Sprintf("agenda:week:%s", anchor)
	if s.cache.Enabled() {
		var cached schedule.WeekAgenda
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	snap, err := s.loadSnapshot(ctx, anchor)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	week := schedule.ComposeWeek(snap, anchor)
	if s.metrics != nil {
		s.metrics.ObserveCompose("week", time.Since(start))
	}

	if err := s.cache.Set(ctx, cacheKey, week, s.ttl); err != nil {
		s.logger.Warn("failed to cache week agenda", zap.Error(err))
	}

	return &week, false, nil
}

// NextDay returns the next navigable day after the current one.
func (s *AgendaService) NextDay(ctx context.Context, current models.Date) (models.Date, error) {
	snap, err := s.loadSnapshot(ctx, current)
	if err != nil {
		return models.Date{}, err
	}
	return schedule.NextDay(snap, current), nil
}

// PrevDay returns the previous navigable day before the current one.
func (s *AgendaService) PrevDay(ctx context.Context, current models.Date) (models.Date, error) {
	snap, err := s.loadSnapshot(ctx, current)
	if err != nil {
		return models.Date{}, err
	}
	return schedule.PrevDay(snap, current), nil
}

// InitialDay returns the day the agenda should open on.
func (s *AgendaService) InitialDay(ctx context.Context, today models.Date) (models.Date, error) {
	snap, err := s.loadSnapshot(ctx, today)
	if err != nil {
		return models.Date{}, err
	}
	return schedule.InitialDay(snap, today), nil
}

// InvalidateAgenda drops every cached agenda payload. Called by the task
// and event services after any write.
func (s *AgendaService) InvalidateAgenda(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "agenda:*"); err != nil {
		s.logger.Warn("failed to invalidate agenda cache", zap.Error(err))
	}
}

func (s *AgendaService) loadSnapshot(ctx context.Context, around models.Date) (schedule.Snapshot, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return schedule.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	tasks, err := s.tasks.ListCandidates(ctx)
	if err != nil {
		return schedule.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}

	events, err := s.events.ListOverlapping(ctx, around.AddDays(-snapshotWindow), around.AddDays(snapshotWindow))
	if err != nil {
		return schedule.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	return schedule.Snapshot{Users: users, Tasks: tasks, Events: events}, nil
}
