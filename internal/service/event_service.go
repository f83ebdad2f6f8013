package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/teamagenda/agenda-api/internal/models"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, int, error)
	FindByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

// EventRequest represents payload for creating or updating calendar events.
type EventRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	EventType   models.EventType `json:"event_type" validate:"required,oneof=info blocker"`
	StartDate   models.Date      `json:"start_date"`
	EndDate     models.Date      `json:"end_date"`
	AllDay      bool             `json:"all_day"`
}

// EventService handles calendar event workflows.
type EventService struct {
	repo      eventRepository
	cache     taskCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService creates an instance of EventService.
func NewEventService(repo eventRepository, cache taskCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EventService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns paginated calendar events.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, *models.Pagination, error) {
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return events, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a calendar event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*models.CalendarEvent, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

// Create adds a new calendar event.
func (s *EventService) Create(ctx context.Context, req EventRequest, actorID string) (*models.CalendarEvent, error) {
	event, err := s.buildEvent(req)
	if err != nil {
		return nil, err
	}
	event.CreatedBy = actorID

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	s.invalidate(ctx)
	return event, nil
}

// Update modifies an existing calendar event.
func (s *EventService) Update(ctx context.Context, id string, req EventRequest) (*models.CalendarEvent, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := s.buildEvent(req)
	if err != nil {
		return nil, err
	}
	event.ID = id
	event.CreatedBy = existing.CreatedBy
	event.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}

	s.invalidate(ctx)
	return event, nil
}

// Delete removes a calendar event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.invalidate(ctx)
	return nil
}

func (s *EventService) buildEvent(req EventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date precedes start_date")
	}

	return &models.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AllDay:      req.AllDay,
	}, nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateAgenda(ctx)
	}
}
