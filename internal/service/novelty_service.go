package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/schedule"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
)

type noveltyRepository interface {
	List(ctx context.Context, filter models.NoveltyFilter) ([]models.Novelty, int, error)
	ListOverlapping(ctx context.Context, from, to models.Date) ([]models.Novelty, error)
	FindByID(ctx context.Context, id string) (*models.Novelty, error)
	Create(ctx context.Context, novelty *models.Novelty) error
	Update(ctx context.Context, novelty *models.Novelty) error
	UpsertMany(ctx context.Context, novelties []models.Novelty) error
	MarkViewed(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

// NoveltyRequest represents payload for creating or updating novelties.
// ID is honored only by bulk upserts.
type NoveltyRequest struct {
	ID          string      `json:"id"`
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	StartDate   models.Date `json:"start_date"`
	EndDate     models.Date `json:"end_date"`
}

// NoveltyService handles announcement workflows.
type NoveltyService struct {
	repo      noveltyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoveltyService creates an instance of NoveltyService.
func NewNoveltyService(repo noveltyRepository, validate *validator.Validate, logger *zap.Logger) *NoveltyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NoveltyService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated novelties.
func (s *NoveltyService) List(ctx context.Context, filter models.NoveltyFilter) ([]models.Novelty, *models.Pagination, error) {
	novelties, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list novelties")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return novelties, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a novelty by ID.
func (s *NoveltyService) Get(ctx context.Context, id string) (*models.Novelty, error) {
	novelty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "novelty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load novelty")
	}
	return novelty, nil
}

// ActiveForDay returns unseen novelties whose span covers the given date.
func (s *NoveltyService) ActiveForDay(ctx context.Context, userID string, date models.Date) ([]models.Novelty, error) {
	novelties, err := s.repo.ListOverlapping(ctx, date, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load novelties")
	}
	return schedule.ActiveNovelties(novelties, date, userID, schedule.NoveltyDay), nil
}

// ActiveForWeek returns unseen novelties overlapping the week of the date.
func (s *NoveltyService) ActiveForWeek(ctx context.Context, userID string, date models.Date) ([]models.Novelty, error) {
	from, to := schedule.WeekBounds(date)
	novelties, err := s.repo.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load novelties")
	}
	return schedule.ActiveNovelties(novelties, date, userID, schedule.NoveltyWeek), nil
}

// Create adds a new novelty.
func (s *NoveltyService) Create(ctx context.Context, req NoveltyRequest) (*models.Novelty, error) {
	novelty, err := s.buildNovelty(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, novelty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create novelty")
	}
	return novelty, nil
}

// UpsertMany inserts or updates a batch of novelties. Dismissals of
// existing rows are preserved.
func (s *NoveltyService) UpsertMany(ctx context.Context, reqs []NoveltyRequest) ([]models.Novelty, error) {
	novelties := make([]models.Novelty, 0, len(reqs))
	for _, req := range reqs {
		novelty, err := s.buildNovelty(req)
		if err != nil {
			return nil, err
		}
		novelty.ID = req.ID
		novelties = append(novelties, *novelty)
	}

	if err := s.repo.UpsertMany(ctx, novelties); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert novelties")
	}
	return novelties, nil
}

// Update modifies an existing novelty. The viewed set is preserved.
func (s *NoveltyService) Update(ctx context.Context, id string, req NoveltyRequest) (*models.Novelty, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	novelty, err := s.buildNovelty(req)
	if err != nil {
		return nil, err
	}
	novelty.ID = id
	novelty.Viewed = existing.Viewed
	novelty.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, novelty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update novelty")
	}
	return novelty, nil
}

// Dismiss marks a novelty as seen by the user. Repeated dismissals are
// accepted and leave the viewed set unchanged.
func (s *NoveltyService) Dismiss(ctx context.Context, id, userID string) (*models.Novelty, error) {
	novelty, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkViewed(ctx, id, userID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to dismiss novelty")
	}

	novelty.Viewed = novelty.MarkViewed(userID)
	return novelty, nil
}

// Delete removes a novelty.
func (s *NoveltyService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete novelty")
	}
	return nil
}

func (s *NoveltyService) buildNovelty(req NoveltyRequest) (*models.Novelty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid novelty payload")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date precedes start_date")
	}

	return &models.Novelty{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}, nil
}
