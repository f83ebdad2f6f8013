package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teamagenda/agenda-api/internal/models"
)

const noveltyColumns = `id, title, description, start_date, end_date, viewed, created_at, updated_at`

// NoveltyRepository provides database access for announcements.
type NoveltyRepository struct {
	db *sqlx.DB
}

// NewNoveltyRepository creates a new instance of NoveltyRepository.
func NewNoveltyRepository(db *sqlx.DB) *NoveltyRepository {
	return &NoveltyRepository{db: db}
}

// FindByID returns a novelty by identifier.
func (r *NoveltyRepository) FindByID(ctx context.Context, id string) (*models.Novelty, error) {
	query := fmt.Sprintf(`SELECT %s FROM novelties WHERE id = $1 LIMIT 1`, noveltyColumns)
	var novelty models.Novelty
	if err := r.db.GetContext(ctx, &novelty, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find novelty by id: %w", err)
	}
	return &novelty, nil
}

// List returns novelties with total count, optionally restricted to those
// active on a given date.
func (r *NoveltyRepository) List(ctx context.Context, filter models.NoveltyFilter) ([]models.Novelty, int, error) {
	baseQuery := `FROM novelties WHERE 1=1`
	var args []interface{}

	if filter.ActiveOn != nil {
		baseQuery += fmt.Sprintf(" AND start_date <= $%d AND end_date >= $%d", len(args)+1, len(args)+1)
		args = append(args, *filter.ActiveOn)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY start_date DESC LIMIT %d OFFSET %d", noveltyColumns, baseQuery, pageSize, offset)

	var novelties []models.Novelty
	if err := r.db.SelectContext(ctx, &novelties, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list novelties: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count novelties: %w", err)
	}

	return novelties, total, nil
}

// ListOverlapping returns novelties whose span intersects the given range.
func (r *NoveltyRepository) ListOverlapping(ctx context.Context, from, to models.Date) ([]models.Novelty, error) {
	query := fmt.Sprintf(`SELECT %s FROM novelties WHERE start_date <= $2 AND end_date >= $1 ORDER BY start_date ASC`, noveltyColumns)
	var novelties []models.Novelty
	if err := r.db.SelectContext(ctx, &novelties, query, from, to); err != nil {
		return nil, fmt.Errorf("list overlapping novelties: %w", err)
	}
	return novelties, nil
}

// Create inserts a new novelty.
func (r *NoveltyRepository) Create(ctx context.Context, novelty *models.Novelty) error {
	if novelty.ID == "" {
		novelty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if novelty.CreatedAt.IsZero() {
		novelty.CreatedAt = now
	}
	novelty.UpdatedAt = now
	if novelty.Viewed == nil {
		novelty.Viewed = []string{}
	}

	const query = `INSERT INTO novelties (id, title, description, start_date, end_date, viewed, created_at, updated_at) VALUES (:id, :title, :description, :start_date, :end_date, :viewed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, novelty); err != nil {
		return fmt.Errorf("create novelty: %w", err)
	}
	return nil
}

// UpsertMany inserts or updates a batch of novelties in one transaction.
// The viewed set and creation timestamp of existing rows are preserved.
func (r *NoveltyRepository) UpsertMany(ctx context.Context, novelties []models.Novelty) error {
	if len(novelties) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert novelties: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `INSERT INTO novelties (id, title, description, start_date, end_date, viewed, created_at, updated_at)
VALUES (:id, :title, :description, :start_date, :end_date, :viewed, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE SET
title = EXCLUDED.title, description = EXCLUDED.description,
start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date, updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range novelties {
		novelty := &novelties[i]
		if novelty.ID == "" {
			novelty.ID = uuid.NewString()
		}
		if novelty.CreatedAt.IsZero() {
			novelty.CreatedAt = now
		}
		novelty.UpdatedAt = now
		if novelty.Viewed == nil {
			novelty.Viewed = []string{}
		}
		if _, err := tx.NamedExecContext(ctx, query, novelty); err != nil {
			return fmt.Errorf("upsert novelty %s: %w", novelty.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert novelties: %w", err)
	}
	return nil
}

// Update updates mutable fields of a novelty.
func (r *NoveltyRepository) Update(ctx context.Context, novelty *models.Novelty) error {
	novelty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE novelties SET title = :title, description = :description, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, novelty); err != nil {
		return fmt.Errorf("update novelty: %w", err)
	}
	return nil
}

// MarkViewed appends the user to the viewed set. The array_append is guarded
// so repeated calls leave the set unchanged.
func (r *NoveltyRepository) MarkViewed(ctx context.Context, id, userID string) error {
	const query = `UPDATE novelties SET viewed = array_append(viewed, $2), updated_at = $3 WHERE id = $1 AND NOT ($2 = ANY(viewed))`
	if _, err := r.db.ExecContext(ctx, query, id, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark novelty viewed: %w", err)
	}
	return nil
}

// Delete removes a novelty permanently.
func (r *NoveltyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM novelties WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete novelty: %w", err)
	}
	return nil
}
