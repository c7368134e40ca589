package repository

import (
	"context"
	"errors"

	stages "admissions_crm_backend/internal/stages/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("stage not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListActive returns the active stages in sort order.
func (r *Repository) ListActive(ctx context.Context) ([]stages.Stage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stage_key, display_name, color, score, category, sort_order, active
		FROM stages
		WHERE active = true
		ORDER BY sort_order ASC, display_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStages(rows)
}

// ListAll returns every stage including deactivated ones, for the admin view.
func (r *Repository) ListAll(ctx context.Context) ([]stages.Stage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stage_key, display_name, color, score, category, sort_order, active
		FROM stages
		ORDER BY sort_order ASC, display_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStages(rows)
}

// GetByKey returns one stage by canonical key.
func (r *Repository) GetByKey(ctx context.Context, key string) (stages.Stage, error) {
	var stage stages.Stage
	err := r.pool.QueryRow(ctx, `
		SELECT stage_key, display_name, color, score, category, sort_order, active
		FROM stages
		WHERE stage_key = $1
	`, key).Scan(&stage.Key, &stage.DisplayName, &stage.Color, &stage.Score,
		&stage.Category, &stage.SortOrder, &stage.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return stages.Stage{}, ErrNotFound
	}
	return stage, err
}

// Create inserts a new stage. The key is assigned here and never changes.
func (r *Repository) Create(ctx context.Context, stage stages.Stage) (stages.Stage, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stages (stage_key, display_name, color, score, category, sort_order, active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING stage_key, display_name, color, score, category, sort_order, active
	`, stage.Key, stage.DisplayName, stage.Color, stage.Score, stage.Category, stage.SortOrder,
	).Scan(&stage.Key, &stage.DisplayName, &stage.Color, &stage.Score,
		&stage.Category, &stage.SortOrder, &stage.Active)
	return stage, err
}

// UpdateParams carries the mutable stage fields. The key is deliberately
// absent: it is immutable once assigned.
type UpdateParams struct {
	DisplayName string
	Color       string
	Score       int
	Category    stages.Category
	SortOrder   int
}

// Update rewrites the mutable fields of a stage.
func (r *Repository) Update(ctx context.Context, key string, params UpdateParams) (stages.Stage, error) {
	var stage stages.Stage
	err := r.pool.QueryRow(ctx, `
		UPDATE stages
		SET display_name = $2, color = $3, score = $4, category = $5, sort_order = $6
		WHERE stage_key = $1
		RETURNING stage_key, display_name, color, score, category, sort_order, active
	`, key, params.DisplayName, params.Color, params.Score, params.Category, params.SortOrder,
	).Scan(&stage.Key, &stage.DisplayName, &stage.Color, &stage.Score,
		&stage.Category, &stage.SortOrder, &stage.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return stages.Stage{}, ErrNotFound
	}
	return stage, err
}

// Deactivate soft-deletes a stage. Stages already referenced by leads are
// never hard-deleted; legacy rows keep resolving through the catalog.
func (r *Repository) Deactivate(ctx context.Context, key string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE stages SET active = false WHERE stage_key = $1
	`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanStages(rows pgx.Rows) ([]stages.Stage, error) {
	items := make([]stages.Stage, 0)
	for rows.Next() {
		var stage stages.Stage
		if err := rows.Scan(&stage.Key, &stage.DisplayName, &stage.Color, &stage.Score,
			&stage.Category, &stage.SortOrder, &stage.Active); err != nil {
			return nil, err
		}
		items = append(items, stage)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
