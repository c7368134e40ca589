package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("follow-up not found")

// Status of a follow-up occurrence.
const (
	StatusDone    = "done"
	StatusNotDone = "not_done"
)

// FollowUp is one scheduled contact attempt for a lead. A lead owns any
// number of occurrences; they are a flat set ordered by date, not a queue.
type FollowUp struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	Date      time.Time `json:"date"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const followUpColumns = `id, lead_id, follow_up_date, details, status, created_at`

func scanFollowUp(row pgx.Row) (FollowUp, error) {
	var f FollowUp
	err := row.Scan(&f.ID, &f.LeadID, &f.Date, &f.Details, &f.Status, &f.CreatedAt)
	return f, err
}

func (r *Repository) Create(ctx context.Context, f FollowUp) (FollowUp, error) {
	f.ID = uuid.New()
	f.Status = StatusNotDone
	row := r.pool.QueryRow(ctx,
		`INSERT INTO follow_ups (id, lead_id, follow_up_date, details, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 RETURNING `+followUpColumns,
		f.ID, f.LeadID, f.Date, f.Details, f.Status)
	created, err := scanFollowUp(row)
	if err != nil {
		return FollowUp{}, fmt.Errorf("create follow-up: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (FollowUp, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups WHERE id = $1`, id)
	f, err := scanFollowUp(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return FollowUp{}, ErrNotFound
	}
	if err != nil {
		return FollowUp{}, fmt.Errorf("get follow-up: %w", err)
	}
	return f, nil
}

func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]FollowUp, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups
		 WHERE lead_id = $1
		 ORDER BY follow_up_date`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	defer rows.Close()

	var result []FollowUp
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *Repository) MarkDone(ctx context.Context, id uuid.UUID) (FollowUp, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE follow_ups SET status = $2 WHERE id = $1
		 RETURNING `+followUpColumns,
		id, StatusDone)
	f, err := scanFollowUp(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return FollowUp{}, ErrNotFound
	}
	if err != nil {
		return FollowUp{}, fmt.Errorf("mark follow-up done: %w", err)
	}
	return f, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM follow_ups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete follow-up: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
