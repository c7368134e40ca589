package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is the persisted lead row. Stage holds a canonical stage key for
// current rows and may hold a historical display name for legacy rows; the
// stage resolver handles both. Score and Category are derived from Stage
// and rewritten on every transition.
type Lead struct {
	ID             uuid.UUID
	ParentName     string
	ChildName      string
	Phone          string
	AltPhone       *string
	Email          *string
	Grade          *string
	Source         *string
	Stage          string
	Score          int
	Category       string
	Counsellor     string
	CounsellorID   *uuid.UUID
	PreviousStage  *string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnerName returns the owning counsellor's display name.
// Satisfies access.Owned.
func (l Lead) OwnerName() string {
	return l.Counsellor
}

const leadColumns = `id, parent_name, child_name, phone, alt_phone, email, grade, source,
	stage, score, category, counsellor, counsellor_id, previous_stage, notes, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(&lead.ID, &lead.ParentName, &lead.ChildName, &lead.Phone, &lead.AltPhone,
		&lead.Email, &lead.Grade, &lead.Source, &lead.Stage, &lead.Score, &lead.Category,
		&lead.Counsellor, &lead.CounsellorID, &lead.PreviousStage, &lead.Notes,
		&lead.CreatedAt, &lead.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type CreateLeadParams struct {
	ParentName   string
	ChildName    string
	Phone        string
	AltPhone     *string
	Email        *string
	Grade        *string
	Source       *string
	Stage        string
	Score        int
	Category     string
	Counsellor   string
	CounsellorID *uuid.UUID
	Notes        *string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			parent_name, child_name, phone, alt_phone, email, grade, source,
			stage, score, category, counsellor, counsellor_id, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+leadColumns+`
	`, params.ParentName, params.ChildName, params.Phone, params.AltPhone, params.Email,
		params.Grade, params.Source, params.Stage, params.Score, params.Category,
		params.Counsellor, params.CounsellorID, params.Notes)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Counsellor string
	Stage      string
	Category   string
	From       *time.Time
	To         *time.Time
}

// List returns leads matching the filter, newest first. Callers apply
// role-based visibility on top of this; the repository itself is
// role-agnostic so admin bulk operations can reuse it unfiltered.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if filter.Counsellor != "" {
		args = append(args, filter.Counsellor)
		conditions = append(conditions, fmt.Sprintf("counsellor = $%d", len(args)))
	}
	if filter.Stage != "" {
		args = append(args, filter.Stage)
		conditions = append(conditions, fmt.Sprintf("stage = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// ListByIDs returns the leads for an explicit id set. Missing ids are
// simply absent from the result.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0, len(ids))
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateFieldsParams carries the editable identity/classification fields.
type UpdateFieldsParams struct {
	ParentName string
	ChildName  string
	Phone      string
	AltPhone   *string
	Email      *string
	Grade      *string
	Source     *string
	Notes      *string
}

func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, params UpdateFieldsParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET parent_name = $2, child_name = $3, phone = $4, alt_phone = $5,
			email = $6, grade = $7, source = $8, notes = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, params.ParentName, params.ChildName, params.Phone, params.AltPhone,
		params.Email, params.Grade, params.Source, params.Notes)
	return scanLead(row)
}

// ApplyTransition persists the derived fields of a stage transition in one
// statement. Partial application is impossible: either the whole row moves
// to the new stage or the transition fails.
func (r *Repository) ApplyTransition(ctx context.Context, id uuid.UUID, stage string, score int, category string, previousStage *string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET stage = $2, score = $3, category = $4, previous_stage = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, stage, score, category, previousStage)
	return scanLead(row)
}

// Reassign moves a set of leads to another counsellor in one statement.
func (r *Repository) Reassign(ctx context.Context, ids []uuid.UUID, counsellor string, counsellorID *uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET counsellor = $2, counsellor_id = $3, updated_at = now()
		WHERE id = ANY($1)
	`, ids, counsellor, counsellorID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteWithDependents removes leads together with their custom-field
// values and follow-ups in a single transaction. Dependents hold non-owning
// references, so nothing cascades automatically; the purge here is what
// keeps bulk deletes correct.
func (r *Repository) DeleteWithDependents(ctx context.Context, ids []uuid.UUID) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM custom_field_values WHERE lead_id = ANY($1)`, ids); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM follow_ups WHERE lead_id = ANY($1)`, ids); err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
