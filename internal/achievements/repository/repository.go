package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Achievement is one recorded milestone: a counsellor moved a lead onto a
// tracked stage for the first time.
type Achievement struct {
	ID           uuid.UUID `json:"id"`
	CounsellorID uuid.UUID `json:"counsellorId"`
	StageKey     string    `json:"stageKey"`
	LeadID       uuid.UUID `json:"leadId"`
	RecordedByID uuid.UUID `json:"recordedById"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AggregateRow is one counsellor's milestone counts over a window.
type AggregateRow struct {
	CounsellorID   uuid.UUID `json:"counsellorId"`
	CounsellorName string    `json:"counsellorName"`
	MeetingsBooked int       `json:"meetingsBooked"`
	MeetingsDone   int       `json:"meetingsDone"`
	Admissions     int       `json:"admissions"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert records an achievement. The unique index on
// (counsellor_user_id, stage_key, lead_id) makes re-entry a no-op;
// the returned bool reports whether a row was actually written.
func (r *Repository) Insert(ctx context.Context, counsellorID uuid.UUID, stageKey string, leadID, recordedByID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO counsellor_stage_achievements
		   (id, counsellor_user_id, stage_key, lead_id, recorded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (counsellor_user_id, stage_key, lead_id) DO NOTHING`,
		uuid.New(), counsellorID, stageKey, leadID, recordedByID)
	if err != nil {
		return false, fmt.Errorf("insert achievement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether the milestone was already recorded.
func (r *Repository) Exists(ctx context.Context, counsellorID uuid.UUID, stageKey string, leadID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM counsellor_stage_achievements
		   WHERE counsellor_user_id = $1 AND stage_key = $2 AND lead_id = $3
		 )`, counsellorID, stageKey, leadID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("achievement exists: %w", err)
	}
	return exists, nil
}

// Aggregate counts tracked milestones per counsellor within [from, to).
// Every active non-admin account appears, zeros included, so the
// leaderboard never silently drops a counsellor with no activity.
func (r *Repository) Aggregate(ctx context.Context, from, to time.Time) ([]AggregateRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name,
		        COUNT(*) FILTER (WHERE a.stage_key = 'meeting_booked'),
		        COUNT(*) FILTER (WHERE a.stage_key = 'meeting_done'),
		        COUNT(*) FILTER (WHERE a.stage_key = 'admission')
		 FROM users u
		 LEFT JOIN counsellor_stage_achievements a
		   ON a.counsellor_user_id = u.id
		  AND a.created_at >= $1 AND a.created_at < $2
		 WHERE u.active AND u.role <> 'admin'
		 GROUP BY u.id, u.name
		 ORDER BY u.name`, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate achievements: %w", err)
	}
	defer rows.Close()

	var result []AggregateRow
	for rows.Next() {
		var row AggregateRow
		if err := rows.Scan(&row.CounsellorID, &row.CounsellorName,
			&row.MeetingsBooked, &row.MeetingsDone, &row.Admissions); err != nil {
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
