// Package audit appends a best-effort activity trail to the logs table.
// Writes here are telemetry, never a correctness dependency: a failed
// append is logged and swallowed so it cannot fail the operation that
// produced it.
package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/platform/logger"
)

type Trail struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func New(pool *pgxpool.Pool, log *logger.Logger) *Trail {
	return &Trail{pool: pool, log: log}
}

// Append writes one audit row. Errors are swallowed.
func (t *Trail) Append(ctx context.Context, recordID uuid.UUID, action, details string) {
	_, err := t.pool.Exec(ctx,
		`INSERT INTO logs (id, record_id, action, details, created_at)
		 VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), recordID, action, details)
	if err != nil {
		t.log.Error("audit append failed", "action", action, "error", err)
	}
}

// RegisterHandlers subscribes the trail to the domain events it records.
func (t *Trail) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(),
		events.HandlerFunc(func(ctx context.Context, e events.Event) error {
			if created, ok := e.(events.LeadCreated); ok {
				t.Append(ctx, created.LeadID, "lead_created",
					fmt.Sprintf("lead %q created for counsellor %s", created.ParentName, created.Counsellor))
			}
			return nil
		}))

	bus.Subscribe(events.LeadStageChanged{}.EventName(),
		events.HandlerFunc(func(ctx context.Context, e events.Event) error {
			if changed, ok := e.(events.LeadStageChanged); ok {
				t.Append(ctx, changed.LeadID, "stage_changed",
					fmt.Sprintf("stage %s -> %s", changed.OldStageKey, changed.NewStageKey))
			}
			return nil
		}))

	bus.Subscribe(events.LeadDeleted{}.EventName(),
		events.HandlerFunc(func(ctx context.Context, e events.Event) error {
			if deleted, ok := e.(events.LeadDeleted); ok {
				for _, id := range deleted.LeadIDs {
					t.Append(ctx, id, "lead_deleted", "lead and dependents removed")
				}
			}
			return nil
		}))

	bus.Subscribe(events.MilestoneReached{}.EventName(),
		events.HandlerFunc(func(ctx context.Context, e events.Event) error {
			if reached, ok := e.(events.MilestoneReached); ok {
				t.Append(ctx, reached.LeadID, "milestone_reached",
					fmt.Sprintf("%s reached %s", reached.CounsellorName, reached.StageKey))
			}
			return nil
		}))
}
