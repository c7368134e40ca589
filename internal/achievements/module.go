package achievements

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"admissions_crm_backend/internal/achievements/handler"
	"admissions_crm_backend/internal/achievements/repository"
	"admissions_crm_backend/internal/achievements/service"
	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/logger"
)

// Module wires the achievements bounded context and hooks it into the
// stage transition event stream.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	m := &Module{
		handler: handler.New(svc),
		service: svc,
		log:     log,
	}

	bus.Subscribe(events.LeadStageChanged{}.EventName(),
		events.HandlerFunc(func(ctx context.Context, e events.Event) error {
			changed, ok := e.(events.LeadStageChanged)
			if !ok {
				return fmt.Errorf("unexpected event type %T", e)
			}
			return m.onStageChanged(ctx, bus, changed)
		}))

	return m
}

func (m *Module) onStageChanged(ctx context.Context, bus events.Bus, e events.LeadStageChanged) error {
	outcome, err := m.service.Record(ctx, e.CounsellorID, e.NewStageKey, e.LeadID, e.ChangedByID)
	if err != nil {
		m.log.Error("record achievement", "error", err,
			"leadId", e.LeadID, "stage", e.NewStageKey)
		return err
	}

	if outcome == service.Recorded {
		bus.Publish(ctx, events.MilestoneReached{
			BaseEvent:      events.NewBaseEvent(),
			CounsellorID:   e.CounsellorID,
			CounsellorName: e.CounsellorName,
			StageKey:       e.NewStageKey,
			LeadID:         e.LeadID,
			AchievedAt:     time.Now().UTC(),
		})
	}
	return nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "achievements"
}

// RegisterRoutes mounts the achievement reporting endpoints.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	admin := ctx.Admin.Group("/achievements")
	{
		admin.GET("", m.handler.Aggregate)
	}
}
