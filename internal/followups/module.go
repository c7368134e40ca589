package followups

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"admissions_crm_backend/internal/followups/handler"
	"admissions_crm_backend/internal/followups/repository"
	"admissions_crm_backend/internal/followups/service"
	"admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"
)

// Module wires the follow-ups bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule builds the follow-ups context. reminder may be nil when no
// scheduler backend is configured; follow-ups then persist without a
// due reminder.
func NewModule(pool *pgxpool.Pool, leads service.LeadGuard, reminder service.ReminderEnqueuer, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, reminder, log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followups"
}

// RegisterRoutes mounts the follow-up endpoints.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	{
		leads.GET("/:id/followups", m.handler.List)
		leads.POST("/:id/followups", m.handler.Create)
		leads.GET("/:id/followups/next", m.handler.Next)
	}

	followups := ctx.Protected.Group("/followups")
	{
		followups.POST("/:id/done", m.handler.MarkDone)
		followups.DELETE("/:id", m.handler.Delete)
	}
}
