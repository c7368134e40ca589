package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"admissions_crm_backend/internal/http"
	"admissions_crm_backend/internal/leads/handler"
	"admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/leads/service"
	"admissions_crm_backend/internal/stages"
	"admissions_crm_backend/platform/events"
	"admissions_crm_backend/platform/validator"
)

// Module wires the leads bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule builds the leads context on top of the stage catalog and the
// user directory.
func NewModule(pool *pgxpool.Pool, bus events.Bus, users service.Directory, resolver *stages.Resolver, catalog *stages.Catalog, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, users, resolver, catalog, bus)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Service exposes the lead service to sibling modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts the lead endpoints.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	{
		leads.GET("", m.handler.List)
		leads.POST("", m.handler.Create)
		leads.GET("/:id", m.handler.GetByID)
		leads.PUT("/:id", m.handler.Update)
		leads.POST("/:id/stage", m.handler.ChangeStage)
		leads.POST("/:id/reactivate", m.handler.Reactivate)
	}

	admin := ctx.Admin.Group("/leads")
	{
		admin.POST("/reassign", m.handler.Reassign)
		admin.POST("/delete", m.handler.Delete)
	}
}
