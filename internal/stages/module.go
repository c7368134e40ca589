package stages

import (
	"context"

	"admissions_crm_backend/internal/events"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/internal/stages/handler"
	"admissions_crm_backend/internal/stages/repository"
	"admissions_crm_backend/internal/stages/service"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the stages bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	service  *service.Service
	catalog  *Catalog
	resolver *Resolver
}

// NewModule creates the stages module and loads the initial catalog snapshot.
func NewModule(ctx context.Context, pool *pgxpool.Pool, bus events.Bus, defaultScore int, val *validator.Validator, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	catalog, err := NewCatalog(ctx, repo, log)
	if err != nil {
		return nil, err
	}
	resolver := NewResolver(catalog, defaultScore, log)

	svc := service.New(repo, catalog, bus)
	h := handler.New(svc, val)

	return &Module{
		handler:  h,
		service:  svc,
		catalog:  catalog,
		resolver: resolver,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "stages"
}

// Catalog returns the shared stage catalog snapshot holder.
func (m *Module) Catalog() *Catalog {
	return m.catalog
}

// Resolver returns the shared stage resolver for other modules.
func (m *Module) Resolver() *Resolver {
	return m.resolver
}

// RegisterRoutes mounts stage catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/stages")
	adminGroup.GET("", m.handler.List)
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:key", m.handler.Update)
	adminGroup.DELETE("/:key", m.handler.Deactivate)
}
