// Package brochures wires the admin brochure endpoints. The module only
// exists when object storage is configured.
package brochures

import (
	"admissions_crm_backend/internal/adapters/storage"
	"admissions_crm_backend/internal/brochures/handler"
	"admissions_crm_backend/internal/http"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(store *storage.BrochureStore) *Module {
	return &Module{handler: handler.New(store)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "brochures"
}

// RegisterRoutes mounts the brochure endpoints.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	admin := ctx.Admin.Group("/brochures")
	{
		admin.POST("", m.handler.Upload)
	}
}
