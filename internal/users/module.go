package users

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"admissions_crm_backend/internal/http"
	"admissions_crm_backend/internal/users/handler"
	"admissions_crm_backend/internal/users/repository"
)

// Module wires the users bounded context.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	return &Module{
		handler: handler.New(repo),
		repo:    repo,
	}
}

// Repository exposes user lookups to sibling modules.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// RegisterRoutes mounts the user endpoints.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	users := ctx.Protected.Group("/users")
	{
		users.GET("/counsellors", m.handler.ListCounsellors)
	}
}
