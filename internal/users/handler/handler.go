package handler

import (
	"github.com/gin-gonic/gin"

	"admissions_crm_backend/internal/users/repository"
	"admissions_crm_backend/platform/httpkit"
)

type Handler struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Handler {
	return &Handler{repo: repo}
}

// ListCounsellors returns the active counsellors, used by the frontend
// for assignment pickers.
// GET /api/v1/users/counsellors
func (h *Handler) ListCounsellors(c *gin.Context) {
	users, err := h.repo.ListCounsellors(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, users)
}
