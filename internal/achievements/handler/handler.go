package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"admissions_crm_backend/internal/achievements/service"
	"admissions_crm_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Aggregate returns per-counsellor milestone counts for a date window.
// Defaults to the current month when no range is given.
// GET /api/v1/admin/achievements?from=2026-08-01&to=2026-09-01
func (h *Handler) Aggregate(c *gin.Context) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid from date", nil)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid to date", nil)
			return
		}
		to = parsed
	}

	rows, err := h.svc.Aggregate(c.Request.Context(), from, to)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rows)
}
