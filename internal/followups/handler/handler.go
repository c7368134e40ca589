package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admissions_crm_backend/internal/followups/service"
	"admissions_crm_backend/internal/followups/transport"
	"admissions_crm_backend/internal/leads/access"
	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func viewerFrom(identity httpkit.Identity) access.Viewer {
	return access.Viewer{
		UserID: identity.UserID(),
		Name:   identity.Name(),
		Role:   access.Role(identity.Role()),
	}
}

// Create schedules a follow-up for a lead.
// POST /api/v1/leads/:id/followups
func (h *Handler) Create(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}
	var req transport.CreateFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	created, err := h.svc.Create(c.Request.Context(), viewerFrom(identity), leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, created)
}

// List returns all follow-ups for a lead.
// GET /api/v1/leads/:id/followups
func (h *Handler) List(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), viewerFrom(identity), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Next returns the single follow-up to act on within a reporting window.
// Defaults to a window of thirty days either side of today.
// GET /api/v1/leads/:id/followups/next?from=2026-08-01&to=2026-09-01
func (h *Handler) Next(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -30)
	to := today.AddDate(0, 0, 30)
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

	next, err := h.svc.Next(c.Request.Context(), viewerFrom(identity), leadID, from, to)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"next": next})
}

// MarkDone completes a follow-up.
// POST /api/v1/followups/:id/done
func (h *Handler) MarkDone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid follow-up id", nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	updated, err := h.svc.MarkDone(c.Request.Context(), viewerFrom(identity), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, updated)
}

// Delete removes a follow-up.
// DELETE /api/v1/followups/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid follow-up id", nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), viewerFrom(identity), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": true})
}
