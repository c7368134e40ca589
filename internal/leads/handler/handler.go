package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/access"
	"admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/leads/service"
	"admissions_crm_backend/internal/leads/transport"
	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/validator"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid lead id"
)

// New creates a new leads handler.
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

// List retrieves the leads visible to the viewer.
// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	filter := repository.ListFilter{
		Counsellor: c.Query("counsellor"),
		Stage:      c.Query("stage"),
		Category:   c.Query("category"),
	}
	if from, err := time.Parse(time.DateOnly, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.DateOnly, c.Query("to")); err == nil {
		filter.To = &to
	}

	result, err := h.svc.List(c.Request.Context(), viewerFrom(identity), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves one lead.
// GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), viewerFrom(identity), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create adds a new lead.
// POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), viewerFrom(identity), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update edits lead fields.
// PUT /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), viewerFrom(identity), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ChangeStage applies a stage transition.
// POST /api/v1/leads/:id/stage
func (h *Handler) ChangeStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.ChangeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.ChangeStage(c.Request.Context(), viewerFrom(identity), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reactivate restores a lead from "No Response" to its prior stage.
// POST /api/v1/leads/:id/reactivate
func (h *Handler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.Reactivate(c.Request.Context(), viewerFrom(identity), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reassign moves leads to another counsellor.
// POST /api/v1/leads/reassign
func (h *Handler) Reassign(c *gin.Context) {
	var req transport.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.Reassign(c.Request.Context(), viewerFrom(identity), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes leads and their dependents.
// POST /api/v1/leads/delete
func (h *Handler) Delete(c *gin.Context) {
	var req transport.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), viewerFrom(identity), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
