package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admissions_crm_backend/internal/stages/service"
	"admissions_crm_backend/internal/stages/transport"
	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/validator"
)

// Handler handles HTTP requests for the stage catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new stages handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves all stages, deactivated included.
// GET /api/v1/admin/stages
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create adds a new stage.
// POST /api/v1/admin/stages
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateStageRequest
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

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update edits a stage's mutable fields, display name included.
// PUT /api/v1/admin/stages/:key
func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateStageRequest
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

	result, err := h.svc.Update(c.Request.Context(), identity.UserID(), c.Param("key"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Deactivate soft-deletes a stage.
// DELETE /api/v1/admin/stages/:key
func (h *Handler) Deactivate(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	err := h.svc.Deactivate(c.Request.Context(), identity.UserID(), c.Param("key"))
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
