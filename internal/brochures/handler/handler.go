// Package handler exposes brochure management to administrators.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admissions_crm_backend/internal/adapters/storage"
	"admissions_crm_backend/platform/httpkit"
)

type Handler struct {
	store *storage.BrochureStore
}

func New(store *storage.BrochureStore) *Handler {
	return &Handler{store: store}
}

// Upload stores a new brochure and returns its file key along with a
// short-lived download link for verification. The key goes into the
// brochure configuration to take effect for outbound messages.
// POST /api/v1/admin/brochures
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing brochure file", nil)
		return
	}

	reader, err := file.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable brochure file", nil)
		return
	}
	defer reader.Close()

	key, err := h.store.Upload(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), reader, file.Size)
	if httpkit.HandleError(c, err) {
		return
	}

	url, err := h.store.PresignedURL(c.Request.Context(), key)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, gin.H{"fileKey": key, "url": url})
}
