// Package transport defines the request/response DTOs for the stages API.
package transport

// CreateStageRequest creates a new funnel stage. The stable key is derived
// from the initial display name server-side.
type CreateStageRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=1,max=100"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	Score       int    `json:"score" binding:"gte=0,lte=100"`
	Category    string `json:"category" binding:"required"`
	SortOrder   int    `json:"sortOrder" binding:"gte=0"`
}

// UpdateStageRequest edits the mutable fields of a stage. The key is not
// part of the payload; it never changes.
type UpdateStageRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=1,max=100"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	Score       int    `json:"score" binding:"gte=0,lte=100"`
	Category    string `json:"category" binding:"required"`
	SortOrder   int    `json:"sortOrder" binding:"gte=0"`
}

// StageResponse is the API representation of a stage.
type StageResponse struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	Score       int    `json:"score"`
	Category    string `json:"category"`
	SortOrder   int    `json:"sortOrder"`
	Active      bool   `json:"active"`
}
