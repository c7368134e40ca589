// Package transport defines the request/response DTOs for the leads API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateLeadRequest creates a new lead. Stage is optional; when empty the
// lead starts in the first active stage of the catalog.
type CreateLeadRequest struct {
	ParentName string `json:"parentName" binding:"required,min=1,max=200"`
	ChildName  string `json:"childName" binding:"required,min=1,max=200"`
	Phone      string `json:"phone" binding:"required,min=5,max=20"`
	AltPhone   string `json:"altPhone" binding:"omitempty,max=20"`
	Email      string `json:"email" binding:"omitempty,email"`
	Grade      string `json:"grade" binding:"omitempty,max=50"`
	Source     string `json:"source" binding:"omitempty,max=100"`
	Stage      string `json:"stage" binding:"omitempty,max=100"`
	Counsellor string `json:"counsellor" binding:"omitempty,max=200"`
	Notes      string `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateLeadRequest edits identity and classification fields. Stage changes
// go through the dedicated transition endpoint so derived fields stay
// consistent.
type UpdateLeadRequest struct {
	ParentName string `json:"parentName" binding:"required,min=1,max=200"`
	ChildName  string `json:"childName" binding:"required,min=1,max=200"`
	Phone      string `json:"phone" binding:"required,min=5,max=20"`
	AltPhone   string `json:"altPhone" binding:"omitempty,max=20"`
	Email      string `json:"email" binding:"omitempty,email"`
	Grade      string `json:"grade" binding:"omitempty,max=50"`
	Source     string `json:"source" binding:"omitempty,max=100"`
	Notes      string `json:"notes" binding:"omitempty,max=2000"`
}

// ChangeStageRequest moves a lead to a new stage.
type ChangeStageRequest struct {
	Stage string `json:"stage" binding:"required,min=1,max=100"`
}

// ReassignRequest moves a set of leads to another counsellor.
type ReassignRequest struct {
	LeadIDs      []uuid.UUID `json:"leadIds" binding:"required,min=1"`
	Counsellor   string      `json:"counsellor" binding:"required,min=1,max=200"`
	CounsellorID *uuid.UUID  `json:"counsellorId"`
}

// DeleteRequest removes a set of leads and their dependents.
type DeleteRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" binding:"required,min=1"`
}

// LeadResponse is the API representation of a lead. StageName is resolved
// from the stage key at read time, so catalog renames show up immediately.
type LeadResponse struct {
	ID            uuid.UUID  `json:"id"`
	ParentName    string     `json:"parentName"`
	ChildName     string     `json:"childName"`
	Phone         string     `json:"phone"`
	AltPhone      string     `json:"altPhone,omitempty"`
	Email         string     `json:"email,omitempty"`
	Grade         string     `json:"grade,omitempty"`
	Source        string     `json:"source,omitempty"`
	Stage         string     `json:"stage"`
	StageName     string     `json:"stageName"`
	Score         int        `json:"score"`
	Category      string     `json:"category"`
	Counsellor    string     `json:"counsellor"`
	PreviousStage *string    `json:"previousStage,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ReassignResponse reports how many leads were moved.
type ReassignResponse struct {
	Updated int64 `json:"updated"`
}

// DeleteResponse reports how many leads were removed.
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
