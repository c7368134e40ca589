// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"admissions_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published after a new lead row has been persisted.
// The notification orchestrator and audit trail subscribe to it.
type LeadCreated struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	ParentName  string    `json:"parentName"`
	ChildName   string    `json:"childName"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Counsellor  string    `json:"counsellor"`
	StageKey    string    `json:"stageKey"`
	CreatedByID uuid.UUID `json:"createdById"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStageChanged is published after a stage transition has been persisted.
// Carries both sides of the transition so subscribers (achievements, audit)
// never have to re-read the lead.
type LeadStageChanged struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OldStageKey    string    `json:"oldStageKey"`
	NewStageKey    string    `json:"newStageKey"`
	CounsellorID   uuid.UUID `json:"counsellorId"`
	CounsellorName string    `json:"counsellorName"`
	ChangedByID    uuid.UUID `json:"changedById"`
}

func (e LeadStageChanged) EventName() string { return "leads.lead.stage_changed" }

// LeadDeleted is published after a lead and its dependents have been purged.
type LeadDeleted struct {
	BaseEvent
	LeadIDs     []uuid.UUID `json:"leadIds"`
	DeletedByID uuid.UUID   `json:"deletedById"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }

// =============================================================================
// Stage Catalog Events
// =============================================================================

// StageCatalogChanged is published when an administrator creates, edits or
// deactivates a stage. The catalog reloads its snapshot on this event.
type StageCatalogChanged struct {
	BaseEvent
	StageKey  string    `json:"stageKey"`
	ChangedBy uuid.UUID `json:"changedBy"`
}

func (e StageCatalogChanged) EventName() string { return "stages.catalog.changed" }

// =============================================================================
// Follow-up Events
// =============================================================================

// FollowUpDue is republished by the scheduler worker when a follow-up
// reminder task fires.
type FollowUpDue struct {
	BaseEvent
	FollowUpID uuid.UUID `json:"followUpId"`
	LeadID     uuid.UUID `json:"leadId"`
}

func (e FollowUpDue) EventName() string { return "followups.followup.due" }

// =============================================================================
// Achievements Events
// =============================================================================

// MilestoneReached is published when a stage transition landed on a tracked
// milestone stage and the achievement was recorded (not a duplicate).
type MilestoneReached struct {
	BaseEvent
	CounsellorID   uuid.UUID `json:"counsellorId"`
	CounsellorName string    `json:"counsellorName"`
	StageKey       string    `json:"stageKey"`
	LeadID         uuid.UUID `json:"leadId"`
	AchievedAt     time.Time `json:"achievedAt"`
}

func (e MilestoneReached) EventName() string { return "achievements.milestone.reached" }
