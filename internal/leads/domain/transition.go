// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"admissions_crm_backend/internal/stages"
)

// TransitionResult is the set of derived fields a stage transition must
// persist atomically. Score and category are never authored independently;
// they always come from the resolved target stage.
type TransitionResult struct {
	StageKey      string
	Score         int
	Category      stages.Category
	PreviousStage *string
}

// ApplyStageTransition computes the persisted fields for moving a lead from
// oldStageKey to the resolved target stage.
//
// The breadcrumb rule: "No Response" is a side-track, not a dead end. On
// entry from any other stage the pre-entry stage is recorded so the lead
// can be reactivated later; on exit the breadcrumb is cleared; a transition
// between two ordinary stages leaves it untouched. Only the latest entry is
// remembered: re-entering overwrites the previous breadcrumb rather than
// stacking.
func ApplyStageTransition(oldStageKey string, currentBreadcrumb *string, target stages.Resolution) TransitionResult {
	result := TransitionResult{
		StageKey:      target.Key,
		Score:         target.Score,
		Category:      target.Category,
		PreviousStage: currentBreadcrumb,
	}

	entering := target.Key == stages.KeyNoResponse && oldStageKey != stages.KeyNoResponse
	leaving := oldStageKey == stages.KeyNoResponse && target.Key != stages.KeyNoResponse

	switch {
	case entering:
		breadcrumb := oldStageKey
		result.PreviousStage = &breadcrumb
	case leaving:
		result.PreviousStage = nil
	}

	return result
}
