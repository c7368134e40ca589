package domain

import (
	"testing"

	"admissions_crm_backend/internal/stages"
)

func res(key string, score int, category stages.Category) stages.Resolution {
	return stages.Resolution{Key: key, DisplayName: key, Score: score, Category: category, Known: true}
}

func strPtr(s string) *string { return &s }

func TestTransitionDerivesScoreAndCategory(t *testing.T) {
	got := ApplyStageTransition("new_enquiry", nil, res("meeting_booked", 50, stages.CategoryHot))
	if got.StageKey != "meeting_booked" || got.Score != 50 || got.Category != stages.CategoryHot {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.PreviousStage != nil {
		t.Errorf("ordinary transition must not set a breadcrumb, got %q", *got.PreviousStage)
	}
}

func TestEnteringNoResponseRecordsBreadcrumb(t *testing.T) {
	got := ApplyStageTransition("meeting_booked", nil, res(stages.KeyNoResponse, 5, stages.CategoryCold))
	if got.PreviousStage == nil || *got.PreviousStage != "meeting_booked" {
		t.Fatalf("expected breadcrumb meeting_booked, got %+v", got.PreviousStage)
	}
}

func TestLeavingNoResponseClearsBreadcrumb(t *testing.T) {
	got := ApplyStageTransition(stages.KeyNoResponse, strPtr("meeting_booked"), res("admission", 100, stages.CategoryEnrolled))
	if got.PreviousStage != nil {
		t.Fatalf("expected breadcrumb cleared, got %q", *got.PreviousStage)
	}
}

func TestBreadcrumbKeepsOnlyImmediatePredecessor(t *testing.T) {
	// A -> B -> NoResponse must remember B, never A.
	first := ApplyStageTransition("stage_a", nil, res("stage_b", 20, stages.CategoryWarm))
	if first.PreviousStage != nil {
		t.Fatalf("A->B must not set breadcrumb: %+v", first.PreviousStage)
	}
	second := ApplyStageTransition("stage_b", first.PreviousStage, res(stages.KeyNoResponse, 5, stages.CategoryCold))
	if second.PreviousStage == nil || *second.PreviousStage != "stage_b" {
		t.Fatalf("expected breadcrumb stage_b, got %+v", second.PreviousStage)
	}
}

func TestOrdinaryTransitionLeavesBreadcrumbUntouched(t *testing.T) {
	crumb := strPtr("old_stage")
	got := ApplyStageTransition("stage_a", crumb, res("stage_b", 20, stages.CategoryWarm))
	if got.PreviousStage != crumb {
		t.Errorf("breadcrumb must pass through unchanged on ordinary transitions")
	}
}

func TestReactivationRoundTrip(t *testing.T) {
	// A -> NoResponse captures the breadcrumb.
	side := ApplyStageTransition("stage_a", nil, res(stages.KeyNoResponse, 5, stages.CategoryCold))
	target, ok := ReactivationTarget(side.PreviousStage)
	if !ok || target != "stage_a" {
		t.Fatalf("ReactivationTarget = %q, %v", target, ok)
	}

	// Reactivating clears the breadcrumb; a second attempt must fail.
	back := ApplyStageTransition(stages.KeyNoResponse, side.PreviousStage, res(target, 10, stages.CategoryNew))
	if back.StageKey != "stage_a" || back.PreviousStage != nil {
		t.Fatalf("unexpected reactivation result: %+v", back)
	}
	if _, ok := ReactivationTarget(back.PreviousStage); ok {
		t.Error("second reactivation must fail with no breadcrumb")
	}
}

func TestReactivationTargetEmpty(t *testing.T) {
	if _, ok := ReactivationTarget(nil); ok {
		t.Error("nil breadcrumb must not reactivate")
	}
	if _, ok := ReactivationTarget(strPtr("")); ok {
		t.Error("empty breadcrumb must not reactivate")
	}
}
