package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/achievements/repository"
)

type fakeRecorder struct {
	rows     map[string]bool
	inserts  int
	attempts int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{rows: make(map[string]bool)}
}

func (f *fakeRecorder) Insert(_ context.Context, counsellorID uuid.UUID, stageKey string, leadID, _ uuid.UUID) (bool, error) {
	f.attempts++
	key := fmt.Sprintf("%s|%s|%s", counsellorID, stageKey, leadID)
	if f.rows[key] {
		return false, nil
	}
	f.rows[key] = true
	f.inserts++
	return true, nil
}

func (f *fakeRecorder) Exists(_ context.Context, counsellorID uuid.UUID, stageKey string, leadID uuid.UUID) (bool, error) {
	return f.rows[fmt.Sprintf("%s|%s|%s", counsellorID, stageKey, leadID)], nil
}

func (f *fakeRecorder) Aggregate(context.Context, time.Time, time.Time) ([]repository.AggregateRow, error) {
	return nil, nil
}

func TestRecordIdempotent(t *testing.T) {
	recorder := newFakeRecorder()
	svc := New(recorder)
	counsellor := uuid.New()
	lead := uuid.New()
	actor := uuid.New()

	first, err := svc.Record(context.Background(), counsellor, "meeting_booked", lead, actor)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	if first != Recorded {
		t.Fatalf("first record outcome = %s, want %s", first, Recorded)
	}

	second, err := svc.Record(context.Background(), counsellor, "meeting_booked", lead, actor)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if second != SkippedDuplicate {
		t.Fatalf("second record outcome = %s, want %s", second, SkippedDuplicate)
	}
	if recorder.inserts != 1 {
		t.Errorf("expected exactly one stored achievement, got %d", recorder.inserts)
	}
}

func TestRecordExistingRowSkipsInsert(t *testing.T) {
	recorder := newFakeRecorder()
	svc := New(recorder)
	counsellor := uuid.New()
	lead := uuid.New()
	recorder.rows[fmt.Sprintf("%s|%s|%s", counsellor, "admission", lead)] = true

	outcome, err := svc.Record(context.Background(), counsellor, "admission", lead, counsellor)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if outcome != SkippedDuplicate {
		t.Fatalf("outcome = %s, want %s", outcome, SkippedDuplicate)
	}
	if recorder.attempts != 0 {
		t.Errorf("existence check should short-circuit, got %d insert attempts", recorder.attempts)
	}
}

func TestRecordBouncingLeadCountsOnce(t *testing.T) {
	recorder := newFakeRecorder()
	svc := New(recorder)
	counsellor := uuid.New()
	lead := uuid.New()

	// A meeting rebooked twice still counts the milestone once.
	for i := 0; i < 3; i++ {
		if _, err := svc.Record(context.Background(), counsellor, "meeting_booked", lead, counsellor); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if recorder.inserts != 1 {
		t.Errorf("expected one achievement after three bounces, got %d", recorder.inserts)
	}
}

func TestRecordSkipsUntrackedStage(t *testing.T) {
	recorder := newFakeRecorder()
	svc := New(recorder)

	outcome, err := svc.Record(context.Background(), uuid.New(), "contacted", uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if outcome != SkippedUntracked {
		t.Errorf("outcome = %s, want %s", outcome, SkippedUntracked)
	}
	if recorder.inserts != 0 {
		t.Errorf("untracked stage must not insert, got %d inserts", recorder.inserts)
	}
}

func TestRecordDistinctLeadsBothCount(t *testing.T) {
	recorder := newFakeRecorder()
	svc := New(recorder)
	counsellor := uuid.New()

	for i := 0; i < 2; i++ {
		outcome, err := svc.Record(context.Background(), counsellor, "admission", uuid.New(), counsellor)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if outcome != Recorded {
			t.Fatalf("outcome = %s, want %s", outcome, Recorded)
		}
	}
	if recorder.inserts != 2 {
		t.Errorf("distinct leads are distinct facts, got %d inserts", recorder.inserts)
	}
}

func TestTracked(t *testing.T) {
	for _, key := range []string{"meeting_booked", "meeting_done", "admission"} {
		if !Tracked(key) {
			t.Errorf("%s should be tracked", key)
		}
	}
	for _, key := range []string{"new_enquiry", "no_response", ""} {
		if Tracked(key) {
			t.Errorf("%s should not be tracked", key)
		}
	}
}

func TestAggregateRejectsInvertedRange(t *testing.T) {
	svc := New(newFakeRecorder())
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Aggregate(context.Background(), from, from); err == nil {
		t.Error("expected error for empty range")
	}
}
