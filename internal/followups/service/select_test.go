package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/followups/repository"
)

var (
	today     = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	yesterday = today.AddDate(0, 0, -1)
	tomorrow  = today.AddDate(0, 0, 1)
	winStart  = today.AddDate(0, 0, -30)
	winEnd    = today.AddDate(0, 0, 30)
)

func occurrence(date time.Time, status string) repository.FollowUp {
	return repository.FollowUp{ID: uuid.New(), Date: date, Status: status}
}

func TestSelectNextPrefersUpcomingPending(t *testing.T) {
	occurrences := []repository.FollowUp{
		occurrence(yesterday, repository.StatusNotDone),
		occurrence(tomorrow, repository.StatusNotDone),
	}

	got := SelectNext(occurrences, winStart, winEnd, today)
	if got == nil {
		t.Fatal("expected a selection")
	}
	if !got.Date.Equal(tomorrow) {
		t.Errorf("expected the upcoming occurrence, got date %v", got.Date)
	}
}

func TestSelectNextFallsBackToOverdue(t *testing.T) {
	occurrences := []repository.FollowUp{
		occurrence(yesterday, repository.StatusNotDone),
	}

	got := SelectNext(occurrences, winStart, winEnd, today)
	if got == nil {
		t.Fatal("expected the overdue occurrence")
	}
	if !got.Date.Equal(yesterday) {
		t.Errorf("expected yesterday, got %v", got.Date)
	}
}

func TestSelectNextFallsBackToDone(t *testing.T) {
	early := today.AddDate(0, 0, -10)
	occurrences := []repository.FollowUp{
		occurrence(yesterday, repository.StatusDone),
		occurrence(early, repository.StatusDone),
	}

	got := SelectNext(occurrences, winStart, winEnd, today)
	if got == nil {
		t.Fatal("expected the earliest done occurrence")
	}
	if !got.Date.Equal(early) {
		t.Errorf("expected earliest done occurrence, got %v", got.Date)
	}
}

func TestSelectNextDoneNeverShadowsPending(t *testing.T) {
	occurrences := []repository.FollowUp{
		occurrence(today.AddDate(0, 0, -20), repository.StatusDone),
		occurrence(tomorrow, repository.StatusNotDone),
	}

	got := SelectNext(occurrences, winStart, winEnd, today)
	if got == nil || got.Status != repository.StatusNotDone {
		t.Fatalf("a done occurrence must not shadow a pending one: %+v", got)
	}
}

func TestSelectNextEarliestAmongUpcoming(t *testing.T) {
	nearer := today.AddDate(0, 0, 2)
	farther := today.AddDate(0, 0, 9)
	occurrences := []repository.FollowUp{
		occurrence(farther, repository.StatusNotDone),
		occurrence(nearer, repository.StatusNotDone),
	}

	got := SelectNext(occurrences, winStart, winEnd, today)
	if got == nil || !got.Date.Equal(nearer) {
		t.Fatalf("expected the nearer upcoming occurrence, got %+v", got)
	}
}

func TestSelectNextTodayCountsAsUpcoming(t *testing.T) {
	occurrences := []repository.FollowUp{
		occurrence(yesterday, repository.StatusNotDone),
		occurrence(today, repository.StatusNotDone),
	}

	got := SelectNext(occurrences, winStart, winEnd, today)
	if got == nil || !got.Date.Equal(today) {
		t.Fatalf("an occurrence dated today is upcoming, got %+v", got)
	}
}

func TestSelectNextRespectsWindow(t *testing.T) {
	occurrences := []repository.FollowUp{
		occurrence(winStart.AddDate(0, 0, -5), repository.StatusNotDone),
		occurrence(winEnd.AddDate(0, 0, 5), repository.StatusNotDone),
	}

	if got := SelectNext(occurrences, winStart, winEnd, today); got != nil {
		t.Errorf("occurrences outside the window must be ignored, got %+v", got)
	}
}

func TestSelectNextEmpty(t *testing.T) {
	if got := SelectNext(nil, winStart, winEnd, today); got != nil {
		t.Errorf("expected nil for no occurrences, got %+v", got)
	}
}
