package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/achievements/repository"
	"admissions_crm_backend/internal/stages"
	"admissions_crm_backend/platform/apperr"
)

// Outcome classifies the result of a recording attempt.
type Outcome string

const (
	// Recorded means a new achievement row was written.
	Recorded Outcome = "recorded"
	// SkippedDuplicate means this counsellor already earned this milestone
	// for this lead.
	SkippedDuplicate Outcome = "skipped_duplicate"
	// SkippedUntracked means the stage is not a milestone stage.
	SkippedUntracked Outcome = "skipped_untracked"
	// SkippedNoCounsellor means the lead has no counsellor account to
	// credit, typically an imported row never assigned an owner.
	SkippedNoCounsellor Outcome = "skipped_no_counsellor"
)

// trackedMilestones is the closed set of stage keys that earn an
// achievement on entry.
var trackedMilestones = map[string]bool{
	stages.KeyMeetingBooked: true,
	stages.KeyMeetingDone:   true,
	stages.KeyAdmission:     true,
}

// Tracked reports whether entering stageKey earns an achievement.
func Tracked(stageKey string) bool {
	return trackedMilestones[stageKey]
}

// Recorder persists milestone achievements.
type Recorder interface {
	Insert(ctx context.Context, counsellorID uuid.UUID, stageKey string, leadID, recordedByID uuid.UUID) (bool, error)
	Exists(ctx context.Context, counsellorID uuid.UUID, stageKey string, leadID uuid.UUID) (bool, error)
	Aggregate(ctx context.Context, from, to time.Time) ([]repository.AggregateRow, error)
}

type Service struct {
	repo Recorder
}

func New(repo Recorder) *Service {
	return &Service{repo: repo}
}

// Record attempts to credit counsellorID with reaching stageKey on leadID.
// It is safe to call for every stage transition; untracked stages and
// repeat entries are skipped without error.
func (s *Service) Record(ctx context.Context, counsellorID uuid.UUID, stageKey string, leadID, recordedByID uuid.UUID) (Outcome, error) {
	if !Tracked(stageKey) {
		return SkippedUntracked, nil
	}
	if counsellorID == uuid.Nil {
		return SkippedNoCounsellor, nil
	}

	// Fast path; the unique index behind Insert stays the authoritative
	// guard against concurrent duplicates.
	already, err := s.repo.Exists(ctx, counsellorID, stageKey, leadID)
	if err != nil {
		return "", err
	}
	if already {
		return SkippedDuplicate, nil
	}

	inserted, err := s.repo.Insert(ctx, counsellorID, stageKey, leadID, recordedByID)
	if err != nil {
		return "", err
	}
	if !inserted {
		return SkippedDuplicate, nil
	}
	return Recorded, nil
}

// Aggregate returns per-counsellor milestone counts for [from, to).
func (s *Service) Aggregate(ctx context.Context, from, to time.Time) ([]repository.AggregateRow, error) {
	if !to.After(from) {
		return nil, apperr.Validation("date range end must be after start")
	}
	return s.repo.Aggregate(ctx, from, to)
}
