package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/followups/repository"
	"admissions_crm_backend/internal/followups/transport"
	"admissions_crm_backend/internal/leads/access"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
)

// LeadGuard is the slice of the lead service follow-ups need: the right to
// see and to touch the lead an occurrence belongs to.
type LeadGuard interface {
	EnsureVisible(ctx context.Context, viewer access.Viewer, id uuid.UUID) error
	EnsureEditable(ctx context.Context, viewer access.Viewer, id uuid.UUID) error
}

// ReminderEnqueuer schedules a due reminder for a follow-up. Enqueue
// failures are logged and swallowed; the follow-up row is the source of
// truth, the reminder is best-effort.
type ReminderEnqueuer interface {
	EnqueueDueReminder(ctx context.Context, followUpID, leadID uuid.UUID, dueAt time.Time) error
}

type Service struct {
	repo     *repository.Repository
	leads    LeadGuard
	reminder ReminderEnqueuer
	log      *logger.Logger
}

func New(repo *repository.Repository, leads LeadGuard, reminder ReminderEnqueuer, log *logger.Logger) *Service {
	return &Service{repo: repo, leads: leads, reminder: reminder, log: log}
}

// Create schedules a follow-up for a lead the viewer can edit.
func (s *Service) Create(ctx context.Context, viewer access.Viewer, leadID uuid.UUID, req transport.CreateFollowUpRequest) (repository.FollowUp, error) {
	if err := s.leads.EnsureEditable(ctx, viewer, leadID); err != nil {
		return repository.FollowUp{}, err
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return repository.FollowUp{}, apperr.Validation("invalid follow-up date").WithDetails(req.Date)
	}

	created, err := s.repo.Create(ctx, repository.FollowUp{
		LeadID:  leadID,
		Date:    date,
		Details: req.Details,
	})
	if err != nil {
		return repository.FollowUp{}, err
	}

	if s.reminder != nil {
		if err := s.reminder.EnqueueDueReminder(ctx, created.ID, leadID, date); err != nil {
			s.log.Error("enqueue follow-up reminder", "error", err, "followUpId", created.ID)
		}
	}
	return created, nil
}

// List returns all occurrences for a lead the viewer can see.
func (s *Service) List(ctx context.Context, viewer access.Viewer, leadID uuid.UUID) ([]repository.FollowUp, error) {
	if err := s.leads.EnsureVisible(ctx, viewer, leadID); err != nil {
		return nil, err
	}
	return s.repo.ListByLead(ctx, leadID)
}

// Next returns the single occurrence to act on within the window, or nil.
func (s *Service) Next(ctx context.Context, viewer access.Viewer, leadID uuid.UUID, windowStart, windowEnd time.Time) (*repository.FollowUp, error) {
	if err := s.leads.EnsureVisible(ctx, viewer, leadID); err != nil {
		return nil, err
	}
	occurrences, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return SelectNext(occurrences, windowStart, windowEnd, today), nil
}

// MarkDone completes a follow-up on a lead the viewer can edit.
func (s *Service) MarkDone(ctx context.Context, viewer access.Viewer, id uuid.UUID) (repository.FollowUp, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return repository.FollowUp{}, err
	}
	if err := s.leads.EnsureEditable(ctx, viewer, f.LeadID); err != nil {
		return repository.FollowUp{}, err
	}
	return s.repo.MarkDone(ctx, id)
}

// Delete removes a follow-up on a lead the viewer can edit.
func (s *Service) Delete(ctx context.Context, viewer access.Viewer, id uuid.UUID) error {
	f, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.leads.EnsureEditable(ctx, viewer, f.LeadID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (repository.FollowUp, error) {
	f, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.FollowUp{}, apperr.NotFound("follow-up not found")
	}
	return f, err
}
