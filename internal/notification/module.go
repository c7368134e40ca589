package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/events"
	followuprepo "admissions_crm_backend/internal/followups/repository"
	leadrepo "admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/platform/logger"
)

// LeadReader provides the lead fields a reminder message needs.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadrepo.Lead, error)
}

// FollowUpReader loads a follow-up occurrence.
type FollowUpReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (followuprepo.FollowUp, error)
}

// Module connects the notification orchestrator to the event bus.
type Module struct {
	orchestrator *Orchestrator
	leads        LeadReader
	followUps    FollowUpReader
	opsPhone     string
	opsName      string
	log          *logger.Logger
}

func New(orchestrator *Orchestrator, leads LeadReader, followUps FollowUpReader, opsPhone, opsName string, log *logger.Logger) *Module {
	return &Module{
		orchestrator: orchestrator,
		leads:        leads,
		followUps:    followUps,
		opsPhone:     opsPhone,
		opsName:      opsName,
		log:          log,
	}
}

// RegisterHandlers subscribes the module to the domain events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(),
		events.HandlerFunc(func(ctx context.Context, e events.Event) error {
			created, ok := e.(events.LeadCreated)
			if !ok {
				return fmt.Errorf("unexpected event type %T", e)
			}
			m.onLeadCreated(ctx, created)
			return nil
		}))

	bus.Subscribe(events.FollowUpDue{}.EventName(),
		events.HandlerFunc(func(ctx context.Context, e events.Event) error {
			due, ok := e.(events.FollowUpDue)
			if !ok {
				return fmt.Errorf("unexpected event type %T", e)
			}
			return m.onFollowUpDue(ctx, due)
		}))
}

// onLeadCreated is fire-and-forget for the creation flow: the lead is
// already persisted and reported created whatever happens here.
func (m *Module) onLeadCreated(ctx context.Context, e events.LeadCreated) {
	report := m.orchestrator.OnLeadCreated(ctx, e)
	if !report.AnySuccess {
		m.log.Error("all notification steps failed", "leadId", e.LeadID)
		return
	}
	m.log.Info("lead notifications dispatched",
		"leadId", e.LeadID, "steps", len(report.Steps), "anySuccess", report.AnySuccess)
}

// onFollowUpDue reminds the ops recipient that a follow-up fell due.
func (m *Module) onFollowUpDue(ctx context.Context, e events.FollowUpDue) error {
	if m.opsPhone == "" {
		return nil
	}

	f, err := m.followUps.GetByID(ctx, e.FollowUpID)
	if err != nil {
		return err
	}
	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		return err
	}

	return m.orchestrator.campaigns.Send(ctx, CampaignFollowUpDue, m.opsPhone, m.opsName,
		[]string{lead.ParentName, lead.Counsellor, f.Date.Format(time.DateOnly), f.Details}, nil)
}
