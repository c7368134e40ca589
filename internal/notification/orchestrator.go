package notification

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/notification/campaign"
	"admissions_crm_backend/platform/logger"
)

// Campaign template names expected by the send API.
const (
	CampaignWelcome     = "lead_welcome"
	CampaignBrochure    = "lead_brochure"
	CampaignOpsNewLead  = "ops_new_lead"
	CampaignFollowUpDue = "ops_followup_due"
)

// Step names as reported in a Report.
const (
	StepWelcome  = "welcome"
	StepBrochure = "brochure"
	StepOpsAlert = "ops_alert"
	StepOpsEmail = "ops_email"
)

// StepResult records the outcome of one notification step.
type StepResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Report is the outcome of a notification fan-out. AnySuccess is true when
// at least one step delivered; a partially failed fan-out is still a
// success for the surrounding flow.
type Report struct {
	Steps      []StepResult `json:"steps"`
	AnySuccess bool         `json:"anySuccess"`
}

// MessageSender posts one campaign message.
type MessageSender interface {
	Send(ctx context.Context, campaignName, destination, userName string, templateParams []string, media *campaign.Media) error
}

// BrochurePresigner mints a download link for the standard admissions
// brochure.
type BrochurePresigner interface {
	PresignedURL(ctx context.Context, fileKey string) (string, error)
}

// OpsEmailer delivers an internal email to the ops mailbox.
type OpsEmailer interface {
	SendOpsEmail(ctx context.Context, subject, body string) error
}

// Orchestrator fires the outbound notifications for a freshly created
// lead. Steps are independent; one failing must not stop the rest.
type Orchestrator struct {
	campaigns   MessageSender
	brochures   BrochurePresigner
	email       OpsEmailer
	opsPhone    string
	opsName     string
	brochureKey string
	log         *logger.Logger
}

func NewOrchestrator(campaigns MessageSender, brochures BrochurePresigner, email OpsEmailer, opsPhone, opsName, brochureKey string, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		campaigns:   campaigns,
		brochures:   brochures,
		email:       email,
		opsPhone:    opsPhone,
		opsName:     opsName,
		brochureKey: brochureKey,
		log:         log,
	}
}

// OnLeadCreated runs the notification fan-out for a new lead: a welcome
// message and the brochure to the lead's own contact, an alert to the
// fixed ops recipient, and an ops email when SMTP is configured. The
// steps run concurrently and each failure is captured in its own
// StepResult.
func (o *Orchestrator) OnLeadCreated(ctx context.Context, e events.LeadCreated) Report {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{StepWelcome, func(ctx context.Context) error { return o.sendWelcome(ctx, e) }},
		{StepBrochure, func(ctx context.Context) error { return o.sendBrochure(ctx, e) }},
		{StepOpsAlert, func(ctx context.Context) error { return o.sendOpsAlert(ctx, e) }},
	}
	if o.email != nil {
		steps = append(steps, struct {
			name string
			run  func(context.Context) error
		}{StepOpsEmail, func(ctx context.Context) error { return o.sendOpsEmail(ctx, e) }})
	}

	results := make([]StepResult, len(steps))
	var g errgroup.Group
	for i, step := range steps {
		g.Go(func() error {
			results[i] = StepResult{Name: step.name, Success: true}
			if err := step.run(ctx); err != nil {
				results[i] = StepResult{Name: step.name, Error: err.Error()}
				o.log.Warn("notification step failed", "step", step.name, "leadId", e.LeadID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Steps: results}
	for _, r := range results {
		if r.Success {
			report.AnySuccess = true
			break
		}
	}
	return report
}

func (o *Orchestrator) sendWelcome(ctx context.Context, e events.LeadCreated) error {
	if e.Phone == "" {
		return fmt.Errorf("lead has no phone number")
	}
	return o.campaigns.Send(ctx, CampaignWelcome, e.Phone, e.ParentName,
		[]string{e.ParentName, e.ChildName}, nil)
}

func (o *Orchestrator) sendBrochure(ctx context.Context, e events.LeadCreated) error {
	if e.Phone == "" {
		return fmt.Errorf("lead has no phone number")
	}
	if o.brochures == nil || o.brochureKey == "" {
		return fmt.Errorf("brochure storage not configured")
	}

	mediaURL, err := o.brochures.PresignedURL(ctx, o.brochureKey)
	if err != nil {
		return err
	}
	return o.campaigns.Send(ctx, CampaignBrochure, e.Phone, e.ParentName,
		[]string{e.ParentName}, &campaign.Media{URL: mediaURL, Filename: "brochure.pdf"})
}

func (o *Orchestrator) sendOpsAlert(ctx context.Context, e events.LeadCreated) error {
	if o.opsPhone == "" {
		return fmt.Errorf("ops recipient not configured")
	}
	return o.campaigns.Send(ctx, CampaignOpsNewLead, o.opsPhone, o.opsName,
		[]string{e.ParentName, e.ChildName, e.Counsellor}, nil)
}

func (o *Orchestrator) sendOpsEmail(ctx context.Context, e events.LeadCreated) error {
	subject := fmt.Sprintf("New lead: %s", e.ParentName)
	body := fmt.Sprintf("Parent: %s\nChild: %s\nPhone: %s\nEmail: %s\nCounsellor: %s\n",
		e.ParentName, e.ChildName, e.Phone, e.Email, e.Counsellor)
	return o.email.SendOpsEmail(ctx, subject, body)
}
