package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/notification/campaign"
	"admissions_crm_backend/platform/logger"
)

type fakeSender struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
}

func (f *fakeSender) Send(_ context.Context, campaignName, _, _ string, _ []string, _ *campaign.Media) error {
	f.mu.Lock()
	f.calls = append(f.calls, campaignName)
	f.mu.Unlock()
	if err, ok := f.failFor[campaignName]; ok {
		return err
	}
	return nil
}

type fakePresigner struct {
	url string
	err error
}

func (f fakePresigner) PresignedURL(context.Context, string) (string, error) {
	return f.url, f.err
}

func testEvent() events.LeadCreated {
	return events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     uuid.New(),
		ParentName: "Asha Rao",
		ChildName:  "Kiran",
		Phone:      "+919876543210",
		Counsellor: "Meera",
	}
}

func stepByName(t *testing.T, report Report, name string) StepResult {
	t.Helper()
	for _, s := range report.Steps {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("step %s not in report %+v", name, report)
	return StepResult{}
}

func TestOnLeadCreatedAllSteps(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{}}
	o := NewOrchestrator(sender, fakePresigner{url: "https://example.com/brochure.pdf"}, nil,
		"+911112223334", "Front Desk", "brochures/main.pdf", logger.NewDiscard())

	report := o.OnLeadCreated(context.Background(), testEvent())
	if !report.AnySuccess {
		t.Fatal("expected overall success")
	}
	if len(report.Steps) != 3 {
		t.Fatalf("expected 3 steps without email, got %d", len(report.Steps))
	}
	for _, s := range report.Steps {
		if !s.Success {
			t.Errorf("step %s failed: %s", s.Name, s.Error)
		}
	}
}

func TestOnLeadCreatedPartialFailureStillSucceeds(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{
		CampaignBrochure: errors.New("attachment host unreachable"),
	}}
	o := NewOrchestrator(sender, fakePresigner{url: "https://example.com/brochure.pdf"}, nil,
		"+911112223334", "Front Desk", "brochures/main.pdf", logger.NewDiscard())

	report := o.OnLeadCreated(context.Background(), testEvent())
	if !report.AnySuccess {
		t.Fatal("one failed step must not fail the fan-out")
	}
	if step := stepByName(t, report, StepBrochure); step.Success {
		t.Error("brochure step should be reported failed")
	}
	if step := stepByName(t, report, StepWelcome); !step.Success {
		t.Errorf("welcome step should succeed: %s", step.Error)
	}
}

func TestOnLeadCreatedAllStepsFail(t *testing.T) {
	boom := errors.New("campaign api down")
	sender := &fakeSender{failFor: map[string]error{
		CampaignWelcome:    boom,
		CampaignBrochure:   boom,
		CampaignOpsNewLead: boom,
	}}
	o := NewOrchestrator(sender, fakePresigner{url: "https://example.com/b.pdf"}, nil,
		"+911112223334", "Front Desk", "brochures/main.pdf", logger.NewDiscard())

	report := o.OnLeadCreated(context.Background(), testEvent())
	if report.AnySuccess {
		t.Error("expected overall failure when every step fails")
	}
}

func TestOnLeadCreatedMissingPhoneBlocksContactSteps(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{}}
	o := NewOrchestrator(sender, fakePresigner{url: "https://example.com/b.pdf"}, nil,
		"+911112223334", "Front Desk", "brochures/main.pdf", logger.NewDiscard())

	e := testEvent()
	e.Phone = ""
	report := o.OnLeadCreated(context.Background(), e)

	if step := stepByName(t, report, StepWelcome); step.Success {
		t.Error("welcome step needs a phone number")
	}
	if step := stepByName(t, report, StepBrochure); step.Success {
		t.Error("brochure step needs a phone number")
	}
	// The ops alert goes to a fixed recipient and must still fire.
	if step := stepByName(t, report, StepOpsAlert); !step.Success {
		t.Errorf("ops alert should not depend on the lead's phone: %s", step.Error)
	}
	if !report.AnySuccess {
		t.Error("ops alert success makes the fan-out a success")
	}
}

func TestOnLeadCreatedBrochureUnconfigured(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{}}
	o := NewOrchestrator(sender, nil, nil,
		"+911112223334", "Front Desk", "", logger.NewDiscard())

	report := o.OnLeadCreated(context.Background(), testEvent())
	if step := stepByName(t, report, StepBrochure); step.Success {
		t.Error("brochure step must fail without storage")
	}
	if !report.AnySuccess {
		t.Error("remaining steps should still succeed")
	}
}
