package domain

import (
	"testing"

	"admissions_crm_backend/platform/logger"
)

func testCatalog() *Catalog {
	return NewCatalogFromStages([]Stage{
		{Key: "new_enquiry", DisplayName: "New Enquiry", Score: 10, Category: CategoryNew, SortOrder: 1, Active: true},
		{Key: "meeting_booked", DisplayName: "Meeting Booked", Score: 50, Category: CategoryHot, SortOrder: 2, Active: true},
		{Key: "admission", DisplayName: "Admission", Score: 100, Category: CategoryEnrolled, SortOrder: 3, Active: true},
		{Key: "no_response", DisplayName: "No Response", Score: 5, Category: CategoryCold, SortOrder: 4, Active: true},
	}, logger.NewDiscard())
}

func TestResolveByKey(t *testing.T) {
	r := NewResolver(testCatalog(), 10, logger.NewDiscard())

	got := r.Resolve("meeting_booked")
	if !got.Known {
		t.Fatalf("expected known resolution, got %+v", got)
	}
	if got.DisplayName != "Meeting Booked" || got.Score != 50 || got.Category != CategoryHot {
		t.Errorf("unexpected resolution: %+v", got)
	}
}

func TestResolveByLegacyDisplayName(t *testing.T) {
	r := NewResolver(testCatalog(), 10, logger.NewDiscard())

	got := r.Resolve("Meeting Booked")
	if !got.Known {
		t.Fatalf("expected known resolution for display name, got %+v", got)
	}
	if got.Key != "meeting_booked" {
		t.Errorf("expected key meeting_booked, got %q", got.Key)
	}
}

func TestResolveUnknownPassesThrough(t *testing.T) {
	r := NewResolver(testCatalog(), 15, logger.NewDiscard())

	got := r.Resolve("Some Old Stage")
	if got.Known {
		t.Fatalf("expected unknown resolution, got %+v", got)
	}
	if got.Key != "Some Old Stage" || got.DisplayName != "Some Old Stage" {
		t.Errorf("unknown value must pass through: %+v", got)
	}
	if got.Score != 15 || got.Category != CategoryNew {
		t.Errorf("unknown value must use defaults: %+v", got)
	}
}

func TestRenamedStageResolvesWithoutRewritingLeads(t *testing.T) {
	catalog := NewCatalogFromStages([]Stage{
		{Key: "meeting_booked", DisplayName: "Meeting Booked", Score: 50, Category: CategoryHot, Active: true},
	}, logger.NewDiscard())
	r := NewResolver(catalog, 10, logger.NewDiscard())

	// Lead rows store only the key; a rename swaps the snapshot and every
	// key reference resolves to the new name on next read.
	catalog.current.Store(buildSnapshot([]Stage{
		{Key: "meeting_booked", DisplayName: "Tour Scheduled", Score: 50, Category: CategoryHot, Active: true},
	}))

	if name := r.ResolveDisplayName("meeting_booked"); name != "Tour Scheduled" {
		t.Errorf("expected renamed display name, got %q", name)
	}
	// The pre-rename name is no longer in the catalog; it degrades to a
	// pass-through instead of failing.
	got := r.Resolve("Meeting Booked")
	if got.Known {
		t.Errorf("stale display name should be a pass-through, got %+v", got)
	}
}

func TestKeyForNameLookup(t *testing.T) {
	c := testCatalog()
	key, ok := c.KeyForName("Admission")
	if !ok || key != "admission" {
		t.Fatalf("KeyForName(Admission) = %q, %v", key, ok)
	}
	if _, ok := c.KeyForName("Nope"); ok {
		t.Error("unexpected hit for unknown name")
	}
}

func TestSlugKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Meeting Booked", "meeting_booked"},
		{"  Admission!  ", "admission"},
		{"No Response", "no_response"},
		{"Círculo", "c_rculo"},
	}
	for _, tc := range cases {
		if got := SlugKey(tc.in); got != tc.want {
			t.Errorf("SlugKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
