package access

import (
	"fmt"
	"testing"
)

type testLead struct {
	owner string
}

func (l testLead) OwnerName() string { return l.owner }

func TestRoleMatrix(t *testing.T) {
	own := testLead{owner: "Asha"}
	other := testLead{owner: "Ravi"}

	cases := []struct {
		role        Role
		lead        testLead
		visible     bool
		edit        bool
		del         bool
		reassign    bool
		description string
	}{
		{RoleAdmin, other, true, true, true, true, "admin on foreign lead"},
		{RoleAdmin, own, true, true, true, true, "admin on own-named lead"},
		{RoleCounsellor, own, true, true, false, true, "counsellor on own lead"},
		{RoleCounsellor, other, false, false, false, false, "counsellor on foreign lead"},
		{RoleJunior, other, true, false, false, false, "junior sees all edits none"},
		{RoleJunior, own, true, false, false, false, "junior on own-named lead"},
		{RoleOutsider, own, true, false, false, false, "outsider on own-named lead"},
		{RoleOutsider, other, false, false, false, false, "outsider on foreign lead"},
	}

	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			viewer := Viewer{Name: "Asha", Role: tc.role}
			if got := IsVisible(tc.lead, viewer); got != tc.visible {
				t.Errorf("IsVisible = %v, want %v", got, tc.visible)
			}
			if got := CanEdit(tc.lead, viewer); got != tc.edit {
				t.Errorf("CanEdit = %v, want %v", got, tc.edit)
			}
			if got := CanDelete(viewer); got != tc.del {
				t.Errorf("CanDelete = %v, want %v", got, tc.del)
			}
			if got := CanReassign(tc.lead, viewer); got != tc.reassign {
				t.Errorf("CanReassign = %v, want %v", got, tc.reassign)
			}
		})
	}
}

func TestFilterVisibleCounsellorSlice(t *testing.T) {
	leads := make([]testLead, 0, 100)
	for i := 0; i < 100; i++ {
		owner := fmt.Sprintf("Counsellor %d", i%14)
		leads = append(leads, testLead{owner: owner})
	}
	// Owners cycle through 14 names; "Counsellor 3" owns indexes 3, 17, ...
	// 87, seven leads in total.
	viewer := Viewer{Name: "Counsellor 3", Role: RoleCounsellor}

	visible := FilterVisible(leads, viewer)
	if len(visible) != 7 {
		t.Fatalf("expected 7 visible leads, got %d", len(visible))
	}
	for _, lead := range visible {
		if lead.OwnerName() != viewer.Name {
			t.Errorf("leaked foreign lead owned by %q", lead.OwnerName())
		}
	}

	// The unfiltered slice stays intact for admin bulk operations.
	if len(leads) != 100 {
		t.Fatalf("source slice mutated: %d", len(leads))
	}
	admin := Viewer{Name: "Boss", Role: RoleAdmin}
	if got := FilterVisible(leads, admin); len(got) != 100 {
		t.Errorf("admin must see all 100, got %d", len(got))
	}
}

func TestFilterVisiblePreservesOrder(t *testing.T) {
	leads := []testLead{
		{owner: "A"}, {owner: "B"}, {owner: "A"}, {owner: "C"}, {owner: "A"},
	}
	got := FilterVisible(leads, Viewer{Name: "A", Role: RoleCounsellor})
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
}
