package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/access"
	"admissions_crm_backend/internal/leads/transport"
	userrepo "admissions_crm_backend/internal/users/repository"
	"admissions_crm_backend/platform/apperr"
)

type fakeDirectory struct {
	users []userrepo.User
}

func (d *fakeDirectory) GetByID(_ context.Context, id uuid.UUID) (userrepo.User, error) {
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return userrepo.User{}, userrepo.ErrNotFound
}

func (d *fakeDirectory) GetByName(_ context.Context, name string) (userrepo.User, error) {
	for _, u := range d.users {
		if u.Name == name {
			return u, nil
		}
	}
	return userrepo.User{}, userrepo.ErrNotFound
}

func TestResolveAssignmentSelfAssignsWhenEmpty(t *testing.T) {
	viewer := access.Viewer{UserID: uuid.New(), Name: "Asha Rao", Role: access.RoleCounsellor}

	name, id, err := resolveAssignment(context.Background(), &fakeDirectory{}, viewer, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if name != "Asha Rao" {
		t.Errorf("name = %q, want viewer name", name)
	}
	if id == nil || *id != viewer.UserID {
		t.Errorf("id = %v, want viewer id %s", id, viewer.UserID)
	}
}

func TestResolveAssignmentNamedCounsellorGetsAccountID(t *testing.T) {
	// An admin creating a lead for a counsellor assigns by display name;
	// the owning account must still end up on the row or milestones would
	// never credit the counsellor.
	account := userrepo.User{ID: uuid.New(), Name: "Meera Iyer", Role: "counsellor", Active: true}
	dir := &fakeDirectory{users: []userrepo.User{account}}
	admin := access.Viewer{UserID: uuid.New(), Name: "Admin", Role: access.RoleAdmin}

	name, id, err := resolveAssignment(context.Background(), dir, admin, "Meera Iyer")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if name != "Meera Iyer" {
		t.Errorf("name = %q, want %q", name, "Meera Iyer")
	}
	if id == nil || *id != account.ID {
		t.Errorf("id = %v, want account id %s", id, account.ID)
	}
}

func TestResolveAssignmentUnknownNameLeavesIDUnset(t *testing.T) {
	admin := access.Viewer{UserID: uuid.New(), Name: "Admin", Role: access.RoleAdmin}

	name, id, err := resolveAssignment(context.Background(), &fakeDirectory{}, admin, "External Agent")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if name != "External Agent" {
		t.Errorf("name = %q, want the requested name kept", name)
	}
	if id != nil {
		t.Errorf("id = %v, want nil for a name without an account", id)
	}
}

func TestResolveReassignmentByNameResolvesAccount(t *testing.T) {
	account := userrepo.User{ID: uuid.New(), Name: "Ravi Menon", Role: "counsellor", Active: true}
	dir := &fakeDirectory{users: []userrepo.User{account}}
	req := transport.ReassignRequest{LeadIDs: []uuid.UUID{uuid.New()}, Counsellor: "Ravi Menon"}

	name, id, err := resolveReassignment(context.Background(), dir, req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if name != "Ravi Menon" {
		t.Errorf("name = %q, want %q", name, "Ravi Menon")
	}
	if id == nil || *id != account.ID {
		t.Errorf("id = %v, want account id %s", id, account.ID)
	}
}

func TestResolveReassignmentByIDUsesCanonicalName(t *testing.T) {
	account := userrepo.User{ID: uuid.New(), Name: "Ravi Menon", Role: "counsellor", Active: true}
	dir := &fakeDirectory{users: []userrepo.User{account}}
	req := transport.ReassignRequest{
		LeadIDs:      []uuid.UUID{uuid.New()},
		Counsellor:   "R. Menon",
		CounsellorID: &account.ID,
	}

	name, id, err := resolveReassignment(context.Background(), dir, req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if name != "Ravi Menon" {
		t.Errorf("name = %q, want the account's canonical name", name)
	}
	if id == nil || *id != account.ID {
		t.Errorf("id = %v, want account id %s", id, account.ID)
	}
}

func TestResolveReassignmentUnknownIDRejected(t *testing.T) {
	unknown := uuid.New()
	req := transport.ReassignRequest{
		LeadIDs:      []uuid.UUID{uuid.New()},
		Counsellor:   "Ghost",
		CounsellorID: &unknown,
	}

	_, _, err := resolveReassignment(context.Background(), &fakeDirectory{}, req)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want a validation error", err)
	}
}
