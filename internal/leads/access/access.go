// Package access implements role-based visibility and edit permission over
// leads. Every predicate takes the viewer explicitly; there is no ambient
// current-user state anywhere in the engine.
package access

import (
	"github.com/google/uuid"
)

// Role is the viewer's role in the admissions office.
type Role string

const (
	// RoleAdmin sees and edits everything.
	RoleAdmin Role = "admin"
	// RoleCounsellor owns a slice of the funnel: sees and edits only
	// leads assigned to them.
	RoleCounsellor Role = "counsellor"
	// RoleJunior sees everything but can change nothing. Visibility and
	// edit rights are deliberately independent predicates.
	RoleJunior Role = "junior"
	// RoleOutsider sees only leads carrying their own name and can
	// change nothing.
	RoleOutsider Role = "outsider"
)

// Viewer identifies who is looking at or acting on a lead set.
type Viewer struct {
	UserID uuid.UUID
	Name   string
	Role   Role
}

// Owned is the minimal lead surface the filter needs.
// leads.repository.Lead satisfies it via OwnerName().
type Owned interface {
	OwnerName() string
}

// IsVisible reports whether the viewer may see the lead at all.
func IsVisible(lead Owned, viewer Viewer) bool {
	switch viewer.Role {
	case RoleAdmin, RoleJunior:
		return true
	case RoleCounsellor, RoleOutsider:
		return lead.OwnerName() == viewer.Name
	}
	return false
}

// CanEdit reports whether the viewer may mutate the lead (field edits and
// stage transitions alike).
func CanEdit(lead Owned, viewer Viewer) bool {
	switch viewer.Role {
	case RoleAdmin:
		return true
	case RoleCounsellor:
		return lead.OwnerName() == viewer.Name
	}
	return false
}

// CanDelete reports whether the viewer may delete leads. Deletion is
// admin-only regardless of ownership.
func CanDelete(viewer Viewer) bool {
	return viewer.Role == RoleAdmin
}

// CanReassign reports whether the viewer may move the lead to another
// counsellor.
func CanReassign(lead Owned, viewer Viewer) bool {
	switch viewer.Role {
	case RoleAdmin:
		return true
	case RoleCounsellor:
		return lead.OwnerName() == viewer.Name
	}
	return false
}

// FilterVisible returns the subset of leads the viewer may see, preserving
// order. The caller keeps the unfiltered slice for admin-only bulk
// operations; that slice must never be handed to a non-admin view.
func FilterVisible[L Owned](leads []L, viewer Viewer) []L {
	if viewer.Role == RoleAdmin || viewer.Role == RoleJunior {
		out := make([]L, len(leads))
		copy(out, leads)
		return out
	}

	out := make([]L, 0)
	for _, lead := range leads {
		if IsVisible(lead, viewer) {
			out = append(out, lead)
		}
	}
	return out
}
