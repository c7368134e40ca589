// Package domain holds the funnel-stage domain types: the admin-editable
// stage catalog and the resolver that maps raw stage values stored on leads
// to canonical keys, display names, scores and categories.
package domain

import (
	"regexp"
	"strings"
)

// Category is the coarse bucket a stage falls into. It drives which list a
// lead appears in on the dashboard.
type Category string

const (
	CategoryNew      Category = "New"
	CategoryWarm     Category = "Warm"
	CategoryHot      Category = "Hot"
	CategoryCold     Category = "Cold"
	CategoryEnrolled Category = "Enrolled"
)

// ValidCategory reports whether the value is one of the known categories.
func ValidCategory(value string) bool {
	switch Category(value) {
	case CategoryNew, CategoryWarm, CategoryHot, CategoryCold, CategoryEnrolled:
		return true
	}
	return false
}

// Well-known stage keys the engine gives special treatment.
const (
	// KeyNoResponse is the side-track stage. Entering it records the
	// previous stage as a reactivation breadcrumb; leaving it clears the
	// breadcrumb.
	KeyNoResponse = "no_response"

	KeyMeetingBooked = "meeting_booked"
	KeyMeetingDone   = "meeting_done"
	KeyAdmission     = "admission"
)

// Stage is one entry of the admin-configurable funnel.
// Key is assigned once at creation and never changes; DisplayName may be
// edited at any time. Leads reference stages by key, so a rename is visible
// everywhere without touching lead rows.
type Stage struct {
	Key         string
	DisplayName string
	Color       string
	Score       int
	Category    Category
	SortOrder   int
	Active      bool
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// SlugKey derives a stable stage key from an initial display name.
// Used only at stage creation; subsequent renames never re-derive the key.
func SlugKey(displayName string) string {
	slug := strings.ToLower(strings.TrimSpace(displayName))
	slug = slugPattern.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}
