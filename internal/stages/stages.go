// Package stages provides the funnel-stage bounded context: the
// admin-editable stage catalog and the resolver that maps raw stage values
// stored on leads to canonical keys, display names, scores and categories.
// The types live in the domain subpackage so that the service and repository
// subpackages can use them without importing this wiring package; they are
// aliased here so callers keep the stages.X names.
package stages

import "admissions_crm_backend/internal/stages/domain"

type (
	Category   = domain.Category
	Stage      = domain.Stage
	Lister     = domain.Lister
	Catalog    = domain.Catalog
	Resolver   = domain.Resolver
	Resolution = domain.Resolution
)

const (
	CategoryNew      = domain.CategoryNew
	CategoryWarm     = domain.CategoryWarm
	CategoryHot      = domain.CategoryHot
	CategoryCold     = domain.CategoryCold
	CategoryEnrolled = domain.CategoryEnrolled

	KeyNoResponse    = domain.KeyNoResponse
	KeyMeetingBooked = domain.KeyMeetingBooked
	KeyMeetingDone   = domain.KeyMeetingDone
	KeyAdmission     = domain.KeyAdmission
)

var (
	ValidCategory        = domain.ValidCategory
	SlugKey              = domain.SlugKey
	NewCatalog           = domain.NewCatalog
	NewCatalogFromStages = domain.NewCatalogFromStages
	NewResolver          = domain.NewResolver
)
