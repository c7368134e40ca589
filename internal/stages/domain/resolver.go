package domain

import (
	"admissions_crm_backend/platform/logger"
)

// Resolution is the canonical reading of a raw stage value.
type Resolution struct {
	Key         string
	DisplayName string
	Score       int
	Category    Category
	// Known is false when the raw value matched neither a key nor a
	// current display name and was passed through as-is.
	Known bool
}

// Resolver maps raw stage values to canonical keys, names, scores and
// categories. A raw value may be a stage key (current rows) or a historical
// display name (legacy rows written before keys existed); both resolve to
// the same stage. Resolution never fails: an unknown value resolves to
// itself with default score and category and is logged as a data-quality
// warning, since blocking a view over one stale row would be worse than a
// cosmetic default.
type Resolver struct {
	catalog      *Catalog
	defaultScore int
	log          *logger.Logger
}

// NewResolver creates a resolver over the catalog.
func NewResolver(catalog *Catalog, defaultScore int, log *logger.Logger) *Resolver {
	return &Resolver{catalog: catalog, defaultScore: defaultScore, log: log}
}

// Resolve returns the canonical reading of a raw stage value.
func (r *Resolver) Resolve(raw string) Resolution {
	if stage, ok := r.catalog.ByKey(raw); ok {
		return resolutionFor(stage)
	}

	// Legacy rows store whatever display name was current at write time.
	if key, ok := r.catalog.KeyForName(raw); ok {
		if stage, ok := r.catalog.ByKey(key); ok {
			return resolutionFor(stage)
		}
	}

	r.log.DataQuality("lead", "stage", raw)
	return Resolution{
		Key:         raw,
		DisplayName: raw,
		Score:       r.defaultScore,
		Category:    CategoryNew,
		Known:       false,
	}
}

// ResolveKey resolves a raw stage value to its canonical key.
func (r *Resolver) ResolveKey(raw string) string {
	return r.Resolve(raw).Key
}

// ResolveDisplayName resolves a raw stage value to the current display name.
func (r *Resolver) ResolveDisplayName(raw string) string {
	return r.Resolve(raw).DisplayName
}

// Score derives the numeric score for a raw stage value.
func (r *Resolver) Score(raw string) int {
	return r.Resolve(raw).Score
}

// Category derives the coarse category for a raw stage value.
func (r *Resolver) Category(raw string) Category {
	return r.Resolve(raw).Category
}

func resolutionFor(stage Stage) Resolution {
	return Resolution{
		Key:         stage.Key,
		DisplayName: stage.DisplayName,
		Score:       stage.Score,
		Category:    stage.Category,
		Known:       true,
	}
}
