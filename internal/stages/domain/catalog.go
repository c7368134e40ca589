package domain

import (
	"context"
	"sync/atomic"

	"admissions_crm_backend/platform/logger"
)

// Lister loads the active stage list from storage.
// Implemented by repository.Repository; kept narrow so the catalog can be
// built from fixtures in tests.
type Lister interface {
	ListActive(ctx context.Context) ([]Stage, error)
}

// snapshot is an immutable view of the stage list with both lookup
// directions prebuilt. Readers always see a whole snapshot; reloads swap
// the pointer rather than mutating maps in place.
type snapshot struct {
	keyToStage map[string]Stage
	nameToKey  map[string]string
	ordered    []Stage
}

// Catalog holds the current stage snapshot for process-wide read-mostly use.
type Catalog struct {
	lister  Lister
	current atomic.Pointer[snapshot]
	log     *logger.Logger
}

// NewCatalog creates a catalog and loads the initial snapshot.
func NewCatalog(ctx context.Context, lister Lister, log *logger.Logger) (*Catalog, error) {
	c := &Catalog{lister: lister, log: log}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// NewCatalogFromStages builds a catalog over a fixed stage list. Used by
// tests and by callers that manage loading themselves.
func NewCatalogFromStages(list []Stage, log *logger.Logger) *Catalog {
	c := &Catalog{log: log}
	c.current.Store(buildSnapshot(list))
	return c
}

// Reload replaces the snapshot from storage. Called at startup and whenever
// an administrator edits the stage catalog. Concurrent readers keep the old
// snapshot until the swap completes.
func (c *Catalog) Reload(ctx context.Context) error {
	list, err := c.lister.ListActive(ctx)
	if err != nil {
		return err
	}
	c.current.Store(buildSnapshot(list))
	c.log.Info("stage catalog reloaded", "stages", len(list))
	return nil
}

// Stages returns the active stages in sort order.
func (c *Catalog) Stages() []Stage {
	snap := c.current.Load()
	out := make([]Stage, len(snap.ordered))
	copy(out, snap.ordered)
	return out
}

// ByKey returns the stage for a canonical key.
func (c *Catalog) ByKey(key string) (Stage, bool) {
	stage, ok := c.current.Load().keyToStage[key]
	return stage, ok
}

// KeyForName returns the canonical key for a current display name.
func (c *Catalog) KeyForName(name string) (string, bool) {
	key, ok := c.current.Load().nameToKey[name]
	return key, ok
}

func buildSnapshot(list []Stage) *snapshot {
	snap := &snapshot{
		keyToStage: make(map[string]Stage, len(list)),
		nameToKey:  make(map[string]string, len(list)),
		ordered:    make([]Stage, 0, len(list)),
	}
	for _, stage := range list {
		snap.keyToStage[stage.Key] = stage
		snap.nameToKey[stage.DisplayName] = stage.Key
		snap.ordered = append(snap.ordered, stage)
	}
	return snap
}
