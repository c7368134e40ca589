// Package service implements stage catalog administration.
package service

import (
	"context"
	"errors"

	"admissions_crm_backend/internal/events"
	stages "admissions_crm_backend/internal/stages/domain"
	"admissions_crm_backend/internal/stages/repository"
	"admissions_crm_backend/internal/stages/transport"
	"admissions_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo    *repository.Repository
	catalog *stages.Catalog
	bus     events.Bus
}

func New(repo *repository.Repository, catalog *stages.Catalog, bus events.Bus) *Service {
	return &Service{repo: repo, catalog: catalog, bus: bus}
}

// List returns every stage for the admin view, deactivated ones included.
func (s *Service) List(ctx context.Context) ([]transport.StageResponse, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.StageResponse, 0, len(list))
	for _, stage := range list {
		out = append(out, toResponse(stage))
	}
	return out, nil
}

// Create adds a new stage. The stable key is derived from the initial
// display name once and never re-derived afterwards.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateStageRequest) (transport.StageResponse, error) {
	if !stages.ValidCategory(req.Category) {
		return transport.StageResponse{}, apperr.Validation("unknown stage category").WithDetails(req.Category)
	}

	key := stages.SlugKey(req.DisplayName)
	if key == "" {
		return transport.StageResponse{}, apperr.Validation("display name yields an empty stage key")
	}
	if _, err := s.repo.GetByKey(ctx, key); err == nil {
		return transport.StageResponse{}, apperr.Conflict("a stage with this key already exists").WithDetails(key)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return transport.StageResponse{}, err
	}

	stage, err := s.repo.Create(ctx, stages.Stage{
		Key:         key,
		DisplayName: req.DisplayName,
		Color:       req.Color,
		Score:       req.Score,
		Category:    stages.Category(req.Category),
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return transport.StageResponse{}, err
	}

	s.afterCatalogChange(ctx, stage.Key, actorID)
	return toResponse(stage), nil
}

// Update edits a stage. Renaming the display name is the common case: all
// leads referencing the key resolve to the new name on next read without
// any write to lead rows.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, key string, req transport.UpdateStageRequest) (transport.StageResponse, error) {
	if !stages.ValidCategory(req.Category) {
		return transport.StageResponse{}, apperr.Validation("unknown stage category").WithDetails(req.Category)
	}

	stage, err := s.repo.Update(ctx, key, repository.UpdateParams{
		DisplayName: req.DisplayName,
		Color:       req.Color,
		Score:       req.Score,
		Category:    stages.Category(req.Category),
		SortOrder:   req.SortOrder,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return transport.StageResponse{}, apperr.NotFound("stage not found")
	}
	if err != nil {
		return transport.StageResponse{}, err
	}

	s.afterCatalogChange(ctx, stage.Key, actorID)
	return toResponse(stage), nil
}

// Deactivate soft-deletes a stage. Referenced stages are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, actorID uuid.UUID, key string) error {
	err := s.repo.Deactivate(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("stage not found")
	}
	if err != nil {
		return err
	}

	s.afterCatalogChange(ctx, key, actorID)
	return nil
}

// afterCatalogChange swaps in a fresh snapshot and announces the change.
// A reload failure leaves the previous snapshot serving reads; the next
// change or restart will retry.
func (s *Service) afterCatalogChange(ctx context.Context, key string, actorID uuid.UUID) {
	_ = s.catalog.Reload(ctx)
	s.bus.Publish(ctx, events.StageCatalogChanged{
		BaseEvent: events.NewBaseEvent(),
		StageKey:  key,
		ChangedBy: actorID,
	})
}

func toResponse(stage stages.Stage) transport.StageResponse {
	return transport.StageResponse{
		Key:         stage.Key,
		DisplayName: stage.DisplayName,
		Color:       stage.Color,
		Score:       stage.Score,
		Category:    string(stage.Category),
		SortOrder:   stage.SortOrder,
		Active:      stage.Active,
	}
}
