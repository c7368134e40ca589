// Package service implements lead lifecycle operations: creation, field
// edits, stage transitions with derived-field consistency, reactivation out
// of the "No Response" side-track, bulk reassignment and deletion.
package service

import (
	"context"
	"errors"

	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/leads/access"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/leads/transport"
	"admissions_crm_backend/internal/stages"
	userrepo "admissions_crm_backend/internal/users/repository"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Directory is the slice of the users repository the service needs to map
// counsellor assignments to accounts.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (userrepo.User, error)
	GetByName(ctx context.Context, name string) (userrepo.User, error)
}

type Service struct {
	repo     *repository.Repository
	users    Directory
	resolver *stages.Resolver
	catalog  *stages.Catalog
	bus      events.Bus
}

func New(repo *repository.Repository, users Directory, resolver *stages.Resolver, catalog *stages.Catalog, bus events.Bus) *Service {
	return &Service{repo: repo, users: users, resolver: resolver, catalog: catalog, bus: bus}
}

// Create persists a new lead and announces it. The notification fan-out and
// audit write happen asynchronously off the LeadCreated event; their
// failures never affect the creation result.
func (s *Service) Create(ctx context.Context, viewer access.Viewer, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	raw := req.Stage
	if raw == "" {
		first := s.catalog.Stages()
		if len(first) == 0 {
			return transport.LeadResponse{}, apperr.Internal("stage catalog is empty")
		}
		raw = first[0].Key
	}
	resolved := s.resolver.Resolve(raw)

	counsellor, counsellorID, err := resolveAssignment(ctx, s.users, viewer, req.Counsellor)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.CreateLeadParams{
		ParentName: req.ParentName,
		ChildName:  req.ChildName,
		Phone:      phone.NormalizeE164(req.Phone),
		Stage:      resolved.Key,
		Score:      resolved.Score,
		Category:   string(resolved.Category),
		Counsellor: counsellor,
		CounsellorID: counsellorID,
	}
	if req.AltPhone != "" {
		normalized := phone.NormalizeE164(req.AltPhone)
		params.AltPhone = &normalized
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.Grade != "" {
		params.Grade = &req.Grade
	}
	if req.Source != "" {
		params.Source = &req.Source
	}
	if req.Notes != "" {
		params.Notes = &req.Notes
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		ParentName:  lead.ParentName,
		ChildName:   lead.ChildName,
		Phone:       lead.Phone,
		Email:       emptyIfNil(lead.Email),
		Counsellor:  lead.Counsellor,
		StageKey:    lead.Stage,
		CreatedByID: viewer.UserID,
	})

	return s.toResponse(lead), nil
}

// List returns the leads visible to the viewer, newest first.
func (s *Service) List(ctx context.Context, viewer access.Viewer, filter repository.ListFilter) ([]transport.LeadResponse, error) {
	leads, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	visible := access.FilterVisible(leads, viewer)
	out := make([]transport.LeadResponse, 0, len(visible))
	for _, lead := range visible {
		out = append(out, s.toResponse(lead))
	}
	return out, nil
}

// GetByID returns one lead if the viewer may see it.
func (s *Service) GetByID(ctx context.Context, viewer access.Viewer, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.toResponse(lead), nil
}

// Update edits identity and classification fields. Stage, score and
// category are untouched here; transitions have their own path.
func (s *Service) Update(ctx context.Context, viewer access.Viewer, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if !access.CanEdit(lead, viewer) {
		return transport.LeadResponse{}, apperr.Forbidden("you cannot edit this lead")
	}

	params := repository.UpdateFieldsParams{
		ParentName: req.ParentName,
		ChildName:  req.ChildName,
		Phone:      phone.NormalizeE164(req.Phone),
	}
	if req.AltPhone != "" {
		normalized := phone.NormalizeE164(req.AltPhone)
		params.AltPhone = &normalized
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.Grade != "" {
		params.Grade = &req.Grade
	}
	if req.Source != "" {
		params.Source = &req.Source
	}
	if req.Notes != "" {
		params.Notes = &req.Notes
	}

	updated, err := s.repo.UpdateFields(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.toResponse(updated), nil
}

// ChangeStage applies a stage transition: derived score and category come
// from the resolved target stage, and the reactivation breadcrumb follows
// the "No Response" entry/exit rule. The row is persisted before any
// milestone bookkeeping is triggered; a storage error rejects the whole
// transition.
func (s *Service) ChangeStage(ctx context.Context, viewer access.Viewer, id uuid.UUID, req transport.ChangeStageRequest) (transport.LeadResponse, error) {
	lead, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if !access.CanEdit(lead, viewer) {
		return transport.LeadResponse{}, apperr.Forbidden("you cannot edit this lead")
	}

	return s.transition(ctx, viewer, lead, req.Stage)
}

// Reactivate pulls a lead out of "No Response" back to the stage it was in
// before entering. Without a breadcrumb the operation fails; silently
// ignoring it would hide a data or UI bug.
func (s *Service) Reactivate(ctx context.Context, viewer access.Viewer, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if !access.CanEdit(lead, viewer) {
		return transport.LeadResponse{}, apperr.Forbidden("you cannot edit this lead")
	}

	target, ok := domain.ReactivationTarget(lead.PreviousStage)
	if !ok {
		return transport.LeadResponse{}, apperr.Precondition("lead has no prior stage to reactivate to")
	}

	return s.transition(ctx, viewer, lead, target)
}

func (s *Service) transition(ctx context.Context, viewer access.Viewer, lead repository.Lead, rawTarget string) (transport.LeadResponse, error) {
	oldKey := s.resolver.ResolveKey(lead.Stage)
	result := domain.ApplyStageTransition(oldKey, lead.PreviousStage, s.resolver.Resolve(rawTarget))

	updated, err := s.repo.ApplyTransition(ctx, lead.ID, result.StageKey, result.Score, string(result.Category), result.PreviousStage)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	counsellorID := uuid.Nil
	if updated.CounsellorID != nil {
		counsellorID = *updated.CounsellorID
	}
	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         updated.ID,
		OldStageKey:    oldKey,
		NewStageKey:    result.StageKey,
		CounsellorID:   counsellorID,
		CounsellorName: updated.Counsellor,
		ChangedByID:    viewer.UserID,
	})

	return s.toResponse(updated), nil
}

// Reassign moves leads to another counsellor. Admins may move any lead;
// counsellors only their own. The lead set here is deliberately the
// unfiltered one so an admin can move leads they do not own.
func (s *Service) Reassign(ctx context.Context, viewer access.Viewer, req transport.ReassignRequest) (transport.ReassignResponse, error) {
	leads, err := s.repo.ListByIDs(ctx, req.LeadIDs)
	if err != nil {
		return transport.ReassignResponse{}, err
	}
	for _, lead := range leads {
		if !access.CanReassign(lead, viewer) {
			return transport.ReassignResponse{}, apperr.Forbidden("you cannot reassign this lead").WithDetails(lead.ID)
		}
	}

	counsellor, counsellorID, err := resolveReassignment(ctx, s.users, req)
	if err != nil {
		return transport.ReassignResponse{}, err
	}

	updated, err := s.repo.Reassign(ctx, req.LeadIDs, counsellor, counsellorID)
	if err != nil {
		return transport.ReassignResponse{}, err
	}
	return transport.ReassignResponse{Updated: updated}, nil
}

// resolveAssignment decides the stored counsellor name and account id for a
// new lead. An empty request self-assigns to the viewer. A named assignment
// is mapped through the account directory so later milestone credit lands on
// the owning account, not on nobody; names without a matching account keep
// the name and leave the id unset.
func resolveAssignment(ctx context.Context, dir Directory, viewer access.Viewer, requested string) (string, *uuid.UUID, error) {
	if requested == "" {
		id := viewer.UserID
		return viewer.Name, &id, nil
	}

	user, err := dir.GetByName(ctx, requested)
	if errors.Is(err, userrepo.ErrNotFound) {
		return requested, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return user.Name, &user.ID, nil
}

// resolveReassignment validates the reassignment target. An explicit account
// id must exist and its canonical name wins, so the stored name and id can
// never disagree. A name alone resolves the way lead creation does.
func resolveReassignment(ctx context.Context, dir Directory, req transport.ReassignRequest) (string, *uuid.UUID, error) {
	if req.CounsellorID != nil {
		user, err := dir.GetByID(ctx, *req.CounsellorID)
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", nil, apperr.Validation("counsellor account not found")
		}
		if err != nil {
			return "", nil, err
		}
		return user.Name, &user.ID, nil
	}

	user, err := dir.GetByName(ctx, req.Counsellor)
	if errors.Is(err, userrepo.ErrNotFound) {
		return req.Counsellor, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return user.Name, &user.ID, nil
}

// Delete removes leads together with their custom-field values and
// follow-ups. Admin only.
func (s *Service) Delete(ctx context.Context, viewer access.Viewer, req transport.DeleteRequest) (transport.DeleteResponse, error) {
	if !access.CanDelete(viewer) {
		return transport.DeleteResponse{}, apperr.Forbidden("only administrators can delete leads")
	}

	deleted, err := s.repo.DeleteWithDependents(ctx, req.LeadIDs)
	if err != nil {
		return transport.DeleteResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadDeleted{
		BaseEvent:   events.NewBaseEvent(),
		LeadIDs:     req.LeadIDs,
		DeletedByID: viewer.UserID,
	})

	return transport.DeleteResponse{Deleted: deleted}, nil
}

// EnsureVisible returns nil when the viewer may see the lead. Used by
// sibling modules whose records hang off a lead.
func (s *Service) EnsureVisible(ctx context.Context, viewer access.Viewer, id uuid.UUID) error {
	_, err := s.loadVisible(ctx, viewer, id)
	return err
}

// EnsureEditable returns nil when the viewer may modify the lead.
func (s *Service) EnsureEditable(ctx context.Context, viewer access.Viewer, id uuid.UUID) error {
	lead, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return err
	}
	if !access.CanEdit(lead, viewer) {
		return apperr.Forbidden("you cannot edit this lead")
	}
	return nil
}

func (s *Service) loadVisible(ctx context.Context, viewer access.Viewer, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return repository.Lead{}, err
	}
	// Invisible leads read as absent rather than forbidden so the API does
	// not leak their existence.
	if !access.IsVisible(lead, viewer) {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (s *Service) toResponse(lead repository.Lead) transport.LeadResponse {
	resolved := s.resolver.Resolve(lead.Stage)
	return transport.LeadResponse{
		ID:            lead.ID,
		ParentName:    lead.ParentName,
		ChildName:     lead.ChildName,
		Phone:         lead.Phone,
		AltPhone:      emptyIfNil(lead.AltPhone),
		Email:         emptyIfNil(lead.Email),
		Grade:         emptyIfNil(lead.Grade),
		Source:        emptyIfNil(lead.Source),
		Stage:         resolved.Key,
		StageName:     resolved.DisplayName,
		Score:         lead.Score,
		Category:      lead.Category,
		Counsellor:    lead.Counsellor,
		PreviousStage: lead.PreviousStage,
		Notes:         emptyIfNil(lead.Notes),
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
}

func emptyIfNil(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
