package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// draftService is the concrete implementation of DraftService
type draftService struct {
	drafts repository.DraftRepository
	slots  repository.SlotRepository
	log    zerolog.Logger
}

// newDraftService creates a new DraftService
func newDraftService(drafts repository.DraftRepository, slots repository.SlotRepository, log zerolog.Logger) *draftService {
	return &draftService{
		drafts: drafts,
		slots:  slots,
		log:    log.With().Str("service", "draft").Logger(),
	}
}

// CreateDraft validates and persists one copy variant for a slot
func (s *draftService) CreateDraft(ctx context.Context, draft *models.ContentDraft) (*models.ContentDraft, error) {
	if strings.TrimSpace(draft.SlotID) == "" {
		return nil, fmt.Errorf("slot_id is required")
	}
	if strings.TrimSpace(draft.Hook) == "" && strings.TrimSpace(draft.Body) == "" {
		return nil, fmt.Errorf("draft needs a hook or a body")
	}

	slot, err := s.slots.GetByID(ctx, draft.SlotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	draft.ID = uuid.New().String()
	if !models.ValidDraftStatuses[draft.Status] {
		draft.Status = models.DraftStatusDraft
	}
	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, err
	}

	s.log.Info().Str("draft_id", draft.ID).Str("slot_id", draft.SlotID).Msg("Content draft created")
	return draft, nil
}

// ListDrafts returns a slot's drafts, newest first
func (s *draftService) ListDrafts(ctx context.Context, slotID string) ([]*models.ContentDraft, error) {
	return s.drafts.ListBySlot(ctx, slotID)
}

// UpdateDraftStatus moves a draft through its lifecycle
func (s *draftService) UpdateDraftStatus(ctx context.Context, id, status string) (*models.ContentDraft, error) {
	if !models.ValidDraftStatuses[status] {
		return nil, fmt.Errorf("invalid status, must be one of: draft, approved, rejected, published")
	}
	draft, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	if err := s.drafts.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	draft.Status = status
	return draft, nil
}
