package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/normalize"
	"github.com/campaign-os/planner-api/internal/repository"
	"github.com/campaign-os/planner-api/internal/validation"
	"github.com/rs/zerolog"
)

// slotService is the concrete implementation of SlotService
type slotService struct {
	slots repository.SlotRepository
	log   zerolog.Logger
}

// newSlotService creates a new SlotService
func newSlotService(slots repository.SlotRepository, log zerolog.Logger) *slotService {
	return &slotService{
		slots: slots,
		log:   log.With().Str("service", "slot").Logger(),
	}
}

// GetSlot retrieves one content slot
func (s *slotService) GetSlot(ctx context.Context, id string) (*models.ContentSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

// UpdateSlot applies an edit to a persisted slot. Edits go through the same
// enum vocabulary as the validation pipeline: objective and content type
// must map onto the fixed sets, everything else is normalized with defaults.
func (s *slotService) UpdateSlot(ctx context.Context, slot *models.ContentSlot) (*models.ContentSlot, error) {
	existing, err := s.slots.GetByID(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrSlotNotFound
	}

	objective, ok := normalize.Objective(slot.Objective)
	if !ok {
		return nil, fmt.Errorf("objective does not map onto a known objective")
	}
	contentType, ok := normalize.ContentType(slot.ContentType)
	if !ok {
		return nil, fmt.Errorf("content_type must be one of: short_video, story, static_image, carousel, live, long_post, email")
	}
	if _, err := time.Parse(validation.DateLayout, slot.Date); err != nil {
		return nil, fmt.Errorf("date must be formatted YYYY-MM-DD")
	}
	if slot.SlotIndex < 0 {
		return nil, fmt.Errorf("slot_index must be non-negative")
	}

	updated := *existing
	updated.Date = slot.Date
	updated.Channel = slot.Channel
	updated.SlotIndex = slot.SlotIndex
	updated.Objective = objective
	updated.ContentType = contentType
	updated.FunnelStage = normalize.FunnelStage(slot.FunnelStage, existing.FunnelStage)
	updated.AngleType = normalize.AngleType(slot.AngleType)
	updated.CTAType = normalize.CTAType(slot.CTAType)
	updated.RelatedGoalIDs = normalize.UUIDList(slot.RelatedGoalIDs, models.MaxRelatedGoals)
	updated.TimeOfDay = normalize.TimeOfDay(slot.TimeOfDay)
	updated.ToneOverride = slot.ToneOverride
	updated.AngleHint = slot.AngleHint
	updated.Notes = slot.Notes
	updated.Status = normalize.SlotStatus(slot.Status)

	if err := s.slots.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSlot removes one content slot; its drafts cascade
func (s *slotService) DeleteSlot(ctx context.Context, id string) error {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot == nil {
		return ErrSlotNotFound
	}
	return s.slots.Delete(ctx, id)
}
