package service

import (
	"context"
	"errors"

	"github.com/campaign-os/planner-api/internal/config"
	"github.com/campaign-os/planner-api/internal/constraints"
	"github.com/campaign-os/planner-api/internal/llm"
	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/repository"
	"github.com/rs/zerolog"
)

// Sentinel errors surfaced to the HTTP boundary
var (
	ErrSprintNotFound = errors.New("sprint not found")
	ErrSlotNotFound   = errors.New("content slot not found")
	ErrDraftNotFound  = errors.New("content draft not found")
	ErrNoValidSlots   = errors.New("no valid content slots after validation")
)

// ProgressFunc receives named pipeline events for the SSE stream
type ProgressFunc func(event string, payload interface{})

// PlanService coordinates execution plan persistence: multi-table saves with
// compensating rollback, replace-existing, and symmetric load
type PlanService interface {
	SaveExecutionPlan(ctx context.Context, campaignID string, plan *models.ExecutionPlan) (*models.ExecutionPlan, error)
	SaveSubmittedPlan(ctx context.Context, campaignID string, candidate *models.CandidatePlan) (*models.SaveExecutionResponse, []models.PlanDetail, error)
	LoadExecutionPlan(ctx context.Context, campaignID string) (*models.ExecutionPlan, error)
}

// GenerationService runs the AI generation pipeline for one sprint's
// content slots
type GenerationService interface {
	GenerateContentSlots(ctx context.Context, campaignID, sprintID string, weeklyPostVolume *int, progress ProgressFunc) ([]*models.ContentSlot, error)
}

// DraftService manages content drafts for a slot
type DraftService interface {
	CreateDraft(ctx context.Context, draft *models.ContentDraft) (*models.ContentDraft, error)
	ListDrafts(ctx context.Context, slotID string) ([]*models.ContentDraft, error)
	UpdateDraftStatus(ctx context.Context, id, status string) (*models.ContentDraft, error)
}

// SlotService manages individual content slots after a plan is saved
type SlotService interface {
	GetSlot(ctx context.Context, id string) (*models.ContentSlot, error)
	UpdateSlot(ctx context.Context, slot *models.ContentSlot) (*models.ContentSlot, error)
	DeleteSlot(ctx context.Context, id string) error
}

// Services holds all service interfaces
type Services struct {
	Plan       PlanService
	Generation GenerationService
	Draft      DraftService
	Slot       SlotService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, provider llm.Provider, cfg *config.Config, log zerolog.Logger) *Services {
	enforcer := constraints.NewChannelMixEnforcer()
	planSvc := newPlanService(repos, enforcer, log)
	generationSvc := newGenerationService(repos, provider, enforcer, cfg, log)
	draftSvc := newDraftService(repos.Draft, repos.Slot, log)
	slotSvc := newSlotService(repos.Slot, log)

	return &Services{
		Plan:       planSvc,
		Generation: generationSvc,
		Draft:      draftSvc,
		Slot:       slotSvc,
	}
}
