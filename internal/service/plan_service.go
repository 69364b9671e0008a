package service

import (
	"context"
	"fmt"

	"github.com/campaign-os/planner-api/internal/constraints"
	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/repository"
	"github.com/campaign-os/planner-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// planService is the concrete implementation of PlanService
type planService struct {
	repos    *repository.Repositories
	enforcer constraints.Enforcer
	log      zerolog.Logger
}

// newPlanService creates a new PlanService
func newPlanService(repos *repository.Repositories, enforcer constraints.Enforcer, log zerolog.Logger) *planService {
	return &planService{
		repos:    repos,
		enforcer: enforcer,
		log:      log.With().Str("service", "plan").Logger(),
	}
}

// SaveExecutionPlan persists a validated plan: sprints first, then junction
// rows, then content slots with sprint references rewritten through the
// client-id to storage-id mapping. The store has no multi-statement
// transaction spanning these tables, so on any failure every row inserted so
// far is deleted in reverse dependency order (slots, junctions, sprints),
// rollback errors are swallowed, and the original failure is re-raised.
// Concurrent saves for the same campaign are not mutually excluded.
func (s *planService) SaveExecutionPlan(ctx context.Context, campaignID string, plan *models.ExecutionPlan) (*models.ExecutionPlan, error) {
	idMap := make(map[string]string, len(plan.Sprints))
	saved := &models.ExecutionPlan{}
	var insertedSprintIDs []string

	for _, sprint := range plan.Sprints {
		stored := *sprint
		stored.ID = uuid.New().String()
		stored.CampaignID = campaignID
		idMap[sprint.ID] = stored.ID

		if err := s.repos.Sprint.Insert(ctx, &stored); err != nil {
			s.rollback(ctx, insertedSprintIDs)
			return nil, fmt.Errorf("failed to insert sprint %q: %w", stored.Name, err)
		}
		insertedSprintIDs = append(insertedSprintIDs, stored.ID)
		saved.Sprints = append(saved.Sprints, &stored)
	}

	if err := s.repos.Sprint.InsertJunctions(ctx, saved.Sprints); err != nil {
		s.rollback(ctx, insertedSprintIDs)
		return nil, fmt.Errorf("failed to insert sprint junction rows: %w", err)
	}

	for _, slot := range plan.ContentSlots {
		stored := *slot
		mapped, ok := idMap[slot.SprintID]
		if !ok {
			s.rollback(ctx, insertedSprintIDs)
			return nil, fmt.Errorf("slot %s references sprint %s with no stored counterpart", slot.ID, slot.SprintID)
		}
		stored.SprintID = mapped
		stored.CampaignID = campaignID
		saved.ContentSlots = append(saved.ContentSlots, &stored)
	}

	if _, err := s.repos.Slot.BatchInsert(ctx, saved.ContentSlots); err != nil {
		s.rollback(ctx, insertedSprintIDs)
		return nil, fmt.Errorf("failed to insert content slots: %w", err)
	}

	s.log.Info().
		Str("campaign_id", campaignID).
		Int("sprints", len(saved.Sprints)).
		Int("content_slots", len(saved.ContentSlots)).
		Msg("Execution plan saved")

	return saved, nil
}

// rollback deletes rows inserted by a partially-failed save, in reverse
// dependency order. Best effort: errors are logged, never propagated.
func (s *planService) rollback(ctx context.Context, sprintIDs []string) {
	if len(sprintIDs) == 0 {
		return
	}
	if err := s.repos.Slot.DeleteBySprintIDs(ctx, sprintIDs); err != nil {
		s.log.Error().Err(err).Msg("Rollback: failed to delete content slots")
	}
	if err := s.repos.Sprint.DeleteJunctionsBySprintIDs(ctx, sprintIDs); err != nil {
		s.log.Error().Err(err).Msg("Rollback: failed to delete junction rows")
	}
	if err := s.repos.Sprint.DeleteByIDs(ctx, sprintIDs); err != nil {
		s.log.Error().Err(err).Msg("Rollback: failed to delete sprints")
	}
	s.log.Warn().Int("sprints", len(sprintIDs)).Msg("Partial save rolled back")
}

// SaveSubmittedPlan validates a client-submitted plan and saves it,
// replacing any plan the campaign already has. Validation failures return
// path-tagged details for the 400 body; invariant violations return a single
// detail naming the offender.
func (s *planService) SaveSubmittedPlan(ctx context.Context, campaignID string, candidate *models.CandidatePlan) (*models.SaveExecutionResponse, []models.PlanDetail, error) {
	plan, details := validation.BuildSubmittedPlan(campaignID, candidate)
	if len(details) > 0 {
		return nil, details, nil
	}

	if err := validation.CheckPlanInvariants(plan); err != nil {
		return nil, []models.PlanDetail{{Path: "executionPlan", Message: err.Error()}}, nil
	}

	focusChannels := make(map[string][]string, len(plan.Sprints))
	for _, sprint := range plan.Sprints {
		focusChannels[sprint.ID] = sprint.Channels
	}
	plan, warnings := s.enforcer.Enforce(plan, focusChannels)
	for _, w := range warnings {
		s.log.Warn().Str("campaign_id", campaignID).Msg(w)
	}

	exists, err := s.repos.Sprint.ExistsForCampaign(ctx, campaignID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing plan: %w", err)
	}
	if exists {
		if err := s.repos.Sprint.DeleteByCampaign(ctx, campaignID); err != nil {
			return nil, nil, fmt.Errorf("failed to delete existing plan: %w", err)
		}
		s.log.Info().Str("campaign_id", campaignID).Msg("Existing execution plan deleted before save")
	}

	saved, err := s.SaveExecutionPlan(ctx, campaignID, plan)
	if err != nil {
		return nil, nil, err
	}

	message := "Execution plan saved"
	if exists {
		message = "Execution plan updated"
	}
	return &models.SaveExecutionResponse{
		Success:      true,
		Sprints:      saved.Sprints,
		ContentSlots: saved.ContentSlots,
		Message:      message,
	}, nil, nil
}

// LoadExecutionPlan reconstructs the plan shape from storage: sprints
// ordered by sprint order with junction rows grouped back into their lists
// (empty lists when absent), and slots ordered by (date, slot_index).
// Returns nil, not an error, when the campaign has no sprints yet.
func (s *planService) LoadExecutionPlan(ctx context.Context, campaignID string) (*models.ExecutionPlan, error) {
	sprints, err := s.repos.Sprint.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprints: %w", err)
	}
	if len(sprints) == 0 {
		return nil, nil
	}

	sprintIDs := make([]string, len(sprints))
	for i, sprint := range sprints {
		sprintIDs[i] = sprint.ID
	}

	junctions, err := s.repos.Sprint.ListJunctions(ctx, sprintIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprint junction rows: %w", err)
	}
	for _, sprint := range sprints {
		sprint.PrimarySegmentIDs = orEmpty(junctions.PrimarySegments[sprint.ID])
		sprint.SecondarySegmentIDs = orEmpty(junctions.SecondarySegments[sprint.ID])
		sprint.TopicIDs = orEmpty(junctions.Topics[sprint.ID])
		sprint.Channels = orEmpty(junctions.Channels[sprint.ID])
	}

	slots, err := s.repos.Slot.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load content slots: %w", err)
	}

	return &models.ExecutionPlan{Sprints: sprints, ContentSlots: slots}, nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
