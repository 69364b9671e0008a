package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campaign-os/planner-api/internal/config"
	"github.com/campaign-os/planner-api/internal/constraints"
	"github.com/campaign-os/planner-api/internal/llm"
	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/recovery"
	"github.com/campaign-os/planner-api/internal/repository"
	"github.com/campaign-os/planner-api/internal/validation"
	"github.com/rs/zerolog"
)

const slotGenerationSystemPrompt = `You are a marketing campaign planner. You schedule content slots for a campaign sprint.
Respond with a single JSON object of the form {"content_slots": [...]} and nothing else.
Each slot must have: date (YYYY-MM-DD inside the sprint range), channel, slot_index (integer, unique per date+channel),
objective (reach|engagement|traffic|lead|conversion|mobilization),
content_type (short_video|story|static_image|carousel|live|long_post|email),
funnel_stage (awareness|engagement|consideration|conversion|mobilization),
angle_type (story|proof|how_to|comparison|behind_the_scenes|testimonial|other),
cta_type (soft_info|learn_more|signup|donate|attend_event|share|comment),
and optionally time_of_day (morning|midday|evening|unspecified), angle_hint, notes.`

// generationService is the concrete implementation of GenerationService
type generationService struct {
	repos    *repository.Repositories
	provider llm.Provider
	enforcer constraints.Enforcer
	cfg      *config.Config
	log      zerolog.Logger
}

// newGenerationService creates a new GenerationService
func newGenerationService(repos *repository.Repositories, provider llm.Provider, enforcer constraints.Enforcer, cfg *config.Config, log zerolog.Logger) *generationService {
	return &generationService{
		repos:    repos,
		provider: provider,
		enforcer: enforcer,
		cfg:      cfg,
		log:      log.With().Str("service", "generation").Logger(),
	}
}

// GenerateContentSlots asks the AI provider for a sprint's content slots,
// then runs the full pipeline: JSON recovery, per-slot validation with
// rejection of non-conforming slots, plan-level invariant checks, constraint
// enforcement, and persistence. Existing slots for the sprint are replaced.
// progress is invoked with discrete pipeline events; the caller turns them
// into the SSE stream.
func (s *generationService) GenerateContentSlots(ctx context.Context, campaignID, sprintID string, weeklyPostVolume *int, progress ProgressFunc) ([]*models.ContentSlot, error) {
	if progress == nil {
		progress = func(string, interface{}) {}
	}

	sprints, err := s.repos.Sprint.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprints: %w", err)
	}
	var sprint *models.Sprint
	for _, candidate := range sprints {
		if candidate.ID == sprintID {
			sprint = candidate
			break
		}
	}
	if sprint == nil {
		return nil, ErrSprintNotFound
	}

	junctions, err := s.repos.Sprint.ListJunctions(ctx, []string{sprintID})
	if err != nil {
		return nil, fmt.Errorf("failed to load sprint junction rows: %w", err)
	}
	sprint.PrimarySegmentIDs = junctions.PrimarySegments[sprintID]
	sprint.SecondarySegmentIDs = junctions.SecondarySegments[sprintID]
	sprint.TopicIDs = junctions.Topics[sprintID]
	sprint.Channels = junctions.Channels[sprintID]

	progress("progress", map[string]string{"stage": "generating", "message": "Requesting content slots from AI provider"})

	raw, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:     s.cfg.AI.Model,
		MaxTokens: s.cfg.AI.MaxTokens,
		System:    slotGenerationSystemPrompt,
		Messages: []llm.Message{{
			Role:    "user",
			Content: buildSlotPrompt(sprint, weeklyPostVolume),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("AI provider call failed: %w", err)
	}
	if raw == "" {
		return nil, fmt.Errorf("AI provider returned empty content")
	}

	progress("progress", map[string]string{"stage": "parsing", "message": "Parsing AI response"})

	var parsed struct {
		ContentSlots []*models.SlotCandidate `json:"content_slots"`
	}
	if err := recovery.ParseInto(raw, &parsed); err != nil {
		s.log.Debug().Str("raw", raw).Msg("Unparseable AI response")
		return nil, err
	}
	if parsed.ContentSlots == nil {
		s.log.Debug().Str("raw", raw).Msg("AI response missing content_slots array")
		return nil, fmt.Errorf("AI response has no content_slots array")
	}

	progress("progress", map[string]string{"stage": "validating", "message": "Validating content slots"})

	validator := validation.NewSlotValidator(campaignID, sprintID, sprints)
	valid, rejected := validator.ValidateBatch(parsed.ContentSlots)
	for _, rejection := range rejected {
		s.log.Warn().
			Int("slot", rejection.Index).
			Interface("errors", rejection.Errors).
			Msg("Content slot rejected")
	}
	s.log.Info().
		Int("validated", len(valid)).
		Int("total", len(parsed.ContentSlots)).
		Int("rejected", len(rejected)).
		Msg("Content slot validation complete")
	if len(valid) == 0 {
		return nil, ErrNoValidSlots
	}

	plan := &models.ExecutionPlan{Sprints: sprints, ContentSlots: valid}
	if err := validation.CheckPlanInvariants(plan); err != nil {
		return nil, err
	}

	plan, warnings := s.enforcer.Enforce(plan, map[string][]string{sprintID: sprint.Channels})
	for _, warning := range warnings {
		s.log.Warn().Str("campaign_id", campaignID).Msg(warning)
		progress("warning", map[string]string{"message": warning})
	}

	progress("progress", map[string]string{"stage": "saving", "message": "Saving content slots"})

	// Regeneration replaces the sprint's previous slots
	if err := s.repos.Slot.DeleteBySprintIDs(ctx, []string{sprintID}); err != nil {
		return nil, fmt.Errorf("failed to delete previous content slots: %w", err)
	}
	if _, err := s.repos.Slot.BatchInsert(ctx, plan.ContentSlots); err != nil {
		return nil, fmt.Errorf("failed to insert content slots: %w", err)
	}

	return plan.ContentSlots, nil
}

// buildSlotPrompt renders the sprint context for the user message
func buildSlotPrompt(sprint *models.Sprint, weeklyPostVolume *int) string {
	volume := 3
	if weeklyPostVolume != nil && *weeklyPostVolume > 0 {
		volume = *weeklyPostVolume
	} else if sprint.WeeklyPostVolume != nil && *sprint.WeeklyPostVolume > 0 {
		volume = *sprint.WeeklyPostVolume
	}

	context, _ := json.Marshal(map[string]interface{}{
		"sprint_id":             sprint.ID,
		"name":                  sprint.Name,
		"start_date":            sprint.StartDate,
		"end_date":              sprint.EndDate,
		"focus_stage":           sprint.FocusStage,
		"focus_description":     sprint.FocusDescription,
		"channels":              sprint.Channels,
		"primary_segment_ids":   sprint.PrimarySegmentIDs,
		"secondary_segment_ids": sprint.SecondarySegmentIDs,
		"topic_ids":             sprint.TopicIDs,
		"narrative_emphasis":    sprint.NarrativeEmphasis,
	})

	return fmt.Sprintf(
		"Plan about %d content slots per week for this sprint:\n%s\nSpread slots across the sprint's channels and date range.",
		volume, context)
}
