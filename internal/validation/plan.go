package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/normalize"
	"github.com/google/uuid"
)

// CheckPlanInvariants verifies the two cross-slot invariants over an
// already-individually-valid plan. Unlike per-slot validation a violation
// here rejects the whole plan.
func CheckPlanInvariants(plan *models.ExecutionPlan) error {
	sprintIDs := make(map[string]bool, len(plan.Sprints))
	for _, sprint := range plan.Sprints {
		sprintIDs[sprint.ID] = true
	}

	seen := make(map[string]*models.ContentSlot, len(plan.ContentSlots))
	for _, slot := range plan.ContentSlots {
		// Referential integrity: every slot must belong to a sprint in
		// this plan
		if !sprintIDs[slot.SprintID] {
			return fmt.Errorf("slot %s references sprint %s which is not part of the plan",
				slot.ID, slot.SprintID)
		}

		// Slot-index uniqueness per (date, channel)
		key := slot.Date + "|" + slot.Channel + "|" + fmt.Sprintf("%d", slot.SlotIndex)
		if other := seen[key]; other != nil {
			return fmt.Errorf("duplicate slot_index %d for date %s on channel %s",
				slot.SlotIndex, slot.Date, slot.Channel)
		}
		seen[key] = slot
	}
	return nil
}

// BuildSubmittedPlan validates a client-submitted candidate plan and builds
// the typed execution plan from it. Unlike the AI path, any failure here is
// whole-plan fatal: the details are returned for the 400 response body and
// nothing is silently dropped.
func BuildSubmittedPlan(campaignID string, candidate *models.CandidatePlan) (*models.ExecutionPlan, []models.PlanDetail) {
	var details []models.PlanDetail

	if candidate == nil || len(candidate.Sprints) == 0 {
		return nil, []models.PlanDetail{{Path: "executionPlan.sprints", Message: "at least one sprint is required"}}
	}

	plan := &models.ExecutionPlan{}
	for i, sc := range candidate.Sprints {
		path := fmt.Sprintf("executionPlan.sprints[%d]", i)
		if strings.TrimSpace(sc.Name) == "" {
			details = append(details, models.PlanDetail{Path: path + ".name", Message: "name is required"})
		}
		start, startErr := time.Parse(DateLayout, strings.TrimSpace(sc.StartDate))
		if startErr != nil {
			details = append(details, models.PlanDetail{Path: path + ".start_date", Message: "start_date must be formatted YYYY-MM-DD"})
		}
		end, endErr := time.Parse(DateLayout, strings.TrimSpace(sc.EndDate))
		if endErr != nil {
			details = append(details, models.PlanDetail{Path: path + ".end_date", Message: "end_date must be formatted YYYY-MM-DD"})
		}
		if startErr == nil && endErr == nil && end.Before(start) {
			details = append(details, models.PlanDetail{Path: path + ".end_date", Message: "end_date must not precede start_date"})
		}

		order := i
		if sc.Order != nil {
			order = *sc.Order
		}
		id := strings.TrimSpace(sc.ID)
		if id == "" {
			id = uuid.New().String()
		}
		sprint := &models.Sprint{
			ID:                  id,
			CampaignID:          campaignID,
			Name:                strings.TrimSpace(sc.Name),
			Order:               order,
			StartDate:           strings.TrimSpace(sc.StartDate),
			EndDate:             strings.TrimSpace(sc.EndDate),
			FocusStage:          normalize.FunnelStage(sc.FocusStage, ""),
			FocusDescription:    normalize.Text(sc.FocusDescription),
			FocusGoalIDs:        normalize.UUIDList(sc.FocusGoalIDs, 0),
			PrimarySegmentIDs:   normalize.UUIDList(sc.PrimarySegmentIDs, 0),
			SecondarySegmentIDs: normalize.UUIDList(sc.SecondarySegmentIDs, 0),
			TopicIDs:            normalize.UUIDList(sc.TopicIDs, 0),
			Channels:            trimmedList(sc.Channels),
			WeeklyPostVolume:    sc.WeeklyPostVolume,
			NarrativeEmphasis:   normalize.Text(sc.NarrativeEmphasis),
			SuccessCriteria:     normalize.StringList(sc.SuccessCriteria),
			Risks:               normalize.StringList(sc.Risks),
		}
		plan.Sprints = append(plan.Sprints, sprint)
	}

	sprintsByID := make(map[string]*models.Sprint, len(plan.Sprints))
	for _, s := range plan.Sprints {
		sprintsByID[s.ID] = s
	}

	for i, sc := range candidate.ContentSlots {
		path := fmt.Sprintf("executionPlan.content_slots[%d]", i)

		sprintID := strings.TrimSpace(sc.SprintID)
		if sprintID == "" {
			details = append(details, models.PlanDetail{Path: path + ".sprint_id", Message: "sprint_id is required"})
			continue
		}
		sprint := sprintsByID[sprintID]

		// The submitted path reuses the slot validator with the owning
		// sprint as context, so the field rules match the AI path
		// exactly; the difference is that failures surface as details
		// instead of dropping the slot.
		var ctx []*models.Sprint
		if sprint != nil {
			ctx = []*models.Sprint{sprint}
		}
		v := NewSlotValidator(campaignID, sprintID, ctx)
		slot, errs := v.ValidateSlot(sc)
		if len(errs) > 0 {
			for _, e := range errs {
				details = append(details, models.PlanDetail{
					Path:    path + "." + e.Field,
					Message: e.Message,
				})
			}
			continue
		}
		slot.SprintID = sprintID
		plan.ContentSlots = append(plan.ContentSlots, slot)
	}

	if len(details) > 0 {
		return nil, details
	}
	return plan, nil
}

func trimmedList(raw []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
