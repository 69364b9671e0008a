package service

import (
	"context"
	"errors"
	"testing"

	"github.com/campaign-os/planner-api/internal/constraints"
	"github.com/campaign-os/planner-api/internal/mocks"
	"github.com/campaign-os/planner-api/internal/models"
	"github.com/rs/zerolog"
)

const (
	campaignID = "a1111111-1111-4111-8111-111111111111"
	goalID     = "c3333333-3333-4333-8333-333333333333"
)

func intPtr(v int) *int { return &v }

func newTestPlanService() (*planService, *mocks.MockSprintRepository, *mocks.MockSlotRepository) {
	repos, sprints, slots, _ := mocks.NewMockRepositories()
	svc := newPlanService(repos, constraints.NewChannelMixEnforcer(), zerolog.Nop())
	return svc, sprints, slots
}

func twoSprintPlan() *models.ExecutionPlan {
	return &models.ExecutionPlan{
		Sprints: []*models.Sprint{
			{
				ID:         "client-sprint-1",
				Name:       "Launch",
				Order:      0,
				StartDate:  "2025-01-01",
				EndDate:    "2025-01-31",
				FocusStage: "awareness",
				Channels:   []string{"instagram"},
			},
			{
				ID:         "client-sprint-2",
				Name:       "Conversion push",
				Order:      1,
				StartDate:  "2025-02-01",
				EndDate:    "2025-02-28",
				FocusStage: "conversion",
				Channels:   []string{"email"},
			},
		},
		ContentSlots: []*models.ContentSlot{
			{
				ID:          "slot-1",
				SprintID:    "client-sprint-1",
				Date:        "2025-01-10",
				Channel:     "instagram",
				SlotIndex:   0,
				Objective:   "reach",
				ContentType: "static_image",
				FunnelStage: "awareness",
				Status:      "planned",
			},
			{
				ID:          "slot-2",
				SprintID:    "client-sprint-2",
				Date:        "2025-02-10",
				Channel:     "email",
				SlotIndex:   0,
				Objective:   "conversion",
				ContentType: "email",
				FunnelStage: "conversion",
				Status:      "planned",
			},
		},
	}
}

func TestSaveExecutionPlanRemapsIDs(t *testing.T) {
	svc, sprints, slots := newTestPlanService()

	saved, err := svc.SaveExecutionPlan(context.Background(), campaignID, twoSprintPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved.Sprints) != 2 || len(saved.ContentSlots) != 2 {
		t.Fatalf("saved %d sprints, %d slots", len(saved.Sprints), len(saved.ContentSlots))
	}

	// Client-supplied sprint ids are replaced with fresh storage ids
	for _, sprint := range saved.Sprints {
		if sprint.ID == "client-sprint-1" || sprint.ID == "client-sprint-2" {
			t.Errorf("client id %q leaked into storage", sprint.ID)
		}
		if sprint.CampaignID != campaignID {
			t.Errorf("sprint campaign = %q", sprint.CampaignID)
		}
		if _, ok := sprints.Sprints[sprint.ID]; !ok {
			t.Errorf("sprint %q not inserted", sprint.ID)
		}
		if _, ok := sprints.Junctions[sprint.ID]; !ok {
			t.Errorf("junctions for sprint %q not inserted", sprint.ID)
		}
	}

	// Slots follow their sprint through the id mapping
	if saved.ContentSlots[0].SprintID != saved.Sprints[0].ID {
		t.Errorf("slot 0 sprint = %q, want %q", saved.ContentSlots[0].SprintID, saved.Sprints[0].ID)
	}
	if saved.ContentSlots[1].SprintID != saved.Sprints[1].ID {
		t.Errorf("slot 1 sprint = %q, want %q", saved.ContentSlots[1].SprintID, saved.Sprints[1].ID)
	}
	if len(slots.Slots) != 2 {
		t.Errorf("stored slots = %d, want 2", len(slots.Slots))
	}
}

func TestSaveExecutionPlanRollbackOnSlotFailure(t *testing.T) {
	svc, sprints, slots := newTestPlanService()
	slots.BatchInsertError = errors.New("copy failed")

	_, err := svc.SaveExecutionPlan(context.Background(), campaignID, twoSprintPlan())
	if err == nil {
		t.Fatal("expected error")
	}

	// Compensating deletes run in reverse dependency order and remove
	// everything the partial save inserted
	if len(slots.DeletedSprintIDs) != 2 {
		t.Errorf("slot deletes for %d sprints, want 2", len(slots.DeletedSprintIDs))
	}
	if len(sprints.DeletedJunctionsFor) != 2 {
		t.Errorf("junction deletes for %d sprints, want 2", len(sprints.DeletedJunctionsFor))
	}
	if len(sprints.DeletedSprintIDs) != 2 {
		t.Errorf("sprint deletes = %d, want 2", len(sprints.DeletedSprintIDs))
	}
	if len(sprints.Sprints) != 0 {
		t.Errorf("%d sprints left behind after rollback", len(sprints.Sprints))
	}

	plan, err := svc.LoadExecutionPlan(context.Background(), campaignID)
	if err != nil {
		t.Fatalf("load after rollback: %v", err)
	}
	if plan != nil {
		t.Error("plan should be nil after rollback")
	}
}

func TestSaveExecutionPlanRollbackOnSprintFailure(t *testing.T) {
	svc, sprints, _ := newTestPlanService()
	sprints.InsertError = errors.New("insert failed")
	sprints.InsertErrorAfter = 1

	_, err := svc.SaveExecutionPlan(context.Background(), campaignID, twoSprintPlan())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(sprints.DeletedSprintIDs) != 1 {
		t.Errorf("rollback deleted %d sprints, want the 1 inserted before the failure", len(sprints.DeletedSprintIDs))
	}
	if len(sprints.Sprints) != 0 {
		t.Errorf("%d sprints left behind after rollback", len(sprints.Sprints))
	}
}

func TestSaveExecutionPlanUnknownSprintReference(t *testing.T) {
	svc, sprints, slots := newTestPlanService()

	plan := twoSprintPlan()
	plan.ContentSlots[1].SprintID = "nobody-home"

	_, err := svc.SaveExecutionPlan(context.Background(), campaignID, plan)
	if err == nil {
		t.Fatal("expected error for unmapped sprint reference")
	}
	if len(sprints.Sprints) != 0 {
		t.Error("sprints should be rolled back")
	}
	if slots.BatchInsertCalls != 0 {
		t.Error("no slot insert should be attempted")
	}
}

func TestSaveSubmittedPlan(t *testing.T) {
	svc, sprints, _ := newTestPlanService()

	candidate := func() *models.CandidatePlan {
		return &models.CandidatePlan{
			Sprints: []*models.SprintCandidate{{
				ID:        "b2222222-2222-4222-8222-222222222222",
				Name:      "Launch",
				StartDate: "2025-01-01",
				EndDate:   "2025-01-31",
				Channels:  []string{"instagram"},
			}},
			ContentSlots: []*models.SlotCandidate{{
				SprintID:    "b2222222-2222-4222-8222-222222222222",
				Date:        "2025-01-15",
				Channel:     "instagram",
				SlotIndex:   intPtr(0),
				Objective:   "reach",
				ContentType: "static_image",
			}},
		}
	}

	resp, details, err := svc.SaveSubmittedPlan(context.Background(), campaignID, candidate())
	if err != nil || len(details) > 0 {
		t.Fatalf("first save: err=%v details=%v", err, details)
	}
	if !resp.Success || resp.Message != "Execution plan saved" {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Sprints) != 1 || len(resp.ContentSlots) != 1 {
		t.Errorf("response sizes: %d sprints, %d slots", len(resp.Sprints), len(resp.ContentSlots))
	}

	// Saving again replaces the existing plan
	resp, details, err = svc.SaveSubmittedPlan(context.Background(), campaignID, candidate())
	if err != nil || len(details) > 0 {
		t.Fatalf("second save: err=%v details=%v", err, details)
	}
	if resp.Message != "Execution plan updated" {
		t.Errorf("message = %q, want updated", resp.Message)
	}
	if len(sprints.DeletedCampaigns) != 1 || sprints.DeletedCampaigns[0] != campaignID {
		t.Errorf("DeletedCampaigns = %v", sprints.DeletedCampaigns)
	}
	if len(sprints.Sprints) != 1 {
		t.Errorf("%d sprints after replace, want 1", len(sprints.Sprints))
	}
}

func TestSaveSubmittedPlanValidationDetails(t *testing.T) {
	svc, sprints, _ := newTestPlanService()

	candidate := &models.CandidatePlan{
		Sprints: []*models.SprintCandidate{{
			Name:      "Launch",
			StartDate: "not-a-date",
			EndDate:   "2025-01-31",
		}},
	}

	resp, details, err := svc.SaveSubmittedPlan(context.Background(), campaignID, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != nil {
		t.Error("response should be nil on validation failure")
	}
	if len(details) != 1 || details[0].Path != "executionPlan.sprints[0].start_date" {
		t.Fatalf("details = %v", details)
	}
	if sprints.InsertCalls != 0 {
		t.Error("nothing should be inserted on validation failure")
	}
}

func TestSaveSubmittedPlanInvariantViolation(t *testing.T) {
	svc, sprints, _ := newTestPlanService()

	sprintID := "b2222222-2222-4222-8222-222222222222"
	dup := func(index *int) *models.SlotCandidate {
		return &models.SlotCandidate{
			SprintID:    sprintID,
			Date:        "2025-01-15",
			Channel:     "instagram",
			SlotIndex:   index,
			Objective:   "reach",
			ContentType: "static_image",
		}
	}
	candidate := &models.CandidatePlan{
		Sprints: []*models.SprintCandidate{{
			ID:        sprintID,
			Name:      "Launch",
			StartDate: "2025-01-01",
			EndDate:   "2025-01-31",
		}},
		ContentSlots: []*models.SlotCandidate{dup(intPtr(0)), dup(intPtr(0))},
	}

	resp, details, err := svc.SaveSubmittedPlan(context.Background(), campaignID, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != nil {
		t.Error("response should be nil on invariant violation")
	}
	if len(details) != 1 || details[0].Path != "executionPlan" {
		t.Fatalf("details = %v", details)
	}
	if sprints.InsertCalls != 0 {
		t.Error("nothing should be inserted on invariant violation")
	}
}

func TestLoadExecutionPlan(t *testing.T) {
	svc, _, _ := newTestPlanService()

	t.Run("empty campaign", func(t *testing.T) {
		plan, err := svc.LoadExecutionPlan(context.Background(), campaignID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan != nil {
			t.Error("plan should be nil for an empty campaign")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		saved, err := svc.SaveExecutionPlan(context.Background(), campaignID, twoSprintPlan())
		if err != nil {
			t.Fatalf("save: %v", err)
		}

		plan, err := svc.LoadExecutionPlan(context.Background(), campaignID)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(plan.Sprints) != 2 || len(plan.ContentSlots) != 2 {
			t.Fatalf("loaded %d sprints, %d slots", len(plan.Sprints), len(plan.ContentSlots))
		}
		// Sprints come back in sprint order with junction lists rebuilt
		if plan.Sprints[0].Name != "Launch" || plan.Sprints[1].Name != "Conversion push" {
			t.Errorf("sprint order: %q, %q", plan.Sprints[0].Name, plan.Sprints[1].Name)
		}
		if len(plan.Sprints[0].Channels) != 1 || plan.Sprints[0].Channels[0] != "instagram" {
			t.Errorf("sprint 0 channels = %v", plan.Sprints[0].Channels)
		}
		// Absent junction rows come back as empty lists, not nil
		if plan.Sprints[0].TopicIDs == nil {
			t.Error("topic ids should be an empty list, not nil")
		}
		// Slots ordered by (date, slot_index)
		if plan.ContentSlots[0].Date != "2025-01-10" {
			t.Errorf("slot order: first date = %q", plan.ContentSlots[0].Date)
		}
		if plan.ContentSlots[0].SprintID != saved.Sprints[0].ID {
			t.Errorf("slot sprint = %q", plan.ContentSlots[0].SprintID)
		}
	})
}
