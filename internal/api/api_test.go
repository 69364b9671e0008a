package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campaign-os/planner-api/internal/config"
	"github.com/campaign-os/planner-api/internal/mocks"
	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	testCampaignID = "a1111111-1111-4111-8111-111111111111"
	testSprintID   = "b2222222-2222-4222-8222-222222222222"
)

var errTest = errors.New("boom")

type testEnv struct {
	router   *gin.Engine
	provider *mocks.MockProvider
	sprints  *mocks.MockSprintRepository
	slots    *mocks.MockSlotRepository
}

func newTestEnv() *testEnv {
	repos, sprints, slots, _ := mocks.NewMockRepositories()
	provider := &mocks.MockProvider{}
	cfg := &config.Config{AI: config.AIConfig{Model: "test-model", MaxTokens: 1024}}
	services := service.NewServices(repos, provider, cfg, zerolog.Nop())
	return &testEnv{
		router:   NewRouter(services, zerolog.Nop()),
		provider: provider,
		sprints:  sprints,
		slots:    slots,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func validSaveRequest() models.SaveExecutionRequest {
	index := 0
	return models.SaveExecutionRequest{
		CampaignID: testCampaignID,
		ExecutionPlan: &models.CandidatePlan{
			Sprints: []*models.SprintCandidate{{
				ID:        testSprintID,
				Name:      "Launch",
				StartDate: "2025-01-01",
				EndDate:   "2025-01-31",
				Channels:  []string{"instagram"},
			}},
			ContentSlots: []*models.SlotCandidate{{
				SprintID:    testSprintID,
				Date:        "2025-01-15",
				Channel:     "instagram",
				SlotIndex:   &index,
				Objective:   "reach",
				ContentType: "static_image",
			}},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv()
	w := env.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGetExecutionPlan(t *testing.T) {
	env := newTestEnv()

	t.Run("missing campaign_id", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/execution", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("no plan yet", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/execution?campaign_id="+testCampaignID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if strings.TrimSpace(w.Body.String()) != "null" {
			t.Errorf("body = %s, want null", w.Body.String())
		}
	})
}

func TestSaveExecutionPlan(t *testing.T) {
	t.Run("saves and reloads", func(t *testing.T) {
		env := newTestEnv()
		w := env.do(t, http.MethodPost, "/v1/execution", validSaveRequest())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var resp models.SaveExecutionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Success || resp.Message != "Execution plan saved" {
			t.Errorf("response = %+v", resp)
		}
		if len(resp.Sprints) != 1 || len(resp.ContentSlots) != 1 {
			t.Errorf("sizes: %d sprints, %d slots", len(resp.Sprints), len(resp.ContentSlots))
		}

		w = env.do(t, http.MethodGet, "/v1/execution?campaign_id="+testCampaignID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("reload status = %d", w.Code)
		}
		var plan models.ExecutionPlan
		if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
			t.Fatalf("decode plan: %v", err)
		}
		if len(plan.Sprints) != 1 || plan.Sprints[0].Name != "Launch" {
			t.Errorf("reloaded plan = %+v", plan)
		}
	})

	t.Run("missing campaignId", func(t *testing.T) {
		env := newTestEnv()
		req := validSaveRequest()
		req.CampaignID = ""
		w := env.do(t, http.MethodPost, "/v1/execution", req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing executionPlan", func(t *testing.T) {
		env := newTestEnv()
		w := env.do(t, http.MethodPost, "/v1/execution", gin.H{"campaignId": testCampaignID})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv()
		req := httptest.NewRequest(http.MethodPost, "/v1/execution", strings.NewReader("{nope"))
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("duplicate slot_index", func(t *testing.T) {
		env := newTestEnv()
		req := validSaveRequest()
		index := 0
		req.ExecutionPlan.ContentSlots = append(req.ExecutionPlan.ContentSlots, &models.SlotCandidate{
			SprintID:    testSprintID,
			Date:        "2025-01-15",
			Channel:     "instagram",
			SlotIndex:   &index,
			Objective:   "engagement",
			ContentType: "story",
		})
		w := env.do(t, http.MethodPost, "/v1/execution", req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "duplicate slot_index") {
			t.Errorf("body = %s", w.Body.String())
		}
		if env.sprints.InsertCalls != 0 {
			t.Error("nothing should be persisted")
		}
	})

	t.Run("invalid slot field with path detail", func(t *testing.T) {
		env := newTestEnv()
		req := validSaveRequest()
		req.ExecutionPlan.ContentSlots[0].ContentType = "reel"
		w := env.do(t, http.MethodPost, "/v1/execution", req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "executionPlan.content_slots[0].content_type") {
			t.Errorf("body = %s", w.Body.String())
		}
	})
}

func seedSprint(env *testEnv) {
	sprint := &models.Sprint{
		ID:         testSprintID,
		CampaignID: testCampaignID,
		Name:       "Launch",
		StartDate:  "2025-01-01",
		EndDate:    "2025-01-31",
		FocusStage: "awareness",
	}
	env.sprints.Sprints[testSprintID] = sprint
	junction := *sprint
	junction.Channels = []string{"instagram"}
	env.sprints.Junctions[testSprintID] = &junction
}

func TestGenerateContentSlotsSSE(t *testing.T) {
	generationPath := "/v1/campaigns/" + testCampaignID + "/sprints/" + testSprintID + "/content-slots"

	t.Run("streams progress and done", func(t *testing.T) {
		env := newTestEnv()
		seedSprint(env)
		env.provider.Response = `{"content_slots": [{"date": "2025-01-10", "channel": "instagram", "slot_index": 0, "objective": "reach", "content_type": "static_image"}]}`

		w := env.do(t, http.MethodPost, generationPath, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
			t.Errorf("content type = %q", ct)
		}
		body := w.Body.String()
		if !strings.Contains(body, "event:progress") {
			t.Error("missing progress events")
		}
		if !strings.Contains(body, "event:done") {
			t.Errorf("missing done event, body = %s", body)
		}
		if !strings.Contains(body, "content_slots") {
			t.Error("done event should carry the saved slots")
		}
		if len(env.slots.Slots) != 1 {
			t.Errorf("stored slots = %d, want 1", len(env.slots.Slots))
		}
	})

	t.Run("unknown sprint streams error event", func(t *testing.T) {
		env := newTestEnv()
		w := env.do(t, http.MethodPost, generationPath, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, SSE errors are in-stream", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "event:error") {
			t.Errorf("missing error event, body = %s", body)
		}
		if !strings.Contains(body, "sprint not found") {
			t.Errorf("error message should surface, body = %s", body)
		}
		if strings.Contains(body, "event:done") {
			t.Error("error and done are mutually exclusive")
		}
	})

	t.Run("provider failure uses generic message", func(t *testing.T) {
		env := newTestEnv()
		seedSprint(env)
		env.provider.Err = errTest

		w := env.do(t, http.MethodPost, generationPath, nil)
		body := w.Body.String()
		if !strings.Contains(body, "content slot generation failed") {
			t.Errorf("body = %s", body)
		}
		if strings.Contains(body, "boom") {
			t.Error("upstream error detail should not leak to the client")
		}
	})
}

func TestSlotAndDraftEndpoints(t *testing.T) {
	env := newTestEnv()
	seedSprint(env)

	slot := &models.ContentSlot{
		ID:          "e5555555-5555-4555-8555-555555555555",
		SprintID:    testSprintID,
		CampaignID:  testCampaignID,
		Date:        "2025-01-10",
		Channel:     "instagram",
		SlotIndex:   0,
		Objective:   "reach",
		ContentType: "static_image",
		FunnelStage: "awareness",
		Status:      "planned",
	}
	env.slots.Slots[slot.ID] = slot

	t.Run("get slot", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/content-slots/"+slot.ID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("get missing slot", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/content-slots/missing", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("update slot normalizes", func(t *testing.T) {
		edit := *slot
		edit.Objective = "drive clicks"
		edit.ContentType = "Short-Video"
		w := env.do(t, http.MethodPatch, "/v1/content-slots/"+slot.ID, edit)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var updated models.ContentSlot
		if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if updated.Objective != "traffic" || updated.ContentType != "short_video" {
			t.Errorf("updated = %+v", updated)
		}
	})

	t.Run("update with unmappable objective", func(t *testing.T) {
		edit := *slot
		edit.Objective = "synergy"
		w := env.do(t, http.MethodPatch, "/v1/content-slots/"+slot.ID, edit)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("draft lifecycle", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/content-slots/"+slot.ID+"/drafts",
			models.ContentDraft{Hook: "Stop scrolling", Body: "Here is why."})
		if w.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
		}
		var draft models.ContentDraft
		if err := json.Unmarshal(w.Body.Bytes(), &draft); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if draft.Status != "draft" {
			t.Errorf("status = %q, want draft", draft.Status)
		}

		w = env.do(t, http.MethodGet, "/v1/content-slots/"+slot.ID+"/drafts", nil)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), draft.ID) {
			t.Errorf("list: status = %d, body = %s", w.Code, w.Body.String())
		}

		w = env.do(t, http.MethodPatch, "/v1/drafts/"+draft.ID+"/status", gin.H{"status": "approved"})
		if w.Code != http.StatusOK {
			t.Fatalf("status update = %d, body = %s", w.Code, w.Body.String())
		}

		w = env.do(t, http.MethodPatch, "/v1/drafts/"+draft.ID+"/status", gin.H{"status": "archived"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("invalid status = %d, want 400", w.Code)
		}
	})

	t.Run("delete slot", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/v1/content-slots/"+slot.ID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		w = env.do(t, http.MethodGet, "/v1/content-slots/"+slot.ID, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status after delete = %d, want 404", w.Code)
		}
	})
}
