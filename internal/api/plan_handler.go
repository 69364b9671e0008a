package api

import (
	"net/http"
	"strings"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PlanHandler handles execution plan save/load endpoints
type PlanHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(services *service.Services, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		services: services,
		log:      log.With().Str("handler", "plan").Logger(),
	}
}

// GetExecutionPlan handles GET /v1/execution?campaign_id=<id>
// Responds with the reconstructed plan, or JSON null when the campaign has
// no sprints yet.
func (h *PlanHandler) GetExecutionPlan(c *gin.Context) {
	ctx := c.Request.Context()

	campaignID := strings.TrimSpace(c.Query("campaign_id"))
	if campaignID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaign_id query parameter is required"})
		return
	}

	plan, err := h.services.Plan.LoadExecutionPlan(ctx, campaignID)
	if err != nil {
		h.log.Error().Err(err).Str("campaign_id", campaignID).Msg("Failed to load execution plan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load execution plan"})
		return
	}
	if plan == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// SaveExecutionPlan handles POST /v1/execution
// Runs schema validation, date-range validation, slot-index-uniqueness
// validation, then replaces any existing plan for the campaign.
func (h *PlanHandler) SaveExecutionPlan(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.SaveExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with campaignId and executionPlan"})
		return
	}
	if strings.TrimSpace(req.CampaignID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaignId is required"})
		return
	}
	if req.ExecutionPlan == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "executionPlan is required"})
		return
	}

	resp, details, err := h.services.Plan.SaveSubmittedPlan(ctx, req.CampaignID, req.ExecutionPlan)
	if err != nil {
		h.log.Error().Err(err).Str("campaign_id", req.CampaignID).Msg("Failed to save execution plan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save execution plan"})
		return
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "execution plan validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
