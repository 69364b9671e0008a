package api

import (
	"errors"
	"net/http"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// GenerationHandler handles AI content slot generation
type GenerationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(services *service.Services, log zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{
		services: services,
		log:      log.With().Str("handler", "generation").Logger(),
	}
}

// GenerateContentSlots handles
// POST /v1/campaigns/:campaign_id/sprints/:sprint_id/content-slots
//
// The response is a server-sent event stream: progress and warning events as
// pipeline stages complete, then exactly one terminal event — done with the
// saved slots, or error with a message. The stream is closed when the
// handler returns; there is no client-side cancellation beyond the request
// context.
func (h *GenerationHandler) GenerateContentSlots(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID := c.Param("campaign_id")
	sprintID := c.Param("sprint_id")

	var req models.GenerateSlotsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON"})
			return
		}
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	progress := func(event string, payload interface{}) {
		c.SSEvent(event, payload)
		c.Writer.Flush()
	}

	slots, err := h.services.Generation.GenerateContentSlots(ctx, campaignID, sprintID, req.WeeklyPostVolume, progress)
	if err != nil {
		h.log.Error().Err(err).
			Str("campaign_id", campaignID).
			Str("sprint_id", sprintID).
			Msg("Content slot generation failed")
		message := "content slot generation failed"
		if errors.Is(err, service.ErrSprintNotFound) || errors.Is(err, service.ErrNoValidSlots) {
			message = err.Error()
		}
		progress("error", gin.H{"message": message})
		return
	}

	progress("done", gin.H{"content_slots": slots})
}
