package api

import (
	"errors"
	"net/http"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DraftHandler handles content draft endpoints
type DraftHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(services *service.Services, log zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		services: services,
		log:      log.With().Str("handler", "draft").Logger(),
	}
}

// CreateDraft handles POST /v1/content-slots/:id/drafts
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var draft models.ContentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a content draft"})
		return
	}
	draft.SlotID = c.Param("id")

	created, err := h.services.Draft.CreateDraft(c.Request.Context(), &draft)
	if err != nil {
		if errors.Is(err, service.ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content slot not found"})
			return
		}
		h.log.Warn().Err(err).Str("slot_id", draft.SlotID).Msg("Content draft rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListDrafts handles GET /v1/content-slots/:id/drafts
func (h *DraftHandler) ListDrafts(c *gin.Context) {
	drafts, err := h.services.Draft.ListDrafts(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Str("slot_id", c.Param("id")).Msg("Failed to list drafts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list drafts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts, "count": len(drafts)})
}

// UpdateDraftStatus handles PATCH /v1/drafts/:id/status
func (h *DraftHandler) UpdateDraftStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a status field"})
		return
	}

	draft, err := h.services.Draft.UpdateDraftStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content draft not found"})
			return
		}
		h.log.Warn().Err(err).Str("draft_id", c.Param("id")).Msg("Draft status update rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}
