package api

import (
	"errors"
	"net/http"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SlotHandler handles individual content slot endpoints
type SlotHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSlotHandler creates a new SlotHandler
func NewSlotHandler(services *service.Services, log zerolog.Logger) *SlotHandler {
	return &SlotHandler{
		services: services,
		log:      log.With().Str("handler", "slot").Logger(),
	}
}

// GetSlot handles GET /v1/content-slots/:id
func (h *SlotHandler) GetSlot(c *gin.Context) {
	slot, err := h.services.Slot.GetSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content slot not found"})
			return
		}
		h.log.Error().Err(err).Str("slot_id", c.Param("id")).Msg("Failed to get content slot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get content slot"})
		return
	}
	c.JSON(http.StatusOK, slot)
}

// UpdateSlot handles PATCH /v1/content-slots/:id
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	var slot models.ContentSlot
	if err := c.ShouldBindJSON(&slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a content slot"})
		return
	}
	slot.ID = c.Param("id")

	updated, err := h.services.Slot.UpdateSlot(c.Request.Context(), &slot)
	if err != nil {
		if errors.Is(err, service.ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content slot not found"})
			return
		}
		h.log.Warn().Err(err).Str("slot_id", slot.ID).Msg("Content slot update rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSlot handles DELETE /v1/content-slots/:id
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	err := h.services.Slot.DeleteSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content slot not found"})
			return
		}
		h.log.Error().Err(err).Str("slot_id", c.Param("id")).Msg("Failed to delete content slot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete content slot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
