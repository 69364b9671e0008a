package api

import (
	"net/http"
	"time"

	"github.com/campaign-os/planner-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	planHandler := NewPlanHandler(services, log)
	generationHandler := NewGenerationHandler(services, log)
	slotHandler := NewSlotHandler(services, log)
	draftHandler := NewDraftHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	// API v1
	v1 := router.Group("/v1")
	{
		// Execution plan save/load
		v1.GET("/execution", planHandler.GetExecutionPlan)
		v1.POST("/execution", planHandler.SaveExecutionPlan)

		// Per-sprint content slot generation (SSE)
		v1.POST("/campaigns/:campaign_id/sprints/:sprint_id/content-slots", generationHandler.GenerateContentSlots)

		// Content slot CRUD
		slots := v1.Group("/content-slots")
		{
			slots.GET("/:id", slotHandler.GetSlot)
			slots.PATCH("/:id", slotHandler.UpdateSlot)
			slots.DELETE("/:id", slotHandler.DeleteSlot)
			slots.POST("/:id/drafts", draftHandler.CreateDraft)
			slots.GET("/:id/drafts", draftHandler.ListDrafts)
		}

		// Content draft lifecycle
		v1.PATCH("/drafts/:id/status", draftHandler.UpdateDraftStatus)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "campaign-planner-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
