package api

import (
	"net/http"

	emailDelivery "ava-backend/internal/email/delivery"
	emailUsecase "ava-backend/internal/email/usecase"
	"ava-backend/internal/settings"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, assistantUc emailUsecase.AssistantUsecase, settingsStore *settings.Store) {
	assistantHandler := emailDelivery.NewAssistantHandler(assistantUc)
	settingsHandler := NewSettingsHandler(settingsStore)

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Assistant routes
		api.POST("/email_rag", assistantHandler.Ask)
		api.GET("/homescreen_emails", assistantHandler.Homescreen)

		// Email record routes
		emails := api.Group("/emails")
		{
			emails.POST("/ingest", assistantHandler.Ingest)
			emails.POST("/ingest/raw", assistantHandler.IngestRaw)
			emails.DELETE("/:id", assistantHandler.Delete)
		}

		// Settings routes
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Update)
	}
}
