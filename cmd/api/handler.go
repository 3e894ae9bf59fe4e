package api

import (
	emailUsecasePkg "ava-backend/internal/email/usecase"
	"ava-backend/internal/settings"
	"ava-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	assistantUsecase emailUsecasePkg.AssistantUsecase
	settingsStore    *settings.Store
	config           *config.Config
}

func NewHandler(assistantUc emailUsecasePkg.AssistantUsecase, settingsStore *settings.Store, cfg *config.Config) *Handler {
	return &Handler{
		assistantUsecase: assistantUc,
		settingsStore:    settingsStore,
		config:           cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.assistantUsecase, h.settingsStore)

	return r.Run(addr)
}
