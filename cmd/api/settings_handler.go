package api

import (
	"net/http"

	"ava-backend/internal/email/domain"
	"ava-backend/internal/settings"

	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes the categorization preference hints over HTTP.
type SettingsHandler struct {
	store *settings.Store
}

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns current settings
// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Current())
}

// Update replaces the settings and persists them
// PUT /api/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req domain.UserSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Update(req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, req)
}
