package delivery

import (
	"errors"
	"log"
	"net/http"

	emaildto "ava-backend/internal/email/dto"
	"ava-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistant usecase.AssistantUsecase
}

func NewAssistantHandler(assistant usecase.AssistantUsecase) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
	}
}

// Ask handles POST /api/email_rag.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req emaildto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, usecase.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, answer)
}

// Homescreen handles GET /api/homescreen_emails. A failed refresh falls back
// to the last cached digest when one exists.
func (h *AssistantHandler) Homescreen(c *gin.Context) {
	forceRefresh := c.Query("refresh") == "true"

	digest, err := h.assistant.GetDigest(c.Request.Context(), forceRefresh)
	if err != nil {
		if stale, ok := h.assistant.CachedDigest(); ok {
			log.Printf("[Digest] Refresh failed, serving stale digest: %v", err)
			c.JSON(http.StatusOK, stale)
			return
		}
		if errors.Is(err, usecase.ErrDigestSchema) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, digest)
}

// Ingest handles POST /api/emails/ingest.
func (h *AssistantHandler) Ingest(c *gin.Context) {
	var req emaildto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emails array is required"})
		return
	}

	succeeded, failed, err := h.assistant.Ingest(c.Request.Context(), req.Emails, "api")
	resp := emaildto.IngestResponse{Succeeded: succeeded, Failed: failed}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     err.Error(),
			"succeeded": succeeded,
			"failed":    failed,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// IngestRaw handles POST /api/emails/ingest/raw.
func (h *AssistantHandler) IngestRaw(c *gin.Context) {
	var req emaildto.RawIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages array is required"})
		return
	}

	messages := make([][]byte, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, []byte(m))
	}

	succeeded, failed, err := h.assistant.IngestRaw(c.Request.Context(), messages)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     err.Error(),
			"succeeded": succeeded,
			"failed":    failed,
		})
		return
	}

	c.JSON(http.StatusOK, emaildto.IngestResponse{Succeeded: succeeded, Failed: failed})
}

// Delete handles DELETE /api/emails/:id. Idempotent.
func (h *AssistantHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.assistant.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
