package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	createmanualmodels "io.winapps.sparkbrush/internal/models/create_manual_prompt"
)

// CreateManualPrompt generates a fresh on-demand prompt. Unlike the
// daily prompt there is no per-day cap and nothing is cached.
func (h *PromptHandler) CreateManualPrompt(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userUID, ok := uid.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return
	}

	prompt, err := h.engine.CreateManual(context.Background(), userUID)
	if err != nil {
		h.respondGenerationError(c, userUID, err)
		return
	}

	c.JSON(http.StatusOK, createmanualmodels.CreateManualPromptResponse{Prompt: prompt})
}
