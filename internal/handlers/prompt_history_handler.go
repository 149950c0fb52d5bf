package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	historymodels "io.winapps.sparkbrush/internal/models/prompt_history"
)

// PromptHistory returns the caller's recent prompts, newest first.
func (h *PromptHandler) PromptHistory(c *gin.Context) {
	var req historymodels.PromptHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

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

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	prompts, err := h.history.ListRecent(context.Background(), userUID, req.Limit, (req.Page-1)*req.Limit)
	if err != nil {
		h.logger.Errorw("prompt history query failed", "user_uid", userUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prompt history"})
		return
	}

	c.JSON(http.StatusOK, historymodels.PromptHistoryResponse{
		Prompts: prompts,
		Page:    req.Page,
		Limit:   req.Limit,
	})
}
