package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	getstreaksmodels "io.winapps.sparkbrush/internal/models/get_streaks"
	"io.winapps.sparkbrush/internal/streaks"
)

type StreaksHandler struct {
	service *streaks.Service
	logger  *zap.SugaredLogger
}

// NewStreaksHandler creates a new streaks handler
func NewStreaksHandler(service *streaks.Service, logger *zap.SugaredLogger) *StreaksHandler {
	return &StreaksHandler{service: service, logger: logger}
}

// GetStreaks recomputes and returns the caller's streak snapshot.
// Always derived from the full submission history, so it stays correct
// after backfills and history resets.
func (h *StreaksHandler) GetStreaks(c *gin.Context) {
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

	snapshot, err := h.service.Recompute(context.Background(), userUID)
	if err != nil {
		h.logger.Errorw("streak recompute failed", "user_uid", userUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute streaks"})
		return
	}

	c.JSON(http.StatusOK, getstreaksmodels.GetStreaksResponse{Streaks: snapshot})
}
