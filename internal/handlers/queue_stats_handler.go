package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	queuestatsmodels "io.winapps.sparkbrush/internal/models/queue_stats"
)

// QueueStats reports aggregate offline-queue counters. Dropped items
// only ever surface here, never per-item to the submitter.
func (h *SubmissionHandler) QueueStats(c *gin.Context) {
	stats, err := h.queue.Stats(context.Background())
	if err != nil {
		h.logger.Errorw("queue stats read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read queue stats"})
		return
	}

	c.JSON(http.StatusOK, queuestatsmodels.QueueStatsResponse{
		Pending:       stats.Pending,
		Replayed:      stats.Replayed,
		DroppedRetry:  stats.DroppedRetry,
		DroppedExpiry: stats.DroppedExpiry,
	})
}
