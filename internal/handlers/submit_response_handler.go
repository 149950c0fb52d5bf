package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
	submitmodels "io.winapps.sparkbrush/internal/models/submit_response"
	"io.winapps.sparkbrush/internal/queue"
	"io.winapps.sparkbrush/internal/submissions"
)

type SubmissionHandler struct {
	orchestrator *submissions.Orchestrator
	queue        *queue.Queue
	logger       *zap.SugaredLogger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(orchestrator *submissions.Orchestrator, q *queue.Queue, logger *zap.SugaredLogger) *SubmissionHandler {
	return &SubmissionHandler{
		orchestrator: orchestrator,
		queue:        q,
		logger:       logger,
	}
}

// SubmitResponse accepts an artwork submission. Validation failures are
// the only hard rejection; any delivery failure resolves to the durable
// queue and the user is told their work is saved and will sync later.
func (h *SubmissionHandler) SubmitResponse(c *gin.Context) {
	var req submitmodels.SubmitResponseRequest
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

	payload := submissionmodels.Payload{
		PromptID:  req.PromptID,
		Images:    req.Images,
		Notes:     req.Notes,
		Tags:      req.Tags,
		LocalDate: req.LocalDate,
	}

	result, err := h.orchestrator.Submit(context.Background(), userUID, payload)
	if err != nil {
		var verr *submissions.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission", "fields": verr.Fields})
			return
		}
		h.logger.Errorw("submission failed before it could be queued", "user_uid", userUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept submission"})
		return
	}

	resp := submitmodels.SubmitResponseResponse{
		Status:    result.Status,
		ID:        result.ID,
		ImageURLs: result.ImageURLs,
	}
	if result.Status == submissions.StatusQueued {
		resp.Message = "Saved offline, your submission will sync when you reconnect"
	} else {
		resp.Message = "Submission saved"
	}
	c.JSON(http.StatusOK, resp)
}
