package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	getdailymodels "io.winapps.sparkbrush/internal/models/get_daily_prompt"
	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
	"io.winapps.sparkbrush/internal/prompts"
)

// PromptHistoryStore lists a user's prompts newest first.
type PromptHistoryStore interface {
	ListRecent(ctx context.Context, userID string, limit, offset int) ([]*promptmodels.Prompt, error)
}

type PromptHandler struct {
	engine  *prompts.Engine
	history PromptHistoryStore
	redis   *redis.Client
	logger  *zap.SugaredLogger
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(engine *prompts.Engine, history PromptHistoryStore, redisClient *redis.Client, logger *zap.SugaredLogger) *PromptHandler {
	return &PromptHandler{
		engine:  engine,
		history: history,
		redis:   redisClient,
		logger:  logger,
	}
}

func dailyPromptCacheKey(userID, dateKey string) string {
	return fmt.Sprintf("daily_prompt:%s:%s", userID, dateKey)
}

// GetDailyPrompt returns the caller's daily prompt, generating it if it
// does not exist yet. The daily row is immutable, so the Redis cache
// never needs invalidation and simply expires at midnight UTC.
func (h *PromptHandler) GetDailyPrompt(c *gin.Context) {
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

	ctx := context.Background()
	dateKey := prompts.DateKey(time.Now())
	cacheKey := dailyPromptCacheKey(userUID, dateKey)

	if h.redis != nil {
		if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var prompt promptmodels.Prompt
			if err := json.Unmarshal([]byte(cached), &prompt); err == nil {
				c.JSON(http.StatusOK, getdailymodels.GetDailyPromptResponse{Prompt: &prompt})
				return
			}
		}
	}

	prompt, err := h.engine.GetOrCreateDaily(ctx, userUID)
	if err != nil {
		h.respondGenerationError(c, userUID, err)
		return
	}

	if h.redis != nil {
		if promptJSON, err := json.Marshal(prompt); err == nil {
			h.redis.Set(ctx, cacheKey, promptJSON, untilMidnightUTC(time.Now()))
		}
	}

	c.JSON(http.StatusOK, getdailymodels.GetDailyPromptResponse{Prompt: prompt})
}

func (h *PromptHandler) respondGenerationError(c *gin.Context, userUID string, err error) {
	switch {
	case errors.Is(err, prompts.ErrNotOnboarded):
		c.JSON(http.StatusConflict, gin.H{"error": "User has not completed onboarding", "code": "not_onboarded"})
	case errors.Is(err, prompts.ErrNoEligibleSubjects):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Every selected subject is excluded, update preferences", "code": "no_eligible_subjects"})
	default:
		h.logger.Errorw("prompt generation failed", "user_uid", userUID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate prompt"})
	}
}

func untilMidnightUTC(now time.Time) time.Duration {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return midnight.Sub(now)
}
