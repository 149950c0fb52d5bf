package models

import (
	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
)

type GetStreaksResponse struct {
	Streaks *submissionmodels.StreakSnapshot `json:"streaks"`
}
