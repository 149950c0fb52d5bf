package models

import (
	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
)

type GetDailyPromptResponse struct {
	Prompt *promptmodels.Prompt `json:"prompt"`
}
