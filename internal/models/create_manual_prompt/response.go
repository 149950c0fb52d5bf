package models

import (
	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
)

type CreateManualPromptResponse struct {
	Prompt *promptmodels.Prompt `json:"prompt"`
}
