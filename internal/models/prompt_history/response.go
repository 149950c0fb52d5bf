package models

import (
	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
)

type PromptHistoryResponse struct {
	Prompts []*promptmodels.Prompt `json:"prompts"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
}
