package models

type PromptHistoryRequest struct {
	Page  int `json:"page,omitempty"`  // Default: 1
	Limit int `json:"limit,omitempty"` // Default: 20
}
