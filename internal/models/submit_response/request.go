package models

type SubmitResponseRequest struct {
	PromptID  string   `json:"promptId"`
	Images    []string `json:"images"` // base64 data URLs, 1-3
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	LocalDate string   `json:"localDate,omitempty"` // submitter's local calendar date, YYYY-MM-DD
}
