package models

type SubmitResponseResponse struct {
	Status    string   `json:"status"` // "persisted" or "queued"
	ID        string   `json:"id"`
	ImageURLs []string `json:"imageUrls,omitempty"`
	Message   string   `json:"message"`
}
