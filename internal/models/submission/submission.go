package models

import "time"

// Payload is a candidate artwork submission as received from the app:
// 1-3 images (base64 data URLs), optional notes and tags, and the prompt
// being answered. LocalDate is the submitter's local calendar date and
// feeds streak math.
type Payload struct {
	PromptID  string   `json:"promptId"`
	Images    []string `json:"images"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	LocalDate string   `json:"localDate,omitempty"`
}

// QueuedPayload is what survives in the offline queue: staged local image
// references only, never inlined image bytes.
type QueuedPayload struct {
	PromptID  string   `json:"promptId"`
	ImageRefs []string `json:"imageRefs"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	LocalDate string   `json:"localDate"`
}

type QueuedSubmission struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	Payload    QueuedPayload `json:"payload"`
	EnqueuedAt time.Time     `json:"enqueuedAt"`
	RetryCount int           `json:"retryCount"`
}

// Response is a durably persisted submission.
type Response struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PromptID  string    `json:"promptId"`
	ImageURLs []string  `json:"imageUrls"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	LocalDate string    `json:"localDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// StreakSnapshot is derived from the distinct local dates with at least
// one persisted response. It is recomputed, never incrementally patched.
type StreakSnapshot struct {
	CurrentStreak      int    `json:"currentStreak"`
	LongestStreak      int    `json:"longestStreak"`
	LastCompletionDate string `json:"lastCompletionDate,omitempty"`
	TotalDays          int    `json:"totalDays"`
}
