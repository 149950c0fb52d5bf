package models

import "time"

// PromptKind distinguishes the single idempotent daily prompt from
// unlimited on-demand manual prompts.
type PromptKind string

const (
	KindDaily  PromptKind = "daily"
	KindManual PromptKind = "manual"
)

type Prompt struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	DateKey    string     `json:"dateKey"` // UTC calendar date, YYYY-MM-DD
	Kind       PromptKind `json:"kind"`
	Medium     string     `json:"medium"`
	Subject    string     `json:"subject"`
	ColorRule  string     `json:"colorRule,omitempty"`
	Twist      string     `json:"twist,omitempty"`
	PromptText string     `json:"promptText"`
	CreatedAt  time.Time  `json:"createdAt"`
}
