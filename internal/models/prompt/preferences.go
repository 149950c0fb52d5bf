package models

import "time"

// UserPreferences is the onboarding record driving prompt generation.
// It is read-only from the generation engine's perspective; the mobile
// app owns editing.
type UserPreferences struct {
	UserID        string    `json:"userId"`
	ArtMediums    []string  `json:"artMediums"`
	Subjects      []string  `json:"subjects"`
	ColorPalettes []string  `json:"colorPalettes"`
	Exclusions    []string  `json:"exclusions"`
	Difficulty    string    `json:"difficulty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
