package models

import "time"

// Wishlist matérialise le flag "saved" : une ligne par (user, suggestion).
type Wishlist struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	SuggestionID string            `json:"suggestion_id"`
	RecipientID  *string           `json:"recipient_id,omitempty"`
	Suggestion   *AiGiftSuggestion `json:"suggestion,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type ToggleSavedResult struct {
	Applied         string   `json:"applied"` // "saved" ou "unsaved"
	AffectedUserIDs []string `json:"affected_user_ids"`
}
