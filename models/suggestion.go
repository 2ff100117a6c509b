package models

import "time"

// Round types d'une génération. Stockés tels quels, pas une machine à états.
const (
	RoundInitial    = "initial"
	RoundRegenerate = "regenerate"
)

// GiftIdea est une idée brute renvoyée par le LLM, avant persistance.
// estimated_price est volontairement une chaîne libre ("20-30 €"), pas un nombre.
type GiftIdea struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	EstimatedPrice string `json:"estimated_price"`
	Category       string `json:"category"`
	SpecialNotes   string `json:"special_notes"`
}

// AiGiftSuggestion est une idée persistée, rattachée à un planning slot.
// Immuable après création ; l'état "saved" vit dans la table wishlists.
type AiGiftSuggestion struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	EventID          string    `json:"event_id"`
	RecipientID      string    `json:"recipient_id"`
	EventRecipientID string    `json:"event_recipient_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	EstimatedPrice   string    `json:"estimated_price,omitempty"`
	Category         string    `json:"category,omitempty"`
	SpecialNotes     string    `json:"special_notes,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	RoundType        string    `json:"round_type"`
	Saved            bool      `json:"saved"`
	CreatedAt        time.Time `json:"created_at"`
}

type GenerateSuggestionsRequest struct {
	RoundType string `json:"round_type"`
}

type GenerateSuggestionsResponse struct {
	Suggestions []AiGiftSuggestion `json:"suggestions"`
	Fallback    bool               `json:"fallback"`
}
