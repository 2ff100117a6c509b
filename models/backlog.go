package models

import "time"

// GiftGivenBacklog garde l'historique des cadeaux réellement offerts.
// Sert d'exemples négatifs dans les prompts futurs.
type GiftGivenBacklog struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	RecipientID string     `json:"recipient_id"`
	GiftName    string     `json:"gift_name"`
	Price       *float64   `json:"price,omitempty"`
	Category    string     `json:"category,omitempty"`
	GivenDate   *time.Time `json:"given_date,omitempty"`
	Link        string     `json:"link,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type BacklogRequest struct {
	RecipientID string   `json:"recipient_id" binding:"required"`
	GiftName    string   `json:"gift_name" binding:"required"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	GivenDate   string   `json:"given_date"` // YYYY-MM-DD
	Link        string   `json:"link"`
}
