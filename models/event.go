package models

import "time"

type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name" binding:"required"`
	EventDate   time.Time `json:"event_date"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Budget      *float64  `json:"budget,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsOwner     bool      `json:"is_owner"`
	Role        string    `json:"role,omitempty"`
}

type EventRequest struct {
	Name        string   `json:"name" binding:"required"`
	EventDate   string   `json:"event_date" binding:"required"` // YYYY-MM-DD
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Budget      *float64 `json:"budget"`
}

// EventRecipient est le "planning slot" : un événement × un destinataire.
// budget_allocated est la deuxième priorité de la chaîne de résolution.
type EventRecipient struct {
	ID              string     `json:"id"`
	EventID         string     `json:"event_id"`
	RecipientID     string     `json:"recipient_id"`
	UserID          string     `json:"user_id"`
	BudgetAllocated *float64   `json:"budget_allocated,omitempty"`
	GiftStatus      string     `json:"gift_status"`
	Recipient       *Recipient `json:"recipient,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type AttachRecipientRequest struct {
	RecipientID     string   `json:"recipient_id" binding:"required"`
	BudgetAllocated *float64 `json:"budget_allocated"`
}

type UpdateGiftStatusRequest struct {
	GiftStatus string `json:"gift_status" binding:"required"`
}
