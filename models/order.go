package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID           string            `json:"id"`
	CartID       string            `json:"cart_id"`
	SuggestionID string            `json:"suggestion_id"`
	RecipientID  *string           `json:"recipient_id,omitempty"`
	Quantity     int               `json:"quantity"`
	Suggestion   *AiGiftSuggestion `json:"suggestion,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type AddToCartRequest struct {
	SuggestionID string  `json:"suggestion_id" binding:"required"`
	RecipientID  *string `json:"recipient_id"`
	Quantity     int     `json:"quantity"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem fige le contenu de la suggestion au moment de la commande.
// L'historique reste stable même si la suggestion est supprimée ensuite.
type OrderItem struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	SuggestionID   *string   `json:"suggestion_id,omitempty"`
	RecipientID    *string   `json:"recipient_id,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	EstimatedPrice string    `json:"estimated_price,omitempty"`
	Category       string    `json:"category,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"created_at"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}
