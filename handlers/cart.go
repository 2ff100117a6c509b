package handlers

import (
	"database/sql"
	"net/http"

	"gift-planner-api/middleware"
	"gift-planner-api/models"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	DB *sql.DB
}

// ensureCart crée le panier de l'utilisateur s'il n'existe pas encore.
func (h *CartHandler) ensureCart(userID string) (string, error) {
	var cartID string
	err := h.DB.QueryRow(`
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id
	`, userID).Scan(&cartID)
	return cartID, err
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	var suggestionExists bool
	err := h.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM ai_gift_suggestions WHERE id = $1)`, req.SuggestionID).Scan(&suggestionExists)
	if err != nil || !suggestionExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Suggestion not found"})
		return
	}

	cartID, err := h.ensureCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to access cart"})
		return
	}

	var itemID string
	err = h.DB.QueryRow(`
		INSERT INTO cart_items (cart_id, suggestion_id, recipient_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, suggestion_id) DO UPDATE SET quantity = cart_items.quantity + $4
		RETURNING id
	`, cartID, req.SuggestionID, req.RecipientID, req.Quantity).Scan(&itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": itemID, "message": "Added to cart"})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var cart models.Cart
	err := h.DB.QueryRow(`
		SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1
	`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT ci.id, ci.cart_id, ci.suggestion_id, ci.recipient_id, ci.quantity, ci.created_at,
		       s.title, s.description, s.estimated_price, s.category, s.image_url
		FROM cart_items ci
		INNER JOIN ai_gift_suggestions s ON ci.suggestion_id = s.id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC
	`, cart.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
		return
	}
	defer rows.Close()

	cart.Items = []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		var s models.AiGiftSuggestion
		var description, estimatedPrice, category, imageURL sql.NullString
		if err := rows.Scan(&item.ID, &item.CartID, &item.SuggestionID, &item.RecipientID, &item.Quantity, &item.CreatedAt,
			&s.Title, &description, &estimatedPrice, &category, &imageURL); err != nil {
			continue
		}
		s.ID = item.SuggestionID
		s.Description = description.String
		s.EstimatedPrice = estimatedPrice.String
		s.Category = category.String
		s.ImageURL = imageURL.String
		item.Suggestion = &s
		cart.Items = append(cart.Items, item)
	}

	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID := c.Param("item_id")

	result, err := h.DB.Exec(`
		DELETE FROM cart_items ci
		USING carts ca
		WHERE ci.id = $1 AND ci.cart_id = ca.id AND ca.user_id = $2
	`, itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}
