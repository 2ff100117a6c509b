package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"gift-planner-api/middleware"
	"gift-planner-api/models"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	DB *sql.DB
}

// Checkout convertit le panier en commande cash-on-delivery.
// Les champs de chaque suggestion sont copiés dans order_items pour que
// l'historique survive à la suppression des suggestions.
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var cartID string
	err = tx.QueryRow(`SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	rows, err := tx.Query(`
		SELECT ci.suggestion_id, ci.recipient_id, ci.quantity,
		       s.title, s.description, s.estimated_price, s.category, s.image_url
		FROM cart_items ci
		INNER JOIN ai_gift_suggestions s ON ci.suggestion_id = s.id
		WHERE ci.cart_id = $1
	`, cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}

	type snapshot struct {
		suggestionID   string
		recipientID    *string
		quantity       int
		title          string
		description    sql.NullString
		estimatedPrice sql.NullString
		category       sql.NullString
		imageURL       sql.NullString
	}
	snapshots := []snapshot{}
	for rows.Next() {
		var s snapshot
		if err := rows.Scan(&s.suggestionID, &s.recipientID, &s.quantity,
			&s.title, &s.description, &s.estimatedPrice, &s.category, &s.imageURL); err != nil {
			rows.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
			return
		}
		snapshots = append(snapshots, s)
	}
	rows.Close()

	if len(snapshots) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	var orderID string
	err = tx.QueryRow(`
		INSERT INTO orders (user_id, status, payment_method, shipping_address)
		VALUES ($1, 'pending', 'cash_on_delivery', $2)
		RETURNING id
	`, userID, req.ShippingAddress).Scan(&orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	for _, s := range snapshots {
		_, err = tx.Exec(`
			INSERT INTO order_items (order_id, suggestion_id, recipient_id, title, description, estimated_price, category, image_url, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, orderID, s.suggestionID, s.recipientID, s.title, s.description, s.estimatedPrice, s.category, s.imageURL, s.quantity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order items"})
			return
		}
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	log.Printf("[Orders] ✅ Order %s created for user %s (%d items, cash on delivery)", orderID, userID, len(snapshots))

	c.JSON(http.StatusCreated, gin.H{
		"id":             orderID,
		"status":         models.OrderStatusPending,
		"payment_method": "cash_on_delivery",
		"message":        "Order placed successfully. Payment due on delivery.",
	})
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, status, payment_method, COALESCE(shipping_address, ''), created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt); err != nil {
			continue
		}
		orders = append(orders, o)
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var o models.Order
	err := h.DB.QueryRow(`
		SELECT id, user_id, status, payment_method, COALESCE(shipping_address, ''), created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID).Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, order_id, suggestion_id, recipient_id, title,
		       COALESCE(description, ''), COALESCE(estimated_price, ''), COALESCE(category, ''), COALESCE(image_url, ''),
		       quantity, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SuggestionID, &item.RecipientID, &item.Title,
			&item.Description, &item.EstimatedPrice, &item.Category, &item.ImageURL,
			&item.Quantity, &item.CreatedAt); err != nil {
			continue
		}
		o.Items = append(o.Items, item)
	}

	c.JSON(http.StatusOK, o)
}

// MarkDelivered passe la commande en "delivered" et verse chaque item rattaché
// à un destinataire dans le backlog des cadeaux offerts, dans la même transaction.
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID := c.Param("id")

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var currentStatus string
	err = tx.QueryRow(`
		SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE
	`, orderID, userID).Scan(&currentStatus)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if currentStatus == models.OrderStatusDelivered {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order already delivered"})
		return
	}
	if currentStatus == models.OrderStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deliver a cancelled order"})
		return
	}

	if _, err := tx.Exec(`UPDATE orders SET status = 'delivered', updated_at = NOW() WHERE id = $1`, orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	// Items sans destinataire connu ne peuvent pas alimenter le backlog.
	result, err := tx.Exec(`
		INSERT INTO gift_given_backlog (user_id, recipient_id, gift_name, category, given_date)
		SELECT $1, oi.recipient_id, oi.title, oi.category, NOW()
		FROM order_items oi
		WHERE oi.order_id = $2 AND oi.recipient_id IS NOT NULL
	`, userID, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record given gifts"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	backlogged, _ := result.RowsAffected()
	log.Printf("[Orders] 📦 Order %s delivered, %d gifts added to backlog", orderID, backlogged)

	c.JSON(http.StatusOK, gin.H{
		"message":          "Order marked as delivered",
		"gifts_backlogged": backlogged,
	})
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID := c.Param("id")

	result, err := h.DB.Exec(`
		UPDATE orders SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'pending'
	`, orderID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order not found or cannot be cancelled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}
