package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"gift-planner-api/middleware"
	"gift-planner-api/models"
	"gift-planner-api/services"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	DB     *sql.DB
	Fanout *services.WishlistFanoutService
	WS     *WSHandler
}

// ToggleSaved sauvegarde/désauvegarde une suggestion. Le save se propage à tous
// les planificateurs éligibles de l'événement, le unsave retire la ligne partout.
func (h *WishlistHandler) ToggleSaved(c *gin.Context) {
	userID := middleware.GetUserID(c)
	suggestionID := c.Param("id")

	result, err := h.Fanout.ToggleSaved(c.Request.Context(), suggestionID, userID)
	if err != nil {
		if errors.Is(err, services.ErrSuggestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Suggestion not found"})
			return
		}
		if errors.Is(err, services.ErrNotEligible) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	if h.WS != nil {
		var eventID string
		if err := h.DB.QueryRow(`SELECT event_id FROM ai_gift_suggestions WHERE id = $1`, suggestionID).Scan(&eventID); err == nil {
			h.WS.BroadcastUpdate(eventID, gin.H{
				"type":          "wishlist_updated",
				"suggestion_id": suggestionID,
				"saved":         result.Applied == "saved",
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"applied":        result.Applied,
		"affected_users": len(result.AffectedUserIDs),
	})
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT w.id, w.created_at,
		       s.id, s.user_id, s.event_id, s.recipient_id, s.event_recipient_id,
		       s.title, s.description, s.estimated_price, s.category, s.special_notes,
		       s.image_url, s.round_type, s.created_at,
		       e.name AS event_name, r.name AS recipient_name
		FROM wishlists w
		INNER JOIN ai_gift_suggestions s ON w.suggestion_id = s.id
		INNER JOIN events e ON s.event_id = e.id
		INNER JOIN recipients r ON s.recipient_id = r.id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		return
	}
	defer rows.Close()

	items := []map[string]interface{}{}
	for rows.Next() {
		var w models.Wishlist
		var s models.AiGiftSuggestion
		var description, estimatedPrice, category, specialNotes, imageURL sql.NullString
		var eventName, recipientName string
		if err := rows.Scan(&w.ID, &w.CreatedAt,
			&s.ID, &s.UserID, &s.EventID, &s.RecipientID, &s.EventRecipientID,
			&s.Title, &description, &estimatedPrice, &category, &specialNotes,
			&imageURL, &s.RoundType, &s.CreatedAt,
			&eventName, &recipientName); err != nil {
			continue
		}
		s.Description = description.String
		s.EstimatedPrice = estimatedPrice.String
		s.Category = category.String
		s.SpecialNotes = specialNotes.String
		s.ImageURL = imageURL.String
		s.Saved = true

		items = append(items, map[string]interface{}{
			"id":             w.ID,
			"saved_at":       w.CreatedAt,
			"suggestion":     s,
			"event_name":     eventName,
			"recipient_name": recipientName,
		})
	}

	c.JSON(http.StatusOK, items)
}
