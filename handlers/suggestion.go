package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"gift-planner-api/middleware"
	"gift-planner-api/models"
	"gift-planner-api/services"

	"github.com/gin-gonic/gin"
)

type SuggestionHandler struct {
	DB           *sql.DB
	Orchestrator *services.SuggestionOrchestrator
	WS           *WSHandler
}

// GenerateSuggestions lance la génération IA pour un slot événement/destinataire.
// Si le fournisseur IA échoue, on sert un jeu d'idées générique sans le persister.
func (h *SuggestionHandler) GenerateSuggestions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventRecipientID := c.Param("slot_id")

	var req models.GenerateSuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var eventID string
	err := h.DB.QueryRow(`SELECT event_id FROM event_recipients WHERE id = $1`, eventRecipientID).Scan(&eventID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event recipient not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	hasAccess, err := checkEventWriteAccess(c.Request.Context(), h.DB, eventID, userID)
	if err != nil || !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	suggestions, err := h.Orchestrator.GenerateForSlot(c.Request.Context(), userID, eventRecipientID, req.RoundType)
	if err != nil {
		var genErr *services.GenerationError
		var confErr *services.ConfigurationError
		if errors.As(err, &genErr) || errors.As(err, &confErr) {
			log.Printf("[Suggestions] ⚠️ AI generation failed, serving fallback ideas: %v", err)
			services.RecordFallbackServed()
			c.JSON(http.StatusOK, models.GenerateSuggestionsResponse{
				Suggestions: fallbackAsSuggestions(eventRecipientID),
				Fallback:    true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate suggestions"})
		return
	}

	if h.WS != nil {
		h.WS.BroadcastUpdate(eventID, gin.H{
			"type":               "suggestions_generated",
			"event_recipient_id": eventRecipientID,
			"count":              len(suggestions),
		})
	}

	c.JSON(http.StatusOK, models.GenerateSuggestionsResponse{
		Suggestions: suggestions,
		Fallback:    false,
	})
}

// fallbackAsSuggestions habille les idées génériques comme des suggestions
// éphémères (pas d'ID, jamais écrites en base).
func fallbackAsSuggestions(eventRecipientID string) []models.AiGiftSuggestion {
	ideas := services.FallbackIdeas()
	suggestions := make([]models.AiGiftSuggestion, 0, len(ideas))
	for _, idea := range ideas {
		suggestions = append(suggestions, models.AiGiftSuggestion{
			EventRecipientID: eventRecipientID,
			Title:            idea.Title,
			Description:      idea.Description,
			EstimatedPrice:   idea.EstimatedPrice,
			Category:         idea.Category,
			SpecialNotes:     idea.SpecialNotes,
			RoundType:        models.RoundInitial,
		})
	}
	return suggestions
}

func (h *SuggestionHandler) GetSuggestions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventRecipientID := c.Param("slot_id")

	var eventID string
	err := h.DB.QueryRow(`SELECT event_id FROM event_recipients WHERE id = $1`, eventRecipientID).Scan(&eventID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event recipient not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	hasAccess, err := checkEventAccess(c.Request.Context(), h.DB, eventID, userID)
	if err != nil || !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT s.id, s.user_id, s.event_id, s.recipient_id, s.event_recipient_id,
		       s.title, s.description, s.estimated_price, s.category, s.special_notes,
		       s.image_url, s.round_type, s.created_at,
		       EXISTS(SELECT 1 FROM wishlists w WHERE w.suggestion_id = s.id AND w.user_id = $2) AS saved
		FROM ai_gift_suggestions s
		WHERE s.event_recipient_id = $1
		ORDER BY s.created_at DESC
	`, eventRecipientID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suggestions"})
		return
	}
	defer rows.Close()

	suggestions := []models.AiGiftSuggestion{}
	for rows.Next() {
		var s models.AiGiftSuggestion
		var description, estimatedPrice, category, specialNotes, imageURL sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &s.EventID, &s.RecipientID, &s.EventRecipientID,
			&s.Title, &description, &estimatedPrice, &category, &specialNotes,
			&imageURL, &s.RoundType, &s.CreatedAt, &s.Saved); err != nil {
			continue
		}
		s.Description = description.String
		s.EstimatedPrice = estimatedPrice.String
		s.Category = category.String
		s.SpecialNotes = specialNotes.String
		s.ImageURL = imageURL.String
		suggestions = append(suggestions, s)
	}

	c.JSON(http.StatusOK, suggestions)
}
