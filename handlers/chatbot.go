package handlers

import (
	"net/http"

	"gift-planner-api/middleware"
	"gift-planner-api/models"
	"gift-planner-api/services"

	"github.com/gin-gonic/gin"
)

type ChatbotHandler struct {
	Chatbot *services.ChatbotService
}

// Chat répond à un message utilisateur. Sans état côté serveur :
// le client renvoie l'historique à chaque appel.
func (h *ChatbotHandler) Chat(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.Chatbot.Answer(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
