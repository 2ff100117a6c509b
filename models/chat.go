package models

// ChatMessage est un tour de conversation du chatbot intégré.
type ChatMessage struct {
	Role    string `json:"role"` // "user" ou "assistant"
	Content string `json:"content"`
}

// ChatRequest porte l'historique de session explicitement :
// l'état ne vit jamais côté serveur.
type ChatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []ChatMessage `json:"history"`
}

type ChatResponse struct {
	Reply   string        `json:"reply"`
	Intent  string        `json:"intent"`
	History []ChatMessage `json:"history"`
}
