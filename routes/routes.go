package routes

import (
	"database/sql"

	"gift-planner-api/config"
	"gift-planner-api/handlers"
	"gift-planner-api/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes enregistre les routes publiques d'authentification.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupUserRoutes enregistre les routes profil + 2FA (protégées).
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.POST("/user/2fa/backup-codes", userHandler.RegenerateBackupCodes)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupRecipientRoutes enregistre le CRUD des destinataires de cadeaux.
func SetupRecipientRoutes(rg *gin.RouterGroup, db *sql.DB) {
	recipientHandler := &handlers.RecipientHandler{DB: db}

	rg.POST("/recipients", recipientHandler.CreateRecipient)
	rg.GET("/recipients", recipientHandler.GetRecipients)
	rg.GET("/recipients/:id", recipientHandler.GetRecipient)
	rg.PUT("/recipients/:id", recipientHandler.UpdateRecipient)
	rg.DELETE("/recipients/:id", recipientHandler.DeleteRecipient)
}

// SetupEventRoutes enregistre les événements, leurs slots destinataire
// et la collaboration.
func SetupEventRoutes(rg *gin.RouterGroup, db *sql.DB, cfg *config.Config) {
	eventHandler := &handlers.EventHandler{DB: db}
	emailService := services.NewEmailService(cfg.ResendAPIKey, cfg.FromEmail, cfg.FrontendURL)
	collabHandler := &handlers.CollaboratorHandler{DB: db, Email: emailService}

	rg.POST("/events", eventHandler.CreateEvent)
	rg.GET("/events", eventHandler.GetEvents)
	rg.GET("/events/:id", eventHandler.GetEvent)
	rg.PUT("/events/:id", eventHandler.UpdateEvent)
	rg.DELETE("/events/:id", eventHandler.DeleteEvent)

	rg.POST("/events/:id/recipients", eventHandler.AttachRecipient)
	rg.DELETE("/events/:id/recipients/:slot_id", eventHandler.DetachRecipient)
	rg.PUT("/events/:id/recipients/:slot_id/status", eventHandler.UpdateGiftStatus)

	rg.POST("/events/:id/invite", collabHandler.InviteCollaborator)
	rg.GET("/events/:id/collaborators", collabHandler.GetCollaborators)
	rg.GET("/events/:id/invitations", collabHandler.GetInvitations)
	rg.DELETE("/events/:id/collaborators/:user_id", collabHandler.RemoveCollaborator)
	rg.POST("/invitations/accept", collabHandler.AcceptInvitation)
	rg.POST("/invitations/decline", collabHandler.DeclineInvitation)
}

// SetupSuggestionRoutes enregistre la génération IA et la wishlist partagée.
func SetupSuggestionRoutes(rg *gin.RouterGroup, db *sql.DB, cfg *config.Config, ws *handlers.WSHandler) {
	aiService := services.NewGeminiAIService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
	imageService := services.NewImageSearchService(cfg.UnsplashAccessKey, cfg.UnsplashBaseURL)
	orchestrator := services.NewSuggestionOrchestrator(db, aiService, imageService)
	fanout := services.NewWishlistFanoutService(db)

	suggestionHandler := &handlers.SuggestionHandler{DB: db, Orchestrator: orchestrator, WS: ws}
	wishlistHandler := &handlers.WishlistHandler{DB: db, Fanout: fanout, WS: ws}

	rg.POST("/slots/:slot_id/suggestions", suggestionHandler.GenerateSuggestions)
	rg.GET("/slots/:slot_id/suggestions", suggestionHandler.GetSuggestions)

	rg.POST("/suggestions/:id/toggle-saved", wishlistHandler.ToggleSaved)
	rg.GET("/wishlist", wishlistHandler.GetWishlist)
}

// SetupShoppingRoutes enregistre panier, commandes et backlog des cadeaux offerts.
func SetupShoppingRoutes(rg *gin.RouterGroup, db *sql.DB) {
	cartHandler := &handlers.CartHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db}
	backlogHandler := &handlers.BacklogHandler{DB: db}

	rg.POST("/cart/items", cartHandler.AddToCart)
	rg.GET("/cart", cartHandler.GetCart)
	rg.DELETE("/cart/items/:item_id", cartHandler.RemoveFromCart)

	rg.POST("/orders/checkout", orderHandler.Checkout)
	rg.GET("/orders", orderHandler.GetOrders)
	rg.GET("/orders/:id", orderHandler.GetOrder)
	rg.POST("/orders/:id/delivered", orderHandler.MarkDelivered)
	rg.POST("/orders/:id/cancel", orderHandler.CancelOrder)

	rg.POST("/backlog", backlogHandler.AddBacklogEntry)
	rg.GET("/backlog", backlogHandler.GetBacklog)
	rg.DELETE("/backlog/:id", backlogHandler.DeleteBacklogEntry)
}

// SetupChatbotRoutes enregistre l'assistant conversationnel.
func SetupChatbotRoutes(rg *gin.RouterGroup, db *sql.DB) {
	chatbotHandler := &handlers.ChatbotHandler{Chatbot: services.NewChatbotService(db)}

	rg.POST("/chat", chatbotHandler.Chat)
}

// SetupWSRoutes enregistre le canal temps réel par événement.
func SetupWSRoutes(rg *gin.RouterGroup, ws *handlers.WSHandler) {
	rg.GET("/events/:id/ws", ws.HandleWS)
}
