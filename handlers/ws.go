package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler diffuse les signaux de planification (suggestions générées,
// wishlist modifiée) aux collaborateurs connectés sur un événement.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive, indispensable derrière les proxys des hébergeurs cloud.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		eventID, _ := s.Get("event_id")
		log.Printf("✅ Client connected to event: %v", eventID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		eventID, _ := s.Get("event_id")
		log.Printf("🔌 Client disconnected from event: %v", eventID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// L'event id est attaché à la session via les clés de la requête, jamais via
// un callback global : deux connexions simultanées sur des événements
// différents ne peuvent pas se croiser.
func (h *WSHandler) HandleWS(c *gin.Context) {
	eventID := c.Param("id")

	keys := map[string]interface{}{"event_id": eventID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signale une activité de planification à tous les clients
// abonnés à cet événement.
func (h *WSHandler) BroadcastUpdate(eventID string, payload gin.H) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("event_id")
		return exists && id == eventID
	})
	if err != nil {
		log.Printf("❌ Broadcast failed for event %s: %v", eventID, err)
	}
}
