package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialEvent(t *testing.T, baseURL, eventID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/events/"+eventID+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// Deux clients connectés en même temps sur des événements différents doivent
// chacun garder leur propre event id de session.
func TestBroadcastUpdate_OnlyReachesSameEventSessions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ws := NewWSHandler()
	router := gin.New()
	router.GET("/events/:id/ws", ws.HandleWS)

	srv := httptest.NewServer(router)
	defer srv.Close()

	connA := dialEvent(t, srv.URL, "event-a")
	connB := dialEvent(t, srv.URL, "event-b")

	require.Eventually(t, func() bool { return ws.M.Len() == 2 },
		time.Second, 10*time.Millisecond)

	ws.BroadcastUpdate("event-a", gin.H{"type": "suggestions_generated"})

	connA.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := connA.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "suggestions_generated")

	// Rien ne doit arriver sur l'autre événement : lecture en timeout.
	connB.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err)
}
