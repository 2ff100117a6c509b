package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(limit int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewRateLimiter(limit, window).Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return router
}

func doPing(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_HonorsConfiguredLimit(t *testing.T) {
	router := rateLimitedRouter(2, time.Minute)

	assert.Equal(t, http.StatusOK, doPing(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, doPing(router, "10.0.0.1").Code)

	third := doPing(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Contains(t, third.Body.String(), "retry_after")
}

func TestRateLimiter_CountsPerIP(t *testing.T) {
	router := rateLimitedRouter(1, time.Minute)

	assert.Equal(t, http.StatusOK, doPing(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doPing(router, "10.0.0.1").Code)

	// Une autre IP garde sa propre fenêtre.
	assert.Equal(t, http.StatusOK, doPing(router, "10.0.0.2").Code)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	router := rateLimitedRouter(1, 30*time.Millisecond)

	assert.Equal(t, http.StatusOK, doPing(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doPing(router, "10.0.0.1").Code)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doPing(router, "10.0.0.1").Code)
}
