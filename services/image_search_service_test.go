package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildImageQuery(t *testing.T) {
	assert.Equal(t, "Tea set kitchen gift", BuildImageQuery("Tea set", "kitchen"))
	assert.Equal(t, "Tea set gift", BuildImageQuery("Tea set", ""))
	assert.Equal(t, "Tea set gift", BuildImageQuery("  Tea set  ", "  "))
}

func TestFindImage_PrefersSmallOverRegular(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		w.Write([]byte(`{"results":[{"urls":{"small":"https://img/small.jpg","regular":"https://img/regular.jpg"}}]}`))
	}))
	defer srv.Close()

	svc := NewImageSearchService("test-key", srv.URL)
	url, ok := svc.FindImage(context.Background(), "tea set gift")

	assert.True(t, ok)
	assert.Equal(t, "https://img/small.jpg", url)
}

func TestFindImage_FallsBackToRegular(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"urls":{"small":"","regular":"https://img/regular.jpg"}}]}`))
	}))
	defer srv.Close()

	svc := NewImageSearchService("test-key", srv.URL)
	url, ok := svc.FindImage(context.Background(), "q")

	assert.True(t, ok)
	assert.Equal(t, "https://img/regular.jpg", url)
}

// Toutes les pannes doivent être absorbées en ("", false), jamais de panique
// ni d'erreur remontée.
func TestFindImage_AbsorbsFailures(t *testing.T) {
	t.Run("missing access key", func(t *testing.T) {
		svc := NewImageSearchService("", "http://unused")
		url, ok := svc.FindImage(context.Background(), "q")
		assert.False(t, ok)
		assert.Empty(t, url)
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()
		svc := NewImageSearchService("test-key", srv.URL)
		_, ok := svc.FindImage(context.Background(), "q")
		assert.False(t, ok)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer srv.Close()
		svc := NewImageSearchService("test-key", srv.URL)
		_, ok := svc.FindImage(context.Background(), "q")
		assert.False(t, ok)
	})

	t.Run("no results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		}))
		defer srv.Close()
		svc := NewImageSearchService("test-key", srv.URL)
		_, ok := svc.FindImage(context.Background(), "q")
		assert.False(t, ok)
	})

	t.Run("unreachable host", func(t *testing.T) {
		svc := NewImageSearchService("test-key", "http://127.0.0.1:1")
		_, ok := svc.FindImage(context.Background(), "q")
		assert.False(t, ok)
	})
}
