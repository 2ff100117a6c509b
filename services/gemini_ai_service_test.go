package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geminiStub répond comme l'API generateContent avec le texte candidat donné.
func geminiStub(t *testing.T, candidateText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": candidateText}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerateIdeas_MissingKeyIsConfigurationError(t *testing.T) {
	svc := NewGeminiAIService("", "gemini-1.5-flash", "http://unused")
	_, err := svc.GenerateIdeas(context.Background(), "prompt")

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "GEMINI_API_KEY", confErr.Missing)
}

func TestGenerateIdeas_ObjectWithGiftIdeasKey(t *testing.T) {
	srv := geminiStub(t, `{"gift_ideas":[{"title":"Tea set","description":"Ceramic","estimated_price":"$30","category":"kitchen","special_notes":""}]}`)
	defer srv.Close()

	svc := NewGeminiAIService("test-key", "gemini-1.5-flash", srv.URL)
	ideas, err := svc.GenerateIdeas(context.Background(), "prompt")

	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "Tea set", ideas[0].Title)
	assert.Equal(t, "$30", ideas[0].EstimatedPrice)
}

func TestGenerateIdeas_AlternateWrapperKeys(t *testing.T) {
	for _, key := range []string{"ideas", "data"} {
		srv := geminiStub(t, `{"`+key+`":[{"title":"Scarf"}]}`)
		svc := NewGeminiAIService("test-key", "m", srv.URL)
		ideas, err := svc.GenerateIdeas(context.Background(), "p")
		srv.Close()

		require.NoErrorf(t, err, "wrapper key %q", key)
		require.Len(t, ideas, 1)
		assert.Equal(t, "Scarf", ideas[0].Title)
	}
}

func TestGenerateIdeas_BareArray(t *testing.T) {
	srv := geminiStub(t, `[{"title":"Mug"},{"title":"Plant"}]`)
	defer srv.Close()

	svc := NewGeminiAIService("test-key", "m", srv.URL)
	ideas, err := svc.GenerateIdeas(context.Background(), "p")

	require.NoError(t, err)
	assert.Len(t, ideas, 2)
}

func TestGenerateIdeas_ObjectWithoutKnownKey(t *testing.T) {
	srv := geminiStub(t, `{"results":[{"title":"Mug"}]}`)
	defer srv.Close()

	svc := NewGeminiAIService("test-key", "m", srv.URL)
	_, err := svc.GenerateIdeas(context.Background(), "p")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Reason, "unexpected top-level JSON shape")
	assert.Contains(t, genErr.Body, "results")
}

func TestGenerateIdeas_ScalarPayload(t *testing.T) {
	srv := geminiStub(t, `"just a string"`)
	defer srv.Close()

	svc := NewGeminiAIService("test-key", "m", srv.URL)
	_, err := svc.GenerateIdeas(context.Background(), "p")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Reason, "unexpected top-level JSON shape")
}

func TestGenerateIdeas_NonJSONCandidateText(t *testing.T) {
	srv := geminiStub(t, "Sure! Here are some ideas:")
	defer srv.Close()

	svc := NewGeminiAIService("test-key", "m", srv.URL)
	_, err := svc.GenerateIdeas(context.Background(), "p")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "candidate text is not valid JSON", genErr.Reason)
}

func TestGenerateIdeas_HTTPErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota exceeded"}`))
	}))
	defer srv.Close()

	svc := NewGeminiAIService("test-key", "m", srv.URL)
	_, err := svc.GenerateIdeas(context.Background(), "p")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, http.StatusTooManyRequests, genErr.StatusCode)
	assert.Contains(t, genErr.Body, "quota exceeded")
}

func TestGenerateIdeas_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	svc := NewGeminiAIService("test-key", "m", srv.URL)
	_, err := svc.GenerateIdeas(context.Background(), "p")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "no candidates in provider response", genErr.Reason)
}

func TestGenerateIdeas_NoTextParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`))
	}))
	defer srv.Close()

	svc := NewGeminiAIService("test-key", "m", srv.URL)
	_, err := svc.GenerateIdeas(context.Background(), "p")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "no text parts in first candidate", genErr.Reason)
}

func TestGenerateIdeas_TransportFailure(t *testing.T) {
	svc := NewGeminiAIService("test-key", "m", "http://127.0.0.1:1")
	_, err := svc.GenerateIdeas(context.Background(), "p")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "transport failure", genErr.Reason)
	assert.Error(t, genErr.Unwrap())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 300))
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, truncate(string(long), 300), 300)
}
