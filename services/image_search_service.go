package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ============================================================================
// IMAGE SEARCH SERVICE - Illustration des idées cadeaux
// Ne remonte jamais d'erreur : toute panne est absorbée en "pas d'image"
// et loguée en warning. Le batch de génération ne doit jamais échouer pour
// une photo manquante.
// ============================================================================

type ImageSearchService struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

type imageSearchResponse struct {
	Results []struct {
		URLs struct {
			Small   string `json:"small"`
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func NewImageSearchService(accessKey, baseURL string) *ImageSearchService {
	return &ImageSearchService{
		accessKey:  accessKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// BuildImageQuery joint titre, catégorie éventuelle et le mot "gift".
func BuildImageQuery(title, category string) string {
	parts := []string{strings.TrimSpace(title)}
	if c := strings.TrimSpace(category); c != "" {
		parts = append(parts, c)
	}
	parts = append(parts, "gift")
	return strings.Join(parts, " ")
}

// FindImage retourne (url, true) ou ("", false), jamais d'erreur.
func (s *ImageSearchService) FindImage(ctx context.Context, query string) (string, bool) {
	if s.accessKey == "" {
		log.Printf("[ImageSearch] ⚠️  UNSPLASH_ACCESS_KEY not set, skipping lookup")
		imageLookupsTotal.WithLabelValues("skipped").Inc()
		return "", false
	}

	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=1", s.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		log.Printf("[ImageSearch] ⚠️  Failed to build request for %q: %v", query, err)
		imageLookupsTotal.WithLabelValues("error").Inc()
		return "", false
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("[ImageSearch] ⚠️  Lookup failed for %q: %v", query, err)
		imageLookupsTotal.WithLabelValues("error").Inc()
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[ImageSearch] ⚠️  Lookup for %q returned status %d", query, resp.StatusCode)
		imageLookupsTotal.WithLabelValues("http_error").Inc()
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[ImageSearch] ⚠️  Failed to read response for %q: %v", query, err)
		imageLookupsTotal.WithLabelValues("error").Inc()
		return "", false
	}

	var parsed imageSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("[ImageSearch] ⚠️  Malformed response for %q: %v", query, err)
		imageLookupsTotal.WithLabelValues("bad_response").Inc()
		return "", false
	}

	if len(parsed.Results) == 0 {
		imageLookupsTotal.WithLabelValues("no_result").Inc()
		return "", false
	}

	urls := parsed.Results[0].URLs
	imageURL := urls.Small
	if imageURL == "" {
		imageURL = urls.Regular
	}
	if imageURL == "" {
		imageLookupsTotal.WithLabelValues("no_result").Inc()
		return "", false
	}

	imageLookupsTotal.WithLabelValues("success").Inc()
	return imageURL, true
}
