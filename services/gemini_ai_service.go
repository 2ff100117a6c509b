package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gift-planner-api/models"
)

// ============================================================================
// GEMINI AI SERVICE - Génération des idées cadeaux
// Un seul POST par appel, pas de retry ici : la politique de repli appartient
// à l'appelant (le handler sert un jeu d'idées de secours).
// ============================================================================

const jsonOnlyInstruction = "You must respond with valid JSON only. No markdown, no code fences, no commentary.\n\n"

type GeminiAIService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func NewGeminiAIService(apiKey, model, baseURL string) *GeminiAIService {
	return &GeminiAIService{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		// Timeout de lecture fixe ; un dépassement remonte comme échec
		// de transport, traité comme une GenerationError.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateIdeas envoie le prompt et extrait la liste d'idées de la réponse.
func (s *GeminiAIService) GenerateIdeas(ctx context.Context, prompt string) ([]models.GiftIdea, error) {
	if s.apiKey == "" {
		return nil, &ConfigurationError{Missing: "GEMINI_API_KEY"}
	}

	requestBody := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: jsonOnlyInstruction + prompt}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		aiRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, &GenerationError{Reason: "transport failure", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		aiRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, &GenerationError{Reason: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		aiRequestsTotal.WithLabelValues("http_error").Inc()
		return nil, &GenerationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	text, genErr := extractCandidateText(body)
	if genErr != nil {
		aiRequestsTotal.WithLabelValues("bad_response").Inc()
		return nil, genErr
	}

	ideas, genErr := parseIdeaList(text)
	if genErr != nil {
		aiRequestsTotal.WithLabelValues("bad_payload").Inc()
		return nil, genErr
	}

	aiRequestsTotal.WithLabelValues("success").Inc()
	return ideas, nil
}

// extractCandidateText localise le premier part textuel non vide du premier
// candidat. Les deux causes d'échec sont distinguées volontairement.
func extractCandidateText(body []byte) (string, *GenerationError) {
	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &GenerationError{Reason: "unparseable provider response", Err: err, Body: truncate(string(body), 300)}
	}

	if len(parsed.Candidates) == 0 {
		return "", &GenerationError{Reason: "no candidates in provider response"}
	}

	for _, part := range parsed.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}

	return "", &GenerationError{Reason: "no text parts in first candidate"}
}

// parseIdeaList accepte soit un objet JSON portant la liste sous gift_ideas,
// ideas ou data, soit un tableau nu. Tout autre forme de premier niveau est
// une erreur diagnostiquable (type réel + extrait du texte).
func parseIdeaList(text string) ([]models.GiftIdea, *GenerationError) {
	var payload interface{}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, &GenerationError{Reason: "candidate text is not valid JSON", Err: err, Body: truncate(text, 300)}
	}

	var rawList interface{}
	switch v := payload.(type) {
	case map[string]interface{}:
		for _, key := range []string{"gift_ideas", "ideas", "data"} {
			if found, ok := v[key]; ok {
				rawList = found
				break
			}
		}
		if rawList == nil {
			return nil, &GenerationError{
				Reason: fmt.Sprintf("unexpected top-level JSON shape %T (no gift_ideas, ideas or data key)", v),
				Body:   truncate(text, 300),
			}
		}
	case []interface{}:
		rawList = v
	default:
		return nil, &GenerationError{
			Reason: fmt.Sprintf("unexpected top-level JSON shape %T", payload),
			Body:   truncate(text, 300),
		}
	}

	listJSON, err := json.Marshal(rawList)
	if err != nil {
		return nil, &GenerationError{Reason: "failed to re-encode idea list", Err: err}
	}

	var ideas []models.GiftIdea
	if err := json.Unmarshal(listJSON, &ideas); err != nil {
		return nil, &GenerationError{Reason: "idea list has wrong item shape", Err: err, Body: truncate(text, 300)}
	}

	return ideas, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
