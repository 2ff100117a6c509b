package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ============================================================================
// EMAIL SERVICE - Invitations de collaboration via l'API Resend
// ============================================================================

type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
	httpClient  *http.Client
}

func NewEmailService(apiKey, fromEmail, frontendURL string) *EmailService {
	return &EmailService{
		apiKey:      apiKey,
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SendCollaborationInvite envoie le mail d'invitation à co-planifier un événement.
func (s *EmailService) SendCollaborationInvite(to, inviterName, eventName, role, token string) error {
	if s.apiKey == "" {
		return &ConfigurationError{Missing: "RESEND_API_KEY"}
	}

	inviteURL := fmt.Sprintf("%s/invitations/accept?token=%s", s.frontendURL, token)

	roleLabel := "help plan gifts for"
	if role == "viewer" {
		roleLabel = "follow the gift planning of"
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #f093fb 0%%, #f5576c 100%%); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; }
        .button { display: inline-block; background: #f5576c; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🎁 Gift Planning Invitation</h1>
        </div>
        <div class="content">
            <p>Hello,</p>
            <p><strong>%s</strong> invited you to %s <strong>"%s"</strong>.</p>
            <p><a class="button" href="%s">Accept the invitation</a></p>
            <p>This invitation expires in 7 days.</p>
        </div>
    </div>
</body>
</html>`, inviterName, roleLabel, eventName, inviteURL)

	return s.send(to, fmt.Sprintf("%s invited you to plan \"%s\"", inviterName, eventName), htmlBody)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	payload := map[string]interface{}{
		"from":    s.fromEmail,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
