package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gift-planner-api/models"
)

// ============================================================================
// CHATBOT SERVICE - Réponses à base de règles sur les données de l'utilisateur
// L'historique de session est passé explicitement par la requête ; le
// dispatch d'intention est une fonction pure sans état ambiant.
// ============================================================================

const (
	IntentUpcomingEvents = "upcoming_events"
	IntentSavedIdeas     = "saved_ideas"
	IntentPastGifts      = "past_gifts"
	IntentBudget         = "budget"
	IntentHelp           = "help"
)

type ChatbotService struct {
	DB *sql.DB
}

func NewChatbotService(db *sql.DB) *ChatbotService {
	return &ChatbotService{DB: db}
}

// DetectIntent mappe le message sur une intention par mots-clés.
func DetectIntent(message string) string {
	m := strings.ToUpper(strings.TrimSpace(message))

	keywords := map[string][]string{
		IntentUpcomingEvents: {"EVENT", "UPCOMING", "OCCASION", "BIRTHDAY", "ANNIVERSARY", "WHEN"},
		IntentSavedIdeas:     {"WISHLIST", "SAVED", "IDEA"},
		IntentPastGifts:      {"PAST", "HISTORY", "ALREADY", "GAVE", "GIVEN"},
		IntentBudget:         {"BUDGET", "SPEND", "COST", "PRICE", "AFFORD"},
	}

	// Ordre de vérification fixe pour un dispatch déterministe.
	for _, intent := range []string{IntentBudget, IntentPastGifts, IntentSavedIdeas, IntentUpcomingEvents} {
		for _, k := range keywords[intent] {
			if strings.Contains(m, k) {
				return intent
			}
		}
	}
	return IntentHelp
}

// Answer répond à un message en interrogeant uniquement les données de
// l'utilisateur, et retourne l'historique augmenté des deux nouveaux tours.
func (s *ChatbotService) Answer(ctx context.Context, userID string, req models.ChatRequest) (*models.ChatResponse, error) {
	intent := DetectIntent(req.Message)

	var reply string
	var err error
	switch intent {
	case IntentUpcomingEvents:
		reply, err = s.answerUpcomingEvents(ctx, userID)
	case IntentSavedIdeas:
		reply, err = s.answerSavedIdeas(ctx, userID)
	case IntentPastGifts:
		reply, err = s.answerPastGifts(ctx, userID)
	case IntentBudget:
		reply, err = s.answerBudgets(ctx, userID)
	default:
		reply = "I can tell you about your upcoming events, your saved gift ideas, " +
			"your gift history, or your budgets. What would you like to know?"
	}
	if err != nil {
		return nil, err
	}

	history := append(append([]models.ChatMessage{}, req.History...),
		models.ChatMessage{Role: "user", Content: req.Message},
		models.ChatMessage{Role: "assistant", Content: reply},
	)

	return &models.ChatResponse{Reply: reply, Intent: intent, History: history}, nil
}

func (s *ChatbotService) answerUpcomingEvents(ctx context.Context, userID string) (string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT name, event_date FROM events
		WHERE user_id = $1 AND event_date >= CURRENT_DATE
		ORDER BY event_date ASC
		LIMIT 5
	`, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load events: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var name string
		var date time.Time
		if err := rows.Scan(&name, &date); err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("%s on %s", name, date.Format("January 2, 2006")))
	}
	if len(lines) == 0 {
		return "You have no upcoming events. Create one to start planning gifts!", nil
	}
	return "Your next events: " + strings.Join(lines, "; ") + ".", nil
}

func (s *ChatbotService) answerSavedIdeas(ctx context.Context, userID string) (string, error) {
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wishlists WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count wishlist: %w", err)
	}
	if count == 0 {
		return "Your wishlist is empty. Generate some suggestions and save the ones you like.", nil
	}
	return fmt.Sprintf("You have %d saved gift ideas in your wishlist.", count), nil
}

func (s *ChatbotService) answerPastGifts(ctx context.Context, userID string) (string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT b.gift_name, r.name
		FROM gift_given_backlog b
		INNER JOIN recipients r ON r.id = b.recipient_id
		WHERE b.user_id = $1
		ORDER BY b.given_date DESC NULLS LAST, b.created_at DESC
		LIMIT 5
	`, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load gift history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var gift, recipient string
		if err := rows.Scan(&gift, &recipient); err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("%s (for %s)", gift, recipient))
	}
	if len(lines) == 0 {
		return "No gifts recorded yet. Delivered orders and manual entries show up here.", nil
	}
	return "Recently given: " + strings.Join(lines, "; ") + ".", nil
}

func (s *ChatbotService) answerBudgets(ctx context.Context, userID string) (string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT e.name, e.budget,
		       (SELECT COUNT(*) FROM event_recipients er WHERE er.event_id = e.id)
		FROM events e
		WHERE e.user_id = $1 AND e.event_date >= CURRENT_DATE
		ORDER BY e.event_date ASC
		LIMIT 5
	`, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load budgets: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var name string
		var budget *float64
		var count int
		if err := rows.Scan(&name, &budget, &count); err != nil {
			return "", err
		}
		if cents, ok := ResolveBudget(nil, nil, budget, count); ok {
			lines = append(lines, fmt.Sprintf("%s: %s per recipient", name, formatCents(cents)))
		} else {
			lines = append(lines, fmt.Sprintf("%s: no budget set", name))
		}
	}
	if len(lines) == 0 {
		return "No upcoming events with budgets. Set a budget on an event, a planning slot or a recipient.", nil
	}
	return "Budgets — " + strings.Join(lines, "; ") + ".", nil
}
