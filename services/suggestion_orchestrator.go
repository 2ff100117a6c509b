package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"gift-planner-api/models"
)

// ============================================================================
// SUGGESTION ORCHESTRATOR
// Compose résolution de budget, prompt, appel LLM, recherche d'images et
// persistance. Le batch entier est écrit dans une seule transaction :
// tout ou rien, jamais de lot partiel.
// ============================================================================

// IdeaGenerator est la frontière faillible du pipeline ; ses erreurs remontent
// telles quelles pour que l'appelant choisisse sa politique de repli.
type IdeaGenerator interface {
	GenerateIdeas(ctx context.Context, prompt string) ([]models.GiftIdea, error)
}

// ImageFinder n'échoue jamais : absence d'image = ("", false).
type ImageFinder interface {
	FindImage(ctx context.Context, query string) (string, bool)
}

type SuggestionOrchestrator struct {
	DB     *sql.DB
	AI     IdeaGenerator
	Images ImageFinder
}

func NewSuggestionOrchestrator(db *sql.DB, ai IdeaGenerator, images ImageFinder) *SuggestionOrchestrator {
	return &SuggestionOrchestrator{DB: db, AI: ai, Images: images}
}

// slotContext est tout ce que le prompt a besoin de savoir sur le slot.
type slotContext struct {
	EventID         string
	RecipientID     string
	RecipientBudget *float64
	AllocatedBudget *float64
	EventBudget     *float64
	RecipientCount  int
	Prompt          PromptInput
}

// GenerateForSlot exécute le pipeline complet pour un planning slot.
// Les lignes retournées sont dans l'ordre de création (ordre du provider).
func (o *SuggestionOrchestrator) GenerateForSlot(ctx context.Context, userID, eventRecipientID, roundType string) ([]models.AiGiftSuggestion, error) {
	if roundType == "" {
		roundType = models.RoundInitial
	}

	slot, err := o.loadSlotContext(ctx, userID, eventRecipientID)
	if err != nil {
		return nil, err
	}

	if cents, ok := ResolveBudget(slot.RecipientBudget, slot.AllocatedBudget, slot.EventBudget, slot.RecipientCount); ok {
		slot.Prompt.BudgetCents = &cents
	}

	pastGifts, err := o.loadGiftHistory(ctx, userID, slot.RecipientID)
	if err != nil {
		return nil, err
	}
	slot.Prompt.PastGifts = pastGifts

	previousTitles, err := o.loadPreviousTitles(ctx, eventRecipientID)
	if err != nil {
		return nil, err
	}
	slot.Prompt.PreviousTitles = previousTitles

	prompt := BuildPrompt(slot.Prompt)

	ideas, err := o.AI.GenerateIdeas(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return o.persistIdeas(ctx, userID, slot, eventRecipientID, roundType, ideas)
}

func (o *SuggestionOrchestrator) loadSlotContext(ctx context.Context, userID, eventRecipientID string) (*slotContext, error) {
	var (
		slot                                     slotContext
		eventLocation, eventDescription          sql.NullString
		relationship, gender, occupation         sql.NullString
		bio, hobbies, likes, dislikes, favorites sql.NullString
		age                                      sql.NullInt64
		userName                                 sql.NullString
	)

	err := o.DB.QueryRowContext(ctx, `
		SELECT er.event_id, er.recipient_id, er.budget_allocated,
		       e.name, e.event_date, e.location, e.description, e.budget,
		       r.name, r.relationship, r.age, r.gender, r.occupation,
		       r.bio, r.hobbies, r.likes, r.dislikes, r.favorite_categories, r.budget,
		       u.name
		FROM event_recipients er
		INNER JOIN events e ON e.id = er.event_id
		INNER JOIN recipients r ON r.id = er.recipient_id
		INNER JOIN users u ON u.id = $2
		WHERE er.id = $1
	`, eventRecipientID, userID).Scan(
		&slot.EventID, &slot.RecipientID, &slot.AllocatedBudget,
		&slot.Prompt.EventName, &slot.Prompt.EventDate, &eventLocation, &eventDescription, &slot.EventBudget,
		&slot.Prompt.RecipientName, &relationship, &age, &gender, &occupation,
		&bio, &hobbies, &likes, &dislikes, &favorites, &slot.RecipientBudget,
		&userName,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("planning slot not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load planning slot: %w", err)
	}

	slot.Prompt.EventLocation = eventLocation.String
	slot.Prompt.EventDescription = eventDescription.String
	slot.Prompt.Relationship = relationship.String
	slot.Prompt.Gender = gender.String
	slot.Prompt.Occupation = occupation.String
	slot.Prompt.Bio = bio.String
	slot.Prompt.Hobbies = hobbies.String
	slot.Prompt.Likes = likes.String
	slot.Prompt.Dislikes = dislikes.String
	slot.Prompt.FavoriteCategories = favorites.String
	slot.Prompt.UserName = userName.String
	if age.Valid {
		v := int(age.Int64)
		slot.Prompt.Age = &v
	}

	err = o.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_recipients WHERE event_id = $1`,
		slot.EventID).Scan(&slot.RecipientCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count event recipients: %w", err)
	}

	return &slot, nil
}

// loadGiftHistory retourne l'historique de cadeaux offerts, plus récents
// d'abord. Non borné : la taille du prompt est l'affaire de l'appelant.
func (o *SuggestionOrchestrator) loadGiftHistory(ctx context.Context, userID, recipientID string) ([]PastGift, error) {
	rows, err := o.DB.QueryContext(ctx, `
		SELECT gift_name, price, category, given_date
		FROM gift_given_backlog
		WHERE user_id = $1 AND recipient_id = $2
		ORDER BY given_date DESC NULLS LAST, created_at DESC
	`, userID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gift history: %w", err)
	}
	defer rows.Close()

	var gifts []PastGift
	for rows.Next() {
		var (
			g        PastGift
			category sql.NullString
			date     sql.NullTime
		)
		if err := rows.Scan(&g.Name, &g.Price, &category, &date); err != nil {
			return nil, fmt.Errorf("failed to scan gift history: %w", err)
		}
		g.Category = category.String
		if date.Valid {
			d := date.Time
			g.GivenDate = &d
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

// loadPreviousTitles alimente la contrainte anti-répétition entre rounds.
func (o *SuggestionOrchestrator) loadPreviousTitles(ctx context.Context, eventRecipientID string) ([]string, error) {
	rows, err := o.DB.QueryContext(ctx, `
		SELECT title FROM ai_gift_suggestions
		WHERE event_recipient_id = $1
		ORDER BY created_at ASC
	`, eventRecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan previous title: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// persistIdeas écrit le lot dans une transaction unique. Les idées sans titre
// sont ignorées silencieusement ; un échec d'insertion annule tout le lot.
func (o *SuggestionOrchestrator) persistIdeas(ctx context.Context, userID string, slot *slotContext, eventRecipientID, roundType string, ideas []models.GiftIdea) ([]models.AiGiftSuggestion, error) {
	tx, err := o.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	suggestions := make([]models.AiGiftSuggestion, 0, len(ideas))
	for _, idea := range ideas {
		title := strings.TrimSpace(idea.Title)
		if title == "" {
			continue
		}

		// La recherche d'image n'interrompt jamais la boucle.
		imageURL, _ := o.Images.FindImage(ctx, BuildImageQuery(title, idea.Category))

		var (
			id        string
			createdAt time.Time
		)
		err := tx.QueryRowContext(ctx, `
			INSERT INTO ai_gift_suggestions
				(user_id, event_id, recipient_id, event_recipient_id,
				 title, description, estimated_price, category, special_notes, image_url, round_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at
		`, userID, slot.EventID, slot.RecipientID, eventRecipientID,
			title, idea.Description, idea.EstimatedPrice, idea.Category, idea.SpecialNotes,
			nullIfEmpty(imageURL), roundType).Scan(&id, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to persist suggestion: %w", err)
		}

		suggestions = append(suggestions, models.AiGiftSuggestion{
			ID:               id,
			UserID:           userID,
			EventID:          slot.EventID,
			RecipientID:      slot.RecipientID,
			EventRecipientID: eventRecipientID,
			Title:            title,
			Description:      idea.Description,
			EstimatedPrice:   idea.EstimatedPrice,
			Category:         idea.Category,
			SpecialNotes:     idea.SpecialNotes,
			ImageURL:         imageURL,
			RoundType:        roundType,
			CreatedAt:        createdAt,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit suggestion batch: %w", err)
	}

	suggestionsPersistedTotal.Add(float64(len(suggestions)))
	log.Printf("[Orchestrator] Persisted %d suggestions for slot %s (round=%s)", len(suggestions), eventRecipientID, roundType)
	return suggestions, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
