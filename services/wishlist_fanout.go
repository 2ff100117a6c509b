package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"gift-planner-api/models"

	"github.com/lib/pq"
)

// ============================================================================
// WISHLIST FAN-OUT
// La wishlist est un état partagé au niveau de l'événement : sauvegarder une
// suggestion l'ajoute pour tous les collaborateurs éligibles, la retirer la
// retire pour tous. Le statut de l'acteur sert uniquement de drapeau source.
// Toute l'écriture d'ensemble se fait dans une transaction.
// ============================================================================

var (
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrNotEligible        = errors.New("user is not an eligible collaborator for this event")
)

type WishlistFanoutService struct {
	DB *sql.DB
}

func NewWishlistFanoutService(db *sql.DB) *WishlistFanoutService {
	return &WishlistFanoutService{DB: db}
}

// ToggleSaved applique le toggle pour tout l'ensemble éligible.
// Éligible = propriétaire de l'événement + collaborateurs acceptés dont le
// rôle est owner ou co_planner. Les viewers ne sont jamais inclus.
func (s *WishlistFanoutService) ToggleSaved(ctx context.Context, suggestionID, actingUserID string) (*models.ToggleSavedResult, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var eventID string
	var recipientID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT event_id, recipient_id FROM ai_gift_suggestions WHERE id = $1`,
		suggestionID).Scan(&eventID, &recipientID)
	if err == sql.ErrNoRows {
		return nil, ErrSuggestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load suggestion: %w", err)
	}

	eligibleIDs, err := s.eligibleUserIDs(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	acting := false
	for _, id := range eligibleIDs {
		if id == actingUserID {
			acting = true
			break
		}
	}
	if !acting {
		return nil, ErrNotEligible
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM wishlists WHERE user_id = $1 AND suggestion_id = $2)`,
		actingUserID, suggestionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check wishlist state: %w", err)
	}

	applied := "saved"
	if exists {
		// Retrait pour TOUT l'ensemble éligible, même ceux qui n'ont pas
		// déclenché le toggle. Asymétrie voulue.
		applied = "unsaved"
		_, err = tx.ExecContext(ctx,
			`DELETE FROM wishlists WHERE suggestion_id = $1 AND user_id = ANY($2)`,
			suggestionID, pq.Array(eligibleIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to remove wishlist entries: %w", err)
		}
	} else {
		// Insertion en un seul aller-retour, idempotente par utilisateur.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO wishlists (user_id, suggestion_id, recipient_id)
			SELECT uid, $2, $3 FROM unnest($1::uuid[]) AS uid
			ON CONFLICT (user_id, suggestion_id) DO NOTHING
		`, pq.Array(eligibleIDs), suggestionID, recipientID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert wishlist entries: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit wishlist toggle: %w", err)
	}

	log.Printf("[WishlistFanout] %s suggestion %s for %d users (triggered by %s)",
		applied, suggestionID, len(eligibleIDs), actingUserID)

	return &models.ToggleSavedResult{
		Applied:         applied,
		AffectedUserIDs: eligibleIDs,
	}, nil
}

// eligibleUserIDs retourne l'ensemble dédupliqué des destinataires du fan-out.
func (s *WishlistFanoutService) eligibleUserIDs(ctx context.Context, tx *sql.Tx, eventID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT user_id FROM events WHERE id = $1
		UNION
		SELECT user_id FROM collaborators
		WHERE event_id = $1 AND status = 'accepted' AND role IN ('owner', 'co_planner')
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible collaborators: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
