package handlers

import (
	"context"
	"database/sql"
)

// checkEventAccess : propriétaire de l'événement ou collaborateur accepté,
// tous rôles confondus (les viewers peuvent lire).
func checkEventAccess(ctx context.Context, db *sql.DB, eventID, userID string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM events WHERE id = $1 AND user_id = $2
			UNION
			SELECT 1 FROM collaborators
			WHERE event_id = $1 AND user_id = $2 AND status = 'accepted'
		)
	`, eventID, userID).Scan(&exists)
	return exists, err
}

// checkEventWriteAccess : propriétaire ou co_planner accepté. Les viewers
// ne modifient jamais la planification.
func checkEventWriteAccess(ctx context.Context, db *sql.DB, eventID, userID string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM events WHERE id = $1 AND user_id = $2
			UNION
			SELECT 1 FROM collaborators
			WHERE event_id = $1 AND user_id = $2 AND status = 'accepted'
			  AND role IN ('owner', 'co_planner')
		)
	`, eventID, userID).Scan(&exists)
	return exists, err
}
