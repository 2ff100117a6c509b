package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectSuggestionLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT event_id, recipient_id FROM ai_gift_suggestions`).
		WithArgs("sug-1").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "recipient_id"}).AddRow("event-1", "recipient-1"))
}

func expectEligibleUsers(mock sqlmock.Sqlmock, ids ...string) {
	rows := sqlmock.NewRows([]string{"user_id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	mock.ExpectQuery(`SELECT user_id FROM events WHERE id = \$1`).
		WithArgs("event-1").
		WillReturnRows(rows)
}

func TestToggleSaved_SaveFansOutToAllEligibleUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	expectSuggestionLookup(mock)
	expectEligibleUsers(mock, "owner-1", "planner-1", "planner-2")
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM wishlists`).
		WithArgs("planner-1", "sug-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO wishlists`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	svc := NewWishlistFanoutService(db)
	result, err := svc.ToggleSaved(context.Background(), "sug-1", "planner-1")

	require.NoError(t, err)
	assert.Equal(t, "saved", result.Applied)
	assert.ElementsMatch(t, []string{"owner-1", "planner-1", "planner-2"}, result.AffectedUserIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleSaved_UnsaveRemovesForWholeEligibleSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	expectSuggestionLookup(mock)
	expectEligibleUsers(mock, "owner-1", "planner-1")
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM wishlists`).
		WithArgs("owner-1", "sug-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM wishlists WHERE suggestion_id`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	svc := NewWishlistFanoutService(db)
	result, err := svc.ToggleSaved(context.Background(), "sug-1", "owner-1")

	require.NoError(t, err)
	assert.Equal(t, "unsaved", result.Applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleSaved_UnknownSuggestion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT event_id, recipient_id FROM ai_gift_suggestions`).
		WithArgs("sug-gone").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "recipient_id"}))
	mock.ExpectRollback()

	svc := NewWishlistFanoutService(db)
	_, err = svc.ToggleSaved(context.Background(), "sug-gone", "owner-1")

	assert.ErrorIs(t, err, ErrSuggestionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Les viewers ne font jamais partie de l'ensemble éligible ; un acteur hors
// ensemble est rejeté avant toute écriture.
func TestToggleSaved_IneligibleActorIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	expectSuggestionLookup(mock)
	expectEligibleUsers(mock, "owner-1", "planner-1")
	mock.ExpectRollback()

	svc := NewWishlistFanoutService(db)
	_, err = svc.ToggleSaved(context.Background(), "sug-1", "viewer-1")

	assert.ErrorIs(t, err, ErrNotEligible)
	assert.NoError(t, mock.ExpectationsWereMet())
}
