package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gift-planner-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	ideas      []models.GiftIdea
	err        error
	lastPrompt string
}

func (f *fakeGenerator) GenerateIdeas(ctx context.Context, prompt string) ([]models.GiftIdea, error) {
	f.lastPrompt = prompt
	return f.ideas, f.err
}

type fakeImageFinder struct {
	url string
	ok  bool
}

func (f *fakeImageFinder) FindImage(ctx context.Context, query string) (string, bool) {
	return f.url, f.ok
}

var slotColumns = []string{
	"event_id", "recipient_id", "budget_allocated",
	"event_name", "event_date", "location", "description", "event_budget",
	"recipient_name", "relationship", "age", "gender", "occupation",
	"bio", "hobbies", "likes", "dislikes", "favorite_categories", "recipient_budget",
	"user_name",
}

func expectSlotContext(mock sqlmock.Sqlmock, eventBudget interface{}, recipientCount int) {
	mock.ExpectQuery(`SELECT er\.event_id`).
		WithArgs("slot-1", "user-1").
		WillReturnRows(sqlmock.NewRows(slotColumns).AddRow(
			"event-1", "recipient-1", nil,
			"Birthday", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), nil, nil, eventBudget,
			"Maman", "mother", 60, nil, nil,
			nil, "gardening", nil, "perfume", nil, nil,
			"Alice",
		))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM event_recipients`).
		WithArgs("event-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(recipientCount))
}

func expectEmptyHistoryAndTitles(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM gift_given_backlog`).
		WithArgs("user-1", "recipient-1").
		WillReturnRows(sqlmock.NewRows([]string{"gift_name", "price", "category", "given_date"}))

	mock.ExpectQuery(`SELECT title FROM ai_gift_suggestions`).
		WithArgs("slot-1").
		WillReturnRows(sqlmock.NewRows([]string{"title"}))
}

func insertReturningRow(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, time.Now())
}

func TestGenerateForSlot_SkipsBlankTitles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSlotContext(mock, nil, 1)
	expectEmptyHistoryAndTitles(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO ai_gift_suggestions`).WillReturnRows(insertReturningRow("sug-1"))
	mock.ExpectQuery(`INSERT INTO ai_gift_suggestions`).WillReturnRows(insertReturningRow("sug-2"))
	mock.ExpectCommit()

	ai := &fakeGenerator{ideas: []models.GiftIdea{
		{Title: "Tea set"},
		{Title: "   "},
		{Title: ""},
		{Title: "Garden kit"},
	}}
	orch := NewSuggestionOrchestrator(db, ai, &fakeImageFinder{})

	suggestions, err := orch.GenerateForSlot(context.Background(), "user-1", "slot-1", "")
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Tea set", suggestions[0].Title)
	assert.Equal(t, "Garden kit", suggestions[1].Title)
	assert.Equal(t, models.RoundInitial, suggestions[0].RoundType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateForSlot_InsertFailureRollsBackWholeBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSlotContext(mock, nil, 1)
	expectEmptyHistoryAndTitles(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO ai_gift_suggestions`).WillReturnRows(insertReturningRow("sug-1"))
	mock.ExpectQuery(`INSERT INTO ai_gift_suggestions`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	ai := &fakeGenerator{ideas: []models.GiftIdea{{Title: "A"}, {Title: "B"}}}
	orch := NewSuggestionOrchestrator(db, ai, &fakeImageFinder{})

	suggestions, err := orch.GenerateForSlot(context.Background(), "user-1", "slot-1", models.RoundRegenerate)
	assert.Error(t, err)
	assert.Nil(t, suggestions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateForSlot_MissingImageDoesNotBlockPersistence(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSlotContext(mock, nil, 1)
	expectEmptyHistoryAndTitles(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO ai_gift_suggestions`).WillReturnRows(insertReturningRow("sug-1"))
	mock.ExpectCommit()

	ai := &fakeGenerator{ideas: []models.GiftIdea{{Title: "Tea set"}}}
	orch := NewSuggestionOrchestrator(db, ai, &fakeImageFinder{url: "", ok: false})

	suggestions, err := orch.GenerateForSlot(context.Background(), "user-1", "slot-1", "")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Empty(t, suggestions[0].ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateForSlot_AIErrorPropagatesWithoutTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSlotContext(mock, nil, 1)
	expectEmptyHistoryAndTitles(mock)
	// Aucune transaction attendue : l'erreur du générateur court-circuite
	// la persistance.

	genErr := &GenerationError{Reason: "transport failure"}
	orch := NewSuggestionOrchestrator(db, &fakeGenerator{err: genErr}, &fakeImageFinder{})

	_, err = orch.GenerateForSlot(context.Background(), "user-1", "slot-1", "")
	var got *GenerationError
	require.ErrorAs(t, err, &got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateForSlot_BudgetAndContextFlowIntoPrompt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Budget d'événement $100 pour 3 slots : $33.33 effectifs dans le prompt.
	expectSlotContext(mock, 100.0, 3)

	mock.ExpectQuery(`FROM gift_given_backlog`).
		WithArgs("user-1", "recipient-1").
		WillReturnRows(sqlmock.NewRows([]string{"gift_name", "price", "category", "given_date"}).
			AddRow("Rose bush", 25.0, "garden", time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)))

	mock.ExpectQuery(`SELECT title FROM ai_gift_suggestions`).
		WithArgs("slot-1").
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Heated gloves"))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO ai_gift_suggestions`).WillReturnRows(insertReturningRow("sug-1"))
	mock.ExpectCommit()

	ai := &fakeGenerator{ideas: []models.GiftIdea{{Title: "Tea set"}}}
	orch := NewSuggestionOrchestrator(db, ai, &fakeImageFinder{})

	_, err = orch.GenerateForSlot(context.Background(), "user-1", "slot-1", "")
	require.NoError(t, err)

	assert.Contains(t, ai.lastPrompt, "$33.33")
	assert.Contains(t, ai.lastPrompt, "- Rose bush (garden), $25.00, given 2025-12-25")
	assert.Contains(t, ai.lastPrompt, "- Heated gloves")
	assert.Contains(t, ai.lastPrompt, "- Dislikes: perfume")
	assert.NoError(t, mock.ExpectationsWereMet())
}
