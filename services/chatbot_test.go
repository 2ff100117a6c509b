package services

import (
	"context"
	"testing"
	"time"

	"gift-planner-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIntent(t *testing.T) {
	cases := map[string]string{
		"When is mom's birthday?":      IntentUpcomingEvents,
		"show my upcoming events":      IntentUpcomingEvents,
		"what's in my wishlist":        IntentSavedIdeas,
		"show saved ideas":             IntentSavedIdeas,
		"what did I already give her?": IntentPastGifts,
		"gift history please":          IntentPastGifts,
		"how much can I spend":         IntentBudget,
		"what's my budget":             IntentBudget,
		"hello there":                  IntentHelp,
		"":                             IntentHelp,
	}
	for message, want := range cases {
		assert.Equalf(t, want, DetectIntent(message), "message %q", message)
	}
}

// Le budget gagne sur les autres intentions quand plusieurs mots-clés matchent.
func TestDetectIntent_FixedPriority(t *testing.T) {
	assert.Equal(t, IntentBudget, DetectIntent("what's the budget for the birthday event"))
	assert.Equal(t, IntentPastGifts, DetectIntent("ideas I already gave"))
}

func TestAnswer_AppendsBothTurnsToHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT name, event_date FROM events`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "event_date"}).
			AddRow("Birthday", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))

	svc := NewChatbotService(db)
	resp, err := svc.Answer(context.Background(), "user-1", models.ChatRequest{
		Message: "any upcoming events?",
		History: []models.ChatMessage{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}},
	})

	require.NoError(t, err)
	assert.Equal(t, IntentUpcomingEvents, resp.Intent)
	assert.Contains(t, resp.Reply, "Birthday")
	require.Len(t, resp.History, 4)
	assert.Equal(t, "any upcoming events?", resp.History[2].Content)
	assert.Equal(t, "assistant", resp.History[3].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswer_HelpIntentNeedsNoDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewChatbotService(db)
	resp, err := svc.Answer(context.Background(), "user-1", models.ChatRequest{Message: "bonjour"})

	require.NoError(t, err)
	assert.Equal(t, IntentHelp, resp.Intent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
