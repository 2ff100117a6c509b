package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func samplePromptInput() PromptInput {
	age := 34
	budget := int64(4500)
	given := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	return PromptInput{
		UserName:           "Alice",
		EventName:          "Mom's Birthday",
		EventDate:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		EventLocation:      "Lyon",
		RecipientName:      "Maman",
		Relationship:       "mother",
		Age:                &age,
		Hobbies:            "gardening, reading",
		Dislikes:           "perfume",
		BudgetCents:        &budget,
		PastGifts:          []PastGift{{Name: "Rose bush", Category: "garden", Price: f64(25), GivenDate: &given}},
		PreviousTitles:     []string{"Heated gardening gloves"},
		FavoriteCategories: "books",
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	in := samplePromptInput()
	assert.Equal(t, BuildPrompt(in), BuildPrompt(in))
}

func TestBuildPrompt_SectionOrder(t *testing.T) {
	p := BuildPrompt(samplePromptInput())

	sections := []string{
		"OUTPUT SCHEMA",
		"HARD CONSTRAINTS",
		"PLANNER:",
		"EVENT:",
		"RECIPIENT:",
		"BUDGET:",
		"PAST GIFTS",
		"PREVIOUSLY SUGGESTED TITLES",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(p, s)
		assert.Greaterf(t, idx, last, "section %q out of order", s)
		last = idx
	}
}

func TestBuildPrompt_ContainsAllProvidedFields(t *testing.T) {
	p := BuildPrompt(samplePromptInput())

	assert.Contains(t, p, "- Name: Maman")
	assert.Contains(t, p, "- Age: 34")
	assert.Contains(t, p, "- Dislikes: perfume")
	assert.Contains(t, p, "2026-03-14")
	assert.Contains(t, p, "$45.00")
	assert.Contains(t, p, "- Rose bush (garden), $25.00, given 2025-12-25")
	assert.Contains(t, p, "- Heated gardening gloves")
	assert.True(t, strings.HasSuffix(p, "Return exactly 5 ideas as JSON only, with no surrounding text or markdown."))
}

func TestBuildPrompt_MissingFieldsAreExplicit(t *testing.T) {
	p := BuildPrompt(PromptInput{EventDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})

	assert.Contains(t, p, "- Age: not specified")
	assert.Contains(t, p, "- Hobbies: not specified")
	assert.Contains(t, p, "No budget is set.")
	assert.Contains(t, p, "No past gifts recorded for this recipient.")
	assert.Contains(t, p, "No titles suggested yet.")
}

func TestBuildPrompt_WhitespaceOnlyFieldIsNotSpecified(t *testing.T) {
	in := samplePromptInput()
	in.Occupation = "   "
	assert.Contains(t, BuildPrompt(in), "- Occupation: not specified")
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$0.05", formatCents(5))
	assert.Equal(t, "$33.33", formatCents(3333))
	assert.Equal(t, "$100.00", formatCents(10000))
}
