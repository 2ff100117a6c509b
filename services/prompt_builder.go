package services

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// PROMPT BUILDER
// Fonction pure : mêmes entrées, même prompt, octet pour octet.
// L'ordre des sections est fixe, les champs absents sont rendus explicitement
// ("not specified") pour ne jamais laisser de blanc ambigu au générateur.
// ============================================================================

const notSpecified = "not specified"

type PastGift struct {
	Name      string
	Price     *float64
	Category  string
	GivenDate *time.Time
}

type PromptInput struct {
	UserName string

	EventName        string
	EventDate        time.Time
	EventLocation    string
	EventDescription string

	RecipientName      string
	Relationship       string
	Age                *int
	Gender             string
	Occupation         string
	Bio                string
	Hobbies            string
	Likes              string
	Dislikes           string
	FavoriteCategories string

	BudgetCents *int64

	// PastGifts est trié du plus récent au plus ancien.
	PastGifts []PastGift

	// PreviousTitles : titres déjà suggérés pour ce slot, à ne pas répéter.
	PreviousTitles []string
}

func orNotSpecified(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return notSpecified
	}
	return s
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// BuildPrompt assemble le prompt complet envoyé au LLM.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString("You are a thoughtful gift-planning assistant. ")
	b.WriteString("Your task is to propose gift ideas for the recipient described below, ")
	b.WriteString("for the given event.\n\n")

	b.WriteString("OUTPUT SCHEMA (strict):\n")
	b.WriteString("Return a JSON object with a single field \"gift_ideas\", an array of items. ")
	b.WriteString("Each item has exactly these string fields: ")
	b.WriteString("\"title\", \"description\", \"estimated_price\", \"category\", \"special_notes\".\n\n")

	b.WriteString("HARD CONSTRAINTS:\n")
	b.WriteString("- Never suggest anything matching the recipient's dislikes.\n")
	b.WriteString("- Never repeat a past gift name or anything that is nearly a duplicate of one.\n")
	b.WriteString("- Never repeat or lightly reword any previously suggested title.\n")
	b.WriteString("- Respect the budget if one is given.\n")
	b.WriteString("- Vary the categories across the 5 ideas.\n")
	b.WriteString("- Avoid generic ideas; be specific to this recipient.\n\n")

	b.WriteString("PLANNER:\n")
	fmt.Fprintf(&b, "- Name: %s\n\n", orNotSpecified(in.UserName))

	b.WriteString("EVENT:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orNotSpecified(in.EventName))
	fmt.Fprintf(&b, "- Date: %s\n", in.EventDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Location: %s\n", orNotSpecified(in.EventLocation))
	fmt.Fprintf(&b, "- Description: %s\n\n", orNotSpecified(in.EventDescription))

	b.WriteString("RECIPIENT:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orNotSpecified(in.RecipientName))
	fmt.Fprintf(&b, "- Relationship: %s\n", orNotSpecified(in.Relationship))
	if in.Age != nil {
		fmt.Fprintf(&b, "- Age: %d\n", *in.Age)
	} else {
		fmt.Fprintf(&b, "- Age: %s\n", notSpecified)
	}
	fmt.Fprintf(&b, "- Gender: %s\n", orNotSpecified(in.Gender))
	fmt.Fprintf(&b, "- Occupation: %s\n", orNotSpecified(in.Occupation))
	fmt.Fprintf(&b, "- Bio: %s\n", orNotSpecified(in.Bio))
	fmt.Fprintf(&b, "- Hobbies: %s\n", orNotSpecified(in.Hobbies))
	fmt.Fprintf(&b, "- Likes: %s\n", orNotSpecified(in.Likes))
	fmt.Fprintf(&b, "- Dislikes: %s\n", orNotSpecified(in.Dislikes))
	fmt.Fprintf(&b, "- Favorite categories: %s\n\n", orNotSpecified(in.FavoriteCategories))

	b.WriteString("BUDGET:\n")
	if in.BudgetCents != nil {
		fmt.Fprintf(&b, "The effective budget for this gift is %s. Stay within it.\n\n", formatCents(*in.BudgetCents))
	} else {
		b.WriteString("No budget is set. Keep suggestions reasonably priced but otherwise unconstrained.\n\n")
	}

	b.WriteString("PAST GIFTS (newest first, do not repeat):\n")
	if len(in.PastGifts) == 0 {
		b.WriteString("No past gifts recorded for this recipient.\n\n")
	} else {
		for _, g := range in.PastGifts {
			fmt.Fprintf(&b, "- %s", strings.TrimSpace(g.Name))
			if g.Category != "" {
				fmt.Fprintf(&b, " (%s)", strings.TrimSpace(g.Category))
			}
			if g.Price != nil {
				fmt.Fprintf(&b, ", %s", formatCents(toCents(*g.Price)))
			}
			if g.GivenDate != nil {
				fmt.Fprintf(&b, ", given %s", g.GivenDate.Format("2006-01-02"))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("PREVIOUSLY SUGGESTED TITLES (do not repeat or reword):\n")
	if len(in.PreviousTitles) == 0 {
		b.WriteString("No titles suggested yet.\n\n")
	} else {
		for _, t := range in.PreviousTitles {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(t))
		}
		b.WriteString("\n")
	}

	b.WriteString("Return exactly 5 ideas as JSON only, with no surrounding text or markdown.")

	return b.String()
}
