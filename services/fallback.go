package services

import "gift-planner-api/models"

// FallbackIdeas est le jeu d'idées déterministe servi par la couche requête
// quand le générateur échoue. L'utilisateur voit des idées génériques plutôt
// que l'erreur brute du provider.
func FallbackIdeas() []models.GiftIdea {
	return []models.GiftIdea{
		{
			Title:          "Gift card to a favorite store",
			Description:    "A flexible option that lets them pick exactly what they want.",
			EstimatedPrice: "$25-50",
			Category:       "Gift Cards",
			SpecialNotes:   "Choose a store matching their interests.",
		},
		{
			Title:          "Personalized photo album",
			Description:    "A curated album of shared memories, printed and bound.",
			EstimatedPrice: "$20-40",
			Category:       "Personalized",
			SpecialNotes:   "Allow a week for printing and delivery.",
		},
		{
			Title:          "Artisanal chocolate box",
			Description:    "A selection of handmade chocolates from a local chocolatier.",
			EstimatedPrice: "$15-30",
			Category:       "Food & Drink",
			SpecialNotes:   "Check for allergies first.",
		},
		{
			Title:          "Cozy throw blanket",
			Description:    "A soft, high-quality blanket for relaxing at home.",
			EstimatedPrice: "$30-60",
			Category:       "Home",
			SpecialNotes:   "Neutral colors fit most homes.",
		},
		{
			Title:          "Experience voucher",
			Description:    "A voucher for a massage, cooking class or local activity.",
			EstimatedPrice: "$40-80",
			Category:       "Experiences",
			SpecialNotes:   "Pick something they have mentioned wanting to try.",
		},
	}
}
