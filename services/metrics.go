package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gift_ai_requests_total",
		Help: "Calls to the generative AI provider, by outcome.",
	}, []string{"outcome"})

	imageLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gift_image_lookups_total",
		Help: "Image search lookups, by outcome.",
	}, []string{"outcome"})

	fallbackServedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_fallback_idea_sets_total",
		Help: "Times the deterministic fallback idea set was served.",
	})

	suggestionsPersistedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_suggestions_persisted_total",
		Help: "AI gift suggestions committed to the database.",
	})
)

// RecordFallbackServed est appelé par la couche requête quand une
// GenerationError est remplacée par le jeu d'idées de secours.
func RecordFallbackServed() {
	fallbackServedTotal.Inc()
}
