package config

import (
	"os"
	"strconv"
)

// Config regroupe toutes les variables d'environnement lues au démarrage.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	FrontendURL string

	// Requêtes autorisées par IP et par minute.
	RateLimitPerMinute int

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	UnsplashAccessKey string
	UnsplashBaseURL   string

	ResendAPIKey string
	FromEmail    string
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		UnsplashAccessKey:  os.Getenv("UNSPLASH_ACCESS_KEY"),
		UnsplashBaseURL:    getEnv("UNSPLASH_BASE_URL", "https://api.unsplash.com"),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@giftplanner.app"),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
