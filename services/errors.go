package services

import "fmt"

// ConfigurationError : credential manquant au moment de construire/appeler
// un client externe. Fatal, jamais réessayé.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Missing)
}

// GenerationError : le LLM n'a pas produit d'idées exploitables.
// Récupérable côté handler via le jeu d'idées de secours.
type GenerationError struct {
	Reason     string // cause structurelle ("no candidates", "no text parts", ...)
	StatusCode int    // 0 si l'échec n'est pas un statut HTTP
	Body       string // corps brut ou extrait du texte fautif, tronqué
	Err        error  // erreur d'origine (transport, parse JSON)
}

func (e *GenerationError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("generation failed: status %d: %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	case e.Body != "":
		return fmt.Sprintf("generation failed: %s: %s", e.Reason, e.Body)
	default:
		return fmt.Sprintf("generation failed: %s", e.Reason)
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
