package config

import (
	"os"
	"strings"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// Environment variables read at startup
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvAPIKeyGoogle = "GOOGLE_API_KEY"
	EnvModel        = "GEMINI_MODEL"
)

// Settings is what a generator needs to be constructed.
type Settings struct {
	APIKey  string
	Model   string
	Backend string
	BaseURL string
}

// LoadSettings merges the environment over the file configuration.
// GEMINI_API_KEY wins over GOOGLE_API_KEY; GEMINI_MODEL wins over cfg.Model.
func LoadSettings(cfg Config) Settings {
	s := Settings{
		APIKey:  strings.TrimSpace(os.Getenv(EnvAPIKey)),
		Model:   cfg.Model,
		Backend: cfg.Backend,
		BaseURL: cfg.BaseURL,
	}
	if s.APIKey == "" {
		s.APIKey = strings.TrimSpace(os.Getenv(EnvAPIKeyGoogle))
	}
	if m := strings.TrimSpace(os.Getenv(EnvModel)); m != "" {
		s.Model = m
	}
	s.Model = models.ModelFromName(s.Model)
	if s.Backend == "" {
		s.Backend = BackendREST
	}
	return s
}

// Validate checks that a generator can be built from the settings
func (s Settings) Validate() error {
	if s.APIKey == "" {
		return apierrors.ErrNoAPIKey
	}
	return nil
}

// MaskedKey returns the API key with everything but the last four characters hidden
func (s Settings) MaskedKey() string {
	if s.APIKey == "" {
		return "(not set)"
	}
	if len(s.APIKey) <= 4 {
		return strings.Repeat("*", len(s.APIKey))
	}
	return strings.Repeat("*", len(s.APIKey)-4) + s.APIKey[len(s.APIKey)-4:]
}
