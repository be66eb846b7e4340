// Package api provides clients for the Gemini generative-language API.
package api

import (
	"context"
	"fmt"

	"github.com/diogo/geminichat/internal/config"
)

// Generator turns a prompt into response text.
// Implementations make exactly one attempt per call: no retry, no streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
	Close() error
}

// NewGenerator builds the generator selected by settings.Backend.
func NewGenerator(ctx context.Context, settings config.Settings) (Generator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	switch settings.Backend {
	case config.BackendREST, "":
		opts := []ClientOption{WithModel(settings.Model)}
		if settings.BaseURL != "" {
			opts = append(opts, WithBaseURL(settings.BaseURL))
		}
		return NewClient(settings.APIKey, opts...)
	case config.BackendSDK:
		return NewSDKClient(ctx, settings.APIKey, settings.Model, settings.BaseURL)
	default:
		return nil, fmt.Errorf("unknown backend %q", settings.Backend)
	}
}
