// Package models contains data types and constants for the Gemini chat.
package models

import "strings"

// Endpoints for the Gemini generative-language API
const (
	EndpointBase       = "https://generativelanguage.googleapis.com/v1beta"
	GenerateMethodPath = ":generateContent"
)

// Fixed conversation texts
const (
	// Greeting seeds every new conversation as the first bot turn
	Greeting = "Hello! How can I help you?"

	// FallbackText replaces the reply whenever generation fails
	FallbackText = "Sorry, I couldn't understand that."
)

// Model names
const (
	ModelFlash     = "gemini-2.5-flash"
	ModelFlashLite = "gemini-2.5-flash-lite"
	ModelPro       = "gemini-2.5-pro"

	// DefaultModel is used when GEMINI_MODEL and the config file are both empty
	DefaultModel = ModelFlash
)

// AllModels returns the well-known model identifiers.
// Any other identifier is passed through to the API unchanged.
func AllModels() []string {
	return []string{ModelFlash, ModelFlashLite, ModelPro}
}

// ModelFromName resolves short aliases to a full model identifier.
// Unknown names are returned trimmed so custom or preview models still work.
func ModelFromName(name string) string {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "":
		return DefaultModel
	case "fast", "flash":
		return ModelFlash
	case "lite", "flash-lite":
		return ModelFlashLite
	case "pro":
		return ModelPro
	default:
		return strings.TrimPrefix(name, "models/")
	}
}

// GenerateEndpoint returns the generateContent URL for a model
func GenerateEndpoint(base, model string) string {
	if base == "" {
		base = EndpointBase
	}
	return strings.TrimRight(base, "/") + "/models/" + model + GenerateMethodPath
}

// DefaultHeaders returns the default headers for generateContent requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "geminichat/0.1",
	}
}
