// Package config handles configuration for geminichat.
//
// Presentation preferences live in ~/.geminichat/config.json. The API
// credential and model identifier come from the environment (see settings.go).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Generation backends
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// Model is used when GEMINI_MODEL is not set.
	Model string `json:"model,omitempty"`
	// Backend selects the generation client: "rest" or "sdk".
	Backend string `json:"backend"`
	// BaseURL overrides the REST endpoint root (tests, proxies).
	BaseURL string `json:"base_url,omitempty"`
	// Verbose enables debug level in the diagnostic log.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Backend:         BackendREST,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".geminichat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the diagnostic log, which may contain prompts
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the diagnostic log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "geminichat.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the names accepted by SetValue
func Keys() []string {
	return []string{
		"model",
		"backend",
		"base_url",
		"verbose",
		"copy_to_clipboard",
		"tui_theme",
		"markdown.style",
		"markdown.enable_emoji",
		"markdown.preserve_newlines",
		"markdown.table_wrap",
		"markdown.inline_table_links",
	}
}

// SetValue updates one preference by key
func SetValue(cfg *Config, key, value string) error {
	value = strings.TrimSpace(value)

	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		return b, nil
	}

	var err error
	switch key {
	case "model":
		cfg.Model = value
	case "backend":
		if value != BackendREST && value != BackendSDK {
			return fmt.Errorf("unknown backend %q (expected %s or %s)", value, BackendREST, BackendSDK)
		}
		cfg.Backend = value
	case "base_url":
		cfg.BaseURL = value
	case "verbose":
		cfg.Verbose, err = parseBool()
	case "copy_to_clipboard":
		cfg.CopyToClipboard, err = parseBool()
	case "tui_theme":
		cfg.TUITheme = value
	case "markdown.style":
		cfg.Markdown.Style = value
	case "markdown.enable_emoji":
		cfg.Markdown.EnableEmoji, err = parseBool()
	case "markdown.preserve_newlines":
		cfg.Markdown.PreserveNewLines, err = parseBool()
	case "markdown.table_wrap":
		cfg.Markdown.TableWrap, err = parseBool()
	case "markdown.inline_table_links":
		cfg.Markdown.InlineTableLinks, err = parseBool()
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return err
}
