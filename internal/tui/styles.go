// Package tui provides the terminal user interface for geminichat.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/render"
)

// styles holds every lipgloss style of the chat window, built from a palette
type styles struct {
	header    lipgloss.Style
	title     lipgloss.Style
	subtitle  lipgloss.Style
	hint      lipgloss.Style
	messages  lipgloss.Style
	userLabel lipgloss.Style
	userTurn  lipgloss.Style
	botLabel  lipgloss.Style
	botTurn   lipgloss.Style
	typing    lipgloss.Style
	input     lipgloss.Style
	send      lipgloss.Style
	sendOff   lipgloss.Style
	statusBar lipgloss.Style
	statusKey lipgloss.Style
	statusTxt lipgloss.Style
	notice    lipgloss.Style

	text        lipgloss.Color
	placeholder lipgloss.Color
}

func newStyles(p render.Palette) styles {
	return styles{
		header: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 2),
		title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		subtitle: lipgloss.NewStyle().
			Foreground(p.TextDim),
		hint: lipgloss.NewStyle().
			Foreground(p.TextDim).
			Italic(true),
		messages: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		userLabel: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		userTurn: lipgloss.NewStyle().
			Background(p.UserBubble).
			Foreground(p.Text).
			Padding(0, 1),
		botLabel: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		botTurn: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Background(p.BotBubble).
			Foreground(p.Text),
		typing: lipgloss.NewStyle().
			Foreground(p.Accent).
			Italic(true),
		input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		send: lipgloss.NewStyle().
			Background(p.Primary).
			Foreground(p.Background).
			Bold(true).
			Padding(0, 1),
		sendOff: lipgloss.NewStyle().
			Background(p.Surface).
			Foreground(p.TextDim).
			Padding(0, 1),
		statusBar: lipgloss.NewStyle().
			Foreground(p.TextDim),
		statusKey: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		statusTxt: lipgloss.NewStyle().
			Foreground(p.TextDim),
		notice: lipgloss.NewStyle().
			Foreground(p.Warning),

		text:        p.Text,
		placeholder: p.TextDim,
	}
}

// FormatError returns a styled error message for failures that happen
// before a chat starts (missing credential, bad configuration).
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	p := render.PaletteOrDefault(render.DefaultPalette)
	errStyle := lipgloss.NewStyle().Foreground(p.Error)
	dimStyle := lipgloss.NewStyle().Foreground(p.TextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.Is(err, apierrors.ErrNoAPIKey):
		sb.WriteString(dimStyle.Render("\n  Hint: export GEMINI_API_KEY=<your key>"))
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check that GEMINI_API_KEY is valid"))
	case apierrors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: quota exhausted, try again later or use another model"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check your internet connection"))
	}

	return sb.String()
}
