package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the color scheme of the chat window
type Palette struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color

	// Bubble backgrounds; user turns sit on the right, bot turns on the left
	UserBubble lipgloss.Color
	BotBubble  lipgloss.Color
}

// DefaultPalette is used when the configured tui_theme is unknown
const DefaultPalette = "tokyonight"

var palettes = []Palette{
	{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Background:  "#1a1b26",
		Surface:     "#24283b",
		Border:      "#414868",
		Primary:     "#7aa2f7",
		Accent:      "#bb9af7",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
		UserBubble:  "#3d59a1",
		BotBubble:   "#24283b",
	},
	{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - warm pastels",
		Background:  "#1e1e2e",
		Surface:     "#313244",
		Border:      "#45475a",
		Primary:     "#89b4fa",
		Accent:      "#cba6f7",
		Warning:     "#f9e2af",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		TextDim:     "#6c7086",
		UserBubble:  "#45475a",
		BotBubble:   "#313244",
	},
	{
		Name:        "nord",
		Description: "Nord - arctic cool tones",
		Background:  "#2e3440",
		Surface:     "#3b4252",
		Border:      "#4c566a",
		Primary:     "#88c0d0",
		Accent:      "#b48ead",
		Warning:     "#ebcb8b",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
		UserBubble:  "#5e81ac",
		BotBubble:   "#3b4252",
	},
	{
		Name:        "dracula",
		Description: "Dracula - vibrant dark",
		Background:  "#282a36",
		Surface:     "#44475a",
		Border:      "#6272a4",
		Primary:     "#8be9fd",
		Accent:      "#ff79c6",
		Warning:     "#f1fa8c",
		Error:       "#ff5555",
		Text:        "#f8f8f2",
		TextDim:     "#6272a4",
		UserBubble:  "#6272a4",
		BotBubble:   "#44475a",
	},
}

// PaletteByName looks up a palette, case-insensitively
func PaletteByName(name string) (Palette, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range palettes {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// PaletteOrDefault returns the named palette, or the default one
func PaletteOrDefault(name string) Palette {
	if p, ok := PaletteByName(name); ok {
		return p
	}
	p, _ := PaletteByName(DefaultPalette)
	return p
}

// PaletteNames lists the available palettes
func PaletteNames() []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.Name
	}
	return names
}
