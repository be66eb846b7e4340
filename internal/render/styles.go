package render

import (
	"strings"

	"github.com/charmbracelet/glamour/styles"
)

// StyleInfo describes a markdown style for display purposes
type StyleInfo struct {
	Name        string
	Description string
}

// styleAliases maps the names accepted in config.json to glamour style names
var styleAliases = map[string]string{
	"tokyonight": styles.TokyoNightStyle,
	"plain":      styles.NoTTYStyle,
}

// ResolveStyle maps a configured style name onto a glamour style.
// It reports false when name is not built in, in which case name is
// treated as a path to a JSON style file.
func ResolveStyle(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return styles.DarkStyle, true
	}
	if alias, ok := styleAliases[key]; ok {
		key = alias
	}
	if _, ok := styles.DefaultStyles[key]; ok {
		return key, true
	}
	return name, false
}

// AvailableStyles lists the built-in markdown styles
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: styles.DarkStyle, Description: "Dark theme (default)"},
		{Name: styles.LightStyle, Description: "Light theme for bright terminals"},
		{Name: styles.TokyoNightStyle, Description: "Tokyo Night color scheme"},
		{Name: styles.DraculaStyle, Description: "Dracula color scheme"},
		{Name: styles.PinkStyle, Description: "Pink accents"},
		{Name: styles.NoTTYStyle, Description: "Plain text (no styling)"},
		{Name: styles.AsciiStyle, Description: "ASCII-only output"},
	}
}

// StyleNames returns just the style names
func StyleNames() []string {
	list := AvailableStyles()
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	return names
}
