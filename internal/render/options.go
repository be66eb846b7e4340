// Package render turns bot replies into styled terminal text.
package render

// Options configures the markdown renderer.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a built-in style name (see AvailableStyles) or a JSON style path
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns Options with the specified width.
// Widths below minWidth are raised to minWidth.
func (o Options) WithWidth(width int) Options {
	if width < minWidth {
		width = minWidth
	}
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// minWidth keeps very narrow terminals from producing one word per line
const minWidth = 20
